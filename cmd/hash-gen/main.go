package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"merchant-connect.backend/pkg/crypto"
)

var (
	printfFn       = fmt.Printf
	generateHashFn = generateHash
	fatalfFn       = log.Fatalf
)

var errNoPassword = errors.New("usage: hash-gen <password>")

func resolvePassword(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", errNoPassword
	}
	return args[0], nil
}

func generateHash(password string) (string, error) {
	return crypto.HashPassword(password)
}

// hash-gen prints a bcrypt hash suitable for BASIC_AUTH_PASSWORD
func main() {
	password, err := resolvePassword(os.Args[1:])
	if err != nil {
		fatalfFn("%v", err)
		return
	}

	hash, err := generateHashFn(password)
	if err != nil {
		fatalfFn("Failed to hash password: %v", err)
		return
	}

	printfFn("BASIC_AUTH_PASSWORD=%s\n", hash)
}
