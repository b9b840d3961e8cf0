package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"merchant-connect.backend/pkg/crypto"
)

const secretBytes = 32

var randRead = rand.Read

// keygen prints a TOKEN_ENCRYPTION_KEYS value. With -existing the new key is
// prepended so it encrypts while older keys keep decrypting.
func main() {
	kid := flag.String("kid", "", "key id for the new key (required, no dots)")
	existing := flag.String("existing", "", "current TOKEN_ENCRYPTION_KEYS value to rotate")
	flag.Parse()

	value, err := buildKeyRing(*kid, *existing)
	if err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	fmt.Printf("TOKEN_ENCRYPTION_KEYS=%s\n", value)
}

func validateKID(kid string) error {
	if kid == "" {
		return errors.New("kid is required")
	}
	if strings.ContainsAny(kid, ".,:") {
		return fmt.Errorf("invalid kid %q", kid)
	}
	return nil
}

func generateSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := randRead(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func buildKeyRing(kid, existing string) (string, error) {
	if err := validateKID(kid); err != nil {
		return "", err
	}
	secret, err := generateSecret()
	if err != nil {
		return "", err
	}

	value := kid + ":" + secret
	if existing = strings.TrimSpace(existing); existing != "" {
		value += "," + existing
	}

	// Reject anything the server would refuse at startup
	if _, err := crypto.ParseKeyRing(value); err != nil {
		return "", err
	}
	return value, nil
}
