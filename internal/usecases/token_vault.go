package usecases

import (
	"fmt"

	"github.com/volatiletech/null/v8"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
)

// TokenCipher encrypts OAuth tokens at rest
type TokenCipher interface {
	Encrypt(plaintext null.String) (null.String, error)
	Decrypt(ciphertext null.String) (null.String, error)
}

// TokenVault is the only way merchant tokens are read or written in the clear
type TokenVault struct {
	cipher TokenCipher
}

// NewTokenVault creates a new token vault
func NewTokenVault(cipher TokenCipher) *TokenVault {
	return &TokenVault{cipher: cipher}
}

// AccessToken decrypts the merchant's access token. Absent yields "".
func (v *TokenVault) AccessToken(m *entities.Merchant) (string, error) {
	return v.open(m.EncryptedAccessToken)
}

// RefreshToken decrypts the merchant's refresh token. Absent yields "".
func (v *TokenVault) RefreshToken(m *entities.Merchant) (string, error) {
	return v.open(m.EncryptedRefreshToken)
}

// SetAccessToken encrypts token into the merchant. Empty clears it.
func (v *TokenVault) SetAccessToken(m *entities.Merchant, token string) error {
	sealed, err := v.seal(token)
	if err != nil {
		return err
	}
	m.EncryptedAccessToken = sealed
	return nil
}

// SetRefreshToken encrypts token into the merchant. Empty clears it.
func (v *TokenVault) SetRefreshToken(m *entities.Merchant, token string) error {
	sealed, err := v.seal(token)
	if err != nil {
		return err
	}
	m.EncryptedRefreshToken = sealed
	return nil
}

func (v *TokenVault) seal(token string) (null.String, error) {
	if token == "" {
		return null.String{}, nil
	}
	sealed, err := v.cipher.Encrypt(null.StringFrom(token))
	if err != nil {
		return null.String{}, fmt.Errorf("failed to encrypt token: %w", err)
	}
	return sealed, nil
}

func (v *TokenVault) open(ciphertext null.String) (string, error) {
	plain, err := v.cipher.Decrypt(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrDecryptFailed, err)
	}
	return plain.String, nil
}
