package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/hkdf"
)

// Envelope layout: v1.<keyID>.<base64url(nonce||ciphertext)>
const (
	envelopeVersion = "v1"
	hkdfInfoPrefix  = "merchant-connect/oauth-token/"
	minSecretLength = 16
)

var (
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	ErrUnknownKey          = errors.New("unknown encryption key id")
	ErrNoLegacyKey         = errors.New("legacy ciphertext without legacy key")

	randReader io.Reader = rand.Reader
)

// KeyRing holds every AEAD that can open stored tokens. The active key seals.
type KeyRing struct {
	activeID string
	keys     map[string]cipher.AEAD
}

// ParseKeyRing parses "kid:base64secret,kid2:base64secret". The first entry is active.
func ParseKeyRing(value string) (*KeyRing, error) {
	ring := &KeyRing{keys: make(map[string]cipher.AEAD)}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kid, encoded, ok := strings.Cut(part, ":")
		if !ok || kid == "" || strings.Contains(kid, ".") {
			return nil, fmt.Errorf("invalid key entry %q", kid)
		}
		secret, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("key %s: invalid base64: %w", kid, err)
		}
		if err := ring.Add(kid, secret); err != nil {
			return nil, err
		}
	}
	if ring.activeID == "" {
		return nil, errors.New("key ring is empty")
	}
	return ring, nil
}

// Add derives an AES-256-GCM key from secret and registers it under kid.
// The first key added becomes the active one.
func (r *KeyRing) Add(kid string, secret []byte) error {
	if len(secret) < minSecretLength {
		return fmt.Errorf("key %s: secret must be at least %d bytes", kid, minSecretLength)
	}
	if _, exists := r.keys[kid]; exists {
		return fmt.Errorf("key %s: duplicate key id", kid)
	}

	derived := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfoPrefix+kid)), derived); err != nil {
		return fmt.Errorf("key %s: derive: %w", kid, err)
	}
	block, err := aes.NewCipher(derived)
	if err != nil {
		return err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	r.keys[kid] = aead
	if r.activeID == "" {
		r.activeID = kid
	}
	return nil
}

// ActiveID returns the id of the key used for new ciphertexts
func (r *KeyRing) ActiveID() string {
	return r.activeID
}

// TokenCipher encrypts OAuth tokens for storage in a text column
type TokenCipher struct {
	ring   *KeyRing
	legacy cipher.Block
}

// NewTokenCipher builds a cipher from a key ring and an optional base64
// AES-256 key for values written by the fixed-key CBC scheme.
func NewTokenCipher(ring *KeyRing, legacyKeyB64 string) (*TokenCipher, error) {
	if ring == nil || ring.activeID == "" {
		return nil, errors.New("token cipher requires a key ring")
	}
	c := &TokenCipher{ring: ring}
	if legacyKeyB64 != "" {
		key, err := base64.StdEncoding.DecodeString(legacyKeyB64)
		if err != nil {
			return nil, fmt.Errorf("legacy key: invalid base64: %w", err)
		}
		if len(key) != 32 {
			return nil, errors.New("legacy key must be 32 bytes")
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		c.legacy = block
	}
	return c, nil
}

// Encrypt seals a token. An absent input yields an absent output.
func (c *TokenCipher) Encrypt(plaintext null.String) (null.String, error) {
	if !plaintext.Valid {
		return null.String{}, nil
	}

	aead := c.ring.keys[c.ring.activeID]
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return null.String{}, fmt.Errorf("generate nonce: %w", err)
	}

	aad := []byte(c.ring.activeID)
	sealed := aead.Seal(nonce, nonce, []byte(plaintext.String), aad)
	envelope := envelopeVersion + "." + c.ring.activeID + "." + base64.RawURLEncoding.EncodeToString(sealed)
	return null.StringFrom(envelope), nil
}

// Decrypt opens a stored token. An absent input yields an absent output.
func (c *TokenCipher) Decrypt(ciphertext null.String) (null.String, error) {
	if !ciphertext.Valid {
		return null.String{}, nil
	}
	if !strings.HasPrefix(ciphertext.String, envelopeVersion+".") {
		return c.decryptLegacy(ciphertext.String)
	}

	parts := strings.SplitN(ciphertext.String, ".", 3)
	if len(parts) != 3 {
		return null.String{}, ErrMalformedCiphertext
	}
	kid, payload := parts[1], parts[2]

	aead, ok := c.ring.keys[kid]
	if !ok {
		return null.String{}, fmt.Errorf("%w: %s", ErrUnknownKey, kid)
	}
	sealed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return null.String{}, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return null.String{}, ErrMalformedCiphertext
	}

	nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, body, []byte(kid))
	if err != nil {
		return null.String{}, fmt.Errorf("open token: %w", err)
	}
	return null.StringFrom(string(plain)), nil
}

// NeedsRotation reports whether a stored value was sealed by anything other than the active key
func (c *TokenCipher) NeedsRotation(ciphertext null.String) bool {
	if !ciphertext.Valid {
		return false
	}
	return !strings.HasPrefix(ciphertext.String, envelopeVersion+"."+c.ring.activeID+".")
}

// decryptLegacy reads AES-256-CBC/PKCS#7 values with an all-zero IV,
// stored as standard base64 that may contain line breaks.
func (c *TokenCipher) decryptLegacy(encoded string) (null.String, error) {
	if c.legacy == nil {
		return null.String{}, ErrNoLegacyKey
	}

	raw, err := base64.StdEncoding.DecodeString(strings.NewReplacer("\n", "", "\r", "").Replace(encoded))
	if err != nil {
		return null.String{}, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return null.String{}, ErrMalformedCiphertext
	}

	iv := make([]byte, aes.BlockSize)
	plain := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.legacy, iv).CryptBlocks(plain, raw)

	unpadded, err := pkcs7Unpad(plain)
	if err != nil {
		return null.String{}, err
	}
	return null.StringFrom(string(unpadded)), nil
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, ErrMalformedCiphertext
	}
	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, ErrMalformedCiphertext
	}
	return b[:len(b)-n], nil
}
