package core

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const redacted = "[REDACTED]"

// Secret holds a plaintext credential in memory. It never renders its value
// through fmt, %#v or JSON; call Reveal at the point of use.
type Secret struct {
	value string
}

func NewSecret(value string) Secret {
	return Secret{value: value}
}

func (s Secret) Reveal() string {
	return s.value
}

func (s Secret) IsEmpty() bool {
	return s.value == ""
}

func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return redacted
}

func (s Secret) GoString() string {
	return s.String()
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

const (
	secretKeySize   = 32
	secretNonceSize = 24
)

// TokenCipher encrypts credentials before they reach the database.
// Ciphertext layout: base64(nonce || secretbox(plaintext)).
type TokenCipher struct {
	key [secretKeySize]byte
}

// NewTokenCipher builds a cipher from a base64 encoded 32-byte key
func NewTokenCipher(encodedKey string) (*TokenCipher, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	if len(raw) != secretKeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", secretKeySize, len(raw))
	}

	c := &TokenCipher{}
	copy(c.key[:], raw)
	return c, nil
}

func (c *TokenCipher) Encrypt(secret Secret) (string, error) {
	if secret.IsEmpty() {
		return "", nil
	}

	var nonce [secretNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(secret.Reveal()), &nonce, &c.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *TokenCipher) Decrypt(ciphertext string) (Secret, error) {
	if ciphertext == "" {
		return Secret{}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return Secret{}, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(raw) < secretNonceSize+secretbox.Overhead {
		return Secret{}, errors.New("ciphertext too short")
	}

	var nonce [secretNonceSize]byte
	copy(nonce[:], raw[:secretNonceSize])

	plain, ok := secretbox.Open(nil, raw[secretNonceSize:], &nonce, &c.key)
	if !ok {
		return Secret{}, errors.New("failed to decrypt ciphertext")
	}

	return NewSecret(string(plain)), nil
}
