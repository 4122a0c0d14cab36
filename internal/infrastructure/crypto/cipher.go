// Package crypto implements the reversible symmetric encryption applied to
// agreement text before it reaches the database.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/agreementlog/agreement-log-api/internal/core/domain"
)

// AESCipher encrypts with AES-256-GCM. The 32-byte key is derived from the
// configured secret with SHA-256 so operators can supply a passphrase of any
// length. Ciphertext layout: nonce followed by the sealed text.
type AESCipher struct {
	aead cipher.AEAD
}

// NewAESCipher builds an AESCipher from the server-held secret.
func NewAESCipher(secret string) (*AESCipher, error) {
	if secret == "" {
		return nil, errors.New("encryption key must not be empty")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &AESCipher{aead: aead}, nil
}

func (c *AESCipher) Encrypt(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens the sealed text. Any authentication failure (wrong key,
// truncated or tampered ciphertext) surfaces as ErrDecryptionFailed so the
// caller never sees garbage plaintext or key material.
func (c *AESCipher) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return "", domain.ErrDecryptionFailed
	}
	nonce, sealed := ciphertext[:c.aead.NonceSize()], ciphertext[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", domain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
