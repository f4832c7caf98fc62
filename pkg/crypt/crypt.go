// Package crypt provides AES-GCM authenticated encryption for values that
// travel through the browser, such as the flash cookie.
//
// All ciphertext is base64url-encoded and includes the random nonce prefix,
// so a single string can be stored in a cookie.
//
// Usage:
//
//	key, err := crypt.DeriveKey(config.AppKey(), "flash")
//	c, err := crypt.New(key)
//	enc, err := c.EncryptJSON([]string{"User created! Please sign in."})
//	var out []string
//	err = c.DecryptJSON(enc, &out)
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// Cipher seals and opens values under one key.
type Cipher struct {
	aead cipher.AEAD
}

// New derives a 32-byte AES-256 key from secret via SHA-256.
func New(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("crypt: APP_KEY not configured")
	}
	k := sha256.Sum256([]byte(secret))

	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Cipher{aead: gcm}, nil
}

// DeriveKey expands secret into an independent hex-encoded 256-bit subkey
// for label. Different labels give unrelated keys.
func DeriveKey(secret, label string) (string, error) {
	if secret == "" {
		return "", errors.New("crypt: APP_KEY not configured")
	}
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("cafehub "+label)), key); err != nil {
		return "", fmt.Errorf("crypt: derive %s key: %w", label, err)
	}
	return hex.EncodeToString(key), nil
}

// Encrypt returns base64url(nonce || ciphertext || tag).
func (c *Cipher) Encrypt(data []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any tampering yields ErrDecrypt.
func (c *Cipher) Decrypt(encoded string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}

	nonceSize := c.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrDecrypt
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

// EncryptJSON marshals v to JSON then encrypts it.
func (c *Cipher) EncryptJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("crypt: marshal: %w", err)
	}
	return c.Encrypt(raw)
}

// DecryptJSON decrypts encoded and unmarshals the result into dest.
func (c *Cipher) DecryptJSON(encoded string, dest interface{}) error {
	raw, err := c.Decrypt(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("crypt: unmarshal: %w", err)
	}
	return nil
}
