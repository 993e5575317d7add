package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// sealedPrefix marks values produced by Seal so plaintext written before a
// key was configured can still be read.
const sealedPrefix = "enc:v1:"

var ErrCiphertext = errors.New("malformed ciphertext")

// SecretBox seals secrets such as bot tokens before they reach the settings
// store. AES-GCM with a random nonce per value.
type SecretBox struct {
	gcm cipher.AEAD
}

// NewSecretBox expects a 16, 24 or 32 byte key.
func NewSecretBox(key string) (*SecretBox, error) {
	k := []byte(key)
	if n := len(k); n != 16 && n != 24 && n != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes; got %d", n)
	}
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return &SecretBox{gcm: gcm}, nil
}

// Seal returns enc:v1:base64(nonce || ciphertext). Empty input stays empty.
func (b *SecretBox) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, b.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}
	ct := b.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(ct), nil
}

// Open reverses Seal. Values without the sealed prefix are returned as is.
func (b *SecretBox) Open(value string) (string, error) {
	if !IsSealed(value) {
		return value, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("base64 decode: %v: %w", err, ErrCiphertext)
	}
	ns := b.gcm.NonceSize()
	if len(data) < ns {
		return "", ErrCiphertext
	}
	pt, err := b.gcm.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("gcm open: %v: %w", err, ErrCiphertext)
	}
	return string(pt), nil
}

func IsSealed(value string) bool { return strings.HasPrefix(value, sealedPrefix) }
