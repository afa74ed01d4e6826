package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Encryptor provides AES-256-GCM encryption for contact message fields.
// If nil, all operations are no-ops (pass-through).
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor creates an Encryptor from a hex-encoded 32-byte key.
// Returns nil if hexKey is empty (encryption disabled).
// Returns error if hexKey is invalid.
func NewEncryptor(hexKey string) (*Encryptor, error) {
	if hexKey == "" {
		return nil, nil
	}

	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption key: must be 32 bytes (64 hex chars), got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{gcm: gcm}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
// Returns nonce || ciphertext (nonce is 12 bytes prepended).
// If encryptor is nil, returns plaintext unchanged.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	if e == nil {
		return plaintext, nil
	}

	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext+tag to nonce
	return e.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts AES-256-GCM ciphertext (nonce || ciphertext).
// If data is too short or decryption fails, returns raw data as-is.
// If encryptor is nil, returns ciphertext unchanged.
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if e == nil {
		return ciphertext, nil
	}

	nonceSize := e.gcm.NonceSize()
	// Too short to be encrypted: nonce (12) + tag (16) = 28 bytes minimum
	if len(ciphertext) < nonceSize+e.gcm.Overhead() {
		return ciphertext, nil
	}

	nonce, encrypted := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := e.gcm.Open(nil, nonce, encrypted, nil)
	if err != nil {
		// not ours; stored before encryption was enabled
		return ciphertext, nil
	}

	return plaintext, nil
}

// encryptedPrefix marks string values written by EncryptString
const encryptedPrefix = "enc:v1:"

// EncryptString encrypts s into a printable, prefixed form
func (e *Encryptor) EncryptString(s string) (string, error) {
	if e == nil {
		return s, nil
	}
	sealed, err := e.Encrypt([]byte(s))
	if err != nil {
		return "", err
	}
	return encryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString reverses EncryptString. Values without the prefix are
// returned unchanged so plaintext rows stay readable.
func (e *Encryptor) DecryptString(s string) (string, error) {
	if e == nil || !strings.HasPrefix(s, encryptedPrefix) {
		return s, nil
	}
	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, encryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode encrypted value: %w", err)
	}
	nonceSize := e.gcm.NonceSize()
	if len(sealed) < nonceSize+e.gcm.Overhead() {
		return "", fmt.Errorf("encrypted value too short")
	}
	plain, err := e.gcm.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt value: %w", err)
	}
	return string(plain), nil
}
