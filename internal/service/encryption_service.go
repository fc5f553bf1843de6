package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const appNonceSize = 12

// AESEncryptionService implements ports.EncryptionService using AES-256-GCM
// with the application key. It protects commitment secrets at rest.
type AESEncryptionService struct {
	key []byte // 32-byte key for AES-256
}

// NewAESEncryptionService creates a new AES-256-GCM encryption service.
// hexKey must be a 64-character hex string (32 bytes decoded).
func NewAESEncryptionService(hexKey string) (*AESEncryptionService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding AES key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("AES key must be 32 bytes, got %d", len(key))
	}
	return &AESEncryptionService{key: key}, nil
}

// Encrypt returns hex(nonce(12) ‖ ciphertext ‖ tag).
func (s *AESEncryptionService) Encrypt(plaintext string) (string, error) {
	aead, err := newGCM(s.key, appNonceSize)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, appNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	return hex.EncodeToString(aead.Seal(nonce, nonce, []byte(plaintext), nil)), nil
}

// Decrypt reverses Encrypt.
func (s *AESEncryptionService) Decrypt(ciphertextHex string) (string, error) {
	data, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}
	if len(data) < appNonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	aead, err := newGCM(s.key, appNonceSize)
	if err != nil {
		return "", err
	}

	plaintext, err := aead.Open(nil, data[:appNonceSize], data[appNonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}
	return string(plaintext), nil
}
