package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the wallet key-encryption key.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64MB
	argon2Threads = 4
	argon2KeyLen  = 32
)

// Wallet secret envelope: IV(16) ‖ authTag(16) ‖ ciphertext.
const (
	keyIVSize  = 16
	keyTagSize = 16
)

// keyCipherSalt is the fixed application salt mixed into every derivation.
var keyCipherSalt = []byte("wager-treasury/wallet-vault/v1")

// ErrSecretAuth is returned when a wallet secret fails GCM authentication.
var ErrSecretAuth = errors.New("wallet secret failed authentication")

func deriveKeyEncryptionKey(passphrase string) []byte {
	return argon2.IDKey([]byte(passphrase), keyCipherSalt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

func newGCM(key []byte, nonceSize int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}

// EncryptSecret seals secret under a key derived from passphrase.
func EncryptSecret(secret []byte, passphrase string) ([]byte, error) {
	kek := deriveKeyEncryptionKey(passphrase)
	defer clear(kek)

	aead, err := newGCM(kek, keyIVSize)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, keyIVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generating iv: %w", err)
	}

	// Seal appends ciphertext ‖ tag; the envelope stores the tag first.
	sealed := aead.Seal(nil, iv, secret, nil)
	ct, tag := sealed[:len(sealed)-keyTagSize], sealed[len(sealed)-keyTagSize:]

	out := make([]byte, 0, keyIVSize+keyTagSize+len(ct))
	out = append(out, iv...)
	out = append(out, tag...)
	out = append(out, ct...)
	return out, nil
}

// DecryptSecret opens an envelope produced by EncryptSecret. A wrong
// passphrase or any tampering yields ErrSecretAuth.
func DecryptSecret(envelope []byte, passphrase string) ([]byte, error) {
	if len(envelope) < keyIVSize+keyTagSize {
		return nil, fmt.Errorf("%w: envelope too short", ErrSecretAuth)
	}
	iv := envelope[:keyIVSize]
	tag := envelope[keyIVSize : keyIVSize+keyTagSize]
	ct := envelope[keyIVSize+keyTagSize:]

	kek := deriveKeyEncryptionKey(passphrase)
	defer clear(kek)

	aead, err := newGCM(kek, keyIVSize)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ct)+keyTagSize)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plain, err := aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretAuth, err)
	}
	return plain, nil
}
