package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword hashes a raw password with bcrypt at the given cost.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	if len(password) > MaxPasswordBytes {
		return "", fmt.Errorf("password longer than %d bytes", MaxPasswordBytes)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// bcrypt compares in constant time.
func CheckPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// ----------------- AES-256-GCM field cipher (audit log) -----------------

// keySalt is fixed so the same configured key always derives the same AES key.
var keySalt = []byte("wallet-api/field-cipher")

const keyIterations = 100_000

// FieldCipher encrypts short strings for storage. The AES key is derived once
// from the configured secret with PBKDF2-SHA256.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher returns nil when key is empty; a nil *FieldCipher passes
// values through unchanged.
func NewFieldCipher(key string) (*FieldCipher, error) {
	if key == "" {
		return nil, nil
	}
	derived := pbkdf2.Key([]byte(key), keySalt, keyIterations, 32, sha256.New)

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// Seal returns base64(nonce+ciphertext).
func (f *FieldCipher) Seal(plain string) (string, error) {
	if f == nil || plain == "" {
		return plain, nil
	}
	nonce := make([]byte, f.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := f.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (f *FieldCipher) Open(sealed string) (string, error) {
	if f == nil || sealed == "" {
		return sealed, nil
	}
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	ns := f.aead.NonceSize()
	if len(data) < ns {
		return "", errors.New("cipher too short")
	}
	plain, err := f.aead.Open(nil, data[:ns], data[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plain), nil
}
