// Package seal provides authenticated encryption for values persisted
// to untrusted media, e.g. client-side cookies.
//
// The cipher is selected per hardware: AES-GCM where AES instructions
// are available, ChaCha20-Poly1305 otherwise.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// KeySize is the required key length in bytes.
const KeySize = 32

// ErrDecrypt indicates authentication failure or corrupted data.
var ErrDecrypt = errors.New("seal: decryption failed")

// Cipher provides authenticated encryption.
type Cipher interface {
	// Type returns the cipher type.
	Type() CipherType

	// Encrypt encrypts plaintext bound to additionalData.
	Encrypt(plaintext, additionalData []byte) ([]byte, error)

	// Decrypt decrypts ciphertext bound to additionalData.
	Decrypt(ciphertext, additionalData []byte) ([]byte, error)
}

// NewCipher creates a cipher with the given 32-byte key, selecting the
// optimal algorithm for the hardware.
func NewCipher(key []byte) (Cipher, error) {
	if hasAESAcceleration() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewCipherWithType creates a cipher of the specified type.
func NewCipherWithType(key []byte, cipherType CipherType) (Cipher, error) {
	switch cipherType {
	case CipherAESGCM:
		return NewAESGCM(key)
	case CipherChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("seal: unknown cipher type: " + string(cipherType))
	}
}

// hasAESAcceleration reports whether Go's crypto/aes uses hardware
// acceleration on this architecture.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

type baseCipher struct {
	kind CipherType
	aead cipher.AEAD
}

func (c *baseCipher) Type() CipherType { return c.kind }

func (c *baseCipher) Encrypt(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	// Nonce is prepended to the ciphertext.
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *baseCipher) Decrypt(ciphertext, additionalData []byte) ([]byte, error) {
	if len(ciphertext) < c.aead.NonceSize() {
		return nil, ErrDecrypt
	}
	nonce := ciphertext[:c.aead.NonceSize()]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext[c.aead.NonceSize():], additionalData)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

// NewAESGCM creates an AES-256-GCM cipher.
func NewAESGCM(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, errors.New("seal: key must be 32 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &baseCipher{kind: CipherAESGCM, aead: aead}, nil
}

// NewChaCha20 creates a ChaCha20-Poly1305 cipher.
func NewChaCha20(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, errors.New("seal: key must be 32 bytes")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &baseCipher{kind: CipherChaCha20, aead: aead}, nil
}
