package seal

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinMasterKeyLength is the minimum master key length in bytes.
const MinMasterKeyLength = 16

// ErrKeyTooShort indicates the master key is too short.
var ErrKeyTooShort = errors.New("seal: master key too short (minimum 16 bytes)")

// Sealer seals and opens string values for storage on an untrusted
// medium. Sealed values are base64url-encoded AEAD ciphertexts bound to
// a caller-supplied label (e.g. the cookie name), so a value copied
// under a different name fails to open.
type Sealer struct {
	cipher Cipher
}

// NewSealer derives a 32-byte cipher key from master via HKDF-SHA256
// and returns a sealer over it. The algorithm is chosen per hardware;
// use NewSealerWithType to pin one.
func NewSealer(master []byte) (*Sealer, error) {
	key, err := deriveKey(master)
	if err != nil {
		return nil, err
	}
	c, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{cipher: c}, nil
}

// NewSealerWithType is NewSealer with an explicit cipher type.
func NewSealerWithType(master []byte, cipherType CipherType) (*Sealer, error) {
	key, err := deriveKey(master)
	if err != nil {
		return nil, err
	}
	c, err := NewCipherWithType(key, cipherType)
	if err != nil {
		return nil, err
	}
	return &Sealer{cipher: c}, nil
}

// Seal encrypts value bound to label.
func (s *Sealer) Seal(label, value string) (string, error) {
	sealed, err := s.cipher.Encrypt([]byte(value), []byte(label))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed value bound to label. Returns ErrDecrypt on
// tampered, truncated or relabeled input.
func (s *Sealer) Open(label, sealed string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrDecrypt
	}
	plain, err := s.cipher.Decrypt(data, []byte(label))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func deriveKey(master []byte) ([]byte, error) {
	if len(master) < MinMasterKeyLength {
		return nil, ErrKeyTooShort
	}
	key := make([]byte, KeySize)
	kdf := hkdf.New(sha256.New, master, nil, []byte("statebag-cookie-seal"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return key, nil
}
