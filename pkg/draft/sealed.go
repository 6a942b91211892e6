package draft

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 1
	sealKeyLen   = 32
	sealSaltLen  = 16
	sealNonceLen = 12
)

// SealedStore encrypts payloads with AES-256-GCM before handing them to the
// wrapped store. Drafts of insurance applications carry personal data, so
// the CLI seals them when a passphrase is configured.
//
// Layout on disk: salt || nonce || ciphertext+tag. A fresh salt and nonce are
// drawn on every write.
type SealedStore struct {
	inner      Store
	passphrase []byte
}

// NewSealedStore wraps inner. The passphrase must be non-empty.
func NewSealedStore(inner Store, passphrase string) (*SealedStore, error) {
	if inner == nil {
		return nil, errors.New("draft: sealed store needs an inner store")
	}
	if passphrase == "" {
		return nil, errors.New("draft: sealed store needs a passphrase")
	}
	return &SealedStore{inner: inner, passphrase: []byte(passphrase)}, nil
}

var _ Store = (*SealedStore)(nil)

func (s *SealedStore) Read(ctx context.Context) ([]byte, error) {
	data, err := s.inner.Read(ctx)
	if err != nil {
		return nil, err
	}
	plain, err := s.open(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return plain, nil
}

func (s *SealedStore) Write(ctx context.Context, payload []byte) error {
	sealed, err := s.seal(payload)
	if err != nil {
		return err
	}
	return s.inner.Write(ctx, sealed)
}

func (s *SealedStore) Clear(ctx context.Context) error {
	return s.inner.Clear(ctx)
}

func (s *SealedStore) deriveKey(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, sealKeyLen)
}

func (s *SealedStore) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, sealSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("draft: generating salt: %w", err)
	}
	aead, err := newGCM(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, sealNonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("draft: generating nonce: %w", err)
	}

	out := make([]byte, 0, sealSaltLen+sealNonceLen+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

func (s *SealedStore) open(data []byte) ([]byte, error) {
	if len(data) < sealSaltLen+sealNonceLen+1 {
		return nil, errors.New("ciphertext too short")
	}
	salt := data[:sealSaltLen]
	nonce := data[sealSaltLen : sealSaltLen+sealNonceLen]
	aead, err := newGCM(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, data[sealSaltLen+sealNonceLen:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("draft: creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("draft: creating GCM: %w", err)
	}
	return aead, nil
}
