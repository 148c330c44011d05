package session

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var errSealed = errors.New("sealed record is corrupt or was sealed with another secret")

// Sealer encrypts records at rest.
type Sealer interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// SecretboxSealer seals records with NaCl secretbox under a key derived from
// a configured secret.
type SecretboxSealer struct {
	key [32]byte
}

// NewSealer derives the sealing key from secret.
func NewSealer(secret string) *SecretboxSealer {
	return &SecretboxSealer{key: sha256.Sum256([]byte(secret))}
}

// Seal prefixes the box with a random nonce.
func (s *SecretboxSealer) Seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, err
	}
	return secretbox.Seal(nonce[:], plain, &nonce, &s.key), nil
}

func (s *SecretboxSealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, errSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, errSealed
	}
	return plain, nil
}

type plainSealer struct{}

func (plainSealer) Seal(plain []byte) ([]byte, error)  { return plain, nil }
func (plainSealer) Open(sealed []byte) ([]byte, error) { return sealed, nil }
