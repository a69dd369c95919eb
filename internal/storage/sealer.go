package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var errOpen = errors.New("sealed value could not be opened")

// sealer encrypts values before they reach the database. Tokens are bearer
// credentials and are never written in clear.
type sealer struct {
	key [32]byte
}

func newSealer(secret string) (*sealer, error) {
	if secret == "" {
		return nil, errors.New("storage secret is empty")
	}

	s := &sealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("omninews local storage"))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive storage key: %w", err)
	}
	return s, nil
}

func (s *sealer) seal(plain string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to read nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (s *sealer) open(sealed string) (string, error) {
	box, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errOpen, err)
	}
	if len(box) < nonceSize+secretbox.Overhead {
		return "", errOpen
	}

	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, ok := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", errOpen
	}
	return string(plain), nil
}
