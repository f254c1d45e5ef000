package security

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var ErrInvalidSealedToken = errors.New("invalid sealed token")

// TokenBox seals OAuth tokens before they are written to the database or
// the session store.
type TokenBox struct {
	key [32]byte
}

// NewTokenBox builds a box from a 64 character hex key.
func NewTokenBox(hexKey string) (*TokenBox, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("token key must be hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("token key must be 32 bytes, got %d", len(raw))
	}
	b := &TokenBox{}
	copy(b.key[:], raw)
	return b, nil
}

// NewEphemeralTokenBox uses a random key; sealed values do not survive a restart.
func NewEphemeralTokenBox() (*TokenBox, error) {
	b := &TokenBox{}
	if _, err := io.ReadFull(rand.Reader, b.key[:]); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *TokenBox) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (b *TokenBox) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrInvalidSealedToken
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrInvalidSealedToken
	}
	return string(plain), nil
}
