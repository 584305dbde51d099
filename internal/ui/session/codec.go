package session

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

const (
	keySize   = 32
	nonceSize = 24
	hkdfInfo  = "provider-ui session cookie v1"
)

var ErrInvalidCookie = errors.New("cookie value could not be unsealed")

// Codec seals cookie values so they cannot be read or altered by the browser
type Codec struct {
	key [keySize]byte
}

// NewCodec derives the sealing key from secret.
// An empty secret produces a random key, so sessions do not survive a restart (dev only).
func NewCodec(secret string) (*Codec, error) {
	c := &Codec{}

	if secret == "" {
		if _, err := io.ReadFull(rand.Reader, c.key[:]); err != nil {
			return nil, fmt.Errorf("failed to generate cookie key: %w", err)
		}
		return c, nil
	}

	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, c.key[:]); err != nil {
		return nil, fmt.Errorf("failed to derive cookie key: %w", err)
	}
	return c, nil
}

// Seal encrypts and authenticates value, binding it to the cookie name
func (c *Codec) Seal(name string, value []byte) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	plain := append([]byte(name+"|"), value...)
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &c.key)

	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *Codec) Open(name string, encoded string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return nil, ErrInvalidCookie
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &c.key)
	if !ok {
		return nil, ErrInvalidCookie
	}

	prefix := name + "|"
	if len(plain) < len(prefix) || string(plain[:len(prefix)]) != prefix {
		return nil, ErrInvalidCookie
	}

	return plain[len(prefix):], nil
}
