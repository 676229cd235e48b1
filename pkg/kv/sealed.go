package kv

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/NicolasHaas/fitcoach/pkg/crypto"
)

// KeySealSalt holds the base64 Argon2 salt of a Sealed storage.
const KeySealSalt = "sealSalt"

// Sealed wraps a Storage and encrypts the values of selected keys at rest.
// Other keys pass through unchanged.
type Sealed struct {
	Storage
	sealer *crypto.Sealer
	keys   map[string]bool
}

var _ Storage = (*Sealed)(nil)

// NewSealed derives the sealing key from passphrase and the salt kept in
// inner, creating the salt on first use.
func NewSealed(ctx context.Context, inner Storage, passphrase string, keys ...string) (*Sealed, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("kv: sealed: empty passphrase")
	}
	salt, err := loadOrCreateSalt(ctx, inner)
	if err != nil {
		return nil, err
	}
	sealer, err := crypto.NewSealer(crypto.DeriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("kv: sealed: %w", err)
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return &Sealed{Storage: inner, sealer: sealer, keys: set}, nil
}

func loadOrCreateSalt(ctx context.Context, inner Storage) ([]byte, error) {
	encoded, err := inner.Get(ctx, KeySealSalt)
	if err == nil {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("kv: sealed: corrupt salt: %w", err)
		}
		return salt, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("kv: sealed: read salt: %w", err)
	}
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	if err := inner.Set(ctx, KeySealSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("kv: sealed: store salt: %w", err)
	}
	return salt, nil
}

func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Storage.Get(ctx, key)
	if err != nil || !s.keys[key] {
		return v, err
	}
	return s.open(key, v)
}

func (s *Sealed) Set(ctx context.Context, key, value string) error {
	if s.keys[key] {
		sealed, err := s.sealer.Seal([]byte(value), []byte(key))
		if err != nil {
			return fmt.Errorf("kv: seal %q: %w", key, err)
		}
		value = sealed
	}
	return s.Storage.Set(ctx, key, value)
}

func (s *Sealed) MultiGet(ctx context.Context, keys ...string) (map[string]string, error) {
	values, err := s.Storage.MultiGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	for k, v := range values {
		if !s.keys[k] {
			continue
		}
		plain, err := s.open(k, v)
		if err != nil {
			return nil, err
		}
		values[k] = plain
	}
	return values, nil
}

func (s *Sealed) MultiSet(ctx context.Context, pairs map[string]string) error {
	out := make(map[string]string, len(pairs))
	for k, v := range pairs {
		if s.keys[k] {
			sealed, err := s.sealer.Seal([]byte(v), []byte(k))
			if err != nil {
				return fmt.Errorf("kv: seal %q: %w", k, err)
			}
			v = sealed
		}
		out[k] = v
	}
	return s.Storage.MultiSet(ctx, out)
}

func (s *Sealed) open(key, value string) (string, error) {
	plain, err := s.sealer.Open(value, []byte(key))
	if err != nil {
		return "", fmt.Errorf("kv: open %q: %w", key, err)
	}
	return string(plain), nil
}
