// Package keystore holds the HMAC keys used to sign audit entries.
package keystore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"strings"
)

var (
	ErrKeyNotFound      = errors.New("signing key not found")
	ErrNoDefaultKey     = errors.New("default signing key not configured")
	ErrMalformedKeyList = errors.New("invalid AUDIT_SIGNING_KEYS format")
)

// StaticKeyStore is a simple in-memory keystore.
type StaticKeyStore struct {
	keys         map[string][]byte
	defaultKeyID string
}

// NewFromEnv builds a keystore from environment variables.
// AUDIT_SIGNING_KEYS format: "keyId:hex,keyId2:hex".
// AUDIT_DEFAULT_KEY_ID sets the default key id.
// With neither set, an ephemeral random key is generated so a dev instance
// still signs its trail; the key is lost on restart.
func NewFromEnv() (*StaticKeyStore, error) {
	keys := make(map[string][]byte)
	raw := os.Getenv("AUDIT_SIGNING_KEYS")
	if raw != "" {
		for _, pair := range strings.Split(raw, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				return nil, ErrMalformedKeyList
			}
			key, err := hex.DecodeString(parts[1])
			if err != nil {
				return nil, err
			}
			keys[parts[0]] = key
		}
	}

	defaultKeyID := os.Getenv("AUDIT_DEFAULT_KEY_ID")
	if len(keys) == 0 {
		ephemeral := make([]byte, 32)
		if _, err := rand.Read(ephemeral); err != nil {
			return nil, err
		}
		keys["ephemeral"] = ephemeral
		defaultKeyID = "ephemeral"
	}
	if defaultKeyID == "" && len(keys) == 1 {
		for keyID := range keys {
			defaultKeyID = keyID
		}
	}

	return &StaticKeyStore{keys: keys, defaultKeyID: defaultKeyID}, nil
}

// NewStatic builds a keystore around fixed keys, mainly for tests.
func NewStatic(keys map[string][]byte, defaultKeyID string) *StaticKeyStore {
	cp := make(map[string][]byte, len(keys))
	for keyID, key := range keys {
		cp[keyID] = append([]byte(nil), key...)
	}
	return &StaticKeyStore{keys: cp, defaultKeyID: defaultKeyID}
}

func (s *StaticKeyStore) GetKey(ctx context.Context, keyID string) ([]byte, error) {
	_ = ctx
	key, ok := s.keys[keyID]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key, nil
}

// ActiveKey returns the default signing key and its id.
func (s *StaticKeyStore) ActiveKey(ctx context.Context) (string, []byte, error) {
	if s.defaultKeyID == "" {
		return "", nil, ErrNoDefaultKey
	}
	key, err := s.GetKey(ctx, s.defaultKeyID)
	return s.defaultKeyID, key, err
}
