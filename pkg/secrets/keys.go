package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size of every key in a KeySet.
	KeySize = 32 // 256 bits for AES-256

	// saltInfo is used for HKDF key derivation to provide domain separation
	saltInfo = "oauthgate/secrets/"
)

// KeySet describes the trusted keys and which one encrypts new secrets.
// Keys are base64 (standard encoding) 32-byte values indexed by key id.
//
// It decodes from JSON, so it can be read from a single env variable:
//
//	ENCRYPTION_KEYS={"current":"2024-10","keys":{"2024-10":"...","2024-01":"..."}}
type KeySet struct {
	Current string            `json:"current"`
	Keys    map[string]string `json:"keys"`
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *KeySet) UnmarshalText(text []byte) error {
	var raw KeySet
	if err := json.Unmarshal(text, &raw); err != nil {
		return errors.Join(ErrInvalidKeySet, err)
	}
	*s = raw
	return nil
}

// Validate checks the shape of the key set without deriving any keys.
func (s KeySet) Validate() error {
	if s.Current == "" {
		return ErrNoCurrentKey
	}
	if _, ok := s.Keys[s.Current]; !ok {
		return errors.Join(ErrUnknownKey, errors.New("current key "+s.Current+" is not in the key set"))
	}
	for id, encoded := range s.Keys {
		if id == "" || strings.Contains(id, ":") {
			return errors.Join(ErrInvalidKeyID, errors.New("key id must be non-empty and must not contain ':'"))
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return errors.Join(ErrInvalidKey, err)
		}
		valid := len(key) == KeySize
		clearBytes(key)
		if !valid {
			return ErrInvalidKey
		}
	}
	return nil
}

// deriveKey expands a raw key into the AES key used for keyID.
// The caller is responsible for clearing the returned key with clearBytes.
func deriveKey(raw []byte, keyID string) ([]byte, error) {
	hkdfReader := hkdf.New(sha256.New, raw, nil, []byte(saltInfo+keyID))

	derivedKey := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derivedKey, nil
}

// clearBytes zeros out a byte slice holding key material.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random 32-byte key, base64 encoded for use in a KeySet.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	defer clearBytes(key)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
