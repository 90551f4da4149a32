package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

const (
	nonceSize = 12
	tagSize   = 16
	separator = ":"
)

// Keyring encrypts with the current key and decrypts with any trusted key.
// It is safe for concurrent use.
type Keyring struct {
	current string
	aeads   map[string]cipher.AEAD
}

// NewKeyring validates the key set and prepares one AEAD per key id.
// Configuration mistakes surface here, at startup, rather than per request.
func NewKeyring(set KeySet) (*Keyring, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	k := &Keyring{
		current: set.Current,
		aeads:   make(map[string]cipher.AEAD, len(set.Keys)),
	}

	for id, encoded := range set.Keys {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Join(ErrInvalidKey, err)
		}

		derived, err := deriveKey(raw, id)
		clearBytes(raw)
		if err != nil {
			return nil, err
		}

		block, err := aes.NewCipher(derived)
		clearBytes(derived)
		if err != nil {
			return nil, errors.Join(ErrInvalidKey, err)
		}

		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, errors.Join(ErrInvalidKey, err)
		}
		k.aeads[id] = aead
	}

	return k, nil
}

// CurrentKeyID returns the id of the key used for new encryptions.
func (k *Keyring) CurrentKeyID() string {
	return k.current
}

// Encrypt seals plaintext under the current key and returns
// "keyId:nonce:tag:ciphertext" with every binary field in standard base64.
func (k *Keyring) Encrypt(plaintext string) (string, error) {
	aead := k.aeads[k.current]

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), []byte(k.current))
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		k.current,
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ciphertext),
	}, separator), nil
}

// Decrypt opens a value produced by Encrypt with whichever trusted key it names.
// No plaintext is returned unless the tag verifies.
func (k *Keyring) Decrypt(wire string) (string, error) {
	parts := strings.Split(wire, separator)
	if len(parts) != 4 {
		return "", ErrInvalidCiphertext
	}

	keyID := parts[0]
	aead, ok := k.aeads[keyID]
	if !ok {
		return "", ErrUnknownKey
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(nonce) != nonceSize {
		return "", ErrInvalidCiphertext
	}
	tag, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(tag) != tagSize {
		return "", ErrInvalidCiphertext
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return "", ErrInvalidCiphertext
	}

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, []byte(keyID))
	if err != nil {
		return "", ErrAuthenticationFailed
	}

	return string(plaintext), nil
}
