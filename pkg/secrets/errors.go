package secrets

import "errors"

var (
	// Keyring configuration errors
	ErrNoCurrentKey  = errors.New("secrets: no current key configured")
	ErrInvalidKey    = errors.New("secrets: invalid key: must be 32 bytes of base64")
	ErrInvalidKeyID  = errors.New("secrets: invalid key id")
	ErrInvalidKeySet = errors.New("secrets: invalid key set")

	// Encryption/decryption errors
	ErrEncryptionFailed     = errors.New("secrets: encryption failed")
	ErrInvalidCiphertext    = errors.New("secrets: invalid ciphertext format")
	ErrUnknownKey           = errors.New("secrets: unknown encryption key")
	ErrAuthenticationFailed = errors.New("secrets: ciphertext authentication failed")

	// Key derivation errors
	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")
)
