// Package secrets encrypts provider secrets at rest with key rotation support.
//
// A Keyring is built from a KeySet: a map of trusted 32-byte keys indexed by
// key id plus the id of the key used for new encryptions. Every raw key is
// expanded with HKDF-SHA-256 (info "oauthgate/secrets/<keyId>") and used with
// AES-256 in GCM mode.
//
// # Wire format
//
// Encrypt returns a single string:
//
//	<keyId>:<nonceBase64>:<tagBase64>:<ciphertextBase64>
//
// The key id travels with the ciphertext, so values written under a retired
// key stay readable for as long as that key remains in the KeySet.
//
// # Usage
//
//	import "github.com/dmitrymomot/oauthgate/pkg/secrets"
//
//	keyring, err := secrets.NewKeyring(secrets.KeySet{
//	    Current: "k2",
//	    Keys:    map[string]string{"k1": oldKey, "k2": newKey},
//	})
//	if err != nil {
//	    // misconfiguration, stop the process
//	}
//
//	wire, err := keyring.Encrypt(refreshToken)
//	plain, err := keyring.Decrypt(wire)
//
// # Error Handling
//
// Decrypt fails with ErrInvalidCiphertext for malformed input, ErrUnknownKey
// when the key id is not trusted and ErrAuthenticationFailed when the tag does
// not verify. Use errors.Is to match against these sentinels.
package secrets
