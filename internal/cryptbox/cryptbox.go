// Package cryptbox provides a reversible, bypassable authenticated
// encryption stage for the store/get pipeline: AES-256-GCM with a fresh
// random 96-bit nonce per message, prepended to the ciphertext. Only the
// key is fixed per Encryptor instance; reusing a GCM nonce under the same
// key breaks both confidentiality and integrity, so one is never stored in
// configuration.
package cryptbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"chunkvault/internal/vaulterr"
)

// KeySize is the required key length: 256 bits.
const KeySize = 32

// NonceSize is the GCM nonce length: 96 bits.
const NonceSize = 12

// Encryptor encrypts and decrypts byte buffers with AES-256-GCM. When
// disabled, both operations are the identity function.
type Encryptor struct {
	enabled bool
	aead    cipher.AEAD
}

// New creates an Encryptor. When enabled is false, key is ignored and
// Encrypt/Decrypt are no-ops. When enabled is true, key must be exactly
// KeySize bytes.
func New(key []byte, enabled bool) (*Encryptor, error) {
	if !enabled {
		return &Encryptor{enabled: false}, nil
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("cryptbox: key must be %d bytes, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptbox: init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptbox: init gcm: %w", err)
	}
	return &Encryptor{enabled: true, aead: aead}, nil
}

// Enabled reports whether this Encryptor performs real encryption.
func (e *Encryptor) Enabled() bool {
	return e.enabled
}

// Encrypt seals data under a freshly generated random nonce and returns
// nonce||ciphertext. Returns data itself when disabled.
func (e *Encryptor) Encrypt(data []byte) ([]byte, error) {
	if !e.enabled {
		return data, nil
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, vaulterr.Storage("generate nonce", err)
	}

	out := make([]byte, 0, NonceSize+len(data)+e.aead.Overhead())
	out = append(out, nonce...)
	out = e.aead.Seal(out, nonce, data, nil)
	return out, nil
}

// Decrypt splits the nonce from the front of data and opens the remaining
// ciphertext. Returns data itself when disabled.
func (e *Encryptor) Decrypt(data []byte) ([]byte, error) {
	if !e.enabled {
		return data, nil
	}
	if len(data) < NonceSize {
		return nil, vaulterr.Storage("decrypt", fmt.Errorf("ciphertext shorter than nonce"))
	}

	nonce, body := data[:NonceSize], data[NonceSize:]
	out, err := e.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, vaulterr.Storage("decrypt: authentication failed", err)
	}
	return out, nil
}
