// internal/secrets/secrets.go
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/nacl/secretbox"
)

const keySize = 32
const nonceSize = 24

// Keeper seals and opens secret values with a machine-local key.
// The key lives in a 0600 file next to the database and is generated on
// first use.
type Keeper struct {
	key [keySize]byte
}

// Load reads the key from keyPath, creating a fresh random key if the file
// does not exist yet.
func Load(keyPath string) (*Keeper, error) {
	data, err := os.ReadFile(keyPath)
	if os.IsNotExist(err) {
		data = make([]byte, keySize)
		if _, err := io.ReadFull(rand.Reader, data); err != nil {
			return nil, fmt.Errorf("failed to generate secret key: %w", err)
		}
		if err := os.WriteFile(keyPath, data, 0600); err != nil {
			return nil, fmt.Errorf("failed to write secret key: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read secret key: %w", err)
	}

	if len(data) != keySize {
		return nil, fmt.Errorf("secret key has wrong size: %d", len(data))
	}

	k := &Keeper{}
	copy(k.key[:], data)
	return k, nil
}

// Seal encrypts a plaintext value and returns it base64-encoded.
// Empty input stays empty so optional fields round-trip cleanly.
func (k *Keeper) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &k.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal.
func (k *Keeper) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("malformed sealed value: %w", err)
	}
	if len(data) < nonceSize {
		return "", fmt.Errorf("sealed value too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])

	plaintext, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &k.key)
	if !ok {
		return "", fmt.Errorf("failed to open sealed value")
	}
	return string(plaintext), nil
}
