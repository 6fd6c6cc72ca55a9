package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "todoclient"

// Vault is a small key-value store for credentials. Both the durable
// system keyring and the in-memory session keyring satisfy it.
type Vault interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Delete(key string) error
}

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("credential not found")

// Keyring adapts a keyring.Keyring to the Vault interface.
type Keyring struct {
	ring keyring.Keyring
}

// Open returns the durable vault backed by the system keyring. fileDir is
// used by the encrypted file backend when no OS keychain is available.
func Open(fileDir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("todoclient-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

// Memory returns a vault that lives only as long as the process. It backs
// the session-scoped tier.
func Memory() *Keyring {
	return &Keyring{ring: keyring.NewArrayKeyring(nil)}
}

// Wrap adapts an existing keyring, mainly for tests.
func Wrap(ring keyring.Keyring) *Keyring {
	return &Keyring{ring: ring}
}

// Get retrieves a credential value by key.
func (k *Keyring) Get(key string) (string, error) {
	item, err := k.ring.Get(key)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key.
func (k *Keyring) Set(key string, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key. Deleting a missing key succeeds.
func (k *Keyring) Delete(key string) error {
	err := k.ring.Remove(key)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist)
}
