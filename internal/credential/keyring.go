package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

// DefaultService is the keyring service name used when none is configured.
const DefaultService = "notebook"

// ErrNotFound is returned when no credential is stored under a key.
var ErrNotFound = errors.New("credential not found")

// Vault reads and writes secrets in a keyring.
type Vault struct {
	ring keyring.Keyring
}

// NewVault wraps an already opened keyring. Tests pass
// keyring.NewArrayKeyring here.
func NewVault(ring keyring.Keyring) *Vault {
	return &Vault{ring: ring}
}

// Open returns a Vault backed by the system keyring for service, falling
// back to an encrypted file under the user config directory.
func Open(service string) (*Vault, error) {
	if service == "" {
		service = DefaultService
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName: service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir(service),
		FilePasswordFunc:         keyring.FixedStringPrompt(service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Vault{ring: ring}, nil
}

func fileDir(service string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("~", ".config", service, "credentials")
	}
	return filepath.Join(dir, service, "credentials")
}

// Get retrieves a credential value by key.
func (v *Vault) Get(key string) ([]byte, error) {
	item, err := v.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, fmt.Errorf("credential %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting credential %q: %w", key, err)
	}

	return item.Data, nil
}

// Set stores a credential value by key.
func (v *Vault) Set(key string, value []byte) error {
	err := v.ring.Set(keyring.Item{
		Key:   key,
		Data:  value,
		Label: "notebook " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key. Deleting a missing key is not an error.
func (v *Vault) Delete(key string) error {
	err := v.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
