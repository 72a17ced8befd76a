package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var (
	// ErrTokenNotFound indicates no bearer token is stored
	ErrTokenNotFound = errors.New("bearer token not found")

	// ErrInvalidToken indicates an empty or malformed token
	ErrInvalidToken = errors.New("invalid bearer token")

	// ErrStoreUnavailable indicates the store does not support the operation
	ErrStoreUnavailable = errors.New("token store unavailable")
)

// TokenStore is the interface for storing and retrieving the bearer token
type TokenStore interface {
	// Store saves the bearer token
	Store(token string) error

	// Retrieve gets the stored bearer token
	Retrieve() (string, error)

	// Delete removes the stored bearer token
	Delete() error

	// Exists checks if a bearer token is stored
	Exists() bool
}

// Manager handles token storage with fallback mechanisms
type Manager struct {
	stores []TokenStore
}

// NewManager creates a token manager with the available storage backends:
// system keyring first, encrypted file as fallback, environment last.
func NewManager() (*Manager, error) {
	var stores []TokenStore

	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "token.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit stores, for testing
func NewManagerWithStores(stores ...TokenStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the token using the first store that accepts it
func (m *Manager) Store(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(token); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("all token stores failed: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets the token from the first store that has one
func (m *Manager) Retrieve() (string, error) {
	for _, store := range m.stores {
		token, err := store.Retrieve()
		if err == nil && token != "" {
			return token, nil
		}
	}
	return "", ErrTokenNotFound
}

// Delete removes the token from every store that holds one
func (m *Manager) Delete() error {
	deleted := false
	for _, store := range m.stores {
		if store.Exists() {
			if err := store.Delete(); err == nil {
				deleted = true
			}
		}
	}

	if !deleted {
		return ErrTokenNotFound
	}
	return nil
}

// Exists checks whether any store holds a token
func (m *Manager) Exists() bool {
	for _, store := range m.stores {
		if store.Exists() {
			return true
		}
	}
	return false
}

// getConfigDir returns the platform config directory for tweetfetch
func getConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	default:
		baseDir = os.Getenv("XDG_CONFIG_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".config")
		}
	}

	configDir := filepath.Join(baseDir, "tweetfetch")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}
