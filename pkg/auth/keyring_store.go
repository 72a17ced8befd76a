package auth

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "tweetfetch"
	keyringKey     = "twitter_bearer_token"
)

// KeyringStore implements TokenStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore creates a new keyring-based token store
func NewKeyringStore() (*KeyringStore, error) {
	// Test if keyring is available
	testKey := "test_availability"
	err := keyring.Set(keyringService, testKey, "test")
	if err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves the bearer token to the system keychain
func (k *KeyringStore) Store(token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	if err := keyring.Set(keyringService, keyringKey, token); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return nil
}

// Retrieve gets the bearer token from the system keychain
func (k *KeyringStore) Retrieve() (string, error) {
	token, err := keyring.Get(keyringService, keyringKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	return token, nil
}

// Delete removes the bearer token from the system keychain
func (k *KeyringStore) Delete() error {
	if err := keyring.Delete(keyringService, keyringKey); err != nil {
		if err == keyring.ErrNotFound {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return nil
}

// Exists checks if a bearer token is stored in the keychain
func (k *KeyringStore) Exists() bool {
	token, err := k.Retrieve()
	return err == nil && token != ""
}
