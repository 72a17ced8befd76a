package auth

import "os"

// EnvironmentStore implements TokenStore using environment variables.
// Read-only; primarily for compatibility with the TWITTER_API_KEY setup.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(token string) error {
	return ErrStoreUnavailable
}

// Retrieve gets the bearer token from environment variables
func (e *EnvironmentStore) Retrieve() (string, error) {
	if token := os.Getenv("TWEETFETCH_BEARER_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("TWITTER_API_KEY"); token != "" {
		return token, nil
	}
	return "", ErrTokenNotFound
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreUnavailable
}

// Exists checks if an environment token is set
func (e *EnvironmentStore) Exists() bool {
	token, err := e.Retrieve()
	return err == nil && token != ""
}
