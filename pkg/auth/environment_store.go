package auth

import (
	"os"
	"time"
)

// Environment variables read by EnvironmentStore
const (
	EnvAuthToken = "TWEETIDS_AUTH_TOKEN"
	EnvCT0       = "TWEETIDS_CT0"
	EnvUserAgent = "TWEETIDS_USER_AGENT"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It is read only and always reports a single account.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	authToken := os.Getenv(EnvAuthToken)
	ct0 := os.Getenv(EnvCT0)

	if authToken == "" || ct0 == "" {
		return nil, ErrCredentialsNotFound
	}

	if name == "" {
		name = "env"
	}

	return &Account{
		Name:         name,
		AuthToken:    authToken,
		CT0:          ct0,
		UserAgent:    os.Getenv(EnvUserAgent),
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if environment variables are set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv(EnvAuthToken) != "" && os.Getenv(EnvCT0) != ""
}
