package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"tweetids/pkg/browser"
)

// CookieDomain is the domain the session cookies are set on
const CookieDomain = ".twitter.com"

// Account holds the session cookies of a logged in browser profile
type Account struct {
	Name         string    `json:"name"`
	AuthToken    string    `json:"auth_token"`
	CT0          string    `json:"ct0"`
	UserAgent    string    `json:"user_agent,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Cookies returns the browser cookies that restore the account's session
func (a *Account) Cookies() []browser.Cookie {
	return []browser.Cookie{
		{Name: "auth_token", Value: a.AuthToken, Domain: CookieDomain, Path: "/", Secure: true, HTTPOnly: true},
		{Name: "ct0", Value: a.CT0, Domain: CookieDomain, Path: "/", Secure: true},
	}
}

// CredentialStore is the interface for storing and retrieving credentials
type CredentialStore interface {
	// Store saves credentials for a given account
	Store(account *Account) error

	// Retrieve gets credentials for a specific account name
	Retrieve(name string) (*Account, error)

	// List returns all stored accounts
	List() ([]*Account, error)

	// Delete removes credentials for a specific account name
	Delete(name string) error

	// Exists checks if credentials exist for an account name
	Exists(name string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager backed by the system keychain when
// available, then an encrypted file, then the environment
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a Manager that consults stores in order
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first store that accepts them
func (m *Manager) Store(account *Account) error {
	if account.Name == "" {
		return errors.New("account name is required")
	}
	if account.AuthToken == "" {
		return errors.New("auth_token is required")
	}
	if account.CT0 == "" {
		return errors.New("ct0 is required")
	}

	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(account)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(name string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(name); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
}

// RetrieveDefault prefers environment credentials, then the most recently
// modified stored account
func (m *Manager) RetrieveDefault() (*Account, error) {
	for _, store := range m.stores {
		if env, ok := store.(*EnvironmentStore); ok {
			if account, err := env.Retrieve(""); err == nil {
				return account, nil
			}
		}
	}

	accounts, err := m.List()
	if err == nil && len(accounts) > 0 {
		return accounts[0], nil
	}

	return nil, ErrCredentialsNotFound
}

// Resolve returns the named account, or the default one when name is empty
func (m *Manager) Resolve(name string) (*Account, error) {
	if name == "" {
		return m.RetrieveDefault()
	}
	return m.Retrieve(name)
}

// List returns all stored accounts across stores, newest first
func (m *Manager) List() ([]*Account, error) {
	accountMap := make(map[string]*Account)

	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if existing, ok := accountMap[account.Name]; !ok || account.LastModified.After(existing.LastModified) {
				accountMap[account.Name] = account
			}
		}
	}

	result := make([]*Account, 0, len(accountMap))
	for _, account := range accountMap {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].Name < result[j].Name
		}
		return result[i].LastModified.After(result[j].LastModified)
	})

	return result, nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete(name string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(name); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil && !errors.Is(lastErr, ErrCredentialsNotFound) && !errors.Is(lastErr, ErrStoreUnavailable) {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "tweetids")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "tweetids")
	default:
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "tweetids")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "tweetids")
		}
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// SanitizeAccount creates a copy of the account with the cookies masked
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}

	return &Account{
		Name:         account.Name,
		AuthToken:    maskString(account.AuthToken),
		CT0:          maskString(account.CT0),
		UserAgent:    account.UserAgent,
		LastModified: account.LastModified,
	}
}

// maskString masks all but the first 4 and last 4 characters of a string
func maskString(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
