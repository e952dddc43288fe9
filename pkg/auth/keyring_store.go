package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "tweetids"
	keyringPrefix  = "twitter_"
	// keyringIndex holds the comma separated account names, since the
	// keychain APIs cannot enumerate entries
	keyringIndex = "accounts"
)

// KeyringStore implements CredentialStore using the system keychain
type KeyringStore struct{}

// NewKeyringStore probes the keychain and returns a store when it works
func NewKeyringStore() (*KeyringStore, error) {
	testKey := "test_availability"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, testKey)

	return &KeyringStore{}, nil
}

// Store saves credentials to the system keychain
func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	if err := keyring.Set(keyringService, keyringPrefix+account.Name, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	names := k.names()
	for _, n := range names {
		if n == account.Name {
			return nil
		}
	}
	return k.setNames(append(names, account.Name))
}

// Retrieve gets credentials from the system keychain
func (k *KeyringStore) Retrieve(name string) (*Account, error) {
	if name == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(keyringService, keyringPrefix+name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

// List returns the accounts recorded in the keychain index
func (k *KeyringStore) List() ([]*Account, error) {
	var accounts []*Account
	for _, name := range k.names() {
		account, err := k.Retrieve(name)
		if err != nil {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Delete removes credentials from the system keychain
func (k *KeyringStore) Delete(name string) error {
	if name == "" {
		return ErrInvalidCredentials
	}

	if err := keyring.Delete(keyringService, keyringPrefix+name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	var kept []string
	for _, n := range k.names() {
		if n != name {
			kept = append(kept, n)
		}
	}
	return k.setNames(kept)
}

// Exists checks if credentials exist in the keychain
func (k *KeyringStore) Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := keyring.Get(keyringService, keyringPrefix+name)
	return err == nil
}

func (k *KeyringStore) names() []string {
	data, err := keyring.Get(keyringService, keyringIndex)
	if err != nil || data == "" {
		return nil
	}
	return strings.Split(data, ",")
}

func (k *KeyringStore) setNames(names []string) error {
	if len(names) == 0 {
		err := keyring.Delete(keyringService, keyringIndex)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to update keyring index: %w", err)
		}
		return nil
	}
	if err := keyring.Set(keyringService, keyringIndex, strings.Join(names, ",")); err != nil {
		return fmt.Errorf("failed to update keyring index: %w", err)
	}
	return nil
}
