package auth

import (
	"sync"
)

// MockStore implements CredentialStore in memory for tests
type MockStore struct {
	accounts map[string]*Account
	mu       sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{
		accounts: make(map[string]*Account),
	}
}

// Store saves a copy of account
func (m *MockStore) Store(account *Account) error {
	if m.StoreError != nil {
		return m.StoreError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}

	accountCopy := *account
	m.accounts[account.Name] = &accountCopy
	return nil
}

// Retrieve returns a copy of the named account
func (m *MockStore) Retrieve(name string) (*Account, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		return nil, ErrInvalidCredentials
	}

	account, exists := m.accounts[name]
	if !exists {
		return nil, ErrCredentialsNotFound
	}

	accountCopy := *account
	return &accountCopy, nil
}

// List returns copies of all accounts
func (m *MockStore) List() ([]*Account, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*Account
	for _, account := range m.accounts {
		accountCopy := *account
		accounts = append(accounts, &accountCopy)
	}
	return accounts, nil
}

// Delete removes the named account
func (m *MockStore) Delete(name string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return ErrInvalidCredentials
	}
	if _, exists := m.accounts[name]; !exists {
		return ErrCredentialsNotFound
	}

	delete(m.accounts, name)
	return nil
}

// Exists checks if the named account is stored
func (m *MockStore) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.accounts[name]
	return exists
}

// Count returns the number of stored accounts
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.accounts)
}

// NewMockManager creates a Manager with a single mock store
func NewMockManager() (*Manager, *MockStore) {
	mockStore := NewMockStore()
	return NewManagerWithStores(mockStore), mockStore
}
