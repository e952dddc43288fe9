package auth

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	account := &Account{
		Name:      "research",
		AuthToken: "0123456789abcdef0123456789abcdef01234567",
		CT0:       "fedcba9876543210fedcba9876543210",
		UserAgent: "TestAgent/1.0",
	}

	if err := manager.Store(account); err != nil {
		t.Fatalf("Failed to store account: %v", err)
	}
	if account.LastModified.IsZero() {
		t.Error("Expected LastModified to be set on store")
	}

	retrieved, err := manager.Retrieve("research")
	if err != nil {
		t.Fatalf("Failed to retrieve account: %v", err)
	}
	if retrieved.AuthToken != account.AuthToken {
		t.Errorf("AuthToken mismatch: got %s, want %s", retrieved.AuthToken, account.AuthToken)
	}
	if retrieved.CT0 != account.CT0 {
		t.Errorf("CT0 mismatch: got %s, want %s", retrieved.CT0, account.CT0)
	}

	resolved, err := manager.Resolve("")
	if err != nil || resolved.Name != "research" {
		t.Errorf("Expected default account research, got %v (%v)", resolved, err)
	}

	sanitized := SanitizeAccount(account)
	if sanitized.AuthToken == account.AuthToken || sanitized.CT0 == account.CT0 {
		t.Error("Cookies should be masked")
	}
	if sanitized.AuthToken != "0123...4567" {
		t.Errorf("Unexpected mask: %s", sanitized.AuthToken)
	}
	if sanitized.Name != account.Name {
		t.Error("Name should not be masked")
	}

	if err := manager.Delete("research"); err != nil {
		t.Fatalf("Failed to delete account: %v", err)
	}
	if _, err := manager.Retrieve("research"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 accounts after deletion, got %d", mockStore.Count())
	}
	if err := manager.Delete("research"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound deleting twice, got %v", err)
	}
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	tests := []struct {
		name    string
		account Account
	}{
		{"missing name", Account{AuthToken: "a", CT0: "b"}},
		{"missing auth_token", Account{Name: "n", CT0: "b"}},
		{"missing ct0", Account{Name: "n", AuthToken: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := tt.account
			if err := manager.Store(&account); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	failing := NewMockStore()
	failing.StoreError = errors.New("keychain locked")
	backup := NewMockStore()
	manager := NewManagerWithStores(failing, backup)

	if err := manager.Store(&Account{Name: "a", AuthToken: "t", CT0: "c"}); err != nil {
		t.Fatalf("Expected fallback store to accept account: %v", err)
	}
	if !backup.Exists("a") {
		t.Error("Expected account in fallback store")
	}
}

func TestManagerListNewestFirst(t *testing.T) {
	store := NewMockStore()
	now := time.Now()
	_ = store.Store(&Account{Name: "old", LastModified: now.Add(-time.Hour)})
	_ = store.Store(&Account{Name: "new", LastModified: now})

	accounts, err := NewManagerWithStores(store).List()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 || accounts[0].Name != "new" {
		t.Errorf("Expected newest account first, got %+v", accounts)
	}
}

func TestAccountCookies(t *testing.T) {
	account := &Account{Name: "a", AuthToken: "token", CT0: "csrf"}

	cookies := account.Cookies()
	if len(cookies) != 2 {
		t.Fatalf("Expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.Domain != CookieDomain || c.Path != "/" || !c.Secure {
			t.Errorf("Unexpected cookie scope: %+v", c)
		}
	}
	if cookies[0].Name != "auth_token" || cookies[0].Value != "token" || !cookies[0].HTTPOnly {
		t.Errorf("Unexpected auth_token cookie: %+v", cookies[0])
	}
	if cookies[1].Name != "ct0" || cookies[1].Value != "csrf" {
		t.Errorf("Unexpected ct0 cookie: %+v", cookies[1])
	}
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds", "credentials.enc")
	t.Setenv(EnvPassphrase, "test_passphrase_123")

	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	account := &Account{
		Name:      "encrypted_user",
		AuthToken: "encrypted_auth_token",
		CT0:       "encrypted_ct0",
	}
	if err := store.Store(account); err != nil {
		t.Fatalf("Failed to store in encrypted file: %v", err)
	}
	if err := store.Store(&Account{Name: "second", AuthToken: "x", CT0: "y"}); err != nil {
		t.Fatalf("Failed to store second account: %v", err)
	}

	retrieved, err := store.Retrieve("encrypted_user")
	if err != nil {
		t.Fatalf("Failed to retrieve from encrypted file: %v", err)
	}
	if retrieved.AuthToken != account.AuthToken {
		t.Errorf("AuthToken mismatch after encryption/decryption")
	}

	fileContent, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(fileContent, []byte("encrypted_auth_token")) {
		t.Error("File contains plaintext auth_token")
	}
	if bytes.Contains(fileContent, []byte("encrypted_ct0")) {
		t.Error("File contains plaintext ct0")
	}

	accounts, err := store.List()
	if err != nil || len(accounts) != 2 {
		t.Errorf("Expected 2 accounts, got %d (%v)", len(accounts), err)
	}

	if err := store.Delete("encrypted_user"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}
	if store.Exists("encrypted_user") {
		t.Error("Deleted account should not exist")
	}
	if err := store.Delete("second"); err != nil {
		t.Fatalf("Failed to delete last account: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file removed with its last account")
	}
}

func TestEncryptedFileStoreWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	t.Setenv(EnvPassphrase, "first")
	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Store(&Account{Name: "a", AuthToken: "t", CT0: "c"}); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvPassphrase, "second")
	other, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Retrieve("a"); err == nil || !strings.Contains(err.Error(), "decrypt") {
		t.Errorf("Expected decrypt error, got %v", err)
	}
}

func TestEncryptedFileStoreGeneratesPassphrase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPassphrase, "")

	store, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Store(&Account{Name: "a", AuthToken: "t", CT0: "c"}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".passphrase")); err != nil {
		t.Fatalf("Expected passphrase file: %v", err)
	}

	reopened, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatal(err)
	}
	if !reopened.Exists("a") {
		t.Error("Expected account readable with the saved passphrase")
	}
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv(EnvAuthToken, "env_token")
	t.Setenv(EnvCT0, "env_ct0")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve from environment: %v", err)
	}
	if account.Name != "env" {
		t.Errorf("Name mismatch: got %s, want env", account.Name)
	}
	if account.AuthToken != "env_token" || account.CT0 != "env_ct0" {
		t.Errorf("Unexpected account: %+v", account)
	}
	if !store.Exists("") {
		t.Error("Expected environment credentials to exist")
	}

	if err := store.Store(&Account{}); err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}

	manager := NewManagerWithStores(NewMockStore(), store)
	def, err := manager.RetrieveDefault()
	if err != nil || def.AuthToken != "env_token" {
		t.Errorf("Expected environment account as default, got %v (%v)", def, err)
	}
}

func TestEnvironmentStoreMissing(t *testing.T) {
	t.Setenv(EnvAuthToken, "")
	t.Setenv(EnvCT0, "")

	store := NewEnvironmentStore()
	if _, err := store.Retrieve(""); err != ErrCredentialsNotFound {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}
	accounts, _ := store.List()
	if len(accounts) != 0 {
		t.Errorf("Expected no accounts, got %d", len(accounts))
	}
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	if err != nil {
		t.Fatalf("Failed to create keyring store: %v", err)
	}

	for _, name := range []string{"one", "two"} {
		if err := store.Store(&Account{Name: name, AuthToken: "t-" + name, CT0: "c"}); err != nil {
			t.Fatalf("Failed to store %s: %v", name, err)
		}
	}
	// storing again must not duplicate the index entry
	if err := store.Store(&Account{Name: "one", AuthToken: "t-one-updated", CT0: "c"}); err != nil {
		t.Fatal(err)
	}

	accounts, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(accounts))
	}

	one, err := store.Retrieve("one")
	if err != nil || one.AuthToken != "t-one-updated" {
		t.Errorf("Expected updated account, got %v (%v)", one, err)
	}

	if err := store.Delete("one"); err != nil {
		t.Fatal(err)
	}
	if store.Exists("one") {
		t.Error("Deleted account should not exist")
	}
	if err := store.Delete("one"); err != ErrCredentialsNotFound {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}

	accounts, _ = store.List()
	if len(accounts) != 1 || accounts[0].Name != "two" {
		t.Errorf("Expected only two to remain, got %+v", accounts)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	accounts, err := store.List()
	if err != nil {
		t.Errorf("Failed to list empty store: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("Expected 0 accounts, got %d", len(accounts))
	}

	if err := store.Store(&Account{Name: "mockuser", AuthToken: "t", CT0: "c"}); err != nil {
		t.Errorf("Failed to store account: %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Expected 1 account, got %d", store.Count())
	}
	if !store.Exists("mockuser") {
		t.Error("Account should exist")
	}

	store.ListError = fmt.Errorf("injected error")
	if _, err := store.List(); err == nil || err.Error() != "injected error" {
		t.Error("Expected injected error")
	}
}

func TestShowCookieExtractionGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowCookieExtractionGuide(&buf)
	out := buf.String()
	for _, want := range []string{"auth_token", "ct0", "twitter.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected guide to mention %s", want)
		}
	}

	buf.Reset()
	ShowQuickExtractGuide(&buf)
	if !strings.Contains(buf.String(), "auth_token and ct0") {
		t.Error("Expected quick guide to name both cookies")
	}
}
