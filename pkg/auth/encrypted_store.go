package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

// EnvPassphrase overrides the generated passphrase of the encrypted store
const EnvPassphrase = "TWEETIDS_PASSPHRASE"

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore implements CredentialStore using an AES-GCM encrypted
// JSON file. The key is derived with PBKDF2 from a passphrase kept next to
// the file unless EnvPassphrase is set.
type EncryptedFileStore struct {
	path       string
	passphrase string
	mu         sync.RWMutex
}

// fileEnvelope is the on-disk layout
type fileEnvelope struct {
	Salt      string    `json:"salt"`
	Encrypted string    `json:"encrypted"`
	Version   int       `json:"version"`
	Modified  time.Time `json:"modified"`
}

// NewEncryptedFileStore creates a new encrypted file-based credential store
func NewEncryptedFileStore(path string) (*EncryptedFileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	passphrase, err := loadPassphrase(filepath.Join(dir, ".passphrase"))
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}

	return &EncryptedFileStore{path: path, passphrase: passphrase}, nil
}

// Store saves credentials to the encrypted file
func (e *EncryptedFileStore) Store(account *Account) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if account == nil || account.Name == "" {
		return ErrInvalidCredentials
	}

	accounts, salt, err := e.load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load existing data: %w", err)
	}
	if accounts == nil {
		accounts = make(map[string]Account)
	}

	accounts[account.Name] = *account
	return e.save(accounts, salt)
}

// Retrieve gets credentials from the encrypted file
func (e *EncryptedFileStore) Retrieve(name string) (*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if name == "" {
		return nil, ErrInvalidCredentials
	}

	accounts, _, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	account, exists := accounts[name]
	if !exists {
		return nil, ErrCredentialsNotFound
	}
	return &account, nil
}

// List returns all stored accounts
func (e *EncryptedFileStore) List() ([]*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	accounts, _, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return []*Account{}, nil
		}
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	result := make([]*Account, 0, len(accounts))
	for _, account := range accounts {
		acc := account
		result = append(result, &acc)
	}
	return result, nil
}

// Delete removes credentials from the encrypted file. The file is removed
// with its last account.
func (e *EncryptedFileStore) Delete(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		return ErrInvalidCredentials
	}

	accounts, salt, err := e.load()
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to load data: %w", err)
	}

	if _, exists := accounts[name]; !exists {
		return ErrCredentialsNotFound
	}
	delete(accounts, name)

	if len(accounts) == 0 {
		return os.Remove(e.path)
	}
	return e.save(accounts, salt)
}

// Exists checks if credentials exist
func (e *EncryptedFileStore) Exists(name string) bool {
	account, err := e.Retrieve(name)
	return err == nil && account != nil
}

// load decrypts the file and returns the accounts with the salt in use
func (e *EncryptedFileStore) load() (map[string]Account, []byte, error) {
	content, err := os.ReadFile(e.path)
	if err != nil {
		return nil, nil, err
	}

	var env fileEnvelope
	if err := json.Unmarshal(content, &env); err != nil {
		return nil, nil, fmt.Errorf("failed to parse file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	encrypted, err := base64.StdEncoding.DecodeString(env.Encrypted)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode encrypted data: %w", err)
	}

	decrypted, err := decrypt(encrypted, e.key(salt))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decrypt data: %w", err)
	}

	var accounts map[string]Account
	if err := json.Unmarshal(decrypted, &accounts); err != nil {
		return nil, nil, fmt.Errorf("failed to parse accounts: %w", err)
	}
	return accounts, salt, nil
}

// save encrypts accounts and atomically replaces the file. A nil salt
// generates a fresh one.
func (e *EncryptedFileStore) save(accounts map[string]Account, salt []byte) error {
	if salt == nil {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
	}

	plaintext, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}

	encrypted, err := encrypt(plaintext, e.key(salt))
	if err != nil {
		return fmt.Errorf("failed to encrypt data: %w", err)
	}

	content, err := json.MarshalIndent(fileEnvelope{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		Encrypted: base64.StdEncoding.EncodeToString(encrypted),
		Version:   1,
		Modified:  time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal file data: %w", err)
	}

	tempFile := e.path + ".tmp"
	if err := os.WriteFile(tempFile, content, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return os.Rename(tempFile, e.path)
}

func (e *EncryptedFileStore) key(salt []byte) []byte {
	return pbkdf2.Key([]byte(e.passphrase), salt, iterations, keySize, sha256.New)
}

// loadPassphrase returns EnvPassphrase, else the contents of path, else a
// new random passphrase written to path
func loadPassphrase(path string) (string, error) {
	if pass := os.Getenv(EnvPassphrase); pass != "" {
		return pass, nil
	}

	if content, err := os.ReadFile(path); err == nil && len(content) > 0 {
		return string(content), nil
	}

	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}
	passphrase := base64.URLEncoding.EncodeToString(b)

	if err := os.WriteFile(path, []byte(passphrase), 0600); err != nil {
		return "", fmt.Errorf("failed to save passphrase: %w", err)
	}
	return passphrase, nil
}

// encrypt seals plaintext with AES-GCM, prefixing the nonce
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt opens data produced by encrypt
func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
