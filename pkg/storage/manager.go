package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tweetids/pkg/logger"
)

// MergeResult reports what a single merge changed
type MergeResult struct {
	Scraped int
	Added   int
	Total   int
}

// Manager owns the JSON array of collected tweet identifiers
type Manager struct {
	outputPath string
	logger     logger.Logger
	mu         sync.Mutex
}

// NewManager creates a storage manager for the output file at path
func NewManager(path string, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		outputPath: path,
		logger:     log,
	}
}

// Path returns the output file location
func (m *Manager) Path() string {
	return m.outputPath
}

// Load reads the stored identifiers. A missing file is an empty set.
func (m *Manager) Load() (IDSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (IDSet, error) {
	data, err := os.ReadFile(m.outputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return NewIDSet(), nil
		}
		return nil, fmt.Errorf("failed to read output file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("malformed output file %s: %w", m.outputPath, err)
	}
	return NewIDSet(ids...), nil
}

// Merge unions ids into the stored set and rewrites the output file
func (m *Manager) Merge(ids []string) (MergeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.load()
	if err != nil {
		return MergeResult{}, err
	}

	added := existing.Add(ids...)
	if err := m.write(existing); err != nil {
		return MergeResult{}, err
	}

	res := MergeResult{Scraped: len(ids), Added: added, Total: existing.Len()}
	m.logger.DebugWithFields("Identifiers merged", map[string]interface{}{
		"path":    m.outputPath,
		"scraped": res.Scraped,
		"added":   res.Added,
		"total":   res.Total,
	})
	return res, nil
}

// write atomically replaces the output with the sorted set
func (m *Manager) write(set IDSet) error {
	if err := os.MkdirAll(filepath.Dir(m.outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.Marshal(set.Sorted())
	if err != nil {
		return fmt.Errorf("failed to encode identifiers: %w", err)
	}

	tempFile := m.outputPath + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = out.Write(data)
	if err == nil {
		err = out.Sync()
	}
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write identifiers: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, m.outputPath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

// Delete removes the output file. A missing file is not an error.
func (m *Manager) Delete() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.Remove(m.outputPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete output file: %w", err)
	}
	return true, nil
}
