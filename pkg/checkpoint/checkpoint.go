package checkpoint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"tweetids/pkg/candidate"
	"tweetids/pkg/logger"
)

// Manager handles the remaining-candidates checkpoint file
type Manager struct {
	checkpointPath string
	logger         logger.Logger
}

// NewManager creates a checkpoint manager for the file at path
func NewManager(path string, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		checkpointPath: path,
		logger:         log,
	}
}

// Path returns the checkpoint file location
func (m *Manager) Path() string {
	return m.checkpointPath
}

// Load reads the candidates still to be processed
func (m *Manager) Load() ([]candidate.Candidate, error) {
	remaining, err := candidate.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no checkpoint at %s: %w", m.checkpointPath, err)
		}
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint loaded", map[string]interface{}{
		"path":      m.checkpointPath,
		"remaining": len(remaining),
	})

	return remaining, nil
}

// Save replaces the checkpoint with remaining. The write goes through a
// temporary file and a rename so a crash never leaves a truncated list.
func (m *Manager) Save(remaining []candidate.Candidate) error {
	if err := candidate.WriteFile(m.checkpointPath, remaining); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	m.logger.DebugWithFields("Checkpoint saved", map[string]interface{}{
		"path":      m.checkpointPath,
		"remaining": len(remaining),
	})

	return nil
}

// Delete removes the checkpoint file. A missing file is not an error.
func (m *Manager) Delete() (bool, error) {
	if err := os.Remove(m.checkpointPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.InfoWithFields("Checkpoint deleted", map[string]interface{}{
		"path": m.checkpointPath,
	})
	return true, nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// Info summarizes the checkpoint on disk
type Info struct {
	Path      string
	Remaining int
	UpdatedAt time.Time
	Age       time.Duration
}

// GetInfo returns a summary of the checkpoint, or nil when none exists
func (m *Manager) GetInfo() (*Info, error) {
	stat, err := os.Stat(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	remaining, err := candidate.ReadFile(m.checkpointPath)
	if err != nil {
		return nil, err
	}

	return &Info{
		Path:      m.checkpointPath,
		Remaining: len(remaining),
		UpdatedAt: stat.ModTime(),
		Age:       time.Since(stat.ModTime()),
	}, nil
}

// Backup copies the current checkpoint next to itself with a .backup suffix
func (m *Manager) Backup() error {
	if !m.Exists() {
		return nil
	}

	backupPath := m.checkpointPath + ".backup"

	src, err := os.Open(m.checkpointPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint for backup: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	dst, err := os.Create(backupPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy checkpoint to backup: %w", err)
	}

	m.logger.Debug("Checkpoint backed up")
	return nil
}
