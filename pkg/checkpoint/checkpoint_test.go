package checkpoint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tweetids/pkg/candidate"
	"tweetids/pkg/logger"
)

func candidates(t *testing.T, handles ...string) []candidate.Candidate {
	t.Helper()
	var lines []string
	for _, h := range handles {
		lines = append(lines, `{"name":"`+h+`","twitter":"`+h+`"}`)
	}
	cands, err := candidate.Read(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("Failed to build candidates: %v", err)
	}
	return cands
}

func TestCheckpointManager(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "handle_left.jsonlist")

	t.Run("SaveAndLoad", func(t *testing.T) {
		mgr := NewManager(path, logger.NewTestLogger())
		all := candidates(t, "a", "b", "c")

		// after finishing b only c is left
		if err := mgr.Save(all[2:]); err != nil {
			t.Fatalf("Failed to save checkpoint: %v", err)
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load checkpoint: %v", err)
		}
		if len(loaded) != 1 {
			t.Fatalf("Expected 1 remaining candidate, got %d", len(loaded))
		}
		if loaded[0].Handle() != "c" {
			t.Errorf("Expected remaining handle c, got %s", loaded[0].Handle())
		}
	})

	t.Run("SaveEmpty", func(t *testing.T) {
		mgr := NewManager(path, logger.NewTestLogger())
		if err := mgr.Save(nil); err != nil {
			t.Fatalf("Failed to save checkpoint: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read checkpoint: %v", err)
		}
		if len(data) != 0 {
			t.Errorf("Expected empty checkpoint, got %q", data)
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		mgr := NewManager(filepath.Join(tempDir, "missing.jsonlist"), logger.NewTestLogger())
		if _, err := mgr.Load(); err == nil {
			t.Error("Expected error loading a missing checkpoint")
		}
		info, err := mgr.GetInfo()
		if err != nil || info != nil {
			t.Errorf("Expected no info for a missing checkpoint, got %v, %v", info, err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		mgr := NewManager(path, logger.NewTestLogger())
		if err := mgr.Save(candidates(t, "x")); err != nil {
			t.Fatalf("Failed to save checkpoint: %v", err)
		}

		removed, err := mgr.Delete()
		if err != nil {
			t.Fatalf("Failed to delete checkpoint: %v", err)
		}
		if !removed {
			t.Error("Expected checkpoint to be removed")
		}
		if mgr.Exists() {
			t.Error("Checkpoint should not exist after delete")
		}

		removed, err = mgr.Delete()
		if err != nil {
			t.Errorf("Deleting a missing checkpoint should not fail: %v", err)
		}
		if removed {
			t.Error("Expected nothing removed on second delete")
		}
	})

	t.Run("InfoAndBackup", func(t *testing.T) {
		mgr := NewManager(path, logger.NewTestLogger())
		if err := mgr.Save(candidates(t, "a", "b")); err != nil {
			t.Fatalf("Failed to save checkpoint: %v", err)
		}

		info, err := mgr.GetInfo()
		if err != nil {
			t.Fatalf("Failed to get info: %v", err)
		}
		if info.Remaining != 2 {
			t.Errorf("Expected 2 remaining, got %d", info.Remaining)
		}

		if err := mgr.Backup(); err != nil {
			t.Fatalf("Failed to back up checkpoint: %v", err)
		}
		if _, err := os.Stat(path + ".backup"); err != nil {
			t.Errorf("Expected backup file: %v", err)
		}
	})
}
