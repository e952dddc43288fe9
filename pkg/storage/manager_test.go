package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"tweetids/pkg/logger"
)

func readIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("Output is not a JSON array: %v", err)
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets", "all_tweet_ids.json")
	log := logger.NewTestLogger()
	manager := NewManager(path, log)

	// Missing file is an empty set
	set, err := manager.Load()
	if err != nil {
		t.Fatalf("Failed to load missing output: %v", err)
	}
	if set.Len() != 0 {
		t.Errorf("Expected empty set, got %d", set.Len())
	}

	res, err := manager.Merge([]string{"1", "2"})
	if err != nil {
		t.Fatalf("Failed to merge: %v", err)
	}
	if res.Added != 2 || res.Total != 2 {
		t.Errorf("Unexpected first merge result: %+v", res)
	}

	res, err = manager.Merge([]string{"2", "3"})
	if err != nil {
		t.Fatalf("Failed to merge: %v", err)
	}
	if res.Scraped != 2 || res.Added != 1 || res.Total != 3 {
		t.Errorf("Unexpected second merge result: %+v", res)
	}
	if got := readIDs(t, path); !equal(got, []string{"1", "2", "3"}) {
		t.Errorf("Expected [1 2 3], got %v", got)
	}

	// Merging nothing leaves the content unchanged
	before, _ := os.ReadFile(path)
	res, err = manager.Merge(nil)
	if err != nil {
		t.Fatalf("Failed to merge empty set: %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) || res.Total != 3 {
		t.Errorf("Empty merge changed output: %s -> %s", before, after)
	}

	if !log.HasMessage("DEBUG", "Identifiers merged") {
		t.Error("Expected merge to be logged")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary file should not remain")
	}
}

func TestManager_DuplicatesWithinScrape(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "ids.json"), logger.NewNopLogger())

	res, err := manager.Merge([]string{"9", "9", "8"})
	if err != nil {
		t.Fatalf("Failed to merge: %v", err)
	}
	if res.Scraped != 3 || res.Added != 2 || res.Total != 2 {
		t.Errorf("Unexpected result: %+v", res)
	}
}

func TestManager_MalformedOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	manager := NewManager(path, logger.NewNopLogger())

	if _, err := manager.Merge([]string{"1"}); err == nil {
		t.Error("Expected error for malformed output")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "{not json" {
		t.Error("Malformed output must not be overwritten")
	}
}

func TestManager_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	manager := NewManager(path, logger.NewNopLogger())

	removed, err := manager.Delete()
	if err != nil || removed {
		t.Errorf("Expected (false, nil) for missing file, got (%v, %v)", removed, err)
	}

	if _, err := manager.Merge([]string{"1"}); err != nil {
		t.Fatal(err)
	}
	removed, err = manager.Delete()
	if err != nil || !removed {
		t.Errorf("Expected (true, nil), got (%v, %v)", removed, err)
	}
}

func TestIDSet(t *testing.T) {
	s := NewIDSet("b", "a", "b")
	if s.Len() != 2 {
		t.Errorf("Expected 2 members, got %d", s.Len())
	}
	if n := s.Add("a", "c"); n != 1 {
		t.Errorf("Expected 1 new member, got %d", n)
	}
	if !s.Contains("c") {
		t.Error("Expected c in set")
	}
	if got := s.Sorted(); !equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Unexpected order: %v", got)
	}
}
