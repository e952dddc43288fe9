package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel(t *testing.T) {
	model := NewModel()

	model.StartCandidate(0, 3, "Alice", "alice", 2)
	model.CompleteDay("2014-08-03", 12, 11, 1)
	model.CompleteDay("2014-08-04", 0, 0, 0)
	model.CompleteCandidate("Alice", 11, 10, 10)
	model.SkipCandidate(1, 3, "Bob")
	model.StartCandidate(2, 3, "Carol", "carol", 2)

	stats := model.GetStats()
	if stats.Total != 3 {
		t.Errorf("Expected 3 candidates, got %d", stats.Total)
	}
	if stats.Done != 2 {
		t.Errorf("Expected 2 finished candidates, got %d", stats.Done)
	}
	if stats.Skipped != 1 {
		t.Errorf("Expected 1 skipped candidate, got %d", stats.Skipped)
	}
	if stats.IDsScraped != 11 || stats.Stored != 10 || stats.Stale != 1 {
		t.Errorf("Unexpected counters: %+v", stats)
	}
	if stats.Active == nil || stats.Active.Handle != "carol" {
		t.Fatalf("Expected carol to be active, got %+v", stats.Active)
	}
	if len(stats.RecentDays) != 2 || stats.RecentDays[0].Handle != "alice" {
		t.Errorf("Unexpected recent days: %+v", stats.RecentDays)
	}

	alice := model.candidates[0]
	if alice.DaysDone != 2 || alice.Added != 10 {
		t.Errorf("Unexpected alice row: %+v", alice)
	}
}

func TestModel_RecentDaysAreBounded(t *testing.T) {
	model := NewModel()
	model.StartCandidate(0, 1, "Alice", "alice", 20)
	for i := 0; i < 20; i++ {
		model.CompleteDay("2014-08-03", 1, 1, 0)
	}
	if got := len(model.GetStats().RecentDays); got != model.maxRecentDays {
		t.Errorf("Expected %d recent days, got %d", model.maxRecentDays, got)
	}
}

func TestModel_LogMessagesAreBounded(t *testing.T) {
	model := NewModel()
	for i := 0; i < 60; i++ {
		model.AddLogMessage("INFO", "message")
	}
	if len(model.logMessages) != model.maxLogMessages {
		t.Errorf("Expected %d log messages, got %d", model.maxLogMessages, len(model.logMessages))
	}
}

func TestUpdate_Messages(t *testing.T) {
	model := NewModel()

	model.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	model.Update(CandidateStartMsg{Index: 0, Total: 1, Name: "Alice", Handle: "alice", Days: 1})
	model.Update(DayCompleteMsg{Since: "2014-08-03", Found: 3, IDs: 2, Stale: 1})
	model.Update(CandidateCompleteMsg{Name: "Alice", Scraped: 2, Added: 2, Total: 2})
	model.Update(RunDoneMsg{Err: errors.New("browser crashed")})

	stats := model.GetStats()
	if !stats.Finished || stats.Done != 1 {
		t.Errorf("Expected finished run with 1 candidate, got %+v", stats)
	}

	var sawError bool
	for _, msg := range model.logMessages {
		if msg.Level == "ERROR" && strings.Contains(msg.Message, "browser crashed") {
			sawError = true
		}
	}
	if !sawError {
		t.Error("Expected run failure in logs")
	}

	view := model.View()
	if !strings.Contains(view, "RUN STATS") {
		t.Error("Expected stats panel in view")
	}
}

func TestUpdate_PauseKey(t *testing.T) {
	model := NewModel()

	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if !model.Paused() {
		t.Error("Expected model to be paused")
	}
	model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	if model.Paused() {
		t.Error("Expected model to be resumed")
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("Expected quit command")
	}
}

func TestView_BeforeResize(t *testing.T) {
	if got := NewModel().View(); got != "Initializing..." {
		t.Errorf("Unexpected view: %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{-time.Second, "00:00"},
		{90 * time.Second, "01:30"},
		{2*time.Hour + 5*time.Minute + 7*time.Second, "02:05:07"},
	}

	for _, test := range tests {
		if result := formatDuration(test.d); result != test.expected {
			t.Errorf("formatDuration(%v) = %s, expected %s", test.d, result, test.expected)
		}
	}
}

func TestGetStaleStyle(t *testing.T) {
	if GetStaleStyle(0, 10).GetForeground() != successStyle.GetForeground() {
		t.Error("Expected success style with no stale items")
	}
	if GetStaleStyle(5, 10).GetForeground() != errorStyle.GetForeground() {
		t.Error("Expected error style with many stale items")
	}
	if GetStaleStyle(1, 100).GetForeground() != warningStyle.GetForeground() {
		t.Error("Expected warning style with few stale items")
	}
}
