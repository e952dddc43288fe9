package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI is a full screen dashboard for a scrape run. It implements
// ui.Reporter so the scraper can drive it directly.
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates a new TUI instance
func NewTUI(opts ...tea.ProgramOption) *TUI {
	model := NewModel()
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &TUI{
		program: tea.NewProgram(model, opts...),
		model:   model,
	}
}

// Start runs the TUI until the user quits
func (t *TUI) Start() error {
	go func() {
		time.Sleep(100 * time.Millisecond)
		t.program.Send(TickMsg(time.Now()))
	}()

	_, err := t.program.Run()
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// Send sends a message to the TUI
func (t *TUI) Send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

func (t *TUI) StartCandidate(index, total int, name, handle string, days int) {
	t.Send(CandidateStartMsg{Index: index, Total: total, Name: name, Handle: handle, Days: days})
}

func (t *TUI) SkipCandidate(index, total int, name string) {
	t.Send(CandidateSkipMsg{Index: index, Total: total, Name: name})
}

func (t *TUI) CompleteDay(since string, found, ids, stale int) {
	t.Send(DayCompleteMsg{Since: since, Found: found, IDs: ids, Stale: stale})
}

func (t *TUI) CompleteCandidate(name string, scraped, added, total int) {
	t.Send(CandidateCompleteMsg{Name: name, Scraped: scraped, Added: added, Total: total})
}

// Done tells the dashboard the run has ended
func (t *TUI) Done(err error) {
	t.Send(RunDoneMsg{Err: err})
}

// Log sends a log message to the TUI
func (t *TUI) Log(level, format string, args ...interface{}) {
	t.Send(LogMsg{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (t *TUI) LogInfo(format string, args ...interface{})    { t.Log("INFO", format, args...) }
func (t *TUI) LogSuccess(format string, args ...interface{}) { t.Log("SUCCESS", format, args...) }
func (t *TUI) LogWarning(format string, args ...interface{}) { t.Log("WARN", format, args...) }
func (t *TUI) LogError(format string, args ...interface{})   { t.Log("ERROR", format, args...) }

// IsPaused returns whether the user paused the run
func (t *TUI) IsPaused() bool {
	return t.model.Paused()
}
