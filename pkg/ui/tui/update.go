package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// CandidateStartMsg is sent when a candidate's first day is about to load
type CandidateStartMsg struct {
	Index  int
	Total  int
	Name   string
	Handle string
	Days   int
}

// CandidateSkipMsg is sent for a candidate without a handle
type CandidateSkipMsg struct {
	Index int
	Total int
	Name  string
}

// DayCompleteMsg is sent after each searched day
type DayCompleteMsg struct {
	Since string
	Found int
	IDs   int
	Stale int
}

// CandidateCompleteMsg is sent after a candidate's identifiers are merged
type CandidateCompleteMsg struct {
	Name    string
	Scraped int
	Added   int
	Total   int
}

// RunDoneMsg is sent when the scraper returns
type RunDoneMsg struct {
	Err error
}

// LogMsg is sent to add a log message
type LogMsg struct {
	Level   string
	Message string
}

// TickMsg is sent periodically to update the UI
type TickMsg time.Time

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mu.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.mu.Unlock()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		return m, tickCmd()

	case CandidateStartMsg:
		m.StartCandidate(msg.Index, msg.Total, msg.Name, msg.Handle, msg.Days)
		m.AddLogMessage("INFO", fmt.Sprintf("Scraping %s (@%s)", msg.Name, msg.Handle))
		return m, nil

	case CandidateSkipMsg:
		m.SkipCandidate(msg.Index, msg.Total, msg.Name)
		m.AddLogMessage("WARN", "No twitter handle: "+msg.Name)
		return m, nil

	case DayCompleteMsg:
		m.CompleteDay(msg.Since, msg.Found, msg.IDs, msg.Stale)
		if msg.Stale > 0 {
			m.AddLogMessage("WARN", fmt.Sprintf("%s: lost %d element references", msg.Since, msg.Stale))
		}
		return m, nil

	case CandidateCompleteMsg:
		m.CompleteCandidate(msg.Name, msg.Scraped, msg.Added, msg.Total)
		m.AddLogMessage("SUCCESS", fmt.Sprintf("%s: %d tweets, %d new, %d total", msg.Name, msg.Scraped, msg.Added, msg.Total))
		return m, nil

	case RunDoneMsg:
		m.FinishRun()
		if msg.Err != nil {
			m.AddLogMessage("ERROR", "Run failed: "+msg.Err.Error())
		} else {
			m.AddLogMessage("SUCCESS", "All done here. Press q to exit")
		}
		return m, nil

	case LogMsg:
		m.AddLogMessage(msg.Level, msg.Message)
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "p", "P":
		if m.togglePause() {
			m.AddLogMessage("WARN", "Paused before the next page load")
		} else {
			m.AddLogMessage("INFO", "Resumed by user")
		}
		return m, nil

	case "?":
		m.mu.Lock()
		m.showHelp = !m.showHelp
		m.mu.Unlock()
		return m, nil

	case "ctrl+l":
		m.mu.Lock()
		m.logMessages = nil
		m.mu.Unlock()
		return m, nil
	}

	return m, nil
}

// tickCmd returns a command that sends a tick message
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*250, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
