package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CandidateState represents where a candidate is in the run
type CandidateState int

const (
	CandidatePending CandidateState = iota
	CandidateActive
	CandidateDone
	CandidateSkipped
)

// CandidateItem is one row of the candidate panel
type CandidateItem struct {
	Index     int
	Name      string
	Handle    string
	State     CandidateState
	Days      int
	DaysDone  int
	Scraped   int
	Added     int
	Stale     int
	StartTime time.Time
}

// DayItem is one searched day shown in the recent days panel
type DayItem struct {
	Handle string
	Since  string
	Found  int
	IDs    int
	Stale  int
}

// Model represents the TUI model
type Model struct {
	spinner      spinner.Model
	runBar       progress.Model
	candidateBar progress.Model

	candidates      map[int]*CandidateItem
	order           []int
	current         int
	totalCandidates int
	recentDays      []DayItem
	maxRecentDays   int

	// Stats
	idsScraped       int
	storedTotal      int
	staleTotal       int
	skipped          int
	sessionStartTime time.Time
	runFinished      bool

	// UI state
	width          int
	height         int
	showHelp       bool
	isPaused       bool
	logMessages    []LogMessage
	maxLogMessages int

	mu sync.RWMutex
}

// LogMessage represents a log entry
type LogMessage struct {
	Time    time.Time
	Level   string
	Message string
	Color   lipgloss.Color
}

// NewModel creates a new TUI model
func NewModel() *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	return &Model{
		spinner:          s,
		runBar:           progress.New(progress.WithDefaultGradient()),
		candidateBar:     progress.New(progress.WithSolidFill(string(neonCyan))),
		candidates:       make(map[int]*CandidateItem),
		current:          -1,
		maxRecentDays:    8,
		sessionStartTime: time.Now(),
		maxLogMessages:   50,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// StartCandidate marks a candidate as active
func (m *Model) StartCandidate(index, total int, name, handle string, days int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCandidates = total
	item := m.item(index)
	item.Name = name
	item.Handle = handle
	item.Days = days
	item.State = CandidateActive
	item.StartTime = time.Now()
	m.current = index
}

// SkipCandidate marks a candidate without a handle
func (m *Model) SkipCandidate(index, total int, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCandidates = total
	item := m.item(index)
	item.Name = name
	item.State = CandidateSkipped
	m.skipped++
}

// CompleteDay records a searched day for the active candidate
func (m *Model) CompleteDay(since string, found, ids, stale int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.idsScraped += ids
	m.staleTotal += stale

	handle := ""
	if item, ok := m.candidates[m.current]; ok {
		item.DaysDone++
		item.Stale += stale
		handle = item.Handle
	}

	m.recentDays = append(m.recentDays, DayItem{Handle: handle, Since: since, Found: found, IDs: ids, Stale: stale})
	if len(m.recentDays) > m.maxRecentDays {
		m.recentDays = m.recentDays[len(m.recentDays)-m.maxRecentDays:]
	}
}

// CompleteCandidate records the merge result of the active candidate
func (m *Model) CompleteCandidate(name string, scraped, added, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.storedTotal = total
	if item, ok := m.candidates[m.current]; ok {
		item.State = CandidateDone
		item.Scraped = scraped
		item.Added = added
	}
}

// FinishRun marks the run as over
func (m *Model) FinishRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runFinished = true
}

// item returns the row for index, creating it. Caller holds mu.
func (m *Model) item(index int) *CandidateItem {
	if item, ok := m.candidates[index]; ok {
		return item
	}
	item := &CandidateItem{Index: index}
	m.candidates[index] = item
	m.order = append(m.order, index)
	return item
}

// AddLogMessage adds a log message
func (m *Model) AddLogMessage(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	color := dimWhite
	switch level {
	case "ERROR":
		color = neonRed
	case "WARN":
		color = neonOrange
	case "SUCCESS":
		color = neonGreen
	case "INFO":
		color = neonCyan
	}

	m.logMessages = append(m.logMessages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: message,
		Color:   color,
	})

	if len(m.logMessages) > m.maxLogMessages {
		m.logMessages = m.logMessages[len(m.logMessages)-m.maxLogMessages:]
	}
}

// Paused reports whether the user paused the run
func (m *Model) Paused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isPaused
}

func (m *Model) togglePause() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isPaused = !m.isPaused
	return m.isPaused
}

// Stats is a point in time copy of the run counters
type Stats struct {
	Total      int
	Done       int
	Skipped    int
	IDsScraped int
	Stored     int
	Stale      int
	Elapsed    time.Duration
	ETA        time.Duration
	Active     *CandidateItem
	RecentDays []DayItem
	Paused     bool
	Finished   bool
}

// GetStats returns a snapshot of the run counters
func (m *Model) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats()
}

// stats builds a Stats value. Caller holds mu.
func (m *Model) stats() Stats {
	s := Stats{
		Total:      m.totalCandidates,
		Skipped:    m.skipped,
		IDsScraped: m.idsScraped,
		Stored:     m.storedTotal,
		Stale:      m.staleTotal,
		Elapsed:    time.Since(m.sessionStartTime),
		RecentDays: append([]DayItem(nil), m.recentDays...),
		Paused:     m.isPaused,
		Finished:   m.runFinished,
	}
	for _, idx := range m.order {
		item := m.candidates[idx]
		switch item.State {
		case CandidateDone, CandidateSkipped:
			s.Done++
		case CandidateActive:
			copied := *item
			s.Active = &copied
		}
	}
	if s.Done > 0 && s.Total > s.Done {
		s.ETA = s.Elapsed / time.Duration(s.Done) * time.Duration(s.Total-s.Done)
	}
	return s
}
