package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// StatusTracker is a Reporter for non-interactive output. It prints one
// plain line per candidate, which suits log files and CI runs.
type StatusTracker struct {
	mu         sync.Mutex
	out        io.Writer
	StartTime  time.Time
	Candidates int
	Skipped    int
	Days       int
	IDs        int
	Stale      int
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker(out io.Writer) *StatusTracker {
	return &StatusTracker{
		out:       out,
		StartTime: time.Now(),
	}
}

func (st *StatusTracker) StartCandidate(index, total int, name, handle string, days int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fmt.Fprintf(st.out, "[%d/%d] %s @%s (%d days)\n", index+1, total, name, handle, days)
}

func (st *StatusTracker) SkipCandidate(index, total int, name string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Skipped++
	fmt.Fprintf(st.out, "[%d/%d] %s skipped: no twitter handle\n", index+1, total, name)
}

func (st *StatusTracker) CompleteDay(since string, found, ids, stale int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Days++
	st.IDs += ids
	st.Stale += stale
}

func (st *StatusTracker) CompleteCandidate(name string, scraped, added, total int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Candidates++
	fmt.Fprintf(st.out, "tweets found on this scrape: %d (%d new), total tweet count: %d\n", scraped, added, total)
}

func (st *StatusTracker) LogInfo(format string, args ...interface{}) {
	st.printf("INFO", format, args...)
}

func (st *StatusTracker) LogWarning(format string, args ...interface{}) {
	st.printf("WARN", format, args...)
}

func (st *StatusTracker) LogError(format string, args ...interface{}) {
	st.printf("ERROR", format, args...)
}

func (st *StatusTracker) IsPaused() bool { return false }

func (st *StatusTracker) printf(level, format string, args ...interface{}) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fmt.Fprintf(st.out, "%s %s\n", level, fmt.Sprintf(format, args...))
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetDayRate returns the average number of days searched per minute
func (st *StatusTracker) GetDayRate() float64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Days) / elapsed
}
