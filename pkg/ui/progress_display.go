package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay draws a single updating progress line over the candidate
// list, with the current candidate's day progress appended
type ProgressDisplay struct {
	mu          sync.Mutex
	out         io.Writer
	total       int
	done        int
	skipped     int
	current     string
	days        int
	daysDone    int
	tweets      int
	stale       int
	totalStored int
	startTime   time.Time
	isDebug     bool
}

// NewProgressDisplay creates a progress display writing to stdout
func NewProgressDisplay(debug bool) *ProgressDisplay {
	return NewProgressDisplayTo(os.Stdout, debug)
}

// NewProgressDisplayTo creates a progress display writing to out
func NewProgressDisplayTo(out io.Writer, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		startTime: time.Now(),
		isDebug:   debug,
	}
}

// StartCandidate marks the start of a candidate
func (p *ProgressDisplay) StartCandidate(index, total int, name, handle string, days int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = index
	p.current = "@" + handle
	p.days = days
	p.daysDone = 0

	if p.isDebug {
		fmt.Fprintf(p.out, "\n%s %s (%s) • %d days\n", Magenta("→"), name, p.current, days)
		return
	}
	p.printProgress()
}

// SkipCandidate records a candidate without a handle
func (p *ProgressDisplay) SkipCandidate(index, total int, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = index + 1
	p.skipped++

	if p.isDebug {
		fmt.Fprintf(p.out, "\n%s %s has no twitter handle\n", Dim("↷"), name)
		return
	}
	p.printProgress()
}

// CompleteDay records one searched day
func (p *ProgressDisplay) CompleteDay(since string, found, ids, stale int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.daysDone++
	p.tweets += ids
	p.stale += stale

	if p.isDebug {
		fmt.Fprintf(p.out, "  %s %s • %d found • %d ids", Green("✓"), since, found, ids)
		if stale > 0 {
			fmt.Fprintf(p.out, " • %s", Yellow(fmt.Sprintf("%d stale", stale)))
		}
		fmt.Fprintln(p.out)
		return
	}
	p.printProgress()
}

// CompleteCandidate records a merged candidate
func (p *ProgressDisplay) CompleteCandidate(name string, scraped, added, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.totalStored = total

	if p.isDebug {
		fmt.Fprintf(p.out, "%s %s • %d scraped • %d new • %d total\n", Green("✓"), name, scraped, added, total)
		return
	}
	p.printProgress()
}

// LogInfo prints an informational line below the progress bar
func (p *ProgressDisplay) LogInfo(format string, args ...interface{}) {
	p.logLine(Cyan("•"), format, args...)
}

// LogWarning prints a warning line below the progress bar
func (p *ProgressDisplay) LogWarning(format string, args ...interface{}) {
	p.logLine(Yellow("⚠"), format, args...)
}

// LogError prints an error line below the progress bar
func (p *ProgressDisplay) LogError(format string, args ...interface{}) {
	p.logLine(Red("✗"), format, args...)
}

func (p *ProgressDisplay) IsPaused() bool { return false }

func (p *ProgressDisplay) logLine(marker, format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n%s %s\n", marker, fmt.Sprintf(format, args...))
}

// printProgress prints the minimal progress line
func (p *ProgressDisplay) printProgress() {
	progress := 0.0
	if p.total > 0 {
		progress = float64(p.done) / float64(p.total)
	}
	barWidth := 20
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("[%s] %d/%d • %d ids • %s",
		bar,
		p.done,
		p.total,
		p.tweets,
		p.calculateETA(),
	)
	if p.current != "" && p.days > 0 {
		line += fmt.Sprintf(" • %s day %d/%d", Cyan(p.current), p.daysDone, p.days)
	}
	if p.stale > 0 {
		line += fmt.Sprintf(" • %s", Yellow(fmt.Sprintf("%d stale", p.stale)))
	}

	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 120), line)
}

// Complete prints the final summary
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.startTime)

	fmt.Fprintf(p.out, "\n\n%s Collected %d tweet ids from %d candidates\n",
		Green("✓"),
		p.tweets,
		p.done-p.skipped,
	)
	fmt.Fprintf(p.out, "  %s %d ids stored in %s\n",
		Dim("•"),
		p.totalStored,
		formatDuration(elapsed),
	)
	if p.skipped > 0 {
		fmt.Fprintf(p.out, "  %s %d candidates without a handle\n", Dim("•"), p.skipped)
	}
	if p.stale > 0 {
		fmt.Fprintf(p.out, "  %s %d stale items skipped\n", Dim("•"), p.stale)
	}
}

// calculateETA estimates time remaining from the candidates finished so far
func (p *ProgressDisplay) calculateETA() string {
	if p.done == 0 {
		return "calculating..."
	}
	remaining := p.total - p.done
	perCandidate := time.Since(p.startTime) / time.Duration(p.done)
	return formatDuration(perCandidate * time.Duration(remaining))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
