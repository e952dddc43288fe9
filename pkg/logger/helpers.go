package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WithRun tags every message of l with the run identifier
func WithRun(l Logger, runID string) Logger {
	return l.WithField("run_id", runID)
}

// LogCandidate logs the start of a candidate
func LogCandidate(l Logger, name, handle string, index, total int) {
	l.InfoWithFields("Scraping candidate", map[string]interface{}{
		"candidate": name,
		"handle":    handle,
		"index":     index + 1,
		"total":     total,
	})
}

// LogDay logs the outcome of one searched day
func LogDay(l Logger, handle, since string, found, ids, stale int, duration time.Duration) {
	l.DebugWithFields("Day harvested", map[string]interface{}{
		"handle":   handle,
		"since":    since,
		"found":    found,
		"ids":      ids,
		"stale":    stale,
		"duration": duration,
	})
}

// LogMerge logs the result of merging a candidate's identifiers into the output
func LogMerge(l Logger, handle string, scraped, added, total int) {
	l.InfoWithFields("Tweets found on this scrape", map[string]interface{}{
		"handle":  handle,
		"scraped": scraped,
		"added":   added,
	})
	l.InfoWithFields("Total tweet count", map[string]interface{}{
		"handle": handle,
		"total":  total,
	})
}

// LogRateLimit logs a pacing wait before a page load
func LogRateLimit(l Logger, wait time.Duration) {
	l.DebugWithFields("Pacing page load", map[string]interface{}{
		"wait": wait,
	})
}

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger {
	nop := zerolog.Nop()
	return &nop
}
