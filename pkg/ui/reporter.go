package ui

// Reporter receives progress events from a scrape run
type Reporter interface {
	StartCandidate(index, total int, name, handle string, days int)
	SkipCandidate(index, total int, name string)
	CompleteDay(since string, found, ids, stale int)
	CompleteCandidate(name string, scraped, added, total int)
	LogInfo(format string, args ...interface{})
	LogWarning(format string, args ...interface{})
	LogError(format string, args ...interface{})
	// IsPaused reports whether the run should hold before the next page load
	IsPaused() bool
}

// NopReporter discards all events
type NopReporter struct{}

func (NopReporter) StartCandidate(index, total int, name, handle string, days int) {}
func (NopReporter) SkipCandidate(index, total int, name string)                    {}
func (NopReporter) CompleteDay(since string, found, ids, stale int)                {}
func (NopReporter) CompleteCandidate(name string, scraped, added, total int)       {}
func (NopReporter) LogInfo(format string, args ...interface{})                     {}
func (NopReporter) LogWarning(format string, args ...interface{})                  {}
func (NopReporter) LogError(format string, args ...interface{})                    {}
func (NopReporter) IsPaused() bool                                                 { return false }
