// Package logger provides structured logging for tweetids on top of zerolog.
//
// The package exposes a Logger interface, a process wide logger set up by
// Initialize, and small helpers for the events a scrape run emits:
//
//	logger.Initialize(&cfg.Logging)
//	log := logger.WithRun(logger.GetLogger(), runID)
//	logger.LogCandidate(log, "Jane Doe", "janedoe", 0, 120)
//
// When logging.file is set, JSON lines are appended to that file in addition
// to the colored console output.
//
// TestLogger captures messages in memory so packages can assert on what
// they logged.
package logger
