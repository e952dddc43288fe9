package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tweetids/pkg/browser"
	"tweetids/pkg/candidate"
	"tweetids/pkg/checkpoint"
	"tweetids/pkg/config"
	errs "tweetids/pkg/errors"
	"tweetids/pkg/harvest"
	"tweetids/pkg/logger"
	"tweetids/pkg/search"
	"tweetids/pkg/storage"
	"tweetids/pkg/ui"
)

const pausePollInterval = 500 * time.Millisecond

// Summary describes a finished or interrupted run
type Summary struct {
	RunID      string        `json:"run_id"`
	Candidates int           `json:"candidates"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Days       int           `json:"days"`
	Scraped    int           `json:"scraped"`
	Stale      int           `json:"stale"`
	Total      int           `json:"total"`
	Duration   time.Duration `json:"duration"`
}

// Scraper walks candidates through the day window and persists the results
type Scraper struct {
	config    *config.Config
	window    search.Window
	harvester DayHarvester
	store     *storage.Manager
	ckpt      *checkpoint.Manager
	reporter  ui.Reporter
	logger    logger.Logger
	runID     string
	pausePoll time.Duration
}

// Option customizes a Scraper
type Option func(*Scraper)

// WithReporter sends progress events to r
func WithReporter(r ui.Reporter) Option {
	return func(s *Scraper) { s.reporter = r }
}

// WithLogger replaces the global logger
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithRunID sets the run identifier instead of generating one
func WithRunID(id string) Option {
	return func(s *Scraper) { s.runID = id }
}

// WithHarvester replaces the browser backed harvester
func WithHarvester(h DayHarvester) Option {
	return func(s *Scraper) { s.harvester = h }
}

// New creates a Scraper that harvests through session
func New(cfg *config.Config, session browser.Session, opts ...Option) (*Scraper, error) {
	window, err := search.NewWindow(cfg.Search.Start, cfg.Search.End)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeConfig, "search window", err)
	}

	s := &Scraper{
		config:    cfg,
		window:    window,
		reporter:  ui.NopReporter{},
		logger:    logger.GetLogger(),
		pausePoll: pausePollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.logger = logger.WithRun(s.logger, s.runID)

	s.store = storage.NewManager(cfg.Files.Output, s.logger)
	s.ckpt = checkpoint.NewManager(cfg.Files.Checkpoint, s.logger)

	if s.harvester == nil {
		hopts, err := harvest.OptionsFromConfig(cfg)
		if err != nil {
			return nil, errs.New(errs.ErrorTypeConfig, "harvest options", err)
		}
		s.harvester = harvest.New(session, hopts, s.logger)
	}

	return s, nil
}

// RunID returns the identifier tagged on every log line of this run
func (s *Scraper) RunID() string {
	return s.runID
}

// LoadCandidates returns the candidates this run should process. A fresh run
// reads the full input, optionally removing the previous output and
// checkpoint first. A resumed run reads the checkpoint.
func (s *Scraper) LoadCandidates() ([]candidate.Candidate, error) {
	return LoadCandidates(s.config, s.store, s.ckpt, s.logger)
}

// LoadCandidates is the standalone form of Scraper.LoadCandidates
func LoadCandidates(cfg *config.Config, store *storage.Manager, ckpt *checkpoint.Manager, log logger.Logger) ([]candidate.Candidate, error) {
	if !cfg.Run.StartFromBeginning {
		info, err := ckpt.GetInfo()
		if err != nil {
			return nil, fmt.Errorf("failed to resume from checkpoint: %w", err)
		}
		if info == nil {
			return nil, fmt.Errorf("failed to resume from checkpoint: no checkpoint at %s", ckpt.Path())
		}
		cands, err := ckpt.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to resume from checkpoint: %w", err)
		}
		log.InfoWithFields("Resuming from checkpoint", map[string]interface{}{
			"checkpoint": ckpt.Path(),
			"remaining":  len(cands),
			"age":        info.Age.Round(time.Second),
		})
		return cands, nil
	}

	if cfg.Run.DeleteOld {
		removed, err := store.Delete()
		if err != nil {
			return nil, errs.New(errs.ErrorTypeStorage, "delete output", err)
		}
		if removed {
			log.WithField("path", store.Path()).Info("Deleted previous output")
		}
		// the previous checkpoint survives as <path>.backup
		if ckpt.Exists() {
			if err := ckpt.Backup(); err != nil {
				return nil, errs.New(errs.ErrorTypeStorage, "backup checkpoint", err)
			}
		}
		removed, err = ckpt.Delete()
		if err != nil {
			return nil, errs.New(errs.ErrorTypeStorage, "delete checkpoint", err)
		}
		if removed {
			log.WithField("path", ckpt.Path()).Info("Deleted previous checkpoint")
		}
	}

	cands, err := candidate.ReadFile(cfg.Files.Candidates)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeParsing, "read candidates", err)
	}
	log.InfoWithFields("Loaded candidates", map[string]interface{}{
		"path":  cfg.Files.Candidates,
		"count": len(cands),
	})
	return cands, nil
}

// Run processes cands in order. After each candidate the checkpoint holds
// the candidates that follow it, so Run can be resumed from the checkpoint
// after any error. The summary is valid even when an error is returned.
func (s *Scraper) Run(ctx context.Context, cands []candidate.Candidate) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: s.runID, Candidates: len(cands)}
	days := s.window.Days()

	s.logger.InfoWithFields("Starting run", map[string]interface{}{
		"candidates": len(cands),
		"days":       len(days),
		"start":      s.config.Search.Start,
		"end":        s.config.Search.End,
	})

	for i, c := range cands {
		if err := ctx.Err(); err != nil {
			return s.finish(sum, start), err
		}

		if !c.HasHandle() {
			s.reporter.SkipCandidate(i, len(cands), c.Name())
			s.logger.WithField("candidate", c.Name()).Info("No twitter handle, skipping")
			sum.Skipped++
		} else {
			if err := s.scrapeCandidate(ctx, i, len(cands), c, days, &sum); err != nil {
				return s.finish(sum, start), err
			}
			sum.Processed++
		}

		if err := s.saveCheckpoint(cands[i+1:]); err != nil {
			return s.finish(sum, start), err
		}
	}

	s.logger.Info("All done here")
	return s.finish(sum, start), nil
}

func (s *Scraper) scrapeCandidate(ctx context.Context, index, total int, c candidate.Candidate, days []search.Day, sum *Summary) error {
	handle := c.Handle()
	name := c.Name()
	log := s.logger.WithField("handle", handle)

	logger.LogCandidate(s.logger, name, handle, index, total)
	s.reporter.StartCandidate(index, total, name, handle, len(days))

	var ids []string
	for _, day := range days {
		if err := s.waitWhilePaused(ctx); err != nil {
			return err
		}

		since, until := day.Since, day.Until
		url := search.BuildURL(s.config.Search.BaseURL, handle, since, until, s.config.Search.IncludeRetweets)

		dayStart := time.Now()
		res, err := s.harvester.HarvestDay(ctx, url)
		if err != nil {
			log.WithError(err).WithField("since", since).Error("Failed to harvest day")
			return fmt.Errorf("candidate %s day %s: %w", handle, since, err)
		}

		ids = append(ids, res.IDs...)
		sum.Days++
		sum.Stale += res.Stale

		logger.LogDay(s.logger, handle, since, res.Found, len(res.IDs), res.Stale, time.Since(dayStart))
		s.reporter.CompleteDay(since, res.Found, len(res.IDs), res.Stale)
		if res.Stale > 0 {
			s.reporter.LogWarning("%s %s: lost %d element references", handle, since, res.Stale)
		}
	}

	merged, err := s.store.Merge(ids)
	if err != nil {
		log.WithError(err).Error("Failed to merge identifiers")
		return errs.New(errs.ErrorTypeStorage, "merge "+handle, err)
	}
	sum.Scraped += merged.Scraped
	sum.Total = merged.Total

	logger.LogMerge(s.logger, handle, merged.Scraped, merged.Added, merged.Total)
	s.reporter.CompleteCandidate(name, merged.Scraped, merged.Added, merged.Total)
	return nil
}

func (s *Scraper) saveCheckpoint(remaining []candidate.Candidate) error {
	if err := s.ckpt.Save(remaining); err != nil {
		s.logger.WithError(err).Error("Failed to save checkpoint")
		return errs.New(errs.ErrorTypeStorage, "save checkpoint", err)
	}
	return nil
}

// waitWhilePaused blocks while the reporter holds the run
func (s *Scraper) waitWhilePaused(ctx context.Context) error {
	if !s.reporter.IsPaused() {
		return nil
	}
	s.logger.Info("Run paused")
	ticker := time.NewTicker(s.pausePoll)
	defer ticker.Stop()
	for s.reporter.IsPaused() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	s.logger.Info("Run resumed")
	return nil
}

func (s *Scraper) finish(sum Summary, start time.Time) Summary {
	sum.Duration = time.Since(start)
	s.logger.InfoWithFields("Run finished", map[string]interface{}{
		"processed": sum.Processed,
		"skipped":   sum.Skipped,
		"days":      sum.Days,
		"scraped":   sum.Scraped,
		"stale":     sum.Stale,
		"total":     sum.Total,
		"duration":  sum.Duration,
	})
	return sum
}
