package harvest

import (
	"context"
	"errors"
	"time"

	"tweetids/pkg/browser"
	"tweetids/pkg/config"
	errs "tweetids/pkg/errors"
	"tweetids/pkg/logger"
	"tweetids/pkg/ratelimit"
)

// Extraction modes
const (
	ModeDOM      = "dom"
	ModeSnapshot = "snapshot"
)

// Options controls how a page is harvested
type Options struct {
	TweetSelector string
	IDSelector    string
	IDAttribute   string
	Extract       string
	Stop          StopRule
	// MaxScrolls caps the scroll loop; zero means no cap
	MaxScrolls int
	Wait       WaitPolicy
	// Limiter paces navigations when set
	Limiter ratelimit.Limiter
}

// OptionsFromConfig assembles Options from the harvest, wait and rate limit
// sections of the configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	stop, err := ParseStopRule(cfg.Harvest.StopRule, cfg.Harvest.ThresholdStep)
	if err != nil {
		return Options{}, err
	}
	wait, err := NewWaitPolicy(cfg.Wait)
	if err != nil {
		return Options{}, err
	}
	return Options{
		TweetSelector: cfg.Harvest.TweetSelector,
		IDSelector:    cfg.Harvest.IDSelector,
		IDAttribute:   cfg.Harvest.IDAttribute,
		Extract:       cfg.Harvest.Extract,
		Stop:          stop,
		MaxScrolls:    cfg.Harvest.MaxScrolls,
		Wait:          wait,
		Limiter:       ratelimit.ForPageLoads(cfg.RateLimit.PageLoadsPerMinute, cfg.RateLimit.Strategy),
	}, nil
}

// DayResult is the outcome of harvesting one search page
type DayResult struct {
	URL     string
	Found   int
	IDs     []string
	Stale   int
	Missing int
	Scrolls int
}

// Harvester reads tweet identifiers off search pages through one session
type Harvester struct {
	session browser.Session
	opts    Options
	logger  logger.Logger
}

// New creates a Harvester. Unset options fall back to the classic timeline
// selectors, the threshold rule and a one second delay.
func New(session browser.Session, opts Options, log logger.Logger) *Harvester {
	if opts.TweetSelector == "" {
		opts.TweetSelector = "li.js-stream-item"
	}
	if opts.IDSelector == "" {
		opts.IDSelector = ".time a.tweet-timestamp"
	}
	if opts.IDAttribute == "" {
		opts.IDAttribute = "href"
	}
	if opts.Extract == "" {
		opts.Extract = ModeDOM
	}
	if opts.Stop == nil {
		opts.Stop = ThresholdRule(10)
	}
	if opts.Wait == nil {
		opts.Wait = FixedDelay(time.Second)
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Harvester{session: session, opts: opts, logger: log}
}

func (h *Harvester) count(ctx context.Context) (int, error) {
	els, err := h.session.Elements(ctx, h.opts.TweetSelector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// HarvestDay loads url, scrolls until the stop rule ends the loop and
// extracts the identifiers of every item. Navigation failures are returned;
// per item failures are counted in the result.
func (h *Harvester) HarvestDay(ctx context.Context, url string) (DayResult, error) {
	res := DayResult{URL: url}

	if h.opts.Limiter != nil {
		start := time.Now()
		if err := h.opts.Limiter.Wait(ctx); err != nil {
			return res, err
		}
		if waited := time.Since(start); waited > 10*time.Millisecond {
			logger.LogRateLimit(h.logger, waited)
		}
	}

	if err := h.session.Navigate(ctx, url); err != nil {
		return res, errs.New(errs.ErrorTypeNavigation, "navigate", err)
	}
	if err := h.opts.Wait.Wait(ctx, h.count); err != nil {
		return res, h.browserErr("wait for page", err)
	}

	found, err := h.session.Elements(ctx, h.opts.TweetSelector)
	if err != nil {
		return res, h.browserErr("find tweets", err)
	}

	previous := 0
	for h.opts.Stop(res.Scrolls, previous, len(found)) {
		if h.opts.MaxScrolls > 0 && res.Scrolls >= h.opts.MaxScrolls {
			break
		}
		if err := h.session.ScrollToBottom(ctx); err != nil {
			return res, h.browserErr("scroll", err)
		}
		res.Scrolls++
		if err := h.opts.Wait.Wait(ctx, h.count); err != nil {
			return res, h.browserErr("wait after scroll", err)
		}
		previous = len(found)
		found, err = h.session.Elements(ctx, h.opts.TweetSelector)
		if err != nil {
			return res, h.browserErr("find tweets", err)
		}
	}

	res.Found = len(found)
	if res.Found == 0 {
		h.logger.InfoWithFields("No tweets on this day", map[string]interface{}{"url": url})
		return res, nil
	}

	if h.opts.Extract == ModeSnapshot {
		return h.extractSnapshot(ctx, res)
	}
	return h.extractDOM(ctx, res, found)
}

func (h *Harvester) extractDOM(ctx context.Context, res DayResult, found []browser.Element) (DayResult, error) {
	for i, el := range found {
		href, err := el.Attribute(ctx, h.opts.IDSelector, h.opts.IDAttribute)
		switch {
		case err == nil:
		case errors.Is(err, browser.ErrStaleElement):
			res.Stale++
			h.logger.WarnWithFields("Lost element reference", map[string]interface{}{
				"url":   res.URL,
				"index": i,
			})
			continue
		case errors.Is(err, browser.ErrNoSuchElement):
			res.Missing++
			h.logger.DebugWithFields("Item has no id link", map[string]interface{}{
				"url":   res.URL,
				"index": i,
			})
			continue
		default:
			return res, h.browserErr("read tweet id", err)
		}

		id := lastSegment(href)
		if id == "" {
			res.Missing++
			continue
		}
		res.IDs = append(res.IDs, id)
	}
	return res, nil
}

func (h *Harvester) extractSnapshot(ctx context.Context, res DayResult) (DayResult, error) {
	html, err := h.session.HTML(ctx)
	if err != nil {
		return res, h.browserErr("snapshot page", err)
	}
	snap, err := ExtractSnapshot(html, h.opts.TweetSelector, h.opts.IDSelector, h.opts.IDAttribute)
	if err != nil {
		return res, errs.New(errs.ErrorTypeParsing, "snapshot page", err)
	}
	if snap.Found != res.Found {
		h.logger.DebugWithFields("Snapshot count differs from live count", map[string]interface{}{
			"live":     res.Found,
			"snapshot": snap.Found,
		})
	}
	res.IDs = snap.IDs
	res.Missing = snap.Missing
	return res, nil
}

func (h *Harvester) browserErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errs.New(errs.ErrorTypeBrowser, op, err)
}
