package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tweetids/pkg/auth"
	"tweetids/pkg/browser"
	"tweetids/pkg/config"
	"tweetids/pkg/logger"
	"tweetids/pkg/scraper"
	"tweetids/pkg/ui"
	"tweetids/pkg/ui/tui"
)

var (
	// Scrape command flags
	resume         bool
	deleteOld      bool
	candidatesFile string
	checkpointFile string
	outputFile     string
	startDay       string
	endDay         string
	driver         string
	headless       bool
	accountName    string
	extractMode    string
	stopRule       string
	waitMode       string
	delay          time.Duration
	pageLoads      int
	useTUI         bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Collect tweet ids for every candidate in the input list",
	Long: `Collect tweet ids for every candidate in the candidate list.

Candidates are read one JSON object per line. Every candidate with a "twitter"
handle is searched day by day across the configured window. Candidates with an
empty handle are skipped.

Session cookies are taken from the stored account (see 'tweetids auth login')
or from TWEETIDS_AUTH_TOKEN and TWEETIDS_CT0.`,
	Example: `  # Start from the beginning with the default files
  tweetids scrape

  # Resume from the checkpoint after an interruption
  tweetids scrape --resume

  # Start over, removing the previous output and checkpoint
  tweetids scrape --delete-old

  # Search a different window with chromedp and wait for the page to settle
  tweetids scrape --start 2014-10-01 --end 2014-10-31 --driver chromedp --wait settle

  # Watch the run in the dashboard
  tweetids scrape --tui`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	f := scrapeCmd.Flags()
	f.BoolVar(&resume, "resume", false, "resume from the checkpoint instead of the candidate list")
	f.BoolVar(&deleteOld, "delete-old", false, "delete the previous output and checkpoint before starting")
	f.StringVar(&candidatesFile, "candidates", "", "candidate list (JSON lines)")
	f.StringVar(&checkpointFile, "checkpoint", "", "checkpoint file (JSON lines)")
	f.StringVarP(&outputFile, "output", "o", "", "output file (JSON array of ids)")
	f.StringVar(&startDay, "start", "", "first day to search (YYYY-MM-DD)")
	f.StringVar(&endDay, "end", "", "last day to search, inclusive (YYYY-MM-DD)")
	f.StringVar(&driver, "driver", "", "browser driver (rod, chromedp)")
	f.BoolVar(&headless, "headless", true, "run the browser without a window")
	f.StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	f.StringVar(&extractMode, "extract", "", "id extraction (dom, snapshot)")
	f.StringVar(&stopRule, "stop-rule", "", "scroll stop rule (threshold, growth)")
	f.StringVar(&waitMode, "wait", "", "page wait policy (fixed, settle)")
	f.DurationVar(&delay, "delay", 0, "fixed wait after each page load")
	f.IntVar(&pageLoads, "page-loads-per-minute", 0, "pace page loads, 0 disables pacing")
	f.BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")
}

// scrapeFlags collects the flags set on the command line
func scrapeFlags(cmd *cobra.Command) map[string]interface{} {
	flags := globalFlags(cmd)
	f := cmd.Flags()

	if resume {
		flags["resume"] = true
	}
	if f.Changed("delete-old") {
		flags["delete-old"] = deleteOld
	}
	if f.Changed("headless") {
		flags["headless"] = headless
	}
	if f.Changed("page-loads-per-minute") {
		flags["page-loads-per-minute"] = pageLoads
	}
	if f.Changed("delay") {
		flags["delay"] = delay
	}
	for key, value := range map[string]string{
		"candidates": candidatesFile,
		"checkpoint": checkpointFile,
		"output":     outputFile,
		"start":      startDay,
		"end":        endDay,
		"driver":     driver,
		"account":    accountName,
		"extract":    extractMode,
		"stop-rule":  stopRule,
		"wait":       waitMode,
	} {
		if value != "" {
			flags[key] = value
		}
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, scrapeFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// the dashboard owns the terminal
	if useTUI && cfg.Logging.File == "" {
		cfg.Logging.Level = "disabled"
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	runID := uuid.NewString()
	log := logger.WithRun(logger.GetLogger(), runID)
	log.WithField("version", version).Info("tweetids starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	account, err := resolveAccount(cfg)
	if err != nil {
		return err
	}
	if account != nil {
		log.WithField("account", account.Name).Info("Using stored session cookies")
		if cfg.Browser.UserAgent == "" {
			cfg.Browser.UserAgent = account.UserAgent
		}
	} else {
		log.Warn("No session cookies found, searching logged out")
	}

	session, err := browser.Open(ctx, cfg.Browser.Driver, browserOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Failed to close browser")
		}
	}()

	if account != nil {
		if err := session.SetCookies(ctx, account.Cookies()); err != nil {
			return fmt.Errorf("failed to install session cookies: %w", err)
		}
	}

	notifier := ui.NewNotifier()

	if useTUI {
		return runWithTUI(ctx, cfg, session, runID, notifier)
	}

	tracker := ui.NewStatusTracker(os.Stdout)
	var reporter ui.Reporter = tracker
	var progress *ui.ProgressDisplay
	if !quiet {
		progress = ui.NewProgressDisplay(cfg.Logging.Level == "debug")
		reporter = progress
	}

	s, err := scraper.New(cfg, session,
		scraper.WithRunID(runID),
		scraper.WithReporter(reporter),
	)
	if err != nil {
		return err
	}

	summary, err := runScraper(ctx, s)
	if progress != nil {
		progress.Complete()
	}
	notify(cfg, notifier, summary, err)
	if err != nil {
		return err
	}

	if quiet {
		fmt.Printf("done in %s, %.1f days/min\n", tracker.GetElapsedTime().Round(time.Second), tracker.GetDayRate())
		return nil
	}
	ui.PrintSuccess("[ALL DONE HERE]")
	ui.PrintInfo("Run", summary.RunID)
	ui.PrintInfo("Output", cfg.Files.Output)
	return nil
}

func runScraper(ctx context.Context, s *scraper.Scraper) (scraper.Summary, error) {
	cands, err := s.LoadCandidates()
	if err != nil {
		return scraper.Summary{RunID: s.RunID()}, err
	}
	return s.Run(ctx, cands)
}

// runWithTUI runs the scraper in the background while the dashboard owns the
// terminal. Quitting the dashboard cancels the run and a signal closes the
// dashboard.
func runWithTUI(ctx context.Context, cfg *config.Config, session browser.Session, runID string, notifier *ui.Notifier) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	terminal := tui.NewTUI()
	go func() {
		<-ctx.Done()
		terminal.Stop()
	}()

	s, err := scraper.New(cfg, session,
		scraper.WithRunID(runID),
		scraper.WithReporter(terminal),
	)
	if err != nil {
		return err
	}

	type result struct {
		summary scraper.Summary
		err     error
	}
	scraperDone := make(chan result, 1)
	go func() {
		summary, err := runScraper(ctx, s)
		terminal.Done(err)
		scraperDone <- result{summary, err}
	}()

	if err := terminal.Start(); err != nil {
		cancel()
		<-scraperDone
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	// the user quit the dashboard; stop the run if it is still going
	cancel()
	res := <-scraperDone
	notify(cfg, notifier, res.summary, res.err)
	if res.err != nil && !errors.Is(res.err, context.Canceled) {
		return res.err
	}
	if res.err == nil {
		ui.PrintSuccess(fmt.Sprintf("Collected %d tweet ids, %d stored in %s", res.summary.Scraped, res.summary.Total, cfg.Files.Output))
	}
	return nil
}

func notify(cfg *config.Config, notifier *ui.Notifier, summary scraper.Summary, err error) {
	if !cfg.Notifications.Enabled {
		return
	}
	switch {
	case errors.Is(err, context.Canceled):
		notifier.SendNotification("tweetids interrupted", fmt.Sprintf("%d candidates done, resume with --resume", summary.Processed))
	case err != nil && cfg.Notifications.OnError:
		notifier.SendError("tweetids failed", err.Error())
	case err == nil && cfg.Notifications.OnComplete:
		notifier.SendSuccess("tweetids finished", fmt.Sprintf("%d candidates, %d tweet ids stored", summary.Processed, summary.Total))
	}
}

// resolveAccount loads the session cookies. A named account must exist; with
// no name the default account is used when there is one.
func resolveAccount(cfg *config.Config) (*auth.Account, error) {
	manager, err := auth.NewManager()
	if err != nil {
		if cfg.Browser.Account != "" {
			return nil, fmt.Errorf("failed to initialize credential manager: %w", err)
		}
		logger.WithError(err).Warn("Credential manager unavailable")
		return nil, nil
	}

	account, err := manager.Resolve(cfg.Browser.Account)
	if err != nil {
		if cfg.Browser.Account != "" {
			return nil, fmt.Errorf("account %q: %w", cfg.Browser.Account, err)
		}
		return nil, nil
	}
	return account, nil
}

func browserOptions(cfg *config.Config) browser.Options {
	return browser.Options{
		Headless:          cfg.Browser.Headless,
		Bin:               cfg.Browser.Bin,
		Proxy:             cfg.Browser.Proxy,
		UserAgent:         cfg.Browser.UserAgent,
		Stealth:           cfg.Browser.Stealth,
		NavigationTimeout: cfg.Browser.NavigationTimeout,
	}
}
