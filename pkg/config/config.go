package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tweetids/pkg/search"
)

// Config holds all configuration options for the tweet ID scraper
type Config struct {
	// Resume behaviour
	Run RunConfig `yaml:"run" json:"run"`

	// Input, checkpoint and output locations
	Files FilesConfig `yaml:"files" json:"files"`

	// Search query and date window
	Search SearchConfig `yaml:"search" json:"search"`

	// Browser session
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Page harvesting
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Synchronisation after navigation and scrolling
	Wait WaitConfig `yaml:"wait" json:"wait"`

	// Page load pacing
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Notification preferences
	Notifications NotificationConfig `yaml:"notifications" json:"notifications"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RunConfig selects where the candidate list comes from
type RunConfig struct {
	StartFromBeginning bool `yaml:"start_from_beginning" json:"start_from_beginning"`
	DeleteOld          bool `yaml:"delete_old" json:"delete_old"`
}

// FilesConfig holds the paths of the three files a run touches
type FilesConfig struct {
	Candidates string `yaml:"candidates" json:"candidates"`
	Checkpoint string `yaml:"checkpoint" json:"checkpoint"`
	Output     string `yaml:"output" json:"output"`
}

// SearchConfig holds the search endpoint and the date window
type SearchConfig struct {
	BaseURL         string `yaml:"base_url" json:"base_url"`
	Start           string `yaml:"start" json:"start"`
	End             string `yaml:"end" json:"end"`
	IncludeRetweets bool   `yaml:"include_retweets" json:"include_retweets"`
}

// BrowserConfig holds browser launch options
type BrowserConfig struct {
	Driver            string        `yaml:"driver" json:"driver"`
	Headless          bool          `yaml:"headless" json:"headless"`
	Bin               string        `yaml:"bin" json:"bin"`
	Proxy             string        `yaml:"proxy" json:"proxy"`
	Stealth           bool          `yaml:"stealth" json:"stealth"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	Account           string        `yaml:"account" json:"account"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
}

// HarvestConfig holds selectors and the scroll heuristic
type HarvestConfig struct {
	TweetSelector string `yaml:"tweet_selector" json:"tweet_selector"`
	IDSelector    string `yaml:"id_selector" json:"id_selector"`
	IDAttribute   string `yaml:"id_attribute" json:"id_attribute"`
	Extract       string `yaml:"extract" json:"extract"`
	StopRule      string `yaml:"stop_rule" json:"stop_rule"`
	ThresholdStep int    `yaml:"threshold_step" json:"threshold_step"`
	MaxScrolls    int    `yaml:"max_scrolls" json:"max_scrolls"`
}

// WaitConfig holds the wait policy used after navigation and each scroll
type WaitConfig struct {
	Mode         string        `yaml:"mode" json:"mode"`
	Delay        time.Duration `yaml:"delay" json:"delay"`
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`
	StablePolls  int           `yaml:"stable_polls" json:"stable_polls"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds page load pacing. Zero disables pacing.
type RateLimitConfig struct {
	PageLoadsPerMinute int    `yaml:"page_loads_per_minute" json:"page_loads_per_minute"`
	Strategy           string `yaml:"strategy" json:"strategy"`
}

// NotificationConfig holds notification preferences
type NotificationConfig struct {
	Enabled    bool `yaml:"enabled" json:"enabled"`
	OnComplete bool `yaml:"on_complete" json:"on_complete"`
	OnError    bool `yaml:"on_error" json:"on_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config laid out for the data/tweets directory
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			StartFromBeginning: true,
			DeleteOld:          false,
		},
		Files: FilesConfig{
			Candidates: "data/tweets/2014_us_gubernatorial_election_candidates_with_twitter.jsonlist",
			Checkpoint: "data/tweets/handle_left.jsonlist",
			Output:     "data/tweets/all_tweet_ids.json",
		},
		Search: SearchConfig{
			BaseURL:         "https://twitter.com/search",
			Start:           "2014-08-03",
			End:             "2014-11-03",
			IncludeRetweets: true,
		},
		Browser: BrowserConfig{
			Driver:            "rod",
			Headless:          true,
			Stealth:           true,
			NavigationTimeout: 60 * time.Second,
		},
		Harvest: HarvestConfig{
			TweetSelector: "li.js-stream-item",
			IDSelector:    ".time a.tweet-timestamp",
			IDAttribute:   "href",
			Extract:       "dom",
			StopRule:      "threshold",
			ThresholdStep: 10,
			MaxScrolls:    0,
		},
		Wait: WaitConfig{
			Mode:         "fixed",
			Delay:        time.Second,
			PollInterval: 250 * time.Millisecond,
			StablePolls:  3,
			Timeout:      10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			PageLoadsPerMinute: 0,
			Strategy:           "sliding",
		},
		Notifications: NotificationConfig{
			Enabled:    false,
			OnComplete: true,
			OnError:    true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv("TWEETIDS_START_FROM_BEGINNING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TWEETIDS_START_FROM_BEGINNING: %w", err))
		} else {
			c.Run.StartFromBeginning = b
		}
	}
	if v := os.Getenv("TWEETIDS_DELETE_OLD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TWEETIDS_DELETE_OLD: %w", err))
		} else {
			c.Run.DeleteOld = b
		}
	}

	// Files
	if v := os.Getenv("TWEETIDS_CANDIDATES"); v != "" {
		c.Files.Candidates = v
	}
	if v := os.Getenv("TWEETIDS_CHECKPOINT"); v != "" {
		c.Files.Checkpoint = v
	}
	if v := os.Getenv("TWEETIDS_OUTPUT"); v != "" {
		c.Files.Output = v
	}

	// Search window
	if v := os.Getenv("TWEETIDS_START"); v != "" {
		c.Search.Start = v
	}
	if v := os.Getenv("TWEETIDS_END"); v != "" {
		c.Search.End = v
	}

	// Browser
	if v := os.Getenv("TWEETIDS_DRIVER"); v != "" {
		c.Browser.Driver = v
	}
	if v := os.Getenv("TWEETIDS_BROWSER_BIN"); v != "" {
		c.Browser.Bin = v
	}
	if v := os.Getenv("TWEETIDS_PROXY"); v != "" {
		c.Browser.Proxy = v
	}
	if v := os.Getenv("TWEETIDS_USER_AGENT"); v != "" {
		c.Browser.UserAgent = v
	}
	if v := os.Getenv("TWEETIDS_HEADLESS"); v != "" {
		c.Browser.Headless = strings.ToLower(v) == "true"
	}

	// Wait policy
	if v := os.Getenv("TWEETIDS_WAIT_MODE"); v != "" {
		c.Wait.Mode = v
	}
	if v := os.Getenv("TWEETIDS_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TWEETIDS_DELAY: %w", err))
		} else {
			c.Wait.Delay = d
		}
	}

	if v := os.Getenv("TWEETIDS_PAGE_LOADS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TWEETIDS_PAGE_LOADS_PER_MINUTE: %w", err))
		} else {
			c.RateLimit.PageLoadsPerMinute = n
		}
	}

	if v := os.Getenv("TWEETIDS_RATE_LIMIT_STRATEGY"); v != "" {
		c.RateLimit.Strategy = v
	}

	if v := os.Getenv("TWEETIDS_NOTIFICATIONS_ENABLED"); v != "" {
		c.Notifications.Enabled = strings.ToLower(v) == "true"
	}

	if v := os.Getenv("TWEETIDS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TWEETIDS_LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".tweetids.yaml",
		".tweetids.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tweetids", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tweetids", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Window parses the configured search window bounds
func (c *Config) Window() (search.Window, error) {
	w, err := search.NewWindow(c.Search.Start, c.Search.End)
	if err != nil {
		return search.Window{}, fmt.Errorf("invalid search window: %w", err)
	}
	return w, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Files
	if c.Run.StartFromBeginning && c.Files.Candidates == "" {
		errs = append(errs, errors.New("candidates file is required"))
	}
	if c.Files.Checkpoint == "" {
		errs = append(errs, errors.New("checkpoint file is required"))
	}
	if c.Files.Output == "" {
		errs = append(errs, errors.New("output file is required"))
	}

	// Search window
	if c.Search.BaseURL == "" {
		errs = append(errs, errors.New("search base URL is required"))
	}
	if _, err := c.Window(); err != nil {
		errs = append(errs, err)
	}

	// Browser
	validDrivers := map[string]bool{"rod": true, "chromedp": true}
	if !validDrivers[strings.ToLower(c.Browser.Driver)] {
		errs = append(errs, fmt.Errorf("invalid browser driver %q", c.Browser.Driver))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}

	// Harvest
	if c.Harvest.TweetSelector == "" || c.Harvest.IDSelector == "" {
		errs = append(errs, errors.New("tweet and id selectors are required"))
	}
	if c.Harvest.IDAttribute == "" {
		errs = append(errs, errors.New("id attribute is required"))
	}
	validExtract := map[string]bool{"dom": true, "snapshot": true}
	if !validExtract[strings.ToLower(c.Harvest.Extract)] {
		errs = append(errs, fmt.Errorf("invalid extract mode %q", c.Harvest.Extract))
	}
	validStop := map[string]bool{"threshold": true, "growth": true}
	if !validStop[strings.ToLower(c.Harvest.StopRule)] {
		errs = append(errs, fmt.Errorf("invalid stop rule %q", c.Harvest.StopRule))
	}
	if c.Harvest.ThresholdStep <= 0 {
		errs = append(errs, errors.New("threshold step must be positive"))
	}
	if c.Harvest.MaxScrolls < 0 {
		errs = append(errs, errors.New("max scrolls cannot be negative"))
	}

	// Wait policy
	switch strings.ToLower(c.Wait.Mode) {
	case "fixed":
		if c.Wait.Delay < 0 {
			errs = append(errs, errors.New("wait delay cannot be negative"))
		}
	case "settle":
		if c.Wait.PollInterval <= 0 {
			errs = append(errs, errors.New("poll interval must be positive"))
		}
		if c.Wait.StablePolls <= 0 {
			errs = append(errs, errors.New("stable polls must be positive"))
		}
		if c.Wait.Timeout <= 0 {
			errs = append(errs, errors.New("wait timeout must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid wait mode %q", c.Wait.Mode))
	}

	if c.RateLimit.PageLoadsPerMinute < 0 {
		errs = append(errs, errors.New("page loads per minute cannot be negative"))
	}
	if s := c.RateLimit.Strategy; s != "" && s != "sliding" && s != "bucket" {
		errs = append(errs, fmt.Errorf("invalid rate limit strategy %q", s))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only keys present in the map override the loaded values.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["resume"].(bool); ok && v {
		c.Run.StartFromBeginning = false
	}
	if v, ok := flags["delete-old"].(bool); ok {
		c.Run.DeleteOld = v
	}
	if v, ok := flags["candidates"].(string); ok && v != "" {
		c.Files.Candidates = v
	}
	if v, ok := flags["checkpoint"].(string); ok && v != "" {
		c.Files.Checkpoint = v
	}
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Files.Output = v
	}
	if v, ok := flags["start"].(string); ok && v != "" {
		c.Search.Start = v
	}
	if v, ok := flags["end"].(string); ok && v != "" {
		c.Search.End = v
	}
	if v, ok := flags["driver"].(string); ok && v != "" {
		c.Browser.Driver = v
	}
	if v, ok := flags["headless"].(bool); ok {
		c.Browser.Headless = v
	}
	if v, ok := flags["account"].(string); ok && v != "" {
		c.Browser.Account = v
	}
	if v, ok := flags["extract"].(string); ok && v != "" {
		c.Harvest.Extract = v
	}
	if v, ok := flags["stop-rule"].(string); ok && v != "" {
		c.Harvest.StopRule = v
	}
	if v, ok := flags["wait"].(string); ok && v != "" {
		c.Wait.Mode = v
	}
	if v, ok := flags["delay"].(time.Duration); ok {
		c.Wait.Delay = v
	}
	if v, ok := flags["page-loads-per-minute"].(int); ok && v >= 0 {
		c.RateLimit.PageLoadsPerMinute = v
	}
	if v, ok := flags["notifications"].(bool); ok {
		c.Notifications.Enabled = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tweetids.env"))

	// Start with defaults
	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
