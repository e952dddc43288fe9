package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.Run.StartFromBeginning)
	assert.False(t, config.Run.DeleteOld)
	assert.Equal(t, "2014-08-03", config.Search.Start)
	assert.Equal(t, "2014-11-03", config.Search.End)
	assert.Equal(t, "li.js-stream-item", config.Harvest.TweetSelector)
	assert.Equal(t, ".time a.tweet-timestamp", config.Harvest.IDSelector)
	assert.Equal(t, 10, config.Harvest.ThresholdStep)
	assert.Equal(t, "fixed", config.Wait.Mode)
	assert.Equal(t, time.Second, config.Wait.Delay)
	assert.Equal(t, "rod", config.Browser.Driver)

	require.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TWEETIDS_START_FROM_BEGINNING", "false")
	t.Setenv("TWEETIDS_DELETE_OLD", "true")
	t.Setenv("TWEETIDS_OUTPUT", "/tmp/ids.json")
	t.Setenv("TWEETIDS_START", "2014-09-01")
	t.Setenv("TWEETIDS_DRIVER", "chromedp")
	t.Setenv("TWEETIDS_DELAY", "2500ms")
	t.Setenv("TWEETIDS_PAGE_LOADS_PER_MINUTE", "30")
	t.Setenv("TWEETIDS_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.False(t, config.Run.StartFromBeginning)
	assert.True(t, config.Run.DeleteOld)
	assert.Equal(t, "/tmp/ids.json", config.Files.Output)
	assert.Equal(t, "2014-09-01", config.Search.Start)
	assert.Equal(t, "chromedp", config.Browser.Driver)
	assert.Equal(t, 2500*time.Millisecond, config.Wait.Delay)
	assert.Equal(t, 30, config.RateLimit.PageLoadsPerMinute)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("TWEETIDS_DELETE_OLD", "sometimes")
	t.Setenv("TWEETIDS_DELAY", "soon")
	t.Setenv("TWEETIDS_PAGE_LOADS_PER_MINUTE", "lots")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TWEETIDS_DELETE_OLD")
	assert.Contains(t, err.Error(), "TWEETIDS_DELAY")
	assert.Contains(t, err.Error(), "TWEETIDS_PAGE_LOADS_PER_MINUTE")
	assert.Equal(t, 0, config.RateLimit.PageLoadsPerMinute)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{
			name:    "end before start",
			mutate:  func(c *Config) { c.Search.End = "2014-08-01" },
			wantErr: "is before start",
		},
		{
			name:    "malformed start",
			mutate:  func(c *Config) { c.Search.Start = "08/03/2014" },
			wantErr: "invalid search window",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Browser.Driver = "safari" },
			wantErr: "invalid browser driver",
		},
		{
			name:    "unknown stop rule",
			mutate:  func(c *Config) { c.Harvest.StopRule = "never" },
			wantErr: "invalid stop rule",
		},
		{
			name: "settle without poll interval",
			mutate: func(c *Config) {
				c.Wait.Mode = "settle"
				c.Wait.PollInterval = 0
			},
			wantErr: "poll interval",
		},
		{
			name:    "resume does not need candidates file",
			mutate:  func(c *Config) { c.Run.StartFromBeginning = false; c.Files.Candidates = "" },
			wantErr: "",
		},
		{
			name:    "invalid rate limit strategy",
			mutate:  func(c *Config) { c.RateLimit.Strategy = "leaky" },
			wantErr: "rate limit strategy",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	config.MergeCommandLineFlags(map[string]interface{}{
		"resume":     true,
		"delete-old": true,
		"output":     "/flag/ids.json",
		"end":        "2014-08-10",
		"extract":    "snapshot",
		"wait":       "settle",
		"delay":      3 * time.Second,
		"headless":   false,
		"log-level":  "error",
	})

	assert.False(t, config.Run.StartFromBeginning)
	assert.True(t, config.Run.DeleteOld)
	assert.Equal(t, "/flag/ids.json", config.Files.Output)
	assert.Equal(t, "2014-08-10", config.Search.End)
	assert.Equal(t, "snapshot", config.Harvest.Extract)
	assert.Equal(t, "settle", config.Wait.Mode)
	assert.Equal(t, 3*time.Second, config.Wait.Delay)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, "error", config.Logging.Level)
}

func TestMergeCommandLineFlagsZeroDelay(t *testing.T) {
	config := DefaultConfig()
	require.Equal(t, time.Second, config.Wait.Delay)

	config.MergeCommandLineFlags(map[string]interface{}{"delay": time.Duration(0)})
	assert.Equal(t, time.Duration(0), config.Wait.Delay)
	assert.NoError(t, config.Validate())

	config.MergeCommandLineFlags(map[string]interface{}{})
	assert.Equal(t, time.Duration(0), config.Wait.Delay)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "tweetids.yaml")

	config := DefaultConfig()
	config.Files.Output = "out/ids.json"
	config.Harvest.StopRule = "growth"
	config.Wait.Delay = 1500 * time.Millisecond

	require.NoError(t, config.Save(configPath))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, "out/ids.json", loaded.Files.Output)
	assert.Equal(t, "growth", loaded.Harvest.StopRule)
	assert.Equal(t, 1500*time.Millisecond, loaded.Wait.Delay)
}

func TestLoadFromFilePartialYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")
	content := `
search:
  start: "2014-10-01"
  end: "2014-10-31"
wait:
  mode: settle
  timeout: 5s
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(configPath))

	assert.Equal(t, "2014-10-01", config.Search.Start)
	assert.Equal(t, "settle", config.Wait.Mode)
	assert.Equal(t, 5*time.Second, config.Wait.Timeout)
	// Untouched sections keep their defaults
	assert.Equal(t, "li.js-stream-item", config.Harvest.TweetSelector)
	assert.Equal(t, 3, config.Wait.StablePolls)
}

func TestLoadPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "tweetids.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("logging:\n  level: warn\nfiles:\n  output: file.json\n"), 0644))
	t.Setenv("TWEETIDS_OUTPUT", "env.json")

	config, err := Load(configPath, map[string]interface{}{"log-level": "debug"})
	require.NoError(t, err)

	assert.Equal(t, "env.json", config.Files.Output)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestWindow(t *testing.T) {
	config := DefaultConfig()
	w, err := config.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2014, 8, 3, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2014, 11, 3, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, time.UTC, w.Start.Location())
	assert.Equal(t, 93, w.Len())

	config.Search.Start = "2014-8-3"
	_, err = config.Window()
	assert.ErrorContains(t, err, "invalid search window")
}
