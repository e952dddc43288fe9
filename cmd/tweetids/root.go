package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"tweetids/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	notifications bool
	quiet         bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tweetids",
	Short: "Collect tweet ids for a list of accounts, one search day at a time",
	Long: `tweetids drives a real browser through the Twitter search page to collect the
ids of every tweet a list of accounts posted within a date range.

Each account is searched one calendar day at a time. Results are merged into a
single JSON array of ids and a checkpoint of the remaining accounts is written
after every account, so an interrupted run can be resumed with --resume.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet {
			logLevel = "error"
		}
		if !quiet && cmd.Name() != "version" && cmd.Name() != "help" && !tuiEnabled(cmd) {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .tweetids.yaml or ~/.config/tweetids/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", false, "enable desktop notifications")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`tweetids {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// globalFlags returns the persistent flags the user set explicitly
func globalFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if cmd.Flags().Changed("notifications") {
		flags["notifications"] = notifications
	}
	return flags
}

func tuiEnabled(cmd *cobra.Command) bool {
	f := cmd.Flags().Lookup("tui")
	return f != nil && f.Value.String() == "true"
}
