package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tweetids/pkg/config"
	"tweetids/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage tweetids configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TWEETIDS_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	Long: `Write a configuration file holding every option at its default value.

The file is created as '.tweetids.yaml' in the current directory unless a
different path is given with --config.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from every source and report all problems at once.

This command checks:
  - YAML syntax
  - Search window dates
  - Driver, extraction, stop rule and wait mode names
  - Value ranges`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".tweetids.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Point files.candidates at your candidate list")
	fmt.Println("2. Run 'tweetids config validate' to check the configuration")
	fmt.Println("3. Store session cookies with 'tweetids auth login'")
	fmt.Println("4. Start with 'tweetids scrape'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TWEETIDS_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags(cmd))
	if err != nil {
		ui.PrintError("Configuration has errors", "")
		return err
	}

	var warnings []string
	if _, err := os.Stat(cfg.Files.Candidates); cfg.Run.StartFromBeginning && err != nil {
		warnings = append(warnings, fmt.Sprintf("candidate list not readable: %v", err))
	}
	if _, err := os.Stat(cfg.Files.Checkpoint); !cfg.Run.StartFromBeginning && err != nil {
		warnings = append(warnings, fmt.Sprintf("checkpoint not readable: %v", err))
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	window, _ := cfg.Window()
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Candidates: %s\n", cfg.Files.Candidates)
	fmt.Printf("  Output: %s\n", cfg.Files.Output)
	fmt.Printf("  Window: %s to %s (%d days)\n", cfg.Search.Start, cfg.Search.End, window.Len())
	fmt.Printf("  Driver: %s\n", cfg.Browser.Driver)
	fmt.Printf("  Extract: %s, stop rule: %s, wait: %s\n", cfg.Harvest.Extract, cfg.Harvest.StopRule, cfg.Wait.Mode)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
