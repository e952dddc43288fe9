package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tweetids/pkg/auth"
	"tweetids/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the session cookies used by the browser",
	Long: `Manage stored session cookies.

Cookies are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables TWEETIDS_AUTH_TOKEN and TWEETIDS_CT0 (read only)

Never share your cookies or credential files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store session cookies securely",
	Long: `Store the auth_token and ct0 cookies of a logged in browser under a name.

You will be prompted for:
  - Account name (if not provided)
  - auth_token cookie
  - ct0 cookie
  - User Agent (optional, press Enter to keep the browser default)`,
	Example: `  # Interactive login
  tweetids auth login

  # Login under a name
  tweetids auth login research`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout <name>",
	Short: "Remove stored cookies",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked cookie values.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)
	auth.ShowCookieExtractionGuide(os.Stdout)

	if name == "" {
		fmt.Print("Account name: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read account name: %w", err)
		}
		name = strings.TrimSpace(input)
	}
	if name == "" {
		return fmt.Errorf("account name is required")
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\nAccount '%s' already exists. Update cookies? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return nil
		}
	}

	fmt.Println("\nEnter the cookie values (input is hidden):")

	authToken, err := promptCookie(reader, "auth_token", func(v string) bool {
		return len(v) >= 32 && isHex(v)
	}, "auth_token is a hex string of about 40 characters")
	if err != nil {
		return err
	}

	ct0, err := promptCookie(reader, "ct0", func(v string) bool {
		return len(v) >= 32
	}, "ct0 is a long hex string")
	if err != nil {
		return err
	}

	fmt.Print("\nUser Agent (press Enter to use the browser default): ")
	userAgent, _ := reader.ReadString('\n')

	account := &auth.Account{
		Name:      name,
		AuthToken: authToken,
		CT0:       ct0,
		UserAgent: strings.TrimSpace(userAgent),
	}
	if err := manager.Store(account); err != nil {
		return fmt.Errorf("failed to store cookies: %w", err)
	}

	sanitized := auth.SanitizeAccount(account)
	ui.PrintSuccess("Account saved: " + name)
	ui.PrintInfo("auth_token", sanitized.AuthToken)
	ui.PrintInfo("ct0", sanitized.CT0)
	fmt.Printf("\nUse it with:\n  tweetids scrape --account %s\n", name)
	return nil
}

// promptCookie reads a hidden value until valid accepts it or the user gives up
func promptCookie(reader *bufio.Reader, label string, valid func(string) bool, hint string) (string, error) {
	for {
		fmt.Printf("%s cookie value: ", label)
		value, err := readPassword(reader)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", label, err)
		}
		if valid(value) {
			return value, nil
		}

		ui.PrintWarning("That doesn't look like a valid " + label)
		fmt.Println("   " + hint)
		fmt.Print("Try again? (Y/n): ")
		retry, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(retry)) == "n" {
			return "", fmt.Errorf("no valid %s entered", label)
		}
	}
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to remove account: %w", err)
	}
	ui.PrintSuccess("Account removed: " + args[0])
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	accounts, err := manager.List()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'tweetids auth login' to add one")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. %s\n", i+1, sanitized.Name)
		fmt.Printf("   auth_token: %s\n", sanitized.AuthToken)
		fmt.Printf("   ct0: %s\n", sanitized.CT0)
		if sanitized.UserAgent != "" {
			fmt.Printf("   User Agent: %s\n", sanitized.UserAgent)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
	return nil
}

// readPassword reads a value from stdin without echo when stdin is a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
