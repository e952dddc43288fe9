package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowCookieExtractionGuide writes step by step instructions for copying the
// session cookies out of a logged in browser
func ShowCookieExtractionGuide(w io.Writer) {
	rule := strings.Repeat("=", 80)
	lines := []string{
		rule,
		"TWITTER COOKIE EXTRACTION GUIDE",
		rule,
		"",
		"Search pages only list older tweets for logged in sessions.",
		"tweetids restores your session in the automated browser from two cookies.",
		"",
		"STEP 1: Log in at https://twitter.com in your usual browser",
		"",
		"STEP 2: Open Developer Tools",
		"   Chrome/Edge/Brave/Firefox: F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)",
		"   Safari: enable the Develop menu in Preferences, then Cmd+Option+I",
		"",
		"STEP 3: Open Application > Cookies (Chrome) or Storage > Cookies (Firefox)",
		"        and select https://twitter.com",
		"",
		"STEP 4: Copy these values:",
		"   auth_token   40 hex characters, marked HttpOnly",
		"   ct0          long hex string used as the CSRF token",
		"",
		"TIPS:",
		"   Copy only the value, without quotes or semicolons",
		"   Logging out in the browser invalidates both cookies",
		"",
		"SECURITY WARNING:",
		"   auth_token gives full access to the account. Never share it.",
		rule,
		"",
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// ShowQuickExtractGuide writes a condensed version for experienced users
func ShowQuickExtractGuide(w io.Writer) {
	fmt.Fprintln(w, "\nQuick guide: F12 > Application > Cookies > https://twitter.com")
	fmt.Fprintln(w, "   Need: auth_token and ct0")
	fmt.Fprintln(w, "   Type 'help' for detailed instructions")
}
