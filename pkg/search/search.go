// Package search builds the per-day advanced search URLs for a handle.
package search

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the search endpoint queried for each day
const DefaultBaseURL = "https://twitter.com/search"

// DayLayout renders calendar dates as YYYY-MM-DD
const DayLayout = "2006-01-02"

// Query describes one search for a handle over a single day
type Query struct {
	BaseURL         string
	Handle          string
	Since           string
	Until           string
	IncludeRetweets bool
}

// Text returns the unescaped search expression
func (q Query) Text() string {
	text := fmt.Sprintf("from:%s since:%s until:%s", strings.ToLower(q.Handle), q.Since, q.Until)
	if q.IncludeRetweets {
		text += " include:retweets"
	}
	return text
}

// URL renders the query as a search page address
func (q Query) URL() string {
	base := q.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	escaped := strings.ReplaceAll(url.QueryEscape(q.Text()), "+", "%20")
	return base + "?f=tweets&vertical=default&q=" + escaped + "&src=typd"
}

// BuildURL returns the search URL for handle between since and until
func BuildURL(base, handle, since, until string, includeRetweets bool) string {
	return Query{
		BaseURL:         base,
		Handle:          handle,
		Since:           since,
		Until:           until,
		IncludeRetweets: includeRetweets,
	}.URL()
}

// FormatDay renders t as a zero padded calendar date
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD date in UTC
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t, nil
}
