// Package browsertest provides an in-memory browser.Session for tests.
package browsertest

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"tweetids/pkg/browser"
)

// Page scripts what a URL shows
type Page struct {
	// Counts is the number of stream items visible on each successive
	// Elements call. The last value repeats once the list is exhausted.
	Counts []int
	// IDs overrides the generated tweet identifiers, by item index
	IDs []string
	// Stale and Missing mark item indexes whose id lookup fails
	Stale   map[int]bool
	Missing map[int]bool
	// NavigateErr is returned by Navigate for this URL
	NavigateErr error
}

// Session is a scripted browser.Session
type Session struct {
	mu sync.Mutex

	Pages map[string]*Page
	// Default serves URLs with no entry in Pages
	Default *Page

	Navigations []string
	Scrolls     int
	Cookies     []browser.Cookie
	Closed      bool

	current *Page
	reads   int
}

// New creates an empty session where every page has no items
func New() *Session {
	return &Session{Pages: make(map[string]*Page)}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Navigations = append(s.Navigations, url)
	page, ok := s.Pages[url]
	if !ok {
		page = s.Default
	}
	if page == nil {
		page = &Page{}
	}
	if page.NavigateErr != nil {
		return page.NavigateErr
	}
	s.current = page
	s.reads = 0
	return nil
}

func (s *Session) count() int {
	if s.current == nil || len(s.current.Counts) == 0 {
		return 0
	}
	i := s.reads
	if i >= len(s.current.Counts) {
		i = len(s.current.Counts) - 1
	}
	return s.current.Counts[i]
}

// ID returns the identifier item i carries on the current page
func (p *Page) ID(i int) string {
	if p != nil && i < len(p.IDs) {
		return p.IDs[i]
	}
	return fmt.Sprintf("%d", 1000+i)
}

func (s *Session) Elements(ctx context.Context, selector string) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.count()
	s.reads++
	out := make([]browser.Element, n)
	for i := range out {
		out[i] = element{page: s.current, index: i}
	}
	return out, nil
}

func (s *Session) ScrollToBottom(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scrolls++
	return nil
}

// HTML renders the items visible on the next read with the classic
// timeline markup
func (s *Session) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString(`<html><body><ol id="stream-items-id">`)
	for i := 0; i < s.count(); i++ {
		if s.current.Missing[i] {
			b.WriteString(`<li class="js-stream-item"><div class="content"></div></li>`)
			continue
		}
		fmt.Fprintf(&b,
			`<li class="js-stream-item"><small class="time"><a class="tweet-timestamp" href="/user/status/%s">now</a></small></li>`,
			html.EscapeString(s.current.ID(i)))
	}
	b.WriteString(`</ol></body></html>`)
	return b.String(), nil
}

func (s *Session) SetCookies(ctx context.Context, cookies []browser.Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cookies = append(s.Cookies, cookies...)
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

type element struct {
	page  *Page
	index int
}

func (e element) Attribute(ctx context.Context, selector, name string) (string, error) {
	if e.page.Stale[e.index] {
		return "", browser.ErrStaleElement
	}
	if e.page.Missing[e.index] {
		return "", fmt.Errorf("%w: %s", browser.ErrNoSuchElement, selector)
	}
	if name != "href" {
		return "", fmt.Errorf("%w: %s[%s]", browser.ErrNoSuchElement, selector, name)
	}
	return "/user/status/" + e.page.ID(e.index), nil
}
