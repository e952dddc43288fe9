// Package browser drives a real Chrome instance for the scraper.
//
// The scraper only sees the Session and Element interfaces. Two drivers
// implement them: go-rod (the default, with optional stealth patches) and
// chromedp. Driver errors that mean "the node went away" are reported as
// ErrStaleElement so callers can skip the item instead of failing the run.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrStaleElement means an element handle no longer refers to a live node
	ErrStaleElement = errors.New("stale element reference")
	// ErrNoSuchElement means a nested selector matched nothing
	ErrNoSuchElement = errors.New("no such element")
	// ErrUnknownDriver is returned by Open for an unsupported driver name
	ErrUnknownDriver = errors.New("unknown browser driver")
)

// Session is one browser tab
type Session interface {
	Navigate(ctx context.Context, url string) error
	// Elements returns the current matches for selector without waiting
	Elements(ctx context.Context, selector string) ([]Element, error)
	ScrollToBottom(ctx context.Context) error
	HTML(ctx context.Context) (string, error)
	SetCookies(ctx context.Context, cookies []Cookie) error
	Close() error
}

// Element is a handle to a node returned by Session.Elements
type Element interface {
	// Attribute reads attribute name of the first descendant matching selector
	Attribute(ctx context.Context, selector, name string) (string, error)
}

// Cookie is a browser cookie to install before navigating
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
}

// Options configures a browser launch
type Options struct {
	Headless          bool
	Bin               string
	Proxy             string
	UserAgent         string
	Stealth           bool
	NavigationTimeout time.Duration
}

// Driver names accepted by Open
const (
	DriverRod      = "rod"
	DriverChromedp = "chromedp"
)

// Open launches the named driver
func Open(ctx context.Context, driver string, opts Options) (Session, error) {
	switch strings.ToLower(driver) {
	case DriverRod, "":
		return NewRod(ctx, opts)
	case DriverChromedp:
		return NewChromedp(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

var staleMarkers = []string{
	"could not find object",
	"cannot find context",
	"no node with given id",
	"could not find node with given id",
	"node is detached",
	"node with given id does not belong to the document",
	"object reference chain is too long",
}

// IsStale reports whether a driver error means the node is gone
func IsStale(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStaleElement) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range staleMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// classify maps driver errors onto the package sentinels
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if IsStale(err) && !errors.Is(err, ErrStaleElement) {
		return fmt.Errorf("%w: %v", ErrStaleElement, err)
	}
	return err
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

const scrollScript = `window.scrollTo(0, document.body.scrollHeight)`
