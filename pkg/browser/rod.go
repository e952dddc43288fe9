package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     Options
}

// NewRod launches Chrome through go-rod and opens a single page
func NewRod(ctx context.Context, opts Options) (Session, error) {
	l := launcher.New().Context(ctx).Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	if opts.Proxy != "" {
		l = l.Proxy(opts.Proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	var page *rod.Page
	if opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		b.Close()
		l.Kill()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: opts.UserAgent}); err != nil {
			b.Close()
			l.Kill()
			return nil, fmt.Errorf("set user agent: %w", err)
		}
	}

	return &rodSession{launcher: l, browser: b, page: page, opts: opts}, nil
}

func (s *rodSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := withTimeout(ctx, s.opts.NavigationTimeout)
	defer cancel()

	page := s.page.Context(navCtx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s: %w", url, err)
	}
	return nil
}

func (s *rodSession) Elements(ctx context.Context, selector string) ([]Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = rodElement{el: el}
	}
	return out, nil
}

func (s *rodSession) ScrollToBottom(ctx context.Context) error {
	if _, err := s.page.Context(ctx).Eval(`() => ` + scrollScript); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (s *rodSession) HTML(ctx context.Context) (string, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (s *rodSession) SetCookies(ctx context.Context, cookies []Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
		})
	}
	if err := s.page.Context(ctx).SetCookies(params); err != nil {
		return fmt.Errorf("set browser cookies: %w", err)
	}
	return nil
}

func (s *rodSession) Close() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			firstErr = fmt.Errorf("close page: %w", err)
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close browser: %w", err)
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return firstErr
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) Attribute(ctx context.Context, selector, name string) (string, error) {
	children, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return "", classify(err)
	}
	if len(children) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
	}
	value, err := children[0].Attribute(name)
	if err != nil {
		return "", classify(err)
	}
	if value == nil {
		return "", fmt.Errorf("%w: %s[%s]", ErrNoSuchElement, selector, name)
	}
	return *value, nil
}
