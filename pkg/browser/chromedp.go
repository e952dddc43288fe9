package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type chromedpSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
}

// NewChromedp launches Chrome through chromedp. The browser outlives ctx
// until Close is called.
func NewChromedp(ctx context.Context, opts Options) (Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.Bin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.Bin))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	s := &chromedpSession{ctx: tabCtx, cancel: cancel, allocCancel: allocCancel, opts: opts}
	// the browser lives as long as the context of the first Run, so start
	// it on the tab context rather than ctx
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	if err := ctx.Err(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// run executes actions on the tab and aborts them when ctx is done
func (s *chromedpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := withTimeout(ctx, s.opts.NavigationTimeout)
	defer cancel()

	if err := s.run(navCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *chromedpSession) Elements(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	if err := s.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, classify(err)
	}
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = chromedpElement{session: s, node: n}
	}
	return out, nil
}

func (s *chromedpSession) ScrollToBottom(ctx context.Context) error {
	if err := s.run(ctx, chromedp.Evaluate(scrollScript, nil)); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (s *chromedpSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (s *chromedpSession) SetCookies(ctx context.Context, cookies []Cookie) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			err := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("cookie %q: %w", c.Name, err)
			}
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("set browser cookies: %w", err)
	}
	return nil
}

func (s *chromedpSession) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	return nil
}

type chromedpElement struct {
	session *chromedpSession
	node    *cdp.Node
}

func (e chromedpElement) Attribute(ctx context.Context, selector, name string) (string, error) {
	var children []*cdp.Node
	err := e.session.run(ctx, chromedp.Nodes(selector, &children,
		chromedp.ByQueryAll, chromedp.FromNode(e.node), chromedp.AtLeast(0)))
	if err != nil {
		return "", classify(err)
	}
	if len(children) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoSuchElement, selector)
	}
	value, ok := children[0].Attribute(name)
	if !ok {
		return "", fmt.Errorf("%w: %s[%s]", ErrNoSuchElement, selector, name)
	}
	return value, nil
}
