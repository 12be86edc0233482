// Package browsertest provides a configurable in-memory Page for flow
// tests, no Chrome involved.
package browsertest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"txadmin-bridge/lib/browser"
)

type FakeBrowser struct {
	Page   *FakePage
	Closed bool
}

func (b *FakeBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	return b.Page, nil
}

func (b *FakeBrowser) Close(ctx context.Context) error {
	b.Closed = true
	return nil
}

// FakePage simulates just enough of a tab for the login and scrape
// flows: a current location, per-url content, and knobs for each
// fallback branch. Every call is appended to Ops so tests can assert
// on the exact path a flow took.
type FakePage struct {
	mu sync.Mutex

	// what URL() currently reports
	Location string
	// where a requested url actually lands (auth redirects); missing
	// entries land verbatim
	Routes map[string]string
	// page content per landed url; FallbackHTML serves the rest
	HTMLByURL    map[string]string
	FallbackHTML string
	PageTitle    string

	// selectors WaitVisible and Click resolve; everything else fails
	VisibleSelectors map[string]bool
	// where clicking an anchor selector lands, keyed by selector
	LinkTargets map[string]string

	// login button probe behavior per (marker, label)
	ButtonFound func(marker, label string) bool
	ButtonPoint browser.Point
	// any submit action moves Location here when set
	SubmitLandsAt string

	NavTimeout   bool
	NavigateErr  error
	CookieJar    []browser.Cookie
	ScreenshotPx []byte

	Ops    []string
	Closed bool
}

func (p *FakePage) record(op string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Ops = append(p.Ops, op)
}

func (p *FakePage) Navigate(ctx context.Context, url string, opts browser.NavigateOptions) error {
	p.record("navigate:" + url)
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if landed, ok := p.Routes[url]; ok {
		p.Location = landed
	} else {
		p.Location = url
	}
	return nil
}

func (p *FakePage) URL(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Location, nil
}

func (p *FakePage) Title(ctx context.Context) (string, error) {
	return p.PageTitle, nil
}

func (p *FakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if p.VisibleSelectors[selector] {
		return nil
	}
	return context.DeadlineExceeded
}

func (p *FakePage) SendKeys(ctx context.Context, selector, text string) error {
	p.record("sendkeys:" + selector)
	if !p.VisibleSelectors[selector] {
		return fmt.Errorf("no such element: %s", selector)
	}
	return nil
}

func (p *FakePage) Click(ctx context.Context, selector string) error {
	p.record("click:" + selector)
	if target, ok := p.LinkTargets[selector]; ok {
		p.mu.Lock()
		p.Location = target
		p.mu.Unlock()
		return nil
	}
	if p.VisibleSelectors[selector] {
		p.submit()
		return nil
	}
	return context.DeadlineExceeded
}

func (p *FakePage) ClickAt(ctx context.Context, pt browser.Point) error {
	p.record(fmt.Sprintf("clickat:%v,%v", pt.X, pt.Y))
	p.submit()
	return nil
}

func (p *FakePage) PressEnter(ctx context.Context) error {
	p.record("enter")
	p.submit()
	return nil
}

func (p *FakePage) submit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SubmitLandsAt != "" {
		p.Location = p.SubmitLandsAt
	}
}

func (p *FakePage) WaitNavigation(ctx context.Context, timeout time.Duration) error {
	p.record("waitnav")
	if p.NavTimeout {
		return browser.ErrNavigationTimeout
	}
	return nil
}

func (p *FakePage) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if html, ok := p.HTMLByURL[p.Location]; ok {
		return html, nil
	}
	return p.FallbackHTML, nil
}

func (p *FakePage) Cookies(ctx context.Context) ([]browser.Cookie, error) {
	return p.CookieJar, nil
}

func (p *FakePage) Screenshot(ctx context.Context) ([]byte, error) {
	p.record("screenshot")
	if p.ScreenshotPx == nil {
		return []byte{0x89, 0x50, 0x4e, 0x47}, nil
	}
	return p.ScreenshotPx, nil
}

func (p *FakePage) LocateButton(ctx context.Context, marker, label string) (browser.Point, bool, error) {
	p.record(fmt.Sprintf("locate:%s:%s", marker, label))
	if p.ButtonFound != nil && p.ButtonFound(marker, label) {
		return p.ButtonPoint, true, nil
	}
	return browser.Point{}, false, nil
}

func (p *FakePage) Close(ctx context.Context) error {
	p.record("close")
	p.Closed = true
	return nil
}
