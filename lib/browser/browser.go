package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNavigationTimeout is returned by waits that ran out of time without
// observing a navigation. Callers decide whether that is fatal, several
// flows absorb it and verify the page state by other means.
var ErrNavigationTimeout = errors.New("navigation did not settle in time")

type Point struct {
	X float64
	Y float64
}

type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
}

type NavigateOptions struct {
	Timeout time.Duration
}

// Page is the automation capability the scraping flows are written
// against. The production implementation drives a Chrome tab through
// chromedp, tests substitute a fake.
type Page interface {
	Navigate(ctx context.Context, url string, opts NavigateOptions) error
	URL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	// WaitVisible blocks until the selector matches a visible node or
	// the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	SendKeys(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
	ClickAt(ctx context.Context, p Point) error
	PressEnter(ctx context.Context) error
	// WaitNavigation blocks until the main frame navigates, returning
	// ErrNavigationTimeout if nothing happened within the timeout.
	WaitNavigation(ctx context.Context, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
	Cookies(ctx context.Context) ([]Cookie, error)
	Screenshot(ctx context.Context) ([]byte, error)
	// LocateButton scans button-like elements for one whose markup
	// contains `marker` and whose text contains `label`, returning the
	// on-screen center of the first hit. An empty marker matches any
	// button carrying the label.
	LocateButton(ctx context.Context, marker, label string) (Point, bool, error)
	Close(ctx context.Context) error
}

type Browser interface {
	NewPage(ctx context.Context) (Page, error)
	Close(ctx context.Context) error
}
