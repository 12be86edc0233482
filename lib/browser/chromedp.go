package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

type Options struct {
	Headless bool
}

type chromeBrowser struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// Launch starts a Chrome allocator. The browser process itself spawns
// lazily with the first page.
func Launch(ctx context.Context, opts Options) (Browser, error) {
	flags := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("start-maximized", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, flags...)
	return &chromeBrowser{allocCtx: allocCtx, cancel: cancel}, nil
}

func (b *chromeBrowser) NewPage(ctx context.Context) (Page, error) {
	tabCtx, cancel := chromedp.NewContext(b.allocCtx)
	// force the tab (and browser process) to actually exist
	err := chromedp.Run(tabCtx)
	if err != nil {
		cancel()
		return nil, err
	}
	return &chromeTab{ctx: tabCtx, cancel: cancel}, nil
}

func (b *chromeBrowser) Close(ctx context.Context) error {
	b.cancel()
	return nil
}

// chromeTab binds the Page interface to a single chromedp tab context.
// Bounded waits derive timeout contexts from the tab context, chromedp
// actions cannot run against arbitrary caller contexts.
type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *chromeTab) Navigate(ctx context.Context, url string, opts NavigateOptions) error {
	runCtx := t.ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(t.ctx, opts.Timeout)
		defer cancel()
	}
	return chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (t *chromeTab) URL(ctx context.Context) (string, error) {
	var loc string
	err := chromedp.Run(t.ctx, chromedp.Location(&loc))
	return loc, err
}

func (t *chromeTab) Title(ctx context.Context) (string, error) {
	var title string
	err := chromedp.Run(t.ctx, chromedp.Title(&title))
	return title, err
}

func (t *chromeTab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	return chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (t *chromeTab) SendKeys(ctx context.Context, selector, text string) error {
	return chromedp.Run(t.ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

func (t *chromeTab) Click(ctx context.Context, selector string) error {
	clickCtx, cancel := context.WithTimeout(t.ctx, time.Second*5)
	defer cancel()
	return chromedp.Run(clickCtx, chromedp.Click(selector, chromedp.ByQuery))
}

func (t *chromeTab) ClickAt(ctx context.Context, p Point) error {
	return chromedp.Run(t.ctx, chromedp.MouseClickXY(p.X, p.Y))
}

func (t *chromeTab) PressEnter(ctx context.Context) error {
	return chromedp.Run(t.ctx, chromedp.KeyEvent(kb.Enter))
}

func (t *chromeTab) WaitNavigation(ctx context.Context, timeout time.Duration) error {
	navigated := make(chan struct{}, 1)

	listenCtx, cancel := context.WithCancel(t.ctx)
	defer cancel()
	chromedp.ListenTarget(listenCtx, func(ev interface{}) {
		if _, ok := ev.(*cdppage.EventFrameNavigated); ok {
			select {
			case navigated <- struct{}{}:
			default:
			}
		}
	})

	select {
	case <-navigated:
		return nil
	case <-time.After(timeout):
		return ErrNavigationTimeout
	case <-t.ctx.Done():
		return t.ctx.Err()
	}
}

func (t *chromeTab) HTML(ctx context.Context) (string, error) {
	var out string
	err := chromedp.Run(t.ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery))
	return out, err
}

func (t *chromeTab) Cookies(ctx context.Context) ([]Cookie, error) {
	var cookies []Cookie
	err := chromedp.Run(t.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		raw, err := network.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range raw {
			cookies = append(cookies, Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
			})
		}
		return nil
	}))
	return cookies, err
}

func (t *chromeTab) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := chromedp.Run(t.ctx, chromedp.FullScreenshot(&buf, 90))
	return buf, err
}

const locateButtonScript = `(() => {
	const buttons = Array.from(document.querySelectorAll("button"));
	const match = buttons.find((button) => {
		const markerOk = %q === "" || button.innerHTML.includes(%q);
		return markerOk && button.textContent.trim().includes(%q);
	});
	if (!match) {
		return { found: false, x: 0, y: 0 };
	}
	const rect = match.getBoundingClientRect();
	return {
		found: true,
		x: rect.left + rect.width / 2,
		y: rect.top + rect.height / 2,
	};
})()`

func (t *chromeTab) LocateButton(ctx context.Context, marker, label string) (Point, bool, error) {
	var result struct {
		Found bool    `json:"found"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
	}
	script := fmt.Sprintf(locateButtonScript, marker, marker, label)
	err := chromedp.Run(t.ctx, chromedp.Evaluate(script, &result))
	if err != nil {
		return Point{}, false, err
	}
	return Point{X: result.X, Y: result.Y}, result.Found, nil
}

func (t *chromeTab) Close(ctx context.Context) error {
	t.cancel()
	return nil
}
