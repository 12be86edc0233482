package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"txadmin-bridge/lib/browser"
	"txadmin-bridge/lib/diag"
	"txadmin-bridge/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("txbridge/history")

var (
	ErrSessionExpired   = errors.New("redirected to the auth page, the session may have expired")
	ErrPageNotConfirmed = errors.New("could not confirm the history page, check the screenshot")
)

const historyFile = "txadmin-history.json"

const (
	navigateTimeout     = 30 * time.Second
	recoveryNavTimeout  = 20 * time.Second
	tableSelectorBudget = 10 * time.Second
)

// selectors that may announce the history table, raced because panel
// builds differ in which one they render
var tableSelectors = []string{
	"table",
	".history-table",
	"#history-table",
	"[data-table-history]",
}

type Options struct {
	BaseURL string
	DataDir string
}

type Result struct {
	Success   bool
	Error     string
	Entries   []Entry
	Timestamp string
}

// Fetch navigates an already-authenticated page to the history view,
// extracts the table and persists it. Faults of any step come back as
// a structured failure, never as a propagated error.
func Fetch(ctx context.Context, page browser.Page, rec diag.Recorder, opts Options) Result {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	entries, err := fetch(ctx, page, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history fetch failed")
		rec.LogError(err, map[string]any{"step": "history-navigation"})

		_, scErr := rec.CaptureScreenshot(ctx, page, "history-error")
		if scErr != nil {
			slog.ErrorContext(ctx, "failed to capture history error screenshot", "err", scErr)
		}
		return Result{Error: err.Error()}
	}

	return Result{
		Success:   true,
		Entries:   entries,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func fetch(ctx context.Context, page browser.Page, opts Options) ([]Entry, error) {
	historyURL := opts.BaseURL + "/history"

	slog.InfoContext(ctx, "navigating to the history page", "url", historyURL)
	err := page.Navigate(ctx, historyURL, browser.NavigateOptions{Timeout: navigateTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open history page: %w", err)
	}

	landed, err := page.URL(ctx)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "landed after navigation", "url", landed)

	if isAuthURL(landed) {
		return nil, ErrSessionExpired
	}
	if !strings.Contains(landed, "/history") {
		err = recoverHistoryPage(ctx, page, historyURL)
		if err != nil {
			return nil, err
		}
	}

	raceTableSelectors(ctx, page)

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	confirmed, err := confirmHistoryPage(ctx, page, html)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrPageNotConfirmed
	}

	entries, err := ExtractEntries(html)
	if err != nil {
		return nil, fmt.Errorf("failed to extract history rows: %w", err)
	}

	err = persistEntries(opts.DataDir, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to persist history: %w", err)
	}
	slog.InfoContext(ctx, "history saved", "file", historyFile, "entries", len(entries))

	return entries, nil
}

// recoverHistoryPage handles landing somewhere unexpected: first look
// for a menu link that references the history view, otherwise retry
// direct navigation once.
func recoverHistoryPage(ctx context.Context, page browser.Page, historyURL string) error {
	slog.WarnContext(ctx, "not on the history page, looking for a menu link")

	html, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}

	for _, anchor := range htmlutil.GetAnchors(doc) {
		name := strings.ToLower(anchor.Name)
		if !strings.Contains(anchor.Href, "history") &&
			!strings.Contains(name, "history") &&
			!strings.Contains(name, "historial") {
			continue
		}

		slog.InfoContext(ctx, "found a history link, following it", "href", anchor.Href)
		err = page.Click(ctx, fmt.Sprintf("a[href=%q]", anchor.Href))
		if err != nil {
			break
		}
		err = page.WaitNavigation(ctx, recoveryNavTimeout)
		if errors.Is(err, browser.ErrNavigationTimeout) {
			slog.WarnContext(ctx, "link navigation did not settle, continuing anyway")
			return nil
		}
		return err
	}

	slog.WarnContext(ctx, "no history link found, retrying direct navigation")
	return page.Navigate(ctx, historyURL, browser.NavigateOptions{Timeout: recoveryNavTimeout})
}

// raceTableSelectors waits on every candidate selector at once and
// moves on with the first to resolve. A timeout is not fatal, content
// inspection decides afterwards.
func raceTableSelectors(ctx context.Context, page browser.Page) {
	resolved := make(chan string, len(tableSelectors))
	for _, selector := range tableSelectors {
		go func(sel string) {
			err := page.WaitVisible(ctx, sel, tableSelectorBudget)
			if err == nil {
				select {
				case resolved <- sel:
				default:
				}
			}
		}(selector)
	}

	select {
	case sel := <-resolved:
		slog.DebugContext(ctx, "table selector resolved", "selector", sel)
	case <-time.After(tableSelectorBudget):
		slog.WarnContext(ctx, "no table selector resolved, inspecting the page anyway")
	case <-ctx.Done():
	}
}

// confirmHistoryPage decides whether this is really the history view:
// by title, by heading, or failing both, by the presence of any table.
func confirmHistoryPage(ctx context.Context, page browser.Page, html string) (bool, error) {
	title, err := page.Title(ctx)
	if err != nil {
		return false, err
	}
	title = strings.ToLower(title)
	if strings.Contains(title, "history") || strings.Contains(title, "historial") {
		return true, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, err
	}

	confirmed := false
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		text := strings.ToLower(heading.Text())
		if strings.Contains(text, "history") || strings.Contains(text, "historial") {
			confirmed = true
			return false
		}
		return true
	})
	if confirmed {
		return true, nil
	}

	return doc.Find("table").Length() > 0, nil
}

func persistEntries(dataDir string, entries []Entry) error {
	dir, err := diag.EnsureDir(dataDir)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, historyFile), data, 0644)
}

func isAuthURL(url string) bool {
	return strings.Contains(url, "/auth") || strings.Contains(url, "/login")
}
