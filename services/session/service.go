package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"txadmin-bridge/lib/browser"
	"txadmin-bridge/lib/diag"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("txbridge/session")

var ErrAuthenticationFailed = errors.New("could not log in, wrong credentials or the form was never submitted")

const (
	loginFormSelector     = "#frm-login"
	passwordFormSelector  = "#frm-password"
	submitButtonSelector  = "button[type=submit]"
	loginButtonMarker     = "svg"
	loginButtonLabel      = "Login"
	formWaitTimeout       = 10 * time.Second
	navigationWaitTimeout = 30 * time.Second
	// how long to give the page after an absorbed navigation timeout
	// before trusting its URL
	navigationGraceDelay = 2 * time.Second
)

// the flow only moves forward through these, they show up in logs and
// error context to tell apart where an attempt died
type loginState string

const (
	stateNotStarted         loginState = "not-started"
	stateFormVisible        loginState = "form-visible"
	stateCredentialsEntered loginState = "credentials-entered"
	stateSubmitAttempted    loginState = "submit-attempted"
)

type Options struct {
	BaseURL  string
	Username string
	Password string
	DataDir  string
	// KeepPage hands the live page back to the caller on success. The
	// caller then owns it and must close it, the flow closes the page
	// itself on every other path.
	KeepPage bool
}

// Result is a structured outcome, login never propagates a fault to
// its caller.
type Result struct {
	Success     bool
	Error       string
	Credentials Credentials
	Cookies     []browser.Cookie
	CsrfToken   string
	// non-nil only on success with Options.KeepPage
	Page browser.Page
}

// Login drives the authentication form and persists the session
// artifacts on success.
func Login(ctx context.Context, b browser.Browser, rec diag.Recorder, opts Options) Result {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	slog.InfoContext(ctx, "starting browser for txAdmin login")
	page, err := b.NewPage(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open page")
		return Result{Error: fmt.Sprintf("failed to open page: %s", err)}
	}

	handedOff := false
	defer func() {
		if handedOff {
			return
		}
		closeErr := page.Close(ctx)
		if closeErr != nil {
			slog.WarnContext(ctx, "failed to close page", "err", closeErr)
		}
	}()

	result, state, err := attempt(ctx, page, rec, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login attempt failed")
		rec.LogError(err, map[string]any{"step": "login", "state": string(state)})

		_, scErr := rec.CaptureScreenshot(ctx, page, "login-failed")
		if scErr != nil {
			slog.ErrorContext(ctx, "failed to capture login failure screenshot", "err", scErr)
		}
		return Result{Error: err.Error()}
	}

	if opts.KeepPage {
		handedOff = true
		result.Page = page
	}
	return result
}

func attempt(ctx context.Context, page browser.Page, rec diag.Recorder, opts Options) (Result, loginState, error) {
	state := stateNotStarted

	err := page.Navigate(ctx, opts.BaseURL+"/auth", browser.NavigateOptions{Timeout: navigationWaitTimeout})
	if err != nil {
		return Result{}, state, fmt.Errorf("failed to open auth page: %w", err)
	}

	err = page.WaitVisible(ctx, loginFormSelector, formWaitTimeout)
	if err != nil {
		return Result{}, state, fmt.Errorf("login form never appeared: %w", err)
	}
	state = stateFormVisible

	slog.InfoContext(ctx, "entering credentials")
	err = page.SendKeys(ctx, loginFormSelector, opts.Username)
	if err != nil {
		return Result{}, state, err
	}
	err = page.SendKeys(ctx, passwordFormSelector, opts.Password)
	if err != nil {
		return Result{}, state, err
	}
	state = stateCredentialsEntered

	err = submitForm(ctx, page)
	if err != nil {
		return Result{}, state, err
	}
	state = stateSubmitAttempted

	err = page.WaitNavigation(ctx, navigationWaitTimeout)
	if errors.Is(err, browser.ErrNavigationTimeout) {
		// routinely absorbed: some panel builds swap content without a
		// full navigation, check where we ended up instead
		slog.WarnContext(ctx, "navigation did not settle, polling the url instead")
		time.Sleep(navigationGraceDelay)
	} else if err != nil {
		return Result{}, state, err
	}

	landed, err := page.URL(ctx)
	if err != nil {
		return Result{}, state, err
	}
	if isAuthURL(landed) {
		return Result{}, state, ErrAuthenticationFailed
	}

	slog.InfoContext(ctx, "login succeeded", "url", landed)
	_, scErr := rec.CaptureScreenshot(ctx, page, "post-login")
	if scErr != nil {
		slog.WarnContext(ctx, "failed to capture post-login screenshot", "err", scErr)
	}

	cookies, err := page.Cookies(ctx)
	if err != nil {
		return Result{}, state, fmt.Errorf("failed to read cookies: %w", err)
	}
	html, err := page.HTML(ctx)
	if err != nil {
		return Result{}, state, fmt.Errorf("failed to read page content: %w", err)
	}
	csrfToken := ExtractCsrfToken(html)
	if csrfToken == "" {
		slog.WarnContext(ctx, "no csrf token found on the page")
	}

	creds, err := PersistCredentials(opts.DataDir, cookies, csrfToken)
	if err != nil {
		// secondary artifacts, the session itself is live
		slog.ErrorContext(ctx, "failed to persist some session artifacts", "err", err)
		rec.LogError(err, map[string]any{"step": "persist-credentials"})
	}
	slog.InfoContext(ctx, "session credentials saved", "dir", opts.DataDir, "has_csrf", csrfToken != "")

	return Result{
		Success:     true,
		Credentials: creds,
		Cookies:     cookies,
		CsrfToken:   csrfToken,
	}, state, nil
}

// submitForm cascades through the known ways of getting the login form
// off: the icon+label button probe, any button carrying the label, any
// submit-typed button, and finally a raw Enter keystroke.
func submitForm(ctx context.Context, page browser.Page) error {
	pt, found, err := page.LocateButton(ctx, loginButtonMarker, loginButtonLabel)
	if err == nil && found {
		slog.DebugContext(ctx, "clicking the icon login button", "x", pt.X, "y", pt.Y)
		return page.ClickAt(ctx, pt)
	}
	if err != nil {
		slog.WarnContext(ctx, "login button probe failed, trying alternatives", "err", err)
	}

	pt, found, err = page.LocateButton(ctx, "", loginButtonLabel)
	if err == nil && found {
		slog.DebugContext(ctx, "clicking a button matched by label")
		return page.ClickAt(ctx, pt)
	}

	err = page.Click(ctx, submitButtonSelector)
	if err == nil {
		slog.DebugContext(ctx, "clicked a submit-typed button")
		return nil
	}

	slog.DebugContext(ctx, "no button found, submitting the form with enter")
	return page.PressEnter(ctx)
}

func isAuthURL(url string) bool {
	return strings.Contains(url, "/auth") || strings.Contains(url, "/login")
}
