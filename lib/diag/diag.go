package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"txadmin-bridge/lib/browser"
)

// Recorder writes error logs and diagnostic screenshots into a single
// directory. Everything here is best effort, a failing recorder never
// masks the error it was asked to record.
type Recorder struct {
	dir string
}

func NewRecorder(dir string) Recorder {
	return Recorder{dir: dir}
}

// EnsureDir creates the directory if needed and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(abs, 0755)
	if err != nil {
		return "", err
	}
	return abs, nil
}

// filename-safe timestamp, day first so screenshots sort the way
// operators read them
func timestampString(now time.Time) string {
	return now.Format("02-01-2006-15-04-05")
}

// LogError appends one block per error to error-log.txt: timestamp,
// message, context as JSON and the current stack.
func (r Recorder) LogError(err error, context map[string]any) {
	dir, direrr := EnsureDir(r.dir)
	if direrr != nil {
		slog.Error("failed to create error log directory", "dir", r.dir, "err", direrr)
		return
	}

	ctxJson, jsonErr := json.Marshal(context)
	if jsonErr != nil {
		ctxJson = []byte("{}")
	}

	entry := fmt.Sprintf(
		"[%s] ERROR: %s\nContext: %s\nStack: %s\n----------------------------------------\n",
		timestampString(time.Now()),
		err.Error(),
		ctxJson,
		debug.Stack(),
	)

	logPath := filepath.Join(dir, "error-log.txt")
	f, openErr := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if openErr != nil {
		slog.Error("failed to open error log", "path", logPath, "err", openErr)
		return
	}
	defer f.Close()

	_, writeErr := f.WriteString(entry)
	if writeErr != nil {
		slog.Error("failed to append to error log", "path", logPath, "err", writeErr)
	}
}

// CaptureScreenshot saves a full-page screenshot named
// {errorType}-{DD-MM-YYYY-HH-MM-SS}.png and returns its path.
func (r Recorder) CaptureScreenshot(ctx context.Context, page browser.Page, errorType string) (string, error) {
	dir, err := EnsureDir(r.dir)
	if err != nil {
		return "", err
	}

	buf, err := page.Screenshot(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", errorType, timestampString(time.Now())))
	err = os.WriteFile(path, buf, 0644)
	if err != nil {
		return "", err
	}

	slog.Info("saved diagnostic screenshot", "path", path)
	return path, nil
}
