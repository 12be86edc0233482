package diag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"txadmin-bridge/lib/browser/browsertest"

	"github.com/stretchr/testify/require"
)

func TestLogErrorFormat(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir)

	rec.LogError(errors.New("boom"), map[string]any{"step": "login"})
	rec.LogError(errors.New("again"), nil)

	raw, err := os.ReadFile(filepath.Join(dir, "error-log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)

	require.Contains(t, content, "ERROR: boom")
	require.Contains(t, content, `Context: {"step":"login"}`)
	require.Contains(t, content, "Stack: ")
	require.Contains(t, content, "ERROR: again")
	// one separator per appended block
	require.Equal(t, 2, strings.Count(content, "----------------------------------------"))

	timestamped := regexp.MustCompile(`^\[\d{2}-\d{2}-\d{4}-\d{2}-\d{2}-\d{2}\] ERROR:`)
	require.True(t, timestamped.MatchString(content), "entry should open with a bracketed timestamp")
}

func TestLogErrorCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "errors")
	rec := NewRecorder(dir)

	rec.LogError(errors.New("boom"), nil)

	_, err := os.Stat(filepath.Join(dir, "error-log.txt"))
	require.NoError(t, err)
}

func TestCaptureScreenshot(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir)
	page := &browsertest.FakePage{ScreenshotPx: []byte("png-bytes")}

	path, err := rec.CaptureScreenshot(context.Background(), page, "login-failed")
	if err != nil {
		t.Fatal(err)
	}

	name := filepath.Base(path)
	pattern := regexp.MustCompile(`^login-failed-\d{2}-\d{2}-\d{4}-\d{2}-\d{2}-\d{2}\.png$`)
	require.True(t, pattern.MatchString(name), "unexpected screenshot name %q", name)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, []byte("png-bytes"), raw)
}
