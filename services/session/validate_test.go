package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"txadmin-bridge/lib/browser"
	"txadmin-bridge/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newPanelStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "tx:default:session=live" {
			http.Redirect(w, r, "/auth?logout=true", http.StatusFound)
			return
		}
		w.Write([]byte("<html><title>History</title></html>"))
	})
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><title>Login</title></html>"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestValidateLiveSession(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:session")
	defer cleanup()

	server := newPanelStub(t)
	dataDir := t.TempDir()
	_, err := PersistCredentials(dataDir, []browser.Cookie{
		{Name: "tx:default:session", Value: "live"},
	}, "tok-abc")
	if err != nil {
		t.Fatal(err)
	}

	result, err := Validate(context.Background(), server.URL, dataDir)
	if err != nil {
		t.Fatal(err)
	}

	require.True(t, result.Live)
	require.Equal(t, http.StatusOK, result.Status)
	require.Contains(t, result.LandedURL, "/history")
}

func TestValidateExpiredSession(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:session")
	defer cleanup()

	server := newPanelStub(t)
	dataDir := t.TempDir()
	_, err := PersistCredentials(dataDir, []browser.Cookie{
		{Name: "tx:default:session", Value: "stale"},
	}, "")
	if err != nil {
		t.Fatal(err)
	}

	result, err := Validate(context.Background(), server.URL, dataDir)
	if err != nil {
		t.Fatal(err)
	}

	// the redirect to the auth page is the expiry signal
	require.False(t, result.Live)
	require.Contains(t, result.LandedURL, "/auth")
}

func TestValidateWithoutCredentials(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:session")
	defer cleanup()

	_, err := Validate(context.Background(), "http://unused.example", t.TempDir())
	require.Error(t, err)
}
