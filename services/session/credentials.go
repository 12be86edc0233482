package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"txadmin-bridge/lib/browser"
	"txadmin-bridge/lib/diag"

	"github.com/PuerkitoBio/goquery"
)

// txAdmin scopes its session cookies under this prefix, everything
// else on the domain is noise
const sessionCookiePrefix = "tx:default"

const (
	cookiesFile     = "txadmin-cookies.json"
	csrfFile        = "txadmin-csrf.json"
	credentialsFile = "txadmin-credentials.json"
)

// Credentials is the unified artifact subsequent API calls are built
// from. CsrfToken is nil when the panel did not inline one.
type Credentials struct {
	Timestamp    string  `json:"timestamp"`
	CsrfToken    *string `json:"csrfToken"`
	CookieString string  `json:"cookieString"`
}

var csrfTokenRegex = regexp.MustCompile(`csrfToken\s*=\s*["']([^"']+)["']`)

// ExtractCsrfToken scans every script on the page for a csrfToken
// assignment. An empty result is not an error, the token is simply
// absent on some panel versions.
func ExtractCsrfToken(pageHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}

	token := ""
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		groups := csrfTokenRegex.FindStringSubmatch(script.Text())
		if len(groups) >= 2 {
			token = groups[1]
			return false
		}
		return true
	})
	return token
}

// CookieHeader joins name=value for session cookies in their original
// order, the format the panel expects on the Cookie header.
func CookieHeader(cookies []browser.Cookie) string {
	var parts []string
	for _, c := range cookies {
		if strings.HasPrefix(c.Name, sessionCookiePrefix) {
			parts = append(parts, c.Name+"="+c.Value)
		}
	}
	return strings.Join(parts, "; ")
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// PersistCredentials writes the three session artifacts: the raw
// cookie list, the csrf token (only when one was found) and the
// unified credentials object. The writes are independent, one failing
// does not stop the others.
func PersistCredentials(dataDir string, cookies []browser.Cookie, csrfToken string) (Credentials, error) {
	dir, err := diag.EnsureDir(dataDir)
	if err != nil {
		return Credentials{}, err
	}

	var errlist []error
	err = writeJSON(filepath.Join(dir, cookiesFile), cookies)
	if err != nil {
		errlist = append(errlist, err)
	}

	if csrfToken != "" {
		err = writeJSON(filepath.Join(dir, csrfFile), map[string]string{"csrfToken": csrfToken})
		if err != nil {
			errlist = append(errlist, err)
		}
	}

	creds := Credentials{
		Timestamp:    time.Now().Format(time.RFC3339),
		CookieString: CookieHeader(cookies),
	}
	if csrfToken != "" {
		creds.CsrfToken = &csrfToken
	}
	err = writeJSON(filepath.Join(dir, credentialsFile), creds)
	if err != nil {
		errlist = append(errlist, err)
	}

	return creds, errors.Join(errlist...)
}

// LoadCredentials reads back the unified credentials artifact.
func LoadCredentials(dataDir string) (Credentials, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, credentialsFile))
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	err = json.Unmarshal(raw, &creds)
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
