package history

import (
	"errors"
	"strings"

	"txadmin-bridge/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one row of the panel's activity history. Json tags match
// the on-disk format the original tooling produced, other consumers
// already read those files.
type Entry struct {
	Date    string `json:"fecha"`
	Action  string `json:"accion"`
	Admin   string `json:"admin"`
	Target  string `json:"target"`
	Details string `json:"detalles"`
	// row markup kept for diagnostics when a cell came out odd
	RawHTML string `json:"rawHTML,omitempty"`
}

var (
	ErrNoTable = errors.New("no tables found on the page")
	ErrNoRows  = errors.New("the history table has no body rows")
)

// logical column -> header substrings that identify it, english and
// spanish since the panel is localized
var headerSynonyms = [5][]string{
	{"date", "fecha"},
	{"action", "acción", "accion"},
	{"admin", "autor"},
	{"target", "objetivo"},
	{"details", "detalles"},
}

// mapColumns resolves each logical column to a physical index by
// substring match over the headers. A column with no recognizable
// header falls back to its conventional position.
func mapColumns(headers []string) [5]int {
	var indices [5]int
	for logical, synonyms := range headerSynonyms {
		indices[logical] = logical
		for physical, header := range headers {
			matched := false
			for _, syn := range synonyms {
				if strings.Contains(header, syn) {
					matched = true
					break
				}
			}
			if matched {
				indices[logical] = physical
				break
			}
		}
	}
	return indices
}

// ExtractEntries pulls history rows out of the first table on the
// page. Rows without a single cell are skipped.
func ExtractEntries(pageHTML string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var headers []string
	table.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.ToLower(htmlutil.CleanText(th.Text())))
	})
	cols := mapColumns(headers)

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		return nil, ErrNoRows
	}

	var entries []Entry
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		cell := func(logical int) string {
			idx := cols[logical]
			if idx >= cells.Length() {
				return ""
			}
			return htmlutil.CleanText(cells.Eq(idx).Text())
		}

		raw, _ := row.Html()
		entries = append(entries, Entry{
			Date:    cell(0),
			Action:  cell(1),
			Admin:   cell(2),
			Target:  cell(3),
			Details: cell(4),
			RawHTML: raw,
		})
	})

	return entries, nil
}
