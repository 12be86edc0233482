package history

import (
	"strings"
	"time"
)

// FilterCriteria narrows extracted entries. Empty fields impose no
// constraint, set fields compose as a logical AND.
type FilterCriteria struct {
	Action string
	Admin  string
	Target string
	// lower bound on the entry date, anything parseable by ParseDate
	Since string
}

func (c FilterCriteria) Empty() bool {
	return c.Action == "" && c.Admin == "" && c.Target == "" && c.Since == ""
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Filter is pure and order-preserving. An entry whose date cannot be
// parsed is kept rather than excluded, a scrambled cell should never
// hide a row from an operator.
func Filter(entries []Entry, criteria FilterCriteria) []Entry {
	since, haveSince := time.Time{}, false
	if criteria.Since != "" {
		since, haveSince = ParseDate(criteria.Since)
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if !containsFold(entry.Action, criteria.Action) {
			continue
		}
		if !containsFold(entry.Admin, criteria.Admin) {
			continue
		}
		if !containsFold(entry.Target, criteria.Target) {
			continue
		}
		if haveSince {
			entryDate, ok := ParseDate(entry.Date)
			if ok && entryDate.Before(since) {
				continue
			}
		}
		out = append(out, entry)
	}
	return out
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
