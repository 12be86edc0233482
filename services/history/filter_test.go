package history

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var filterFixture = []Entry{
	{Date: "2024-05-01 10:00", Action: "Ban", Admin: "root", Target: "license:abc", Details: "cheating"},
	{Date: "2024-05-03 12:00", Action: "Warn", Admin: "mod1", Target: "license:abc", Details: "spam"},
	{Date: "garbage", Action: "Ban", Admin: "root", Target: "license:def", Details: "toxic"},
}

func TestFilterEmptyCriteriaIsIdentity(t *testing.T) {
	criteria := FilterCriteria{}
	require.True(t, criteria.Empty())
	require.Equal(t, filterFixture, Filter(filterFixture, criteria))
}

func TestFilterComposesAsAnd(t *testing.T) {
	out := Filter(filterFixture, FilterCriteria{Action: "ban", Target: "abc"})
	require.Len(t, out, 1)
	require.Equal(t, "cheating", out[0].Details)
}

func TestFilterMatchesCaseInsensitiveSubstring(t *testing.T) {
	out := Filter(filterFixture, FilterCriteria{Admin: "ROOT"})
	require.Len(t, out, 2)
}

func TestFilterSince(t *testing.T) {
	out := Filter(filterFixture, FilterCriteria{Since: "2024-05-02"})
	require.Len(t, out, 2)
	require.Equal(t, "Warn", out[0].Action)
	// the unparseable date never hides a row
	require.Equal(t, "garbage", out[1].Date)
}

func TestFilterPreservesOrder(t *testing.T) {
	out := Filter(filterFixture, FilterCriteria{Admin: "root"})
	require.Equal(t, "2024-05-01 10:00", out[0].Date)
	require.Equal(t, "garbage", out[1].Date)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		input string
		ok    bool
	}{
		{"2024-05-01 10:00:00", true},
		{"2024-05-01 10:00", true},
		{"2024-05-01", true},
		{"01/05/2024 10:00", true},
		{"01/05/2024", true},
		{"2024-05-01T10:00:00Z", true},
		{"  2024-05-01  ", true},
		{"yesterday", false},
		{"", false},
	}

	for _, test := range cases {
		_, ok := ParseDate(test.input)
		require.Equal(t, test.ok, ok, "input %q", test.input)
	}
}
