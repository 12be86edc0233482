package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"inner    runs", "inner runs"},
		{"line\n  break", "line break"},
		{"bell\x07char", "bellchar"},
		{"acción", "acción"},
		{"", ""},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, CleanText(test.input), "input %q", test.input)
	}
}

func TestGetAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<nav>
			<a href="/history">  Player   History </a>
			<a href="/players">Players</a>
			<a>no href</a>
		</nav>
	`))
	if err != nil {
		t.Fatal(err)
	}

	anchors := GetAnchors(doc)
	require.Len(t, anchors, 3)
	require.Equal(t, Anchor{Name: "Player History", Href: "/history"}, anchors[0])
	require.Equal(t, Anchor{Name: "Players", Href: "/players"}, anchors[1])
	require.Equal(t, "", anchors[2].Href)
}
