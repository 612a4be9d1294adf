package htmlutil

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestAnchors(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="inner_nav">
			<a href="/en/squads/b8fd03ef/Manchester-City-Stats">  Stats
			</a>
			<a href="matchlogs/all_comps/x">Match&nbsp;Logs   (All Competitions)</a>
			<a href="http://[::1]:namedport">broken</a>
			<a>no href</a>
		</div>
	`))
	require.NoError(t, err)

	base, err := url.Parse("https://fbref.com/en/squads/b8fd03ef/")
	require.NoError(t, err)

	testCases := []struct {
		name     string
		base     *url.URL
		expected []Anchor
	}{
		{
			name: "relative",
			expected: []Anchor{
				{Name: "Stats", Href: "/en/squads/b8fd03ef/Manchester-City-Stats"},
				{Name: "Match Logs (All Competitions)", Href: "matchlogs/all_comps/x"},
			},
		},
		{
			name: "resolved",
			base: base,
			expected: []Anchor{
				{Name: "Stats", Href: "https://fbref.com/en/squads/b8fd03ef/Manchester-City-Stats"},
				{Name: "Match Logs (All Competitions)", Href: "https://fbref.com/en/squads/b8fd03ef/matchlogs/all_comps/x"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			anchors := Anchors(context.Background(), tc.base, doc.Find("#inner_nav a"))
			require.Equal(t, tc.expected, anchors)
		})
	}
}

func TestFirstAnchor(t *testing.T) {
	anchors := []Anchor{{Name: "Stats", Href: "/a"}, {Name: "Match Logs", Href: "/b"}}
	a, ok := FirstAnchor(anchors, func(a Anchor) bool { return strings.Contains(a.Name, "Logs") })
	require.True(t, ok)
	require.Equal(t, "/b", a.Href)

	_, ok = FirstAnchor(anchors, func(a Anchor) bool { return a.Name == "Fixtures" })
	require.False(t, ok)
}

func TestText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<h1 id="x">Manchester <span>City</span><script>var a = 1;</script> Stats</h1>`,
	))
	require.NoError(t, err)
	require.Equal(t, "Manchester City Stats", SelectionText(doc.Find("#x")))
	require.Equal(t, "", SelectionText(doc.Find("#missing")))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Manchester City", CleanText("\n\t Manchester   City \n"))
	require.Equal(t, "", CleanText("   "))
	require.Equal(t, "Arsenal", CleanText("Ars\u200benal"))
}
