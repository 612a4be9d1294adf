package known

import (
	"os"
	"path/filepath"
	"testing"

	"fbref-scraper/lib/textutil"

	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	table := Default()

	testCases := []struct {
		query string
		id    string
		kind  textutil.MatchKind
	}{
		{query: "Manchester City", id: "b8fd03ef", kind: textutil.MatchExact},
		{query: "man city", id: "b8fd03ef", kind: textutil.MatchExact},
		{query: "Man-Utd", id: "19538871", kind: textutil.MatchExact},
		{query: "spurs", id: "361ca564", kind: textutil.MatchExact},
		{query: "Arsenal FC", id: "18bb7c10", kind: textutil.MatchContains},
		{query: "liver", id: "822bd0ba", kind: textutil.MatchContains},
		{query: "madrid", id: "53a2f082", kind: textutil.MatchContains},
		// both manchester keys contain it, the first declared wins
		{query: "manchester", id: "b8fd03ef", kind: textutil.MatchContains},
		{query: "mnchstr utd", id: "19538871", kind: textutil.MatchAbbreviation},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			team, kind, ok := table.Lookup(tc.query)
			require.True(t, ok)
			require.Equal(t, tc.id, team.ID)
			require.Equal(t, tc.kind, kind)
		})
	}
}

func TestLookupMisses(t *testing.T) {
	table := Default()
	for _, query := range []string{"", "   ", "Bayern Munich", "Leicester City"} {
		_, kind, ok := table.Lookup(query)
		require.False(t, ok, query)
		require.Equal(t, textutil.MatchNone, kind)
	}
}

func TestByID(t *testing.T) {
	table := Default()

	team, ok := table.ByID("822bd0ba")
	require.True(t, ok)
	require.Equal(t, "Liverpool", team.Name)

	_, ok = table.ByID("deadbeef")
	require.False(t, ok)
}

func TestTableIsReadOnly(t *testing.T) {
	table := Default()
	team, _, ok := table.Lookup("man city")
	require.True(t, ok)
	team.Aliases[0] = "changed"
	team.Name = "changed"

	again, _, ok := table.Lookup("man city")
	require.True(t, ok)
	require.Equal(t, "Manchester City", again.Name)
	require.Equal(t, "man city", again.Aliases[0])
}

func TestSuggest(t *testing.T) {
	table := Default()

	suggestions := table.Suggest("Manchestr Unitd", 2)
	require.NotEmpty(t, suggestions)
	require.Equal(t, "Manchester United", suggestions[0])
	require.LessOrEqual(t, len(suggestions), 2)

	require.Empty(t, table.Suggest("zzzzzz", 3))
	require.Empty(t, table.Suggest("", 3))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
teams:
  - key: bayern munich
    aliases: [bayern]
    id: 054efa67
    name: Bayern Munich
    match_log_path: /en/squads/054efa67/matchlogs/all_comps/Bayern-Munich-Scores-and-Fixtures-All-Competitions
`), 0o600))

	table := Default()
	require.NoError(t, table.LoadFile(path))

	team, kind, ok := table.Lookup("Bayern")
	require.True(t, ok)
	require.Equal(t, textutil.MatchExact, kind)
	require.Equal(t, "054efa67", team.ID)
	require.Len(t, table.All(), 9)
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		contents string
	}{
		{name: "missing id", contents: "teams:\n  - key: foo\n    name: Foo\n"},
		{name: "relative path", contents: "teams:\n  - key: foo\n    id: abc\n    name: Foo\n    match_log_path: en/squads\n"},
		{name: "duplicate id", contents: "teams:\n  - key: city again\n    id: b8fd03ef\n    name: City\n"},
		{name: "bad yaml", contents: "teams: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "teams.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.contents), 0o600))
			require.Error(t, Default().LoadFile(path))
		})
	}

	require.Error(t, Default().LoadFile(filepath.Join(dir, "missing.yaml")))
}
