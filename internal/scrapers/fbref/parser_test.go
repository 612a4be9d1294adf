package fbref

import (
	"context"
	"testing"
	"time"

	"fbref-scraper/internal/components/telemetry"
	"fbref-scraper/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T) (Parser, *telemetry.RecordingAPI) {
	tel := &telemetry.RecordingAPI{}
	p, err := NewParser(DefaultBaseURL, tel)
	require.NoError(t, err)
	return p, tel
}

func mustDocument(t *testing.T, html string) *goquery.Document {
	doc, err := NewDocument([]byte(html))
	require.NoError(t, err)
	return doc
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const twoMatchLog = `
<table class="stats_table" id="matchlogs_for">
	<tbody>
		<tr>
			<th data-stat="date"><a href="/en/matches/1">2023-05-01</a></th>
			<td data-stat="opponent">Arsenal</td>
			<td data-stat="venue">Home</td>
			<td data-stat="goals_for">3</td>
			<td data-stat="goals_against">1</td>
			<td data-stat="shots">15</td>
			<td data-stat="shots_on_target">8</td>
			<td data-stat="possession">60.2%</td>
			<td data-stat="passes_completed">500</td>
			<td data-stat="passes_pct">88.5%</td>
			<td data-stat="corners">7</td>
			<td data-stat="corners_against">3</td>
			<td data-stat="fouls">10</td>
			<td data-stat="fouled">12</td>
		</tr>
		<tr class="spacer"><td colspan="14"></td></tr>
		<tr>
			<td data-stat="date">2023-04-25</td>
			<td data-stat="opponent">Chelsea</td>
			<td data-stat="venue">Away</td>
			<td data-stat="goals_for">2</td>
			<td data-stat="goals_against">2</td>
			<td data-stat="shots">12</td>
			<td data-stat="shots_on_target">5</td>
			<td data-stat="possession">55.8%</td>
			<td data-stat="passes_completed">450</td>
			<td data-stat="passes_pct">85.0%</td>
			<td data-stat="corners">6</td>
			<td data-stat="corners_against">4</td>
			<td data-stat="fouls">8</td>
			<td data-stat="fouled">9</td>
		</tr>
	</tbody>
</table>`

func TestParseMatchRowsTwoMatches(t *testing.T) {
	p, _ := newTestParser(t)

	records := p.ParseMatchRows(context.Background(), mustDocument(t, twoMatchLog), 2)

	expected := []domain.MatchRecord{
		{
			Date: date(2023, 5, 1), Opponent: "Arsenal", Venue: domain.VenueHome,
			GoalsFor: 3, GoalsAgainst: 1,
			Shots: 15, ShotsOnTarget: 8, ShotsOffTarget: 7,
			PossessionPct: 60.2, PassesCompleted: 500, PassAccuracyPct: 88.5,
			CornersFor: domain.Some(7), CornersAgainst: domain.Some(3),
			FoulsCommitted: domain.Some(10), FoulsSuffered: domain.Some(12),
		},
		{
			Date: date(2023, 4, 25), Opponent: "Chelsea", Venue: domain.VenueAway,
			GoalsFor: 2, GoalsAgainst: 2,
			Shots: 12, ShotsOnTarget: 5, ShotsOffTarget: 7,
			PossessionPct: 55.8, PassesCompleted: 450, PassAccuracyPct: 85.0,
			CornersFor: domain.Some(6), CornersAgainst: domain.Some(4),
			FoulsCommitted: domain.Some(8), FoulsSuffered: domain.Some(9),
		},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("match records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMatchRowsLimit(t *testing.T) {
	p, _ := newTestParser(t)
	doc := mustDocument(t, twoMatchLog)

	records := p.ParseMatchRows(context.Background(), doc, 1)
	require.Len(t, records, 1)
	require.Equal(t, "Arsenal", records[0].Opponent)

	require.Empty(t, p.ParseMatchRows(context.Background(), doc, 0))
	require.Len(t, p.ParseMatchRows(context.Background(), doc, 10), 2)
}

func TestParseMatchRowsDegradedFields(t *testing.T) {
	p, tel := newTestParser(t)
	doc := mustDocument(t, `
<table class="stats_table"><tbody>
	<tr>
		<td data-stat="date">2023-03-10</td>
		<td data-stat="opponent"><span class="f-i">it</span> <a href="/en/squads/d609edc0/">Inter</a></td>
		<td data-stat="venue">neutral</td>
		<td data-stat="goals_for">1 (4)</td>
		<td data-stat="goals_against">1 (3)</td>
		<td data-stat="shots">9</td>
		<td data-stat="possession">abc%</td>
		<td data-stat="passes_completed">1,204</td>
		<td data-stat="passes_pct"></td>
		<td data-stat="corners">n/a</td>
	</tr>
</tbody></table>`)

	records := p.ParseMatchRows(context.Background(), doc, 7)
	require.Len(t, records, 1)

	expected := domain.MatchRecord{
		Date: date(2023, 3, 10), Opponent: "Inter", Venue: domain.VenueNeutral,
		GoalsFor: 1, GoalsAgainst: 1,
		Shots: 9, ShotsOnTarget: 0, ShotsOffTarget: 9,
		PossessionPct: 0, PassesCompleted: 1204, PassAccuracyPct: 0,
	}
	if diff := cmp.Diff(expected, records[0]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	degraded := tel.Find(telemetry.LevelWarning, report_parser_extract_field)
	require.Len(t, degraded, 2)
	require.Equal(t, "possession", degraded[0].Params[0])
	require.Equal(t, "corners", degraded[1].Params[0])

	var missing []any
	for _, report := range tel.Find(telemetry.LevelDebug, report_parser_extract_field) {
		missing = append(missing, report.Params[0])
	}
	require.Equal(t, []any{"shots_on_target", "passes_pct", "corners_against", "fouls", "fouled"}, missing)
}

func TestParseMatchRowsDropsRowsWithoutDate(t *testing.T) {
	p, _ := newTestParser(t)
	doc := mustDocument(t, `
<table class="stats_table"><tbody>
	<tr><td data-stat="date"></td><td data-stat="opponent">Ghost</td></tr>
	<tr><td data-stat="date">next week</td><td data-stat="opponent">Phantom</td></tr>
	<tr class="thead"><th data-stat="date">Date</th></tr>
	<tr><td data-stat="date">2023-01-02</td><td data-stat="opponent">Fulham</td></tr>
</tbody></table>`)

	records := p.ParseMatchRows(context.Background(), doc, 7)
	require.Len(t, records, 1)
	require.Equal(t, "Fulham", records[0].Opponent)
	require.Equal(t, domain.VenueUnknown, records[0].Venue)
	require.False(t, records[0].CornersFor.Valid)
}

func TestParseMatchRowsCommentedTable(t *testing.T) {
	p, _ := newTestParser(t)
	doc := mustDocument(t, `<div><!-- ignored comment --></div>
<div class="placeholder"><!--
<table class="stats_table"><tbody>
	<tr><td data-stat="date">2023-02-11</td><td data-stat="opponent">Everton</td></tr>
</tbody></table>
--></div>`)

	records := p.ParseMatchRows(context.Background(), doc, 7)
	require.Len(t, records, 1)
	require.Equal(t, "Everton", records[0].Opponent)
}

func TestParseMatchRowsNoTable(t *testing.T) {
	p, tel := newTestParser(t)
	records := p.ParseMatchRows(context.Background(), mustDocument(t, "<p>nothing</p>"), 7)
	require.Empty(t, records)
	require.Len(t, tel.Find(telemetry.LevelWarning, report_parser_match_rows), 1)
}

func TestParseSearchResults(t *testing.T) {
	p, _ := newTestParser(t)
	doc := mustDocument(t, `
<div class="search-item">
	<div class="search-item-name"><a href="/en/squads/b8fd03ef/Manchester-City-Stats">Manchester City</a></div>
</div>
<div class="search-item">
	<div class="search-item-name"><a href="/en/squads/19538871/Manchester-United-Stats">Manchester United</a></div>
</div>
<div class="search-item">
	<div class="search-item-name"><a href="/en/players/some-player">Some Player</a></div>
</div>`)

	expected := []SearchResult{
		{Name: "Manchester City", ID: "b8fd03ef", URL: "https://fbref.com/en/squads/b8fd03ef/Manchester-City-Stats"},
		{Name: "Manchester United", ID: "19538871", URL: "https://fbref.com/en/squads/19538871/Manchester-United-Stats"},
	}
	require.Equal(t, expected, p.ParseSearchResults(context.Background(), doc))
}

func TestParseSearchResultsRedirectedToTeam(t *testing.T) {
	p, _ := newTestParser(t)
	doc := mustDocument(t, `
<html><head><link rel="canonical" href="https://fbref.com/en/squads/822bd0ba/Liverpool-Stats"></head>
<body><div id="meta"><h1><span>2023-2024 Liverpool Stats, All Competitions</span></h1></div></body></html>`)

	expected := []SearchResult{
		{Name: "Liverpool", ID: "822bd0ba", URL: "https://fbref.com/en/squads/822bd0ba/Liverpool-Stats"},
	}
	require.Equal(t, expected, p.ParseSearchResults(context.Background(), doc))
}

func TestParseSearchResultsEmpty(t *testing.T) {
	p, _ := newTestParser(t)
	require.Empty(t, p.ParseSearchResults(context.Background(), mustDocument(t, "<p>No results</p>")))
}

func TestParseProfile(t *testing.T) {
	p, tel := newTestParser(t)
	doc := mustDocument(t, `
<div id="meta"><h1 itemprop="name">Manchester City</h1></div>
<div id="inner_nav"><ul>
	<li><a href="/en/squads/b8fd03ef/Manchester-City-Stats">Stats</a></li>
	<li><a href="/en/squads/b8fd03ef/matchlogs/2023-2024/Manchester-City-Match-Logs">Match Logs</a></li>
</ul></div>`)

	profile := p.ParseProfile(context.Background(), doc)
	require.Equal(t, Profile{
		Name:        "Manchester City",
		MatchLogURL: "https://fbref.com/en/squads/b8fd03ef/matchlogs/2023-2024/Manchester-City-Match-Logs",
	}, profile)
	require.Empty(t, tel.Find(telemetry.LevelWarning, report_parser_profile))
}

func TestParseProfileIncomplete(t *testing.T) {
	p, tel := newTestParser(t)

	profile := p.ParseProfile(context.Background(), mustDocument(t, `<div id="meta"><h1 itemprop="name">Arsenal</h1></div>`))
	require.Equal(t, Profile{Name: "Arsenal"}, profile)
	require.Len(t, tel.Find(telemetry.LevelWarning, report_parser_profile), 1)
}
