// parser.go turns fbref pages into search results, team profiles and match
// records. Nothing here performs network requests.

package fbref

import (
	"context"
	"regexp"
	"strings"
	"time"

	"fbref-scraper/internal/components/assert"
	"fbref-scraper/internal/components/telemetry"
	"fbref-scraper/internal/domain"
	"fbref-scraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("fbref.internal.scrapers.fbref")

const (
	report_parser_search_results = "parser.parse-search-results"
	report_parser_profile        = "parser.parse-profile"
	report_parser_match_rows     = "parser.parse-match-rows"
	report_parser_extract_field  = "parser.extract-field"
)

type SearchResult struct {
	Name string
	ID   string
	URL  string
}

// Profile is what a team page reveals. Empty fields mean the page did not
// contain them.
type Profile struct {
	Name        string
	MatchLogURL string
}

type Parser struct {
	urls URLs
	tel  telemetry.API
}

func NewParser(baseURL string, tel telemetry.API) (Parser, error) {
	assert.NotNil(tel)
	urls, err := NewURLs(baseURL)
	if err != nil {
		return Parser{}, err
	}
	return Parser{
		urls: urls,
		tel:  telemetry.NewScopedAPI("fbref_parser", tel),
	}, nil
}

func (p Parser) URLs() URLs {
	return p.urls
}

// ParseSearchResults lists the team links of a search page in page order,
// links to anything but a squad are skipped. When the site redirected a
// unique hit straight to the team page, that page is the only result.
func (p Parser) ParseSearchResults(ctx context.Context, doc *goquery.Document) []SearchResult {
	ctx, span := tracer.Start(ctx, "ParseSearchResults")
	defer span.End()

	var results []SearchResult
	for _, anchor := range htmlutil.Anchors(ctx, p.urls.Base(), doc.Find(".search-item-name a")) {
		id, ok := SquadID(anchor.Href)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			Name: anchor.Name,
			ID:   id,
			URL:  anchor.Href,
		})
	}
	if len(results) > 0 {
		span.SetAttributes(attribute.Int("results", len(results)))
		return results
	}

	canonical := doc.Find(`link[rel="canonical"]`).AttrOr("href", "")
	id, ok := SquadID(canonical)
	if !ok {
		return nil
	}
	name := p.profileName(doc)
	if name == "" {
		name = NameFromSlug(canonical)
	}
	p.tel.ReportDebug(report_parser_search_results, "search redirected to team page", canonical)
	return []SearchResult{{
		Name: name,
		ID:   id,
		URL:  p.urls.Absolute(canonical),
	}}
}

var headingNameRegex = regexp.MustCompile(`^(?:\d{4}(?:-\d{4})?\s+)?(.+?)\s+Stats\b`)

func (p Parser) profileName(doc *goquery.Document) string {
	name := htmlutil.SelectionText(doc.Find(`h1[itemprop="name"]`))
	if name != "" {
		return name
	}
	heading := htmlutil.SelectionText(doc.Find("#meta h1"))
	if groups := headingNameRegex.FindStringSubmatch(heading); len(groups) == 2 {
		return groups[1]
	}
	return heading
}

func (p Parser) ParseProfile(ctx context.Context, doc *goquery.Document) Profile {
	ctx, span := tracer.Start(ctx, "ParseProfile")
	defer span.End()

	profile := Profile{Name: p.profileName(doc)}

	anchors := htmlutil.Anchors(ctx, p.urls.Base(), doc.Find("#inner_nav a"))
	link, ok := htmlutil.FirstAnchor(anchors, func(a htmlutil.Anchor) bool {
		return strings.Contains(a.Name, "Match Logs")
	})
	if !ok {
		link, ok = htmlutil.FirstAnchor(anchors, func(a htmlutil.Anchor) bool {
			return strings.Contains(a.Href, "/matchlogs/all_comps/")
		})
	}
	if ok {
		profile.MatchLogURL = link.Href
	}

	if profile.Name == "" || profile.MatchLogURL == "" {
		p.tel.ReportWarning(report_parser_profile, "incomplete profile", profile.Name, profile.MatchLogURL)
	}
	return profile
}

func (p Parser) matchTable(doc *goquery.Document) *goquery.Selection {
	table := doc.Find("table#matchlogs_for").First()
	if table.Length() > 0 {
		return table
	}
	return doc.Find("table.stats_table").First()
}

// ParseMatchRows converts at most limit data rows of the primary match log
// table, starting from the first one. Rows without a readable date are
// dropped, every other field falls back to its default.
func (p Parser) ParseMatchRows(ctx context.Context, doc *goquery.Document, limit int) []domain.MatchRecord {
	_, span := tracer.Start(ctx, "ParseMatchRows")
	defer span.End()

	table := p.matchTable(doc)
	if table.Length() == 0 {
		p.tel.ReportWarning(report_parser_match_rows, "no match table found")
		return nil
	}

	rows := table.Find("tbody tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return !row.HasClass("spacer") && !row.HasClass("thead")
	})
	if limit >= 0 && rows.Length() > limit {
		rows = rows.Slice(0, limit)
	}

	var records []domain.MatchRecord
	rows.Each(func(i int, row *goquery.Selection) {
		record, ok := p.parseRow(row)
		if !ok {
			p.tel.ReportWarning(report_parser_match_rows, "dropped row without date", i)
			return
		}
		records = append(records, record)
	})

	span.SetAttributes(
		attribute.Int("rows", rows.Length()),
		attribute.Int("records", len(records)),
	)
	return records
}

func (p Parser) parseRow(row *goquery.Selection) (domain.MatchRecord, bool) {
	dateText, ok := cellText(row, `[data-stat="date"]`, "")
	if !ok {
		return domain.MatchRecord{}, false
	}
	date, err := time.Parse(domain.DateLayout, dateText)
	if err != nil {
		p.tel.ReportWarning(report_parser_extract_field, "date", dateText, err)
		return domain.MatchRecord{}, false
	}

	record := domain.MatchRecord{
		Date:         date,
		Opponent:     extract(p, row, fieldOpponent),
		Venue:        extract(p, row, fieldVenue),
		GoalsFor:     extract(p, row, fieldGoalsFor),
		GoalsAgainst: extract(p, row, fieldGoalsAgainst),

		Shots:         extract(p, row, fieldShots),
		ShotsOnTarget: extract(p, row, fieldShotsOnTgt),

		PossessionPct:   extract(p, row, fieldPossession),
		PassesCompleted: extract(p, row, fieldPasses),
		PassAccuracyPct: extract(p, row, fieldPassPct),

		CornersFor:     extract(p, row, fieldCornersFor),
		CornersAgainst: extract(p, row, fieldCornersAgainst),
		FoulsCommitted: extract(p, row, fieldFouls),
		FoulsSuffered:  extract(p, row, fieldFouled),
	}
	record.ShotsOffTarget = domain.ShotsOffTarget(record.Shots, record.ShotsOnTarget)
	return record, true
}
