package fbref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fbref-scraper/internal/domain"
	"fbref-scraper/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// fieldSpec describes how a single data-stat cell becomes a typed value.
type fieldSpec[T any] struct {
	stat string
	// prefer is an element inside the cell whose text wins when present,
	// opponent cells carry a flag before the linked name.
	prefer  string
	convert func(string) (T, error)
	def     T
}

var (
	fieldOpponent     = fieldSpec[string]{stat: "opponent", prefer: "a", convert: parseText, def: "Unknown"}
	fieldVenue        = fieldSpec[domain.Venue]{stat: "venue", convert: parseVenue, def: domain.VenueUnknown}
	fieldGoalsFor     = fieldSpec[int]{stat: "goals_for", convert: parseScore}
	fieldGoalsAgainst = fieldSpec[int]{stat: "goals_against", convert: parseScore}
	fieldShots        = fieldSpec[int]{stat: "shots", convert: parseInt}
	fieldShotsOnTgt   = fieldSpec[int]{stat: "shots_on_target", convert: parseInt}
	fieldPossession   = fieldSpec[float64]{stat: "possession", convert: parsePct}
	fieldPasses       = fieldSpec[int]{stat: "passes_completed", convert: parseInt}
	fieldPassPct      = fieldSpec[float64]{stat: "passes_pct", convert: parsePct}

	fieldCornersFor     = fieldSpec[domain.OptionalInt]{stat: "corners", convert: optional(parseInt)}
	fieldCornersAgainst = fieldSpec[domain.OptionalInt]{stat: "corners_against", convert: optional(parseInt)}
	fieldFouls          = fieldSpec[domain.OptionalInt]{stat: "fouls", convert: optional(parseInt)}
	fieldFouled         = fieldSpec[domain.OptionalInt]{stat: "fouled", convert: optional(parseInt)}
)

func statSelector(stat string) string {
	return fmt.Sprintf(`td[data-stat="%s"]`, stat)
}

func cellText(row *goquery.Selection, selector, prefer string) (string, bool) {
	cell := row.Find(selector).First()
	if cell.Length() == 0 {
		return "", false
	}
	if prefer != "" {
		if inner := cell.Find(prefer).First(); inner.Length() > 0 {
			cell = inner
		}
	}
	text := htmlutil.SelectionText(cell)
	return text, text != ""
}

// extract never fails: missing cells and bad values both yield the default.
// Missing cells are reported at debug level, bad values as warnings.
func extract[T any](p Parser, row *goquery.Selection, spec fieldSpec[T]) T {
	text, ok := cellText(row, statSelector(spec.stat), spec.prefer)
	if !ok {
		p.tel.ReportDebug(report_parser_extract_field, spec.stat, "missing")
		return spec.def
	}
	value, err := spec.convert(text)
	if err != nil {
		p.tel.ReportWarning(report_parser_extract_field, spec.stat, text, err)
		return spec.def
	}
	return value
}

func parseText(s string) (string, error) {
	return s, nil
}

func parseVenue(s string) (domain.Venue, error) {
	return domain.ParseVenue(s), nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

var leadingNumberRegex = regexp.MustCompile(`^\d+`)

// parseScore keeps the regulation score of shootout cells such as "1 (4)".
func parseScore(s string) (int, error) {
	number := leadingNumberRegex.FindString(s)
	if number == "" {
		return 0, fmt.Errorf("no score in %q", s)
	}
	return strconv.Atoi(number)
}

func parsePct(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
}

func optional(convert func(string) (int, error)) func(string) (domain.OptionalInt, error) {
	return func(s string) (domain.OptionalInt, error) {
		n, err := convert(s)
		if err != nil {
			return domain.OptionalInt{}, err
		}
		return domain.Some(n), nil
	}
}
