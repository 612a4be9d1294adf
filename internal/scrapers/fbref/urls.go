package fbref

import (
	"net/url"
	"regexp"
	"strings"

	"fbref-scraper/lib/textutil"
)

const DefaultBaseURL = "https://fbref.com"

var squadIDRegex = regexp.MustCompile(`/squads/([^/?#]+)/`)

// SquadID extracts the canonical team identifier from a squad path or URL.
func SquadID(rawURL string) (string, bool) {
	groups := squadIDRegex.FindStringSubmatch(rawURL)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}

// IsSquadURL reports whether rawURL points at a team profile resource.
func IsSquadURL(rawURL string) bool {
	_, ok := SquadID(rawURL)
	return ok
}

// NameFromSlug derives a display name from the last path segment of a squad
// URL, ".../Manchester-City-Stats" becomes "Manchester City".
func NameFromSlug(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	slug := path[strings.LastIndex(path, "/")+1:]
	slug = strings.TrimSuffix(slug, "-Stats")
	return strings.Join(strings.Split(slug, "-"), " ")
}

// URLs builds absolute site URLs against a base.
type URLs struct {
	base *url.URL
}

func NewURLs(baseURL string) (URLs, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return URLs{}, err
	}
	return URLs{base: base}, nil
}

func (u URLs) Base() *url.URL {
	return u.base
}

// Absolute resolves href relative to the base URL.
func (u URLs) Absolute(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return u.base.ResolveReference(ref).String()
}

func (u URLs) Search() string {
	return u.Absolute("/en/search/search.fcgi")
}

func (u URLs) Team(id, name string) string {
	return u.Absolute("/en/squads/" + id + "/" + textutil.Dashed(name) + "-Stats")
}

// MatchLog is the best-guess all competitions match log of a team, used when
// neither the known table nor the profile page provide one.
func (u URLs) MatchLog(id, name string) string {
	return u.Absolute(
		"/en/squads/" + id + "/matchlogs/all_comps/" +
			textutil.Dashed(name) + "-Scores-and-Fixtures-All-Competitions",
	)
}
