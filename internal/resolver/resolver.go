package resolver

import (
	"context"
	"net/url"
	"strings"

	"fbref-scraper/internal/acquisition"
	"fbref-scraper/internal/components/assert"
	"fbref-scraper/internal/components/telemetry"
	"fbref-scraper/internal/domain"
	"fbref-scraper/internal/known"
	"fbref-scraper/internal/scrapers/fbref"
	"fbref-scraper/internal/synthetic"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("fbref.internal.resolver")

const (
	report_resolver_resolve        = "resolver.resolve"
	report_resolver_resolve_url    = "resolver.resolve-url"
	report_resolver_search         = "resolver.search"
	report_resolver_match_log_url  = "resolver.match-log-url"
	report_resolver_fetch_matches  = "resolver.fetch-matches"
	report_resolver_fallback       = "resolver.fallback"
	report_resolver_fallback_count = "resolver.fallbacks"
)

type Mode string

const (
	// ModeOnline never uses synthetic data.
	ModeOnline Mode = "online"
	// ModeFallback substitutes synthetic matches when the match log stage
	// yields nothing. Team resolution itself never falls back.
	ModeFallback Mode = "fallback"
	// ModeOffline only uses synthetic data, nothing touches the network.
	ModeOffline Mode = "offline"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeOnline:
		return ModeOnline, nil
	case ModeFallback:
		return ModeFallback, nil
	case ModeOffline:
		return ModeOffline, nil
	}
	return "", errors.Newf("unknown mode %q", s)
}

// Acquirer fetches remote documents, acquisition.Client implements it.
type Acquirer interface {
	Get(ctx context.Context, url string, params url.Values) (*acquisition.Response, error)
}

// Source names the step that identified the team.
type Source string

const (
	SourceKnown     Source = "known"
	SourceKnownID   Source = "known_id"
	SourceProfile   Source = "profile"
	SourceSlug      Source = "slug"
	SourceSearch    Source = "search"
	SourceSynthetic Source = "synthetic"
)

// MatchSource names where the matches of a Resolution came from.
type MatchSource string

const (
	MatchesLive      MatchSource = "live"
	MatchesSynthetic MatchSource = "synthetic"
)

type Request struct {
	Identifier string
	IsURL      bool
	MatchLimit int
}

type Resolution struct {
	Team        domain.Team
	ResolvedBy  Source
	MatchesFrom MatchSource
	// MatchLogErr is the acquisition error of the match log stage, if any.
	MatchLogErr error
}

type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeNoMatches means the team exists but its match log had no rows.
	OutcomeNoMatches
	// OutcomeExhausted means the match log could not be acquired at all.
	OutcomeExhausted
)

func (r Resolution) Outcome() Outcome {
	if len(r.Team.Matches) > 0 {
		return OutcomeOK
	}
	if r.MatchLogErr != nil {
		return OutcomeExhausted
	}
	return OutcomeNoMatches
}

type Resolver struct {
	acquirer  Acquirer
	parser    fbref.Parser
	known     *known.Table
	synthetic *synthetic.Dataset
	mode      Mode
	tel       telemetry.API
}

// NewResolver creates a Resolver, acquirer may be nil in ModeOffline.
func NewResolver(
	acquirer Acquirer,
	parser fbref.Parser,
	table *known.Table,
	dataset *synthetic.Dataset,
	mode Mode,
	tel telemetry.API,
) *Resolver {
	assert.NotNil(table)
	assert.NotNil(dataset)
	assert.NotNil(tel)
	if mode != ModeOffline {
		assert.NotNil(acquirer)
	}
	return &Resolver{
		acquirer:  acquirer,
		parser:    parser,
		known:     table,
		synthetic: dataset,
		mode:      mode,
		tel:       telemetry.NewScopedAPI("resolver", tel),
	}
}

// candidate is a team identified but not populated yet.
type candidate struct {
	team   domain.Team
	source Source
	// matchLogURL is known when the table or an already fetched profile
	// provided one.
	matchLogURL string
	// profileFetched is set once the team page was requested, successfully or
	// not, so it is never requested twice.
	profileFetched bool
}

// Resolve turns a team name or profile URL into a team with at most
// req.MatchLimit matches. A *NotFoundError means no team matched. Resolving
// a team whose match log could not be acquired is not an error, see
// Resolution.Outcome.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("identifier", req.Identifier),
		attribute.Bool("is_url", req.IsURL),
		attribute.String("mode", string(r.mode)),
	)

	if req.MatchLimit <= 0 {
		return Resolution{}, errors.Newf("match limit must be positive, got %d", req.MatchLimit)
	}
	if strings.TrimSpace(req.Identifier) == "" {
		return Resolution{}, &NotFoundError{Identifier: req.Identifier}
	}

	if r.mode == ModeOffline {
		return r.resolveOffline(req)
	}

	cand, err := r.identify(ctx, req)
	if err != nil {
		return Resolution{}, err
	}
	r.tel.ReportDebug(report_resolver_resolve, "identified team", cand.team.Name, cand.team.ID, string(cand.source))

	res := Resolution{Team: cand.team, ResolvedBy: cand.source}
	matches, err := r.fetchMatches(ctx, cand, req.MatchLimit)
	if err != nil {
		if ctx.Err() != nil {
			return Resolution{}, ctx.Err()
		}
		res.MatchLogErr = errors.Mark(err, ErrMatchLogUnavailable)
	}
	if len(matches) > 0 {
		res.Team.Matches = matches
		res.MatchesFrom = MatchesLive
		return res, nil
	}

	if r.mode == ModeFallback {
		if team, ok := r.synthetic.Lookup(cand.team.Name, req.MatchLimit); ok {
			r.tel.ReportWarning(report_resolver_fallback, cand.team.Name, len(team.Matches))
			r.tel.ReportCount(report_resolver_fallback_count, 1)
			res.Team.Matches = team.Matches
			res.MatchesFrom = MatchesSynthetic
			return res, nil
		}
		r.tel.ReportWarning(report_resolver_fallback, cand.team.Name, "no synthetic data")
	}
	return res, nil
}

func (r *Resolver) offlineName(req Request) string {
	if !req.IsURL {
		return req.Identifier
	}
	if id, ok := fbref.SquadID(req.Identifier); ok {
		if entry, ok := r.known.ByID(id); ok {
			return entry.Name
		}
	}
	return fbref.NameFromSlug(req.Identifier)
}

func (r *Resolver) resolveOffline(req Request) (Resolution, error) {
	if req.IsURL && !fbref.IsSquadURL(req.Identifier) {
		return Resolution{}, errors.Wrapf(ErrInvalidTeamURL, "%q", req.Identifier)
	}
	name := r.offlineName(req)
	team, ok := r.synthetic.Lookup(name, req.MatchLimit)
	if !ok {
		return Resolution{}, &NotFoundError{
			Identifier:  req.Identifier,
			Suggestions: r.known.Suggest(name, 3),
		}
	}
	return Resolution{
		Team:        team,
		ResolvedBy:  SourceSynthetic,
		MatchesFrom: MatchesSynthetic,
	}, nil
}

func (r *Resolver) identify(ctx context.Context, req Request) (candidate, error) {
	if req.IsURL {
		return r.identifyURL(ctx, req.Identifier)
	}
	if entry, kind, ok := r.known.Lookup(req.Identifier); ok {
		r.tel.ReportDebug(report_resolver_resolve, "known team", entry.Name, int(kind))
		return r.fromKnown(entry, SourceKnown), nil
	}
	return r.search(ctx, req.Identifier)
}

func (r *Resolver) fromKnown(entry domain.KnownTeam, source Source) candidate {
	cand := candidate{
		team:   domain.Team{Name: entry.Name, ID: entry.ID},
		source: source,
	}
	if entry.MatchLogPath != "" {
		cand.matchLogURL = r.parser.URLs().Absolute(entry.MatchLogPath)
	}
	return cand
}

func (r *Resolver) identifyURL(ctx context.Context, rawURL string) (candidate, error) {
	id, ok := fbref.SquadID(rawURL)
	if !ok {
		return candidate{}, errors.Wrapf(ErrInvalidTeamURL, "%q", rawURL)
	}
	if entry, ok := r.known.ByID(id); ok {
		return r.fromKnown(entry, SourceKnownID), nil
	}

	res, err := r.acquirer.Get(ctx, rawURL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return candidate{}, ctx.Err()
		}
		name := fbref.NameFromSlug(rawURL)
		r.tel.ReportWarning(report_resolver_resolve_url, "profile unavailable, using url slug", rawURL, name, err)
		return candidate{
			team:           domain.Team{Name: name, ID: id},
			source:         SourceSlug,
			profileFetched: true,
		}, nil
	}

	doc, err := fbref.NewDocument(res.Body)
	if err != nil {
		r.tel.ReportBroken(report_resolver_resolve_url, err, rawURL)
		return candidate{
			team:           domain.Team{Name: fbref.NameFromSlug(rawURL), ID: id},
			source:         SourceSlug,
			profileFetched: true,
		}, nil
	}
	profile := r.parser.ParseProfile(ctx, doc)
	cand := candidate{
		team:           domain.Team{Name: profile.Name, ID: id},
		source:         SourceProfile,
		matchLogURL:    profile.MatchLogURL,
		profileFetched: true,
	}
	if profile.Name == "" {
		cand.team.Name = fbref.NameFromSlug(rawURL)
		cand.source = SourceSlug
	}
	return cand, nil
}

func (r *Resolver) search(ctx context.Context, name string) (candidate, error) {
	res, err := r.acquirer.Get(ctx, r.parser.URLs().Search(), url.Values{"search": {name}})
	if err != nil {
		if ctx.Err() != nil {
			return candidate{}, ctx.Err()
		}
		r.tel.ReportBroken(report_resolver_search, err, name)
		return candidate{}, errors.Wrapf(err, "search %q", name)
	}

	doc, err := fbref.NewDocument(res.Body)
	if err != nil {
		r.tel.ReportBroken(report_resolver_search, err, name)
		return candidate{}, errors.Wrapf(err, "parse search results for %q", name)
	}
	results := r.parser.ParseSearchResults(ctx, doc)
	if len(results) == 0 {
		return candidate{}, &NotFoundError{
			Identifier:  name,
			Suggestions: r.known.Suggest(name, 3),
		}
	}
	if len(results) > 1 {
		r.tel.ReportDebug(report_resolver_search, "taking first of multiple results", name, len(results))
	}
	first := results[0]
	return candidate{
		team:   domain.Team{Name: first.Name, ID: first.ID},
		source: SourceSearch,
	}, nil
}

// matchLogURL prefers the known path, then the profile's match log link, then
// the constructed all competitions path. The profile is only fetched here when
// identification did not already fetch it.
func (r *Resolver) matchLogURL(ctx context.Context, cand candidate) string {
	if cand.matchLogURL != "" {
		return cand.matchLogURL
	}
	urls := r.parser.URLs()
	fallback := urls.MatchLog(cand.team.ID, cand.team.Name)
	if cand.profileFetched {
		r.tel.ReportDebug(report_resolver_match_log_url, "profile already fetched, constructing path", fallback)
		return fallback
	}

	res, err := r.acquirer.Get(ctx, urls.Team(cand.team.ID, cand.team.Name), nil)
	if err != nil {
		r.tel.ReportWarning(report_resolver_match_log_url, "profile unavailable, constructing path", fallback, err)
		return fallback
	}
	doc, err := fbref.NewDocument(res.Body)
	if err != nil {
		r.tel.ReportWarning(report_resolver_match_log_url, "profile unparsable, constructing path", fallback, err)
		return fallback
	}
	if profile := r.parser.ParseProfile(ctx, doc); profile.MatchLogURL != "" {
		return profile.MatchLogURL
	}
	r.tel.ReportWarning(report_resolver_match_log_url, "profile has no match log link, constructing path", fallback)
	return fallback
}

func (r *Resolver) fetchMatches(ctx context.Context, cand candidate, limit int) ([]domain.MatchRecord, error) {
	target := r.matchLogURL(ctx, cand)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := r.acquirer.Get(ctx, target, nil)
	if err != nil {
		r.tel.ReportBroken(report_resolver_fetch_matches, err, target)
		return nil, errors.Wrapf(err, "fetch match log %s", target)
	}
	doc, err := fbref.NewDocument(res.Body)
	if err != nil {
		r.tel.ReportBroken(report_resolver_fetch_matches, err, target)
		return nil, errors.Wrapf(err, "parse match log %s", target)
	}

	matches := r.parser.ParseMatchRows(ctx, doc, limit)
	if len(matches) == 0 {
		r.tel.ReportWarning(report_resolver_fetch_matches, "no matches parsed", target)
	}
	return matches, nil
}
