package known

import (
	"os"
	"slices"
	"sort"
	"strings"

	"fbref-scraper/internal/domain"
	"fbref-scraper/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var builtin = []domain.KnownTeam{
	{
		Key:          "manchester city",
		Aliases:      []string{"man city", "mcfc"},
		ID:           "b8fd03ef",
		Name:         "Manchester City",
		MatchLogPath: "/en/squads/b8fd03ef/matchlogs/all_comps/Manchester-City-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "manchester united",
		Aliases:      []string{"man united", "man utd", "mufc"},
		ID:           "19538871",
		Name:         "Manchester United",
		MatchLogPath: "/en/squads/19538871/matchlogs/all_comps/Manchester-United-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "liverpool",
		Aliases:      []string{"lfc"},
		ID:           "822bd0ba",
		Name:         "Liverpool",
		MatchLogPath: "/en/squads/822bd0ba/matchlogs/all_comps/Liverpool-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "arsenal",
		Aliases:      []string{"gunners"},
		ID:           "18bb7c10",
		Name:         "Arsenal",
		MatchLogPath: "/en/squads/18bb7c10/matchlogs/all_comps/Arsenal-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "chelsea",
		ID:           "cff3d9bb",
		Name:         "Chelsea",
		MatchLogPath: "/en/squads/cff3d9bb/matchlogs/all_comps/Chelsea-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "tottenham",
		Aliases:      []string{"tottenham hotspur", "spurs"},
		ID:           "361ca564",
		Name:         "Tottenham Hotspur",
		MatchLogPath: "/en/squads/361ca564/matchlogs/all_comps/Tottenham-Hotspur-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "barcelona",
		Aliases:      []string{"barca", "fc barcelona"},
		ID:           "206d90db",
		Name:         "Barcelona",
		MatchLogPath: "/en/squads/206d90db/matchlogs/all_comps/Barcelona-Scores-and-Fixtures-All-Competitions",
	},
	{
		Key:          "real madrid",
		ID:           "53a2f082",
		Name:         "Real Madrid",
		MatchLogPath: "/en/squads/53a2f082/matchlogs/all_comps/Real-Madrid-Scores-and-Fixtures-All-Competitions",
	},
}

// Table is the static set of teams that resolve without a search. It is
// read-only once loading finished and then safe for concurrent reads.
type Table struct {
	teams []domain.KnownTeam
}

func New(teams []domain.KnownTeam) *Table {
	t := &Table{}
	for _, team := range teams {
		t.teams = append(t.teams, clone(team))
	}
	return t
}

// Default returns a table holding the built-in teams.
func Default() *Table {
	return New(builtin)
}

func clone(team domain.KnownTeam) domain.KnownTeam {
	team.Aliases = slices.Clone(team.Aliases)
	return team
}

func (t *Table) All() []domain.KnownTeam {
	out := make([]domain.KnownTeam, len(t.teams))
	for i, team := range t.teams {
		out[i] = clone(team)
	}
	return out
}

func candidates(team domain.KnownTeam) []string {
	names := make([]string, 0, len(team.Aliases)+1)
	names = append(names, textutil.NormalizeName(team.Key))
	for _, alias := range team.Aliases {
		names = append(names, textutil.NormalizeName(alias))
	}
	return names
}

// Lookup finds the team a name refers to. Exact key or alias matches win over
// containment in either direction, which wins over word abbreviations. Within
// a pass the first declared team wins.
func (t *Table) Lookup(name string) (domain.KnownTeam, textutil.MatchKind, bool) {
	query := textutil.NormalizeName(name)
	if query == "" {
		return domain.KnownTeam{}, textutil.MatchNone, false
	}
	for _, kind := range []textutil.MatchKind{textutil.MatchExact, textutil.MatchContains, textutil.MatchAbbreviation} {
		for _, team := range t.teams {
			for _, candidate := range candidates(team) {
				if textutil.Match(query, candidate) == kind {
					return clone(team), kind, true
				}
			}
		}
	}
	return domain.KnownTeam{}, textutil.MatchNone, false
}

func (t *Table) ByID(id string) (domain.KnownTeam, bool) {
	for _, team := range t.teams {
		if strings.EqualFold(team.ID, id) {
			return clone(team), true
		}
	}
	return domain.KnownTeam{}, false
}

const suggestThreshold = 0.75

// Suggest lists up to n team names similar to name, best first.
func (t *Table) Suggest(name string, n int) []string {
	query := textutil.NormalizeName(name)
	if query == "" || n <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	var hits []scored
	for _, team := range t.teams {
		best := 0.0
		for _, candidate := range candidates(team) {
			best = max(best, matchr.JaroWinkler(query, candidate, false))
		}
		if best >= suggestThreshold {
			hits = append(hits, scored{name: team.Name, score: best})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	var out []string
	for _, hit := range hits {
		if len(out) == n {
			break
		}
		out = append(out, hit.name)
	}
	return out
}

type file struct {
	Teams []domain.KnownTeam `yaml:"teams" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadFile appends the teams listed in a yaml file after the current ones.
// Entries whose id is already present are rejected.
func (t *Table) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read teams file %s", path)
	}
	var contents file
	if err := yaml.Unmarshal(raw, &contents); err != nil {
		return errors.Wrapf(err, "decode teams file %s", path)
	}
	if err := validate.Struct(contents); err != nil {
		return errors.Wrapf(err, "validate teams file %s", path)
	}
	for _, team := range contents.Teams {
		if _, exists := t.ByID(team.ID); exists {
			return errors.Newf("teams file %s: duplicate team id %q", path, team.ID)
		}
		t.teams = append(t.teams, clone(team))
	}
	return nil
}
