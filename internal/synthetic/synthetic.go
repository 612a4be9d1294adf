package synthetic

import (
	"slices"
	"time"

	"fbref-scraper/internal/domain"
	"fbref-scraper/lib/textutil"
)

type entry struct {
	key  string
	team domain.Team
}

// Dataset holds hand-authored match logs used when live acquisition is
// disabled or failed. It is read-only and safe for concurrent reads.
type Dataset struct {
	entries []entry
}

func match(
	y int, m time.Month, d int,
	opponent string, venue domain.Venue,
	goalsFor, goalsAgainst, shots, onTarget int,
	possession float64, passes int, passPct float64,
	cornersFor, cornersAgainst, fouls, fouled int,
) domain.MatchRecord {
	return domain.MatchRecord{
		Date:            time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Opponent:        opponent,
		Venue:           venue,
		GoalsFor:        goalsFor,
		GoalsAgainst:    goalsAgainst,
		Shots:           shots,
		ShotsOnTarget:   onTarget,
		ShotsOffTarget:  domain.ShotsOffTarget(shots, onTarget),
		PossessionPct:   possession,
		PassesCompleted: passes,
		PassAccuracyPct: passPct,
		CornersFor:      domain.Some(cornersFor),
		CornersAgainst:  domain.Some(cornersAgainst),
		FoulsCommitted:  domain.Some(fouls),
		FoulsSuffered:   domain.Some(fouled),
	}
}

const (
	home = domain.VenueHome
	away = domain.VenueAway
)

// Default returns the built-in dataset, newest match first per team.
func Default() *Dataset {
	return &Dataset{entries: []entry{
		{key: "manchester city", team: domain.Team{
			Name: "Manchester City",
			ID:   "b8fd03ef",
			Matches: []domain.MatchRecord{
				match(2025, time.May, 10, "Arsenal", home, 3, 1, 15, 8, 60.2, 500, 88.5, 7, 3, 10, 12),
				match(2025, time.May, 3, "Liverpool", away, 2, 2, 12, 5, 55.8, 450, 85.0, 6, 4, 8, 9),
				match(2025, time.April, 29, "Manchester United", home, 4, 0, 18, 10, 65.3, 550, 90.2, 8, 2, 7, 10),
				match(2025, time.April, 22, "Tottenham", away, 1, 1, 14, 6, 58.5, 480, 87.5, 5, 5, 9, 8),
				match(2025, time.April, 18, "Chelsea", home, 2, 0, 16, 9, 62.7, 520, 89.8, 7, 3, 6, 11),
				match(2025, time.April, 12, "Newcastle", away, 3, 2, 15, 8, 59.6, 490, 86.4, 6, 4, 8, 10),
				match(2025, time.April, 6, "Leicester", home, 5, 0, 20, 12, 68.2, 580, 92.0, 9, 1, 5, 8),
			},
		}},
		{key: "manchester united", team: domain.Team{
			Name: "Manchester United",
			ID:   "19538871",
			Matches: []domain.MatchRecord{
				match(2025, time.May, 10, "Chelsea", home, 2, 1, 14, 7, 54.3, 460, 84.2, 6, 4, 11, 9),
				match(2025, time.May, 3, "Arsenal", away, 1, 2, 10, 4, 45.7, 400, 80.5, 4, 7, 12, 8),
				match(2025, time.April, 29, "Manchester City", away, 0, 4, 8, 2, 34.7, 320, 75.8, 2, 8, 10, 7),
				match(2025, time.April, 22, "Newcastle", home, 2, 0, 15, 8, 58.2, 470, 85.3, 7, 3, 8, 10),
				match(2025, time.April, 18, "Liverpool", away, 1, 3, 9, 3, 42.5, 380, 79.6, 3, 8, 14, 7),
				match(2025, time.April, 12, "Tottenham", home, 2, 2, 13, 6, 51.4, 440, 83.2, 5, 5, 9, 9),
				match(2025, time.April, 6, "Aston Villa", away, 1, 0, 12, 5, 53.6, 450, 82.8, 6, 4, 10, 8),
			},
		}},
		{key: "liverpool", team: domain.Team{
			Name: "Liverpool",
			ID:   "822bd0ba",
			Matches: []domain.MatchRecord{
				match(2025, time.May, 10, "Tottenham", away, 2, 1, 16, 7, 57.4, 505, 86.9, 8, 4, 9, 10),
				match(2025, time.May, 3, "Manchester City", home, 2, 2, 13, 6, 44.2, 410, 83.1, 4, 6, 9, 8),
				match(2025, time.April, 26, "Brighton", home, 3, 0, 19, 9, 61.5, 530, 88.0, 9, 2, 7, 11),
				match(2025, time.April, 18, "Manchester United", home, 3, 1, 17, 8, 57.5, 495, 86.2, 8, 3, 7, 14),
				match(2025, time.April, 12, "Everton", away, 1, 0, 11, 4, 52.8, 440, 82.4, 5, 5, 13, 10),
				match(2025, time.April, 5, "Chelsea", home, 2, 1, 15, 6, 55.1, 470, 85.5, 7, 4, 10, 9),
				match(2025, time.March, 29, "West Ham", away, 4, 1, 21, 11, 63.0, 545, 89.1, 10, 2, 6, 12),
			},
		}},
	}}
}

// Lookup returns a copy of the team a name refers to with at most limit
// matches. Exact keys win over containment in either direction, which wins
// over word abbreviations.
func (d *Dataset) Lookup(name string, limit int) (domain.Team, bool) {
	query := textutil.NormalizeName(name)
	if query == "" {
		return domain.Team{}, false
	}
	for _, kind := range []textutil.MatchKind{textutil.MatchExact, textutil.MatchContains, textutil.MatchAbbreviation} {
		for _, e := range d.entries {
			if textutil.Match(query, e.key) == kind {
				return truncated(e.team, limit), true
			}
		}
	}
	return domain.Team{}, false
}

func truncated(team domain.Team, limit int) domain.Team {
	matches := team.Matches
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	team.Matches = slices.Clone(matches)
	return team
}

// Names lists the teams the dataset covers.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.entries))
	for i, e := range d.entries {
		names[i] = e.team.Name
	}
	return names
}
