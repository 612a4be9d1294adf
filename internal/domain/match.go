package domain

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Venue string

const (
	VenueHome    Venue = "Home"
	VenueAway    Venue = "Away"
	VenueNeutral Venue = "Neutral"
	VenueUnknown Venue = "Unknown"
)

// ParseVenue normalizes the case of the known venues and keeps any other
// non-empty text as is.
func ParseVenue(s string) Venue {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return VenueUnknown
	case "home":
		return VenueHome
	case "away":
		return VenueAway
	case "neutral":
		return VenueNeutral
	}
	return Venue(s)
}

// OptionalInt is an int that may be absent from the source page.
type OptionalInt struct {
	Value int
	Valid bool
}

func Some(n int) OptionalInt {
	return OptionalInt{Value: n, Valid: true}
}

// String renders absent values as the empty string.
func (o OptionalInt) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.Itoa(o.Value)
}

// MatchRecord is one row of a team's match log. It is a value, copies never
// share state.
type MatchRecord struct {
	Date     time.Time
	Opponent string
	Venue    Venue

	GoalsFor     int
	GoalsAgainst int

	Shots          int
	ShotsOnTarget  int
	ShotsOffTarget int

	PossessionPct   float64
	PassesCompleted int
	PassAccuracyPct float64

	CornersFor     OptionalInt
	CornersAgainst OptionalInt
	FoulsCommitted OptionalInt
	FoulsSuffered  OptionalInt
}

// ShotsOffTarget derives the off target count, never below zero.
func ShotsOffTarget(shots, onTarget int) int {
	if shots-onTarget < 0 {
		return 0
	}
	return shots - onTarget
}

// Fields is the fixed column order of a rendered match record.
var Fields = []string{
	"date", "opponent", "venue", "goals_for", "goals_against",
	"shots", "shots_on_target", "shots_off_target", "possession_pct",
	"passes_completed", "pass_accuracy_pct", "corners_for", "corners_against",
	"fouls_committed", "fouls_suffered",
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Row renders the record in Fields order.
func (m MatchRecord) Row() []string {
	return []string{
		m.Date.Format(DateLayout),
		m.Opponent,
		string(m.Venue),
		strconv.Itoa(m.GoalsFor),
		strconv.Itoa(m.GoalsAgainst),
		strconv.Itoa(m.Shots),
		strconv.Itoa(m.ShotsOnTarget),
		strconv.Itoa(m.ShotsOffTarget),
		formatPct(m.PossessionPct),
		strconv.Itoa(m.PassesCompleted),
		formatPct(m.PassAccuracyPct),
		m.CornersFor.String(),
		m.CornersAgainst.String(),
		m.FoulsCommitted.String(),
		m.FoulsSuffered.String(),
	}
}
