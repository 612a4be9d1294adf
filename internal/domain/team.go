package domain

// Team is a resolved team together with the matches acquired for it, in the
// order they were discovered.
type Team struct {
	Name    string
	ID      string
	Matches []MatchRecord
}

// KnownTeam is a static entry of the known teams table.
type KnownTeam struct {
	Key          string   `yaml:"key" validate:"required"`
	Aliases      []string `yaml:"aliases"`
	ID           string   `yaml:"id" validate:"required"`
	Name         string   `yaml:"name" validate:"required"`
	MatchLogPath string   `yaml:"match_log_path" validate:"omitempty,startswith=/"`
}
