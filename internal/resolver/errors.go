package resolver

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrInvalidTeamURL = errors.New("invalid team url")
	// ErrMatchLogUnavailable marks a match log that could not be acquired.
	ErrMatchLogUnavailable = errors.New("match log unavailable")
)

// NotFoundError is returned when no step of the resolution finds a team. It
// is terminal and never retried.
type NotFoundError struct {
	Identifier  string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("team not found: %q", e.Identifier)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTeamNotFound
}
