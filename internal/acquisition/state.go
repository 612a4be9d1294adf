package acquisition

import "time"

// State is the position of a single Get call in the acquisition state machine.
//
//	FRESH -> TRANSPORT_ATTEMPTED -> ESCALATED_TO_BROWSER (-> ESCALATED_TO_BROWSER)*
//	any   -> SUCCEEDED | EXHAUSTED
type State int

const (
	StateFresh State = iota
	StateTransportAttempted
	StateEscalated
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "FRESH"
	case StateTransportAttempted:
		return "TRANSPORT_ATTEMPTED"
	case StateEscalated:
		return "ESCALATED_TO_BROWSER"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateExhausted:
		return "EXHAUSTED"
	}
	return "UNKNOWN"
}

// retryState belongs to exactly one Get call.
type retryState struct {
	url     string
	state   State
	attempt int

	lastStatus int
	lastClass  Classification
	lastKind   error
	backoff    time.Duration
}

func (s *retryState) record(status int, class Classification, kind error) {
	s.lastStatus = status
	s.lastClass = class
	s.lastKind = kind
}

func (s *retryState) failure(err error) *Failure {
	kind := s.lastKind
	if kind == nil {
		kind = ErrTransport
	}
	return &Failure{
		URL:            s.url,
		Attempts:       s.attempt + 1,
		Status:         s.lastStatus,
		Classification: s.lastClass,
		State:          s.state,
		Kind:           kind,
		Err:            err,
	}
}
