package acquisition

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrTransport marks network and connection level failures.
	ErrTransport = errors.New("transport failure")
	// ErrBlocked marks classified error pages and blocking status codes.
	ErrBlocked = errors.New("blocked")
	// ErrTimeout marks a browser render that did not finish in time.
	ErrTimeout = errors.New("browser render timed out")
	// ErrExhausted matches every Failure that ran out of attempts.
	ErrExhausted = errors.New("acquisition attempts exhausted")
)

// Failure is returned by Client.Get once no attempt is left.
type Failure struct {
	URL            string
	Attempts       int
	Status         int
	Classification Classification
	State          State
	// Kind is one of ErrTransport, ErrBlocked or ErrTimeout.
	Kind error
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf(
		"get %s: %s after %d attempt(s) (status=%d classification=%s): %v",
		f.URL, f.Kind, f.Attempts, f.Status, f.Classification, f.Err,
	)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func (f *Failure) Is(target error) bool {
	if target == ErrExhausted {
		return f.State == StateExhausted
	}
	return target == f.Kind
}
