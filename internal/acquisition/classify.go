package acquisition

import "strings"

// Classification labels a response body that matched a known block or error
// page signature. The site serves these pages with a 200 status.
type Classification int

const (
	ClassNone Classification = iota
	ClassServerError
	ClassForbidden
	ClassNotFound
	ClassRateLimited
)

func (c Classification) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassServerError:
		return "server_error"
	case ClassForbidden:
		return "forbidden"
	case ClassNotFound:
		return "not_found"
	case ClassRateLimited:
		return "rate_limited"
	}
	return "unknown"
}

type signature struct {
	class   Classification
	needles []string
}

// signatures are checked in order and the first hit wins. Rate limit pages also
// mention generic errors, so they go first.
var signatures = []signature{
	{class: ClassRateLimited, needles: []string{"Rate Limit Exceeded", "429 Too Many Requests"}},
	{class: ClassForbidden, needles: []string{"403 Forbidden", "Access Denied", "Checking your browser before accessing"}},
	{class: ClassNotFound, needles: []string{"404 Not Found"}},
	{class: ClassServerError, needles: []string{"500 error", "500 Internal Server Error"}},
}

// Classify labels a response body, every input maps to exactly one label.
func Classify(body string) Classification {
	for _, sig := range signatures {
		for _, needle := range sig.needles {
			if strings.Contains(body, needle) {
				return sig.class
			}
		}
	}
	return ClassNone
}
