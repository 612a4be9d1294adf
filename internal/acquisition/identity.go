package acquisition

import (
	"math/rand/v2"
)

var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
}

// IdentityPool is the simulated client identity a Client presents. It is owned
// by exactly one Client.
type IdentityPool struct {
	userAgents []string
	rng        *rand.Rand
	current    int
}

func NewIdentityPool(userAgents []string, rng *rand.Rand) *IdentityPool {
	if len(userAgents) == 0 {
		userAgents = DefaultUserAgents
	}
	return &IdentityPool{
		userAgents: userAgents,
		rng:        rng,
		current:    rng.IntN(len(userAgents)),
	}
}

func (p *IdentityPool) UserAgent() string {
	return p.userAgents[p.current]
}

// Rotate switches to a different user agent whenever the pool has more than one.
func (p *IdentityPool) Rotate() string {
	if len(p.userAgents) > 1 {
		next := p.rng.IntN(len(p.userAgents) - 1)
		if next >= p.current {
			next++
		}
		p.current = next
	}
	return p.UserAgent()
}

// Headers returns the browser-like header set for the current identity.
func (p *IdentityPool) Headers() map[string]string {
	return map[string]string{
		"User-Agent":                p.UserAgent(),
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Accept-Encoding":           "gzip, br, zstd",
		"DNT":                       "1",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Cache-Control":             "max-age=0",
		"Referer":                   "https://www.google.com/",
	}
}
