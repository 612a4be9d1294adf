package acquisition

import (
	"context"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"fbref-scraper/internal/components/assert"
	"fbref-scraper/internal/components/chrono"
	"fbref-scraper/internal/components/telemetry"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("fbref.internal.acquisition")

const (
	report_client_get        = "client.get"
	report_client_escalate   = "client.escalate"
	report_client_retry      = "client.retry"
	report_client_soft_error = "client.soft-server-error"
	report_client_escalated  = "client.escalations"
)

// Options configures a Client. Zero-valued hooks fall back to the real
// implementations.
type Options struct {
	// RateLimitDelay is the base spacing between delivered requests.
	RateLimitDelay time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RequestsPerMinute is a hard ceiling across all attempts, 0 disables it.
	RequestsPerMinute int
	RequestTimeout    time.Duration
	// BackoffUnit scales exponential backoff, one second unless set.
	BackoffUnit time.Duration
	UserAgents  []string
	Browser     BrowserOptions

	Clock      chrono.API
	Rand       *rand.Rand
	Transport  Transport
	NewBrowser func() Browser
}

// Client fetches pages, escalating from a plain HTTP transport to a browser
// when the site blocks the lightweight path. A Client is single-threaded.
type Client struct {
	transport  Transport
	newBrowser func() Browser
	browser    Browser

	limiter  *RateLimiter
	ceiling  *rate.Limiter
	identity *IdentityPool
	clock    chrono.API
	rng      *rand.Rand

	maxRetries  int
	backoffUnit time.Duration
	escalations int64

	tel telemetry.API
}

func NewClient(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("acquisition", tel)

	if opts.MaxRetries < 0 {
		return nil, errors.Newf("max retries must not be negative, got %d", opts.MaxRetries)
	}
	if opts.Clock == nil {
		opts.Clock = chrono.NewStandardImpl()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = time.Second
	}
	if opts.Transport == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		transport, err := NewHTTPTransport(timeout, tel)
		if err != nil {
			return nil, err
		}
		opts.Transport = transport
	}
	if opts.NewBrowser == nil {
		browserOpts := opts.Browser
		rng := opts.Rand
		opts.NewBrowser = func() Browser {
			return NewChromeBrowser(browserOpts, rng, tel)
		}
	}

	ceiling := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		ceiling = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &Client{
		transport:   opts.Transport,
		newBrowser:  opts.NewBrowser,
		limiter:     NewRateLimiter(opts.Clock, opts.RateLimitDelay),
		ceiling:     ceiling,
		identity:    NewIdentityPool(opts.UserAgents, opts.Rand),
		clock:       opts.Clock,
		rng:         opts.Rand,
		maxRetries:  opts.MaxRetries,
		backoffUnit: opts.BackoffUnit,
		tel:         tel,
	}, nil
}

func withParams(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "parse url %q", rawURL)
	}
	q := u.Query()
	for key, values := range params {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Get fetches rawURL, it returns either a delivered Response or a *Failure.
// Cancelling ctx aborts any pending wait and returns ctx.Err().
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	target, err := withParams(rawURL, params)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Client.Get")
	defer span.End()
	span.SetAttributes(attribute.String("url", target))

	st := &retryState{url: target, state: StateFresh}
	for {
		if err := c.beforeAttempt(ctx, st); err != nil {
			return nil, err
		}

		var res *Response
		if st.state == StateFresh {
			st.state = StateTransportAttempted
			res, err = c.tryTransport(ctx, st)
		} else {
			st.state = StateEscalated
			res, err = c.tryBrowser(ctx, st)
		}
		span.AddEvent("attempt", traceAttempt(st, err))

		if err == nil {
			st.state = StateSucceeded
			c.limiter.Mark()
			span.SetAttributes(attribute.String("strategy", res.Strategy.String()))
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if st.attempt >= c.maxRetries {
			st.state = StateExhausted
			failure := st.failure(err)
			c.tel.ReportBroken(report_client_get, failure)
			span.SetStatus(codes.Error, failure.Error())
			return nil, failure
		}

		if st.backoff > 0 {
			c.tel.ReportDebug(report_client_retry, st.url, st.attempt, st.backoff.String())
			if err := c.clock.Sleep(ctx, st.backoff); err != nil {
				return nil, err
			}
		}
		st.attempt++
	}
}

func traceAttempt(st *retryState, err error) trace.EventOption {
	attrs := []attribute.KeyValue{
		attribute.Int("attempt", st.attempt),
		attribute.String("state", st.state.String()),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("error", err.Error()))
	}
	return trace.WithAttributes(attrs...)
}

func (c *Client) beforeAttempt(ctx context.Context, st *retryState) error {
	if err := c.limiter.Wait(ctx, Jitter(c.rng)); err != nil {
		return err
	}
	if err := c.ceiling.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(err, "request ceiling")
	}
	if st.attempt > 0 {
		c.tel.ReportDebug(report_client_retry, "rotated identity", c.identity.Rotate())
	}
	return nil
}

// exponential returns 2^(attempt+1) units plus a uniform draw from [lo, hi) units.
func (c *Client) exponential(attempt int, lo, hi float64) time.Duration {
	units := math.Pow(2, float64(attempt+1)) + lo + c.rng.Float64()*(hi-lo)
	return time.Duration(units * float64(c.backoffUnit))
}

func blockingStatus(status int) bool {
	return status == http.StatusForbidden ||
		status == http.StatusTooManyRequests ||
		status == http.StatusInternalServerError
}

func (c *Client) tryTransport(ctx context.Context, st *retryState) (*Response, error) {
	res, err := c.transport.Get(ctx, st.url, c.identity.Headers())
	if err != nil {
		st.record(0, ClassNone, ErrTransport)
		st.backoff = c.exponential(st.attempt, 0, 1)
		c.tel.ReportWarning(report_client_escalate, st.url, err)
		return nil, err
	}

	res.Classification = Classify(res.Text())
	if blockingStatus(res.StatusCode) || res.Classification != ClassNone {
		st.record(res.StatusCode, res.Classification, ErrBlocked)
		st.backoff = 0
		c.escalations++
		c.tel.ReportWarning(report_client_escalate, st.url, res.StatusCode, res.Classification.String())
		c.tel.ReportCount(report_client_escalated, c.escalations)
		return nil, errors.Mark(
			errors.Newf("status %d classified as %s", res.StatusCode, res.Classification),
			ErrBlocked,
		)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		st.record(res.StatusCode, ClassNone, ErrTransport)
		st.backoff = c.exponential(st.attempt, 0, 1)
		c.tel.ReportWarning(report_client_escalate, st.url, res.StatusCode)
		return nil, errors.Mark(errors.Newf("unexpected status %d", res.StatusCode), ErrTransport)
	}
	return res, nil
}

func (c *Client) tryBrowser(ctx context.Context, st *retryState) (*Response, error) {
	if c.browser == nil {
		c.browser = c.newBrowser()
	}

	html, err := c.browser.Render(ctx, st.url, c.identity.UserAgent())
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			st.record(0, ClassNone, ErrTimeout)
			st.backoff = c.exponential(st.attempt, 2, 5)
		} else {
			st.record(0, ClassNone, ErrTransport)
			st.backoff = c.exponential(st.attempt, 0, 1)
		}
		return nil, err
	}

	res := &Response{
		URL:            st.url,
		StatusCode:     http.StatusOK,
		Body:           []byte(html),
		Strategy:       StrategyBrowser,
		Classification: Classify(html),
	}
	if res.Classification == ClassNone {
		return res, nil
	}
	if res.Classification == ClassServerError && st.attempt >= c.maxRetries {
		c.tel.ReportWarning(report_client_soft_error, st.url, st.attempt)
		return res, nil
	}

	st.record(res.StatusCode, res.Classification, ErrBlocked)
	st.backoff = c.exponential(st.attempt, 2, 5)
	return nil, errors.Mark(errors.Newf("rendered page classified as %s", res.Classification), ErrBlocked)
}

// Close releases the browser if one was started.
func (c *Client) Close() error {
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.browser = nil
	return err
}
