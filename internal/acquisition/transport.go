package acquisition

import (
	"context"
	"net/http/cookiejar"
	"time"

	"fbref-scraper/internal/components/assert"
	"fbref-scraper/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
)

// Strategy names the fetch path that produced a Response.
type Strategy int

const (
	StrategyTransport Strategy = iota
	StrategyBrowser
)

func (s Strategy) String() string {
	if s == StrategyBrowser {
		return "browser"
	}
	return "transport"
}

// Response is a delivered page. For browser renders StatusCode is always 200.
type Response struct {
	URL            string
	StatusCode     int
	Body           []byte
	Strategy       Strategy
	Classification Classification
}

func (r *Response) Text() string {
	return string(r.Body)
}

// Transport is the lightweight fetch path.
type Transport interface {
	Get(ctx context.Context, url string, headers map[string]string) (*Response, error)
}

type HTTPTransport struct {
	http *resty.Client
}

func NewHTTPTransport(timeout time.Duration, tel telemetry.API) (*HTTPTransport, error) {
	assert.NotNil(tel)

	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	httpClient.SetTimeout(timeout)

	telemetry.InstrumentResty(httpClient, tel)

	return &HTTPTransport{http: httpClient}, nil
}

// Get never treats a non-2xx status as an error, the caller decides.
func (t *HTTPTransport) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	res, err := t.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "get %s", url), ErrTransport)
	}

	body, err := decodeBody(res.Header().Get("Content-Encoding"), res.Body())
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s", url), ErrTransport)
	}

	finalURL := url
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalURL = res.RawResponse.Request.URL.String()
	}
	return &Response{
		URL:        finalURL,
		StatusCode: res.StatusCode(),
		Body:       body,
		Strategy:   StrategyTransport,
	}, nil
}
