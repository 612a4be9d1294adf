package config

import (
	"io/fs"
	"os"
	"strconv"
	"time"

	"fbref-scraper/internal/acquisition"
	"fbref-scraper/internal/components/telemetry"
	"fbref-scraper/internal/scrapers/fbref"
	"fbref-scraper/lib/configutil"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const DefaultFile = "fbref.json5"

type BrowserConfig struct {
	// Headless is a pointer so a local override can turn it off.
	Headless        *bool   `json:"headless"`
	ExecPath        string  `json:"exec_path"`
	PageLoadTimeout float64 `json:"page_load_timeout" validate:"gt=0"`
	BodyWait        float64 `json:"body_wait" validate:"gt=0"`
	SettleMin       float64 `json:"settle_min" validate:"gte=0"`
	SettleMax       float64 `json:"settle_max" validate:"gtefield=SettleMin"`
}

type OtlpConfig struct {
	TracesEndpoint string            `json:"traces_endpoint" validate:"omitempty,url"`
	Headers        map[string]string `json:"headers"`
}

// Config holds every tunable of the scraper. Durations are in seconds.
type Config struct {
	BaseURL              string        `json:"base_url" validate:"required,url"`
	RateLimitDelay       float64       `json:"rate_limit_delay" validate:"gte=0"`
	MaxRetries           int           `json:"max_retries" validate:"gte=0,lte=10"`
	MaxRequestsPerMinute int           `json:"max_requests_per_minute" validate:"gt=0"`
	RequestTimeout       float64       `json:"request_timeout" validate:"gt=0"`
	Browser              BrowserConfig `json:"browser"`
	UserAgents           []string      `json:"user_agents" validate:"dive,required"`
	TeamsFile            string        `json:"teams_file"`
	Otlp                 OtlpConfig    `json:"otlp"`
	MatchLimit           int           `json:"match_limit" validate:"gt=0"`
	Mode                 string        `json:"mode" validate:"oneof=online fallback offline"`
}

func Default() Config {
	headless := true
	return Config{
		BaseURL:              fbref.DefaultBaseURL,
		RateLimitDelay:       5,
		MaxRetries:           3,
		MaxRequestsPerMinute: 20,
		RequestTimeout:       30,
		Browser: BrowserConfig{
			Headless:        &headless,
			PageLoadTimeout: 30,
			BodyWait:        10,
			SettleMin:       2,
			SettleMax:       4,
		},
		MatchLimit: 7,
		Mode:       "online",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// Load layers, lowest priority first: defaults, the config file and its
// .local override, then .env and the process environment. A missing file is
// only an error when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	err := configutil.ReadConfigInto(path, &cfg)
	if errors.Is(err, os.ErrNotExist) && !required {
		err = nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}

	err = godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("FBREF_BASE_URL"); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := lookup("FBREF_CHROME_PATH"); ok && v != "" {
		cfg.Browser.ExecPath = v
	}
	if v, ok := lookup("FBREF_HEADLESS"); ok && v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "FBREF_HEADLESS=%q", v)
		}
		cfg.Browser.Headless = &headless
	}
	if v, ok := lookup("FBREF_OTLP_ENDPOINT"); ok && v != "" {
		cfg.Otlp.TracesEndpoint = v
	}
	if v, ok := lookup("FBREF_TEAMS_FILE"); ok && v != "" {
		cfg.TeamsFile = v
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c Config) BrowserOptions() acquisition.BrowserOptions {
	headless := true
	if c.Browser.Headless != nil {
		headless = *c.Browser.Headless
	}
	return acquisition.BrowserOptions{
		Headless:        headless,
		ExecPath:        c.Browser.ExecPath,
		PageLoadTimeout: seconds(c.Browser.PageLoadTimeout),
		BodyWait:        seconds(c.Browser.BodyWait),
		SettleMin:       seconds(c.Browser.SettleMin),
		SettleMax:       seconds(c.Browser.SettleMax),
	}
}

func (c Config) AcquisitionOptions() acquisition.Options {
	return acquisition.Options{
		RateLimitDelay:    seconds(c.RateLimitDelay),
		MaxRetries:        c.MaxRetries,
		RequestsPerMinute: c.MaxRequestsPerMinute,
		RequestTimeout:    seconds(c.RequestTimeout),
		UserAgents:        c.UserAgents,
		Browser:           c.BrowserOptions(),
	}
}

func (c Config) OtlpConfig() telemetry.OtlpConfig {
	return telemetry.OtlpConfig{
		TracesEndpoint: c.Otlp.TracesEndpoint,
		Headers:        c.Otlp.Headers,
	}
}
