package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths and the env var prefix.
	AppName = "finscreen"

	// DefaultBaseURL is the site every company page is fetched from.
	DefaultBaseURL = "https://www.screener.in"

	// DefaultDelay is the pause before every request. The site answers
	// bursts with 429s, so one request per second is the polite default.
	DefaultDelay = 1 * time.Second

	// DefaultTimeout bounds a single HTTP request or browser navigation.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is how often a 429 response is retried with backoff.
	DefaultMaxRetries = 2

	// DefaultConcurrency is the number of symbols processed at once in a batch.
	DefaultConcurrency = 4

	// DefaultListen is the address of the serve command.
	DefaultListen = ":8080"

	// DefaultUserAgent mimics a desktop browser; the site serves a reduced
	// page to unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetch modes.
const (
	FetchHTTP    = "http"
	FetchBrowser = "browser"
)

// Formats lists the report formats accepted by Validate.
var Formats = []string{"text", "markdown", "html", "json", "csv"}

// Config holds every runtime setting. It is built once at startup and passed
// down explicitly.
type Config struct {
	// BaseURL is the scheme and host of the financial data site.
	BaseURL string `yaml:"base_url"`

	// Delay is waited before each request to stay under the site's rate limit.
	Delay time.Duration `yaml:"delay"`

	// Timeout bounds each request.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries after a 429 response.
	MaxRetries int `yaml:"max_retries"`

	// UserAgent is sent with every HTTP request.
	UserAgent string `yaml:"user_agent"`

	// FetchMode selects the plain HTTP client or a headless browser.
	FetchMode string `yaml:"fetch_mode"`

	// ProxyURL routes requests (and the browser) through a proxy when set.
	ProxyURL string `yaml:"proxy_url"`

	// ShowUI runs the browser with a visible window in browser mode.
	ShowUI bool `yaml:"show_ui"`

	// Consolidated prefers consolidated statements over standalone ones.
	Consolidated bool `yaml:"consolidated"`

	// Format is the report format written to stdout or --output.
	Format string `yaml:"format"`

	// Concurrency is the number of symbols extracted in parallel.
	Concurrency int `yaml:"concurrency"`

	// Listen is the address of the HTTP API.
	Listen string `yaml:"listen"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`

	// LogJSON switches log output to JSON.
	LogJSON bool `yaml:"log_json"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Delay:        DefaultDelay,
		Timeout:      DefaultTimeout,
		MaxRetries:   DefaultMaxRetries,
		UserAgent:    DefaultUserAgent,
		FetchMode:    FetchHTTP,
		Consolidated: true,
		Format:       "text",
		Concurrency:  DefaultConcurrency,
		Listen:       DefaultListen,
	}
}

// XDGConfigDir returns the per-user config directory for finscreen.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.FetchMode != FetchHTTP && c.FetchMode != FetchBrowser {
		return ErrInvalidFetchMode
	}
	if !slices.Contains(Formats, c.Format) {
		return ErrInvalidFormat
	}
	return nil
}
