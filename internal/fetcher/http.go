package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	flog "finscreen/internal/log"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 10 << 20

// HTTPConfig configures an HTTPFetcher.
type HTTPConfig struct {
	Timeout    time.Duration
	Delay      time.Duration // waited before every request
	MaxRetries int           // retries after a 429
	UserAgent  string
	ProxyURL   string
	Logger     *slog.Logger
	// Client replaces the default client. Timeout and ProxyURL are ignored
	// when it is set.
	Client *http.Client
}

// HTTPFetcher fetches pages with a browser-like request and a fixed delay
// before each request. A 429 response is retried with exponential backoff.
type HTTPFetcher struct {
	client     *http.Client
	delay      time.Duration
	maxRetries int
	userAgent  string
	logger     *slog.Logger
}

// NewHTTP creates an HTTPFetcher.
func NewHTTP(cfg HTTPConfig) (*HTTPFetcher, error) {
	client := cfg.Client
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		// Encodings are negotiated and decoded here, not by the transport.
		transport.DisableCompression = true
		if cfg.ProxyURL != "" {
			proxy, err := url.Parse(cfg.ProxyURL)
			if err != nil {
				return nil, fmt.Errorf("invalid proxy URL: %w", err)
			}
			transport.Proxy = http.ProxyURL(proxy)
		}
		client = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = flog.Discard()
	}
	return &HTTPFetcher{
		client:     client,
		delay:      cfg.Delay,
		maxRetries: cfg.MaxRetries,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}, nil
}

// Fetch GETs rawURL. Non-2xx responses are returned as *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	start := time.Now()
	backoff := f.delay
	if backoff <= 0 {
		backoff = time.Second
	}

	for attempt := 0; ; attempt++ {
		if err := wait(ctx, f.delay); err != nil {
			return nil, err
		}

		f.logger.Debug("fetching page", "url", rawURL, "attempt", attempt+1)
		res, retryAfter, err := f.do(ctx, rawURL)
		if err == nil {
			res.LoadTime = time.Since(start)
			f.logger.Debug("fetched page", "url", res.URL, "status", res.StatusCode, "bytes", len(res.Body), "load_time", res.LoadTime)
			return res, nil
		}

		if !isRateLimited(err) || attempt >= f.maxRetries {
			return nil, err
		}

		pause := backoff << attempt
		if retryAfter > pause {
			pause = retryAfter
		}
		f.logger.Warn("rate limited, backing off", "url", rawURL, "pause", pause, "attempt", attempt+1)
		if err := wait(ctx, pause); err != nil {
			return nil, err
		}
	}
}

func (f *HTTPFetcher) do(ctx context.Context, rawURL string) (*Result, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, retryAfter(resp.Header.Get("Retry-After")), &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := decodeBody(resp.Header.Get("Content-Encoding"), io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return &Result{URL: resp.Request.URL.String(), StatusCode: resp.StatusCode, Body: body}, 0, nil
}

func isRateLimited(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.StatusCode == http.StatusTooManyRequests
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// decodeBody reads r according to the Content-Encoding header.
func decodeBody(encoding string, r io.Reader) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return io.ReadAll(r)
	case "gzip", "x-gzip":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gr.Close()
		return io.ReadAll(gr)
	case "deflate":
		fr := flate.NewReader(r)
		defer fr.Close()
		return io.ReadAll(fr)
	case "br":
		return io.ReadAll(brotli.NewReader(r))
	case "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		// Unknown encodings are returned as is.
		return io.ReadAll(r)
	}
}
