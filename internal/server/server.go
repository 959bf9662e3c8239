// Package server exposes company reports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"finscreen/internal/config"
	"finscreen/internal/fetcher"
	"finscreen/internal/formatter"
	flog "finscreen/internal/log"
	"finscreen/internal/scraper"
	"finscreen/internal/sites/screener"
)

// DefaultFormat is the report format when the request names none.
const DefaultFormat = "json"

// Config configures a Server.
type Config struct {
	Addr      string
	Scraper   scraper.Scraper
	Options   scraper.Options // base options; Consolidated is set per request
	AccessLog io.Writer       // Apache combined log; nil disables it
	Logger    *slog.Logger
}

// Server serves GET /api/v1/report/{symbol}.
type Server struct {
	cfg    Config
	logger *slog.Logger
	router *mux.Router
}

// ErrorBody is the JSON body of a failed request.
type ErrorBody struct {
	Symbol string `json:"symbol,omitempty"`
	Error  string `json:"error"`
	Step   string `json:"step,omitempty"`
}

// New creates a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = flog.Discard()
	}
	s := &Server{cfg: cfg, logger: logger, router: mux.NewRouter()}
	s.router.HandleFunc("/api/v1/report/{symbol}", s.handleReport).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return s
}

// Handler returns the router wrapped in panic recovery and, when configured,
// access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError)),
	)(h)
	if s.cfg.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(s.cfg.AccessLog, h)
	}
	return h
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = config.DefaultListen
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	symbol := screener.NormalizeSymbol(mux.Vars(r)["symbol"])
	query := r.URL.Query()

	format := query.Get("format")
	if format == "" {
		format = DefaultFormat
	}
	if !slices.Contains(config.Formats, format) {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Symbol: symbol, Error: "unsupported format: " + format})
		return
	}

	opts := s.cfg.Options
	opts.Consolidated = true
	if v := query.Get("standalone"); v != "" {
		standalone, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorBody{Symbol: symbol, Error: "invalid standalone value: " + v})
			return
		}
		opts.Consolidated = !standalone
	}

	content, err := s.cfg.Scraper.Scrape(r.Context(), symbol, opts)
	if err != nil {
		s.logger.Warn("report failed", "symbol", symbol, "error", err)
		status, body := errorResponse(symbol, err)
		writeJSON(w, status, body)
		return
	}

	out, err := formatter.Format(content, format)
	if err != nil {
		s.logger.Error("failed to render report", "symbol", symbol, "format", format, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Symbol: symbol, Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", formatter.ContentType(format))
	_, _ = io.WriteString(w, out)
}

// errorResponse maps a scrape failure to a status code and body.
func errorResponse(symbol string, err error) (int, ErrorBody) {
	body := ErrorBody{Symbol: symbol, Error: err.Error()}
	var fe *screener.FetchError
	if errors.As(err, &fe) {
		body.Step = fe.Step
	}

	switch {
	case errors.Is(err, screener.ErrSymbolNotFound), errors.Is(err, fetcher.ErrNotFound):
		return http.StatusNotFound, body
	case errors.Is(err, fetcher.ErrRateLimited):
		return http.StatusTooManyRequests, body
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, body
	default:
		return http.StatusBadGateway, body
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
