package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"finscreen/internal/config"
	"finscreen/internal/formatter"
	flog "finscreen/internal/log"
	"finscreen/internal/scraper"
	"finscreen/internal/sites/screener"
)

var version = "dev"

// errFailed reports that at least one symbol failed; its error block has
// already been printed.
var errFailed = errors.New("one or more symbols failed")

var (
	configPath   string
	delay        string
	consolidated bool
	standalone   bool
	outputFormat string
	outputFile   string
	fetchMode    string
	proxyURL     string
	showUI       bool
	timeout      time.Duration
	concurrency  int
	extra        []string
	verbose      bool
	logJSON      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finscreen SYMBOL...",
		Short:   "Fetch a financial summary for listed companies from screener.in",
		Version: version,
		Long: `finscreen fetches a company's page from screener.in and extracts return on
equity, sales growth, the last two quarters of revenue and profit, valuation
ratios and the PEG ratio, then prints them as a summary report.`,
		Example: `  # Consolidated statements (default)
  finscreen TATAMOTORS

  # Standalone statements, slower request pacing
  finscreen --standalone --delay 2 VBL

  # Several symbols at once, saved as Markdown
  finscreen RELIANCE TCS INFY -o summary.md

  # Render pages in headless Chromium through a proxy
  finscreen --fetch-mode browser --proxy http://127.0.0.1:7890 HDFCBANK

  # Look up extra labels on the page
  finscreen --extra "Dividend Yield" --extra "Book Value" ITC -f json`,
		Args:          cobra.MinimumNArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default ./"+config.DefaultConfigFile+" or $XDG_CONFIG_HOME/finscreen/config.yaml)")
	flags.StringVar(&fetchMode, "fetch-mode", config.FetchHTTP, "How pages are fetched: http or browser")
	flags.StringVarP(&proxyURL, "proxy", "p", "", "Proxy URL (e.g. http://127.0.0.1:7890), defaults to "+config.EnvProxy)
	flags.BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	flags.StringVar(&delay, "delay", "1", "Delay before every request, in seconds or as a duration (1.5, 500ms)")
	flags.DurationVarP(&timeout, "timeout", "t", config.DefaultTimeout, "Request timeout duration")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
	flags.BoolVar(&logJSON, "log-json", false, "Log as JSON")

	rootCmd.Flags().BoolVar(&consolidated, "consolidated", true, "Use consolidated financial statements")
	rootCmd.Flags().BoolVar(&standalone, "standalone", false, "Use standalone financial statements")
	rootCmd.MarkFlagsMutuallyExclusive("consolidated", "standalone")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, markdown, html, json, csv)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "j", config.DefaultConcurrency, "Symbols fetched in parallel")
	rootCmd.Flags().StringArrayVar(&extra, "extra", nil, "Additional metric label to look up (repeatable)")

	rootCmd.AddCommand(newServeCmd(), newVersionCmd())
	return rootCmd
}

// loadConfig merges file and environment settings with the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("fetch-mode") {
		cfg.FetchMode = strings.ToLower(fetchMode)
	}
	if changed("proxy") {
		cfg.ProxyURL = proxyURL
	}
	if changed("showui") {
		cfg.ShowUI = showUI
	}
	if changed("delay") {
		d, err := config.ParseDelay(delay)
		if err != nil {
			return nil, fmt.Errorf("--delay: %w", err)
		}
		cfg.Delay = d
	}
	if changed("timeout") {
		cfg.Timeout = timeout
	}
	if changed("verbose") {
		cfg.Verbose = verbose
	}
	if changed("log-json") {
		cfg.LogJSON = logJSON
	}
	if cmd.Flags().Lookup("consolidated") != nil {
		if changed("consolidated") {
			cfg.Consolidated = consolidated
		}
		if changed("standalone") {
			cfg.Consolidated = !standalone
		}
		if changed("concurrency") {
			cfg.Concurrency = concurrency
		}
		if changed("format") {
			cfg.Format = outputFormat
		} else if outputFile != "" {
			if inferred := formatter.InferFormat(outputFile); inferred != "" {
				cfg.Format = inferred
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg.LogJSON {
		return flog.NewJSON(w, cfg.Verbose)
	}
	return flog.New(w, cfg.Verbose)
}

// scraperOptions builds the scrape settings for cfg.
func scraperOptions(cfg *config.Config, logger *slog.Logger) scraper.Options {
	return scraper.Options{
		BaseURL:      cfg.BaseURL,
		FetchMode:    cfg.FetchMode,
		Delay:        cfg.Delay,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		UserAgent:    cfg.UserAgent,
		ShowUI:       cfg.ShowUI,
		ProxyURL:     cfg.ProxyURL,
		Consolidated: cfg.Consolidated,
		Logger:       logger,
		Extra:        extra,
	}
}

// withSharedFetcher sets opts.Fetcher to one fetcher for the whole run and
// returns a function that releases it.
func withSharedFetcher(opts *scraper.Options) (func(), error) {
	f, err := screener.NewFetcher(*opts)
	if err != nil {
		return nil, err
	}
	opts.Fetcher = f
	return func() {
		if c, ok := f.(io.Closer); ok {
			_ = c.Close()
		}
	}, nil
}

// result is the rendered report, or the failure, for one symbol.
type result struct {
	symbol string
	output string
	err    error
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	s, ok := scraper.Get(screener.Name)
	if !ok {
		return fmt.Errorf("unknown site: %s", screener.Name)
	}

	opts := scraperOptions(cfg, logger)
	release, err := withSharedFetcher(&opts)
	if err != nil {
		return err
	}
	defer release()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := scrapeAll(ctx, s, args, opts, cfg.Format, cfg.Concurrency, logger)

	var outputs []string
	failed := false
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprint(cmd.ErrOrStderr(), errorBlock(r.symbol, r.err))
			continue
		}
		outputs = append(outputs, r.output)
	}

	if len(outputs) > 0 {
		if err := writeOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), joinOutputs(outputs, cfg.Format)); err != nil {
			return err
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// scrapeAll reports every symbol, at most limit at a time, keeping the order
// of symbols. A failed symbol does not stop the others.
func scrapeAll(ctx context.Context, s scraper.Scraper, symbols []string, opts scraper.Options, format string, limit int, logger *slog.Logger) []result {
	results := make([]result, len(symbols))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i, symbol := range symbols {
		results[i].symbol = screener.NormalizeSymbol(symbol)
		g.Go(func() error {
			logger.Info("fetching financial data", "symbol", results[i].symbol)
			content, err := s.Scrape(ctx, symbol, opts)
			if err != nil {
				logger.Error("failed to fetch financial data", "symbol", results[i].symbol, "error", err)
				results[i].err = err
				return nil
			}
			results[i].output, results[i].err = formatter.Format(content, format)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// joinOutputs combines per-symbol reports. JSON reports become one array.
func joinOutputs(outputs []string, format string) string {
	if len(outputs) == 1 {
		return outputs[0]
	}
	if format == "json" {
		return "[\n" + strings.Join(outputs, ",\n") + "\n]"
	}
	return strings.Join(outputs, "\n")
}

func writeOutput(stdout, stderr io.Writer, content string) error {
	if outputFile == "" {
		_, err := fmt.Fprintln(stdout, content)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(content), 0o644); err != nil { //nolint:gosec // report files are meant to be shared
		return fmt.Errorf("failed to write to file: %w", err)
	}
	fmt.Fprintf(stderr, "Output written to: %s\n", outputFile)
	return nil
}
