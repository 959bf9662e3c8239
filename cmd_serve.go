package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"finscreen/internal/config"
	"finscreen/internal/scraper"
	"finscreen/internal/server"
	"finscreen/internal/sites/screener"
)

func newServeCmd() *cobra.Command {
	var listen string
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP at /api/v1/report/{symbol}",
		Example: `  finscreen serve --listen :8080
  curl 'http://localhost:8080/api/v1/report/TCS?format=markdown&standalone=true'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
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

			srvCfg := server.Config{Addr: cfg.Listen, Scraper: s, Options: opts, Logger: logger}
			if accessLog {
				srvCfg.AccessLog = cmd.ErrOrStderr()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving on %s\n", cfg.Listen)
			return server.New(srvCfg).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "Address to listen on")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Write an access log to stderr")
	return cmd
}
