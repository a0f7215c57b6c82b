// Command sample runs a demonstration mercury application.
//
// Run:
//
//	go run ./cmd/sample serve                      — listen on :8080
//	go run ./cmd/sample serve --addr :9090         — override the address
//	go run ./cmd/sample serve --config app.yaml    — load a YAML config
//	go run ./cmd/sample routes                     — print the route table
//
// Then explore:
//
//	GET  http://localhost:8080/                    — greeting
//	GET  http://localhost:8080/hello/alice         — named capture
//	GET  http://localhost:8080/files/a/b/c.txt     — splat capture
//	GET  http://localhost:8080/docs/guide          — template render
//	GET  http://localhost:8080/ticker              — streamed body
//	GET  http://localhost:8080/admin               — pass chain demo
//	GET  http://localhost:8080/boom                — fault handling
//	GET  http://localhost:8080/metrics             — Prometheus metrics
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/strogo/mercury"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "sample",
		Short:         "Demonstration app for the mercury micro-framework",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		addr       string
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := mercury.DefaultConfig()
			if configPath != "" {
				loaded, err := mercury.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "include diagnostic dumps in unmatched-route responses")
	return cmd
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the registered route table",
		Run: func(_ *cobra.Command, _ []string) {
			app, _ := newApp(mercury.DefaultConfig(), slog.Default())
			for _, r := range app.Routes() {
				fmt.Println(r)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sample app version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version)
		},
	}
}

func serve(ctx context.Context, cfg *mercury.Config) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	app, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", app)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("starting server", "addr", cfg.Addr, "debug", cfg.Debug)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
