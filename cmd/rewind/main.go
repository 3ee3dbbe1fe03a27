// Package main is the entry point for the rewind shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/config/loader"
	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/logging"
	"github.com/dshills/rewind/internal/metrics"
	"github.com/dshills/rewind/internal/repl"
	"github.com/dshills/rewind/internal/timeline"
	"github.com/dshills/rewind/internal/watch"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	limit      int
	watch      bool
	document   string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	store := timeline.NewStore(repl.Reducer,
		timeline.FromConfig(cfg),
		timeline.WithMetrics(m),
		timeline.WithLogger(logging.WithComponent(logger, "timeline")),
	)

	session := repl.New(store, os.Stdout, repl.WithLogger(logging.WithComponent(logger, "repl")))
	defer session.Close()

	if opts.document != "" {
		if err := session.Exec("load " + opts.document); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.watch {
		w, err := watch.New(opts.document, session.Reload,
			watch.WithLogger(logging.WithComponent(logger, "watch")),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", "path", w.Path(), "err", err)
			}
		}()
	}

	if err := session.Run(historyFile()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.IntVar(&opts.limit, "limit", -1, "Maximum number of history entries (0 for unbounded)")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the document when its file changes")
	flag.BoolVar(&opts.watch, "w", false, "Reload the document when its file changes (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Rewind - undo history shell for JSON, YAML and TOML documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage: rewind [options] [document]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  rewind                      Start with an empty document\n")
		fmt.Fprintf(os.Stderr, "  rewind config.yaml          Edit a document\n")
		fmt.Fprintf(os.Stderr, "  rewind -w config.yaml       Record external edits to the file\n")
		fmt.Fprintf(os.Stderr, "  rewind -limit 50 data.json  Keep at most 50 history entries\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Rewind %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: expected at most one document, got %d\n", flag.NArg())
		os.Exit(1)
	}
	opts.document = flag.Arg(0)

	if opts.watch && opts.document == "" {
		fmt.Fprintf(os.Stderr, "Error: -watch requires a document\n")
		os.Exit(1)
	}

	return opts
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := loader.Load(opts.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.limit >= 0 {
		cfg.Limit = opts.limit
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if opts.document != "" {
		if _, err := document.FormatOf(opts.document); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rewind_history")
}
