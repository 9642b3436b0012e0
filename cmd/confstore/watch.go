package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"vidlearn-hq/confstore/pkg/cli"
	"vidlearn-hq/confstore/pkg/config"
	"vidlearn-hq/confstore/pkg/config/history"
	"vidlearn-hq/confstore/pkg/config/watch"
	"vidlearn-hq/confstore/pkg/telemetry/health"
	"vidlearn-hq/confstore/pkg/telemetry/logging"
	"vidlearn-hq/confstore/pkg/telemetry/metrics"
	"vidlearn-hq/confstore/pkg/telemetry/tracing"
)

var watchFlags struct {
	debounce         time.Duration
	resync           string
	fallback         bool
	metricsAddr      string
	historyPath      string
	historyRetention time.Duration
	pruneSchedule    string
	maxAge           time.Duration
	shutdownTimeout  time.Duration
	otlpEndpoint     string
	otlpInsecure     bool
	traceSampler     string
	traceRatio       float64
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Reload configuration whenever its files change",
	Long: `Load configuration files and reload them whenever one of them changes.

Each reload builds a complete new document and publishes it atomically. A
reload that fails to parse or validate is rejected and the previous
configuration stays active. Every attempt is logged, counted in Prometheus
metrics, and recorded in the reload history.

Examples:
  # Watch a configuration file
  confstore watch config.yaml

  # Also reload every five minutes and expose metrics and health probes
  confstore watch config.yaml --resync "*/5 * * * *" --metrics-addr :9090

  # Keep a persistent reload history for 30 days
  confstore watch --profile gui gui_config.json --history history.db --history-retention 720h`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 100*time.Millisecond, "quiet period after a file change before reloading")
	watchCmd.Flags().StringVar(&watchFlags.resync, "resync", "", "cron schedule for unconditional reloads (e.g. \"@every 5m\")")
	watchCmd.Flags().BoolVar(&watchFlags.fallback, "fallback", false, "replace violated fields that have a default with that default")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "serve /metrics, /health, /ready and /version on this address")
	watchCmd.Flags().StringVar(&watchFlags.historyPath, "history", "", "SQLite database for the reload history (in memory when empty)")
	watchCmd.Flags().DurationVar(&watchFlags.historyRetention, "history-retention", 0, "delete history entries older than this (0 keeps everything)")
	watchCmd.Flags().StringVar(&watchFlags.pruneSchedule, "prune-schedule", "@hourly", "cron schedule for history pruning")
	watchCmd.Flags().DurationVar(&watchFlags.maxAge, "max-age", 0, "report not ready when no reload succeeded for this long (0 disables)")
	watchCmd.Flags().StringVar(&watchFlags.otlpEndpoint, "otlp-endpoint", "", "export reload spans to this OTLP gRPC collector (host:port)")
	watchCmd.Flags().BoolVar(&watchFlags.otlpInsecure, "otlp-insecure", false, "disable TLS towards the OTLP collector")
	watchCmd.Flags().StringVar(&watchFlags.traceSampler, "trace-sampler", tracing.SamplerAlways, "span sampler: always, never, ratio")
	watchCmd.Flags().Float64Var(&watchFlags.traceRatio, "trace-ratio", 1.0, "sampling ratio for the ratio sampler")
	watchCmd.Flags().DurationVar(&watchFlags.shutdownTimeout, "shutdown-timeout", 5*time.Second, "time allowed for the metrics server to shut down")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	return serveWatch(ctx, cmd.OutOrStdout(), args)
}

// serveWatch runs the reload loop until ctx is cancelled.
func serveWatch(ctx context.Context, out io.Writer, files []string) error {
	schema, prefix, err := resolveSchema()
	if err != nil {
		return err
	}
	baseLogger, err := newLogger()
	if err != nil {
		return err
	}

	ctx = logging.WithCommand(ctx, "watch")
	ctx = logging.WithProfile(ctx, schema.Name)
	logger := baseLogger.WithContext(ctx)

	backend, err := openHistory(watchFlags.historyPath)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer backend.Close()

	tracer, err := tracing.New(&tracing.Config{
		Enabled:        watchFlags.otlpEndpoint != "",
		Endpoint:       watchFlags.otlpEndpoint,
		Insecure:       watchFlags.otlpInsecure,
		ServiceName:    "confstore",
		ServiceVersion: Version,
		Sampler:        watchFlags.traceSampler,
		SampleRatio:    watchFlags.traceRatio,
	})
	if err != nil {
		return cli.NewConfigError("--otlp-endpoint", err.Error())
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), watchFlags.shutdownTimeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush reload spans", "error", err)
		}
	}()

	collector := metrics.NewCollector(metrics.DefaultConfig(), nil)
	readiness := health.NewReloadCheck(watchFlags.maxAge)

	store := config.NewStore(schema.Name,
		config.LayeredLoader(schema, loadOptions(files, prefix, watchFlags.fallback)),
		config.WithLogger(logger.Slog()),
		config.WithObserver(collector),
		config.WithObserver(history.NewRecorder(backend, logger.Slog())),
		config.WithObserver(readiness),
		config.WithObserver(tracer.ReloadObserver()),
		config.WithObserver(unknownKeyReporter(schema, collector, logger)),
	)

	if snap, err := store.Reload(ctx); err != nil {
		fmt.Fprintf(out, "✗ Initial load failed, waiting for a valid file: %v\n", err)
	} else {
		fmt.Fprintf(out, "✓ Configuration loaded (profile %s, revision %s)\n", schema.Name, snap.Revision)
	}

	if watchFlags.metricsAddr != "" {
		checker := health.New(2 * time.Second)
		checker.RegisterCheck("config."+schema.Name, readiness.Check)

		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		health.Register(mux, checker, Version, GitCommit, BuildDate)

		srv := &http.Server{
			Addr:              watchFlags.metricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting metrics server", "address", watchFlags.metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), watchFlags.shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", "error", err)
			}
		}()
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s/metrics\n", watchFlags.metricsAddr)
	}

	scheduler := watch.NewScheduler(logger.Slog())
	if watchFlags.resync != "" {
		err := scheduler.Add("resync", watchFlags.resync, func(ctx context.Context) error {
			_, err := store.Reload(ctx)
			return err
		})
		if err != nil {
			return cli.NewConfigError("--resync", err.Error())
		}
	}
	if watchFlags.historyRetention > 0 {
		job := history.PruneJob(backend, watchFlags.historyRetention, logger.Slog())
		if err := scheduler.Add("history-prune", watchFlags.pruneSchedule, job); err != nil {
			return cli.NewConfigError("--prune-schedule", err.Error())
		}
	}
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer scheduler.Stop()

	watcher, err := watch.NewFileWatcher(&watch.Config{
		Paths:            files,
		DebounceInterval: watchFlags.debounce,
	}, logger.Slog())
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	fmt.Fprintf(out, "Watching %d file(s), press Ctrl+C to stop\n", len(files))
	if err := watch.ReloadOnChange(ctx, watcher, store); err != nil {
		return cli.NewCommandError("watch", err)
	}
	fmt.Fprintln(out, "✓ Stopped")
	return nil
}

// openHistory opens the SQLite history at path, or an in-memory history
// when path is empty.
func openHistory(path string) (history.Backend, error) {
	if path == "" {
		return history.NewMemoryBackend(history.DefaultMaxEntries), nil
	}
	return history.NewSQLiteBackend(path)
}

// unknownKeyReporter publishes the number of undeclared keys after each
// successful reload and logs them.
func unknownKeyReporter(schema *config.Schema, collector *metrics.Collector, logger *logging.Logger) config.Observer {
	return config.ObserverFunc(func(ev config.ReloadEvent) {
		if ev.Current == nil {
			return
		}
		unknown := config.UnknownKeys(ev.Current.Document, schema)
		collector.RecordUnknownKeys(ev.Store, len(unknown))
		if len(unknown) > 0 {
			logger.Warn("configuration contains undeclared keys",
				"store", ev.Store,
				"keys", unknown,
			)
		}
	})
}
