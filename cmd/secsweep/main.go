package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Vesslan01/secsweep/internal/config"
	"github.com/Vesslan01/secsweep/internal/metrics"
	"github.com/Vesslan01/secsweep/internal/report"
	"github.com/Vesslan01/secsweep/internal/sink"
)

func main() {
	cfgPath := flag.String("config", "", "Path to sweep YAML config (optional)")
	dataDir := flag.String("data", "data", "Data directory used when no config file is given")
	watch := flag.Bool("watch", false, "Keep running and re-sweep when input files change")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	var (
		loader *config.Loader
		cfg    *config.Config
	)
	if *cfgPath != "" {
		var err error
		loader, err = config.NewLoader(*cfgPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loader.Config()
	} else {
		cfg = config.Default(*dataDir)
	}
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runSweep(ctx, cfg); err != nil {
		slog.Error("sweep failed", "err", err)
		os.Exit(1)
	}
	if !*watch {
		return
	}

	// ── Watch mode ────────────────────────────────────────────────────────────
	// Sweeps always run against the last config that passed validation;
	// an invalid hot-reload is skipped, it never replaces the active one.
	active := newActiveConfig(cfg)
	if loader != nil {
		loader.OnChange(active.swapIfValid)
		stopWatch, err := loader.Watch()
		if err != nil {
			slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
		} else {
			defer stopWatch()
		}
	}

	if err := watchAndSweep(ctx, loader, active); err != nil {
		slog.Error("watcher failed", "err", err)
		os.Exit(1)
	}
}

// activeConfig holds the last validated configuration for watch mode.
type activeConfig struct {
	ptr atomic.Pointer[config.Config]
}

func newActiveConfig(cfg *config.Config) *activeConfig {
	a := &activeConfig{}
	a.ptr.Store(cfg)
	return a
}

func (a *activeConfig) load() *config.Config { return a.ptr.Load() }

// swapIfValid replaces the active config only when the candidate
// validates; a broken reload keeps the previous config in force.
func (a *activeConfig) swapIfValid(cfg *config.Config) {
	if err := config.Validate(cfg); err != nil {
		slog.Warn("hot-reload skipped: config invalid", "err", err)
		return
	}
	a.ptr.Store(cfg)
	slog.Info("config hot-reloaded")
}

// runSweep performs one full sweep: open the sink, run every sweep,
// then write alerts.json, the final report, and the metrics textfile.
func runSweep(ctx context.Context, cfg *config.Config) error {
	fileSink, err := sink.NewFile(cfg.Outputs.Log)
	if err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		return err
	}
	defer fileSink.Close()

	rep, err := report.New(cfg, fileSink)
	if err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		return err
	}
	res, err := rep.Run(ctx)
	if err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		return err
	}
	if err := res.WriteAlerts(cfg.Outputs.Alerts, rep.PathsUsed()); err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		return err
	}
	if err := res.WriteReport(cfg.Outputs.Report, rep.PathsUsed()); err != nil {
		metrics.Runs.WithLabelValues("error").Inc()
		return err
	}
	metrics.Runs.WithLabelValues("ok").Inc()
	if err := metrics.Flush(cfg.Outputs.Metrics); err != nil {
		slog.Warn("metrics flush failed", "err", err)
	}

	slog.Info("sweep complete",
		"run_id", res.RunID,
		"alerts", res.Summary.Total,
		"critical", res.Summary.Count("CRITICAL"),
		"high", res.Summary.Count("HIGH"),
	)
	return nil
}

// watchAndSweep re-runs the sweep whenever something in the data dir
// changes. Events are debounced so a collector rewriting several files
// triggers one run, and events on our own output files are ignored to
// avoid a feedback loop. SIGHUP forces an immediate config reload.
func watchAndSweep(ctx context.Context, loader *config.Loader, active *activeConfig) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(active.load().DataDir); err != nil {
		return err
	}
	slog.Info("watching for input changes", "dir", active.load().DataDir)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	outputs := func(c *config.Config) map[string]bool {
		return map[string]bool{
			c.Outputs.Log:     true,
			c.Outputs.Alerts:  true,
			c.Outputs.Report:  true,
			c.Outputs.Metrics: true,
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if outputs(active.load())[ev.Name] {
				continue
			}
			pending = time.After(500 * time.Millisecond)
		case <-pending:
			pending = nil
			if err := runSweep(ctx, active.load()); err != nil {
				slog.Error("sweep failed", "err", err)
			}
		case <-hup:
			if loader == nil {
				continue
			}
			// Reload goes through OnChange, so swapIfValid decides
			// whether the new config takes effect.
			if _, err := loader.Reload(); err != nil {
				slog.Warn("config reload failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "err", err)
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		}
	}
}
