package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"arachne/internal/adapters/config"
	"arachne/internal/adapters/errors/noop"
	"arachne/internal/adapters/errors/sentry"
	"arachne/internal/adapters/marketdata"
	"arachne/internal/domain/pattern"
	"arachne/internal/domain/series"
	"arachne/internal/metrics"
	"arachne/internal/services/mining"
	"arachne/internal/workers"
	workeranalysis "arachne/internal/workers/analysis"
	"arachne/pkg/errors"
	"arachne/pkg/logger"
)

func main() {
	var (
		scanMode = flag.Bool("scan", false, "run the periodic scanner daemon instead of a one-shot mine")
		symbols  = flag.String("symbols", "", "comma-separated symbols, overrides SERIES_SYMBOLS")
		bars     = flag.Int("bars", 0, "bars per series, overrides SERIES_BARS")
		seed     = flag.Int64("seed", 0, "mining seed, 0 derives one from the clock")
		out      = flag.String("out", "", "write one-shot results to this file instead of stdout")
		pretty   = flag.Bool("pretty", false, "indent JSON output")
	)
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := initLogger(cfg); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	if *symbols != "" {
		cfg.Series.Symbols = splitSymbols(*symbols)
	}
	if *bars > 0 {
		cfg.Series.Bars = *bars
	}

	provider, err := marketdata.NewProvider(cfg.Series, *seed)
	if err != nil {
		log.Fatalf("Failed to create series provider: %v", err)
	}
	engine := mining.NewEngine(cfg.Mining.FeatureWorkers, log)
	params := miningParams(cfg.Mining)

	if *scanMode {
		runScanner(cfg, provider, engine, params, *seed, errorTracker, log)
		return
	}

	if err := runOnce(cfg, provider, engine, params, *seed, *out, *pretty, log); err != nil {
		log.Fatalf("Mining failed: %v", err)
	}
}

// loadConfig loads application configuration from environment
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// initLogger initializes structured logging
func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.App.LogLevel, cfg.App.Env)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// miningParams maps the environment config onto per-run mining parameters.
func miningParams(cfg config.MiningConfig) pattern.MiningParams {
	params := pattern.DefaultParams()
	params.WindowSize = cfg.WindowSize
	params.MinSupport = cfg.MinSupport
	params.MinConfidence = cfg.MinConfidence
	params.NoiseFilter = cfg.NoiseFilter
	params.BootstrapSamples = cfg.BootstrapSamples
	params.SignificanceLevel = cfg.SignificanceLevel
	params.CrossValidationFolds = cfg.CrossValidationFolds
	params.MinClusterSize = cfg.MinClusterSize
	return params
}

// runOnce mines every configured symbol once and writes a symbol-keyed JSON
// document to stdout or -out.
func runOnce(cfg *config.Config, provider series.Provider, engine *mining.Engine, params pattern.MiningParams, seed int64, out string, pretty bool, log *logger.Logger) error {
	results := make(map[string]*pattern.MiningResult, len(cfg.Series.Symbols))

	for _, symbol := range cfg.Series.Symbols {
		srs, err := provider.Series(symbol, cfg.Series.Bars)
		if err != nil {
			return errors.Wrapf(err, "load series for %s", symbol)
		}

		result, err := engine.Mine(srs, params, seed)
		if err != nil {
			return errors.Wrapf(err, "mine %s", symbol)
		}

		mined := len(result.Patterns)
		result.Patterns = pattern.FilterByConfidence(result.Patterns, params.MinConfidence)

		log.Infow("Symbol mined",
			"symbol", symbol,
			"provider", provider.Name(),
			"bars", humanize.Comma(int64(result.Metadata.DataPointsAnalyzed)),
			"windows", humanize.Comma(int64(result.Metadata.WindowsExtracted)),
			"mined", mined,
			"kept", len(result.Patterns),
			"best", result.Statistics.BestPattern,
			"duration_s", result.Metadata.ExecutionTimeSeconds,
		)
		results[symbol] = result
	}

	data, err := marshalResults(results, pretty)
	if err != nil {
		return errors.Wrap(err, "encode results")
	}

	if out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", out)
	}
	log.Infow("Results written", "path", out, "size", humanize.Bytes(uint64(len(data))))
	return nil
}

// runScanner starts the scanner worker under the scheduler and blocks until a
// shutdown signal arrives.
func runScanner(cfg *config.Config, provider series.Provider, engine *mining.Engine, params pattern.MiningParams, seed int64, errorTracker errors.Tracker, log *logger.Logger) {
	if cfg.Metrics.Enabled {
		metrics.Init()
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
		go func() {
			log.Infow("Metrics server listening", "addr", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("Metrics server error: %v", err)
			}
		}()
		defer srv.Close()
	}

	scanner := workeranalysis.NewPatternScanner(provider, engine, workeranalysis.ScannerConfig{
		Symbols:       cfg.Series.Symbols,
		Bars:          cfg.Series.Bars,
		Params:        params,
		MinConfidence: params.MinConfidence,
		Seed:          seed,
		Interval:      cfg.Workers.PatternScannerInterval,
		Enabled:       cfg.Workers.PatternScannerEnabled,
	}, nil)

	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(scanner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	waitForShutdown(ctx, cancel, errorTracker, log)

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}
}

func marshalResults(results map[string]*pattern.MiningResult, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(results, "", "  ")
	}
	return json.Marshal(results)
}

func splitSymbols(list string) []string {
	parts := strings.Split(list, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, errorTracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	cancel()

	if errorTracker != nil {
		if err := errorTracker.Flush(ctx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
