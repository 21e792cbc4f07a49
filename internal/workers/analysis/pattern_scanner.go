package analysis

import (
	"context"
	"time"

	"arachne/internal/domain/pattern"
	"arachne/internal/domain/series"
	"arachne/internal/metrics"
	"arachne/internal/services/mining"
	"arachne/internal/workers"
	"arachne/pkg/errors"
)

// ResultSink receives the result of one symbol scan after the confidence
// floor is applied. Statistics still describe the full mined set.
type ResultSink func(symbol string, result *pattern.MiningResult)

// ScannerConfig parameterizes the periodic scan.
type ScannerConfig struct {
	Symbols       []string
	Bars          int
	Params        pattern.MiningParams
	MinConfidence float64

	// Seed feeds every Mine call. Zero draws a fresh seed per scan, which
	// is the right default for a daemon.
	Seed int64

	Interval time.Duration
	Enabled  bool
}

// PatternScanner mines every configured symbol on each tick and hands the
// filtered results to the sink.
type PatternScanner struct {
	*workers.BaseWorker
	provider series.Provider
	engine   *mining.Engine
	cfg      ScannerConfig
	sink     ResultSink
}

// NewPatternScanner creates the scanner worker. A nil sink is allowed; runs
// are then log-only.
func NewPatternScanner(provider series.Provider, engine *mining.Engine, cfg ScannerConfig, sink ResultSink) *PatternScanner {
	return &PatternScanner{
		BaseWorker: workers.NewBaseWorker("pattern_scanner", cfg.Interval, cfg.Enabled),
		provider:   provider,
		engine:     engine,
		cfg:        cfg,
		sink:       sink,
	}
}

// Run executes one scan over all configured symbols. A failing symbol is
// logged and skipped so the rest of the batch still runs.
func (ps *PatternScanner) Run(ctx context.Context) error {
	ps.Log().Debug("Pattern scanner: starting iteration")

	for _, symbol := range ps.cfg.Symbols {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := ps.scanSymbol(symbol); err != nil {
			ps.Log().Error("Failed to scan symbol", "symbol", symbol, "error", err)
			continue
		}
	}

	ps.Log().Debug("Pattern scan iteration complete")
	return nil
}

func (ps *PatternScanner) scanSymbol(symbol string) error {
	srs, err := ps.provider.Series(symbol, ps.cfg.Bars)
	metrics.RecordSeriesLoad(ps.provider.Name(), err)
	if err != nil {
		return errors.Wrapf(err, "load series for %s", symbol)
	}

	start := time.Now()
	result, err := ps.engine.Mine(srs, ps.cfg.Params, ps.cfg.Seed)
	metrics.RecordMiningRun(symbol, time.Since(start), err)
	if err != nil {
		return errors.Wrapf(err, "mine %s", symbol)
	}
	metrics.RecordPatterns(symbol, patternCounts(result.Statistics.PatternFrequency), result.Metadata.WindowsSurviving)

	mined := len(result.Patterns)
	result.Patterns = pattern.FilterByConfidence(result.Patterns, ps.cfg.MinConfidence)

	ps.Log().Infow("Pattern scan complete",
		"symbol", symbol,
		"provider", ps.provider.Name(),
		"bars", result.Metadata.DataPointsAnalyzed,
		"mined", mined,
		"kept", len(result.Patterns),
		"best", result.Statistics.BestPattern,
		"duration_s", result.Metadata.ExecutionTimeSeconds,
	)

	if ps.sink != nil {
		ps.sink(symbol, result)
	}
	return nil
}

func patternCounts(freq map[pattern.PatternType]int) map[string]int {
	counts := make(map[string]int, len(freq))
	for typ, n := range freq {
		counts[typ.String()] = n
	}
	return counts
}
