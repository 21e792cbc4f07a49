package analysis

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arachne/internal/domain/pattern"
	"arachne/internal/domain/series"
	"arachne/internal/services/mining"
	"arachne/pkg/errors"
	"arachne/pkg/logger"
)

type stubProvider struct {
	mu      sync.Mutex
	srs     series.Series
	err     error
	queried []string
}

func (p *stubProvider) Series(symbol string, bars int) (series.Series, error) {
	p.mu.Lock()
	p.queried = append(p.queried, symbol)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.srs, nil
}

func (p *stubProvider) Name() string { return "stub" }

func upwardSeries(n int) series.Series {
	rng := rand.New(rand.NewSource(17))
	start := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

	srs := make(series.Series, n)
	price := 100.0
	for i := 0; i < n; i++ {
		next := price * (1 + 0.0015 + rng.NormFloat64()*0.006)
		high, low := price, price
		if next > high {
			high = next
		}
		if next < low {
			low = next
		}
		srs[i] = series.PriceBar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      price,
			High:      high * 1.0005,
			Low:       low * 0.9995,
			Close:     next,
			Volume:    1200,
		}
		price = next
	}
	return srs
}

func scannerParams() pattern.MiningParams {
	params := pattern.DefaultParams()
	params.WindowSize = 10
	params.BootstrapSamples = 100
	return params
}

func TestPatternScanner_Run(t *testing.T) {
	provider := &stubProvider{srs: upwardSeries(400)}
	engine := mining.NewEngine(2, logger.Get())

	var mu sync.Mutex
	results := map[string]*pattern.MiningResult{}
	sink := func(symbol string, result *pattern.MiningResult) {
		mu.Lock()
		defer mu.Unlock()
		results[symbol] = result
	}

	scanner := NewPatternScanner(provider, engine, ScannerConfig{
		Symbols:       []string{"BTCUSDT", "ETHUSDT"},
		Bars:          400,
		Params:        scannerParams(),
		MinConfidence: 0,
		Seed:          42,
		Interval:      15 * time.Minute,
		Enabled:       true,
	}, sink)

	assert.Equal(t, "pattern_scanner", scanner.Name())
	assert.Equal(t, 15*time.Minute, scanner.Interval())
	assert.True(t, scanner.Enabled())

	require.NoError(t, scanner.Run(context.Background()))

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, provider.queried)
	require.Len(t, results, 2)
	for symbol, result := range results {
		require.NotNil(t, result, symbol)
		assert.Equal(t, 400, result.Metadata.DataPointsAnalyzed, symbol)
	}
}

func TestPatternScanner_AppliesConfidenceFloor(t *testing.T) {
	provider := &stubProvider{srs: upwardSeries(400)}
	engine := mining.NewEngine(2, logger.Get())

	var got *pattern.MiningResult
	scanner := NewPatternScanner(provider, engine, ScannerConfig{
		Symbols:       []string{"BTCUSDT"},
		Bars:          400,
		Params:        scannerParams(),
		MinConfidence: 1.1, // above the confidence ceiling, nothing survives
		Seed:          42,
		Interval:      time.Minute,
		Enabled:       true,
	}, func(_ string, result *pattern.MiningResult) { got = result })

	require.NoError(t, scanner.Run(context.Background()))

	require.NotNil(t, got)
	assert.Empty(t, got.Patterns)
	assert.Equal(t, got.Metadata.PatternsFound, got.Statistics.TotalPatterns,
		"statistics still describe the unfiltered run")
}

func TestPatternScanner_ProviderFailureSkipsSymbol(t *testing.T) {
	provider := &stubProvider{err: errors.Wrap(errors.ErrNotFound, "no such series")}
	engine := mining.NewEngine(2, logger.Get())

	called := false
	scanner := NewPatternScanner(provider, engine, ScannerConfig{
		Symbols:  []string{"BTCUSDT"},
		Bars:     400,
		Params:   scannerParams(),
		Interval: time.Minute,
		Enabled:  true,
	}, func(string, *pattern.MiningResult) { called = true })

	assert.NoError(t, scanner.Run(context.Background()), "a failing symbol must not kill the batch")
	assert.False(t, called)
}

func TestPatternScanner_ContextCancellation(t *testing.T) {
	provider := &stubProvider{srs: upwardSeries(400)}
	engine := mining.NewEngine(2, logger.Get())

	scanner := NewPatternScanner(provider, engine, ScannerConfig{
		Symbols:  []string{"BTCUSDT", "ETHUSDT"},
		Bars:     400,
		Params:   scannerParams(),
		Interval: time.Minute,
		Enabled:  true,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := scanner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, provider.queried)
}
