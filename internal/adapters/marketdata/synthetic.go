package marketdata

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"arachne/internal/domain/series"
	"arachne/pkg/errors"
)

// Bar timestamps are anchored at a fixed epoch so a seeded provider returns
// byte-identical series across runs.
var syntheticEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SyntheticConfig parameterizes the generated walk.
type SyntheticConfig struct {
	StartPrice  float64
	Drift       float64 // per-bar mean simple return
	Volatility  float64 // per-bar return stddev
	BarInterval time.Duration
	Seed        int64 // 0 draws from the clock and forfeits reproducibility
}

type syntheticProvider struct {
	cfg SyntheticConfig
}

// NewSynthetic creates a provider that generates a geometric random walk per
// symbol. The symbol is folded into the seed, so different symbols get
// different but individually reproducible series.
func NewSynthetic(cfg SyntheticConfig) (series.Provider, error) {
	if cfg.StartPrice <= 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "start price must be positive")
	}
	if cfg.Volatility < 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "volatility must be non-negative")
	}
	if cfg.BarInterval <= 0 {
		cfg.BarInterval = time.Minute
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &syntheticProvider{cfg: cfg}, nil
}

func (p *syntheticProvider) Name() string {
	return "synthetic"
}

func (p *syntheticProvider) Series(symbol string, bars int) (series.Series, error) {
	if bars < 1 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "bars must be positive")
	}

	rng := rand.New(rand.NewSource(p.cfg.Seed ^ symbolSeed(symbol)))

	srs := make(series.Series, bars)
	price := p.cfg.StartPrice
	for i := 0; i < bars; i++ {
		mult := 1 + p.cfg.Drift + rng.NormFloat64()*p.cfg.Volatility
		// Price floor: a single extreme draw must not zero out the walk
		if mult < 0.01 {
			mult = 0.01
		}
		next := price * mult

		open, c := price, next
		high := math.Max(open, c) * (1 + wick(rng, p.cfg.Volatility))
		low := math.Min(open, c) * (1 - wick(rng, p.cfg.Volatility))

		srs[i] = series.PriceBar{
			Timestamp: syntheticEpoch.Add(time.Duration(i) * p.cfg.BarInterval),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     c,
			Volume:    1000 * math.Exp(rng.NormFloat64()*0.5),
		}
		price = next
	}
	return srs, nil
}

// wick draws a high/low extension. Capped so even absurd volatility settings
// cannot push the low of a bar to zero.
func wick(rng *rand.Rand, volatility float64) float64 {
	w := rng.Float64() * volatility * 0.5
	if w > 0.25 {
		w = 0.25
	}
	return w
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}
