package pattern

import (
	"fmt"

	"arachne/pkg/errors"
)

// Default mining parameters, applied by Normalize for zero-valued fields
const (
	DefaultWindowSize           = 20
	DefaultMinSupport           = 0.05
	DefaultMinConfidence        = 0.6
	DefaultNoiseFilter          = 0.01
	DefaultBootstrapSamples     = 200
	DefaultSignificanceLevel    = 0.05
	DefaultCrossValidationFolds = 5
	DefaultMinClusterSize       = 3

	// MaxWindowSize bounds the pattern length to keep the feature matrix sane
	MaxWindowSize = 500
)

// EstimatorParams holds the heuristic constants used by pattern synthesis.
// The defaults are placeholders calibrated for readability of output, not
// fitted values.
type EstimatorParams struct {
	TrendThreshold  float64 // mean trend above which a cluster is directional
	ConfidenceScale float64 // multiplies trend variance inside the confidence curve
	ProfitScale     float64 // converts mean trend to a percent profitability
	ProfitNoise     float64 // half-width of the uniform perturbation on profitability
	WinRateFactor   float64 // win rate = confidence * factor
	DrawdownFactor  float64 // max drawdown = volatility percent * factor
	Epsilon         float64 // guards divisions against zero volatility
}

// DiscountParams degrade in-sample averages into out-of-sample estimates
type DiscountParams struct {
	WinRate   float64
	AvgReturn float64
	Sharpe    float64
}

// MiningParams configures one mining run
type MiningParams struct {
	WindowSize           int
	MinSupport           float64
	MinConfidence        float64 // used by callers to post-filter, not enforced by the engine
	NoiseFilter          float64 // minimum patternStrength for a window to survive
	BootstrapSamples     int
	SignificanceLevel    float64 // informational, does not gate output
	CrossValidationFolds int     // informational
	MinClusterSize       int
	Estimator            EstimatorParams
	Discounts            DiscountParams
}

// DefaultParams returns a fully populated parameter set
func DefaultParams() MiningParams {
	p := MiningParams{}
	p.Normalize()
	return p
}

// Normalize fills zero-valued fields with defaults. A zero NoiseFilter takes
// the default; pass a tiny positive value to effectively disable the filter.
func (p *MiningParams) Normalize() {
	if p.WindowSize == 0 {
		p.WindowSize = DefaultWindowSize
	}
	if p.MinSupport == 0 {
		p.MinSupport = DefaultMinSupport
	}
	if p.MinConfidence == 0 {
		p.MinConfidence = DefaultMinConfidence
	}
	if p.NoiseFilter == 0 {
		p.NoiseFilter = DefaultNoiseFilter
	}
	if p.BootstrapSamples == 0 {
		p.BootstrapSamples = DefaultBootstrapSamples
	}
	if p.SignificanceLevel == 0 {
		p.SignificanceLevel = DefaultSignificanceLevel
	}
	if p.CrossValidationFolds == 0 {
		p.CrossValidationFolds = DefaultCrossValidationFolds
	}
	if p.MinClusterSize == 0 {
		p.MinClusterSize = DefaultMinClusterSize
	}

	if p.Estimator.TrendThreshold == 0 {
		p.Estimator.TrendThreshold = 0.005
	}
	if p.Estimator.ConfidenceScale == 0 {
		p.Estimator.ConfidenceScale = 100
	}
	if p.Estimator.ProfitScale == 0 {
		p.Estimator.ProfitScale = 100
	}
	if p.Estimator.ProfitNoise == 0 {
		p.Estimator.ProfitNoise = 0.5
	}
	if p.Estimator.WinRateFactor == 0 {
		p.Estimator.WinRateFactor = 0.9
	}
	if p.Estimator.DrawdownFactor == 0 {
		p.Estimator.DrawdownFactor = 1.5
	}
	if p.Estimator.Epsilon == 0 {
		p.Estimator.Epsilon = 1e-9
	}

	if p.Discounts.WinRate == 0 {
		p.Discounts.WinRate = 0.85
	}
	if p.Discounts.AvgReturn == 0 {
		p.Discounts.AvgReturn = 0.80
	}
	if p.Discounts.Sharpe == 0 {
		p.Discounts.Sharpe = 0.75
	}
}

// Validate enforces parameter ranges. Violations fail fast before any
// computation starts.
func (p MiningParams) Validate() error {
	if p.WindowSize < 2 || p.WindowSize > MaxWindowSize {
		return invalidParam("window_size", fmt.Sprintf("must be between 2 and %d", MaxWindowSize), p.WindowSize)
	}
	if p.MinSupport <= 0 || p.MinSupport > 1 {
		return invalidParam("min_support", "must be in (0, 1]", p.MinSupport)
	}
	if p.MinConfidence <= 0 || p.MinConfidence > 1 {
		return invalidParam("min_confidence", "must be in (0, 1]", p.MinConfidence)
	}
	if p.NoiseFilter < 0 {
		return invalidParam("noise_filter", "must be non-negative", p.NoiseFilter)
	}
	if p.BootstrapSamples < 1 {
		return invalidParam("bootstrap_samples", "must be at least 1", p.BootstrapSamples)
	}
	if p.SignificanceLevel <= 0 || p.SignificanceLevel >= 1 {
		return invalidParam("significance_level", "must be in (0, 1)", p.SignificanceLevel)
	}
	if p.CrossValidationFolds < 1 {
		return invalidParam("cross_validation_folds", "must be at least 1", p.CrossValidationFolds)
	}
	if p.MinClusterSize < 1 {
		return invalidParam("min_cluster_size", "must be at least 1", p.MinClusterSize)
	}
	if p.Estimator.Epsilon <= 0 {
		return invalidParam("estimator.epsilon", "must be positive", p.Estimator.Epsilon)
	}
	if p.Estimator.ProfitNoise < 0 {
		return invalidParam("estimator.profit_noise", "must be non-negative", p.Estimator.ProfitNoise)
	}
	if p.Estimator.WinRateFactor <= 0 || p.Estimator.WinRateFactor > 1 {
		return invalidParam("estimator.win_rate_factor", "must be in (0, 1]", p.Estimator.WinRateFactor)
	}
	if p.Discounts.WinRate <= 0 || p.Discounts.WinRate > 1 {
		return invalidParam("discounts.win_rate", "must be in (0, 1]", p.Discounts.WinRate)
	}
	if p.Discounts.AvgReturn <= 0 || p.Discounts.AvgReturn > 1 {
		return invalidParam("discounts.avg_return", "must be in (0, 1]", p.Discounts.AvgReturn)
	}
	if p.Discounts.Sharpe <= 0 || p.Discounts.Sharpe > 1 {
		return invalidParam("discounts.sharpe", "must be in (0, 1]", p.Discounts.Sharpe)
	}
	return nil
}

func invalidParam(field, message string, value interface{}) error {
	return errors.Wrap(errors.ErrInvalidParams, errors.NewValidationError(field, message, value).Error())
}
