package pattern

import "time"

// PatternType classifies a mined pattern by its dominant direction
type PatternType string

const (
	TypeBullish PatternType = "bullish"
	TypeBearish PatternType = "bearish"
	TypeNeutral PatternType = "neutral"
)

// Valid checks if pattern type is valid
func (t PatternType) Valid() bool {
	switch t {
	case TypeBullish, TypeBearish, TypeNeutral:
		return true
	}
	return false
}

// String returns string representation
func (t PatternType) String() string {
	return string(t)
}

// Pattern is the externally visible unit of mining output.
// One Pattern is synthesized per retained cluster and is immutable afterwards.
type Pattern struct {
	ID   string      `json:"id"`
	Type PatternType `json:"type"`

	// Cluster statistics
	Support      float64 `json:"support"`      // cluster size / surviving windows
	Confidence   float64 `json:"confidence"`   // [0.5, 1], inverse of trend variance
	Significance float64 `json:"significance"` // [0.1, 1], bootstrap-derived

	// Shape
	PricePoints []float64 `json:"price_points"` // averaged normalized closes, len == window size
	Duration    int       `json:"duration"`     // bars per occurrence
	Frequency   int       `json:"frequency"`    // number of member windows

	// Heuristic performance estimates (percent where noted)
	Profitability float64 `json:"profitability"` // percent, clamped
	WinRate       float64 `json:"win_rate"`      // fraction
	AvgReturn     float64 `json:"avg_return"`    // percent
	MaxDrawdown   float64 `json:"max_drawdown"`  // percent
	SharpeRatio   float64 `json:"sharpe_ratio"`

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// FilterByConfidence keeps patterns at or above the confidence floor. The
// mining core reports everything it finds; presentation layers apply the
// configured floor through this helper.
func FilterByConfidence(patterns []Pattern, minConfidence float64) []Pattern {
	kept := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Confidence >= minConfidence {
			kept = append(kept, p)
		}
	}
	return kept
}

// OutOfSampleEstimate degrades in-sample averages by fixed discount factors
// to express that in-sample mining overstates forward performance.
type OutOfSampleEstimate struct {
	WinRate     float64 `json:"win_rate"`
	AvgReturn   float64 `json:"avg_return"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// RunStatistics aggregates all patterns produced by one mining run
type RunStatistics struct {
	TotalPatterns        int                 `json:"total_patterns"`
	AvgConfidence        float64             `json:"avg_confidence"`
	AvgSupport           float64             `json:"avg_support"`
	AvgSignificance      float64             `json:"avg_significance"`
	OverallProfitability float64             `json:"overall_profitability"`
	AvgWinRate           float64             `json:"avg_win_rate"`
	AvgSharpeRatio       float64             `json:"avg_sharpe_ratio"`
	PatternFrequency     map[PatternType]int `json:"pattern_frequency"`
	BestPattern          string              `json:"best_pattern"`  // id, empty when no patterns
	WorstPattern         string              `json:"worst_pattern"` // id, empty when no patterns
	CrossValidationScore float64             `json:"cross_validation_score"` // fraction with positive profitability
	BootstrapConfidence  float64             `json:"bootstrap_confidence"`   // mean of confidence * significance
	OutOfSample          OutOfSampleEstimate `json:"out_of_sample"`
}
