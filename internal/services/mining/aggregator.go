package mining

import (
	"arachne/internal/domain/pattern"
)

// aggregate reduces the pattern list to RunStatistics. An empty list yields
// the all-zero structure with an empty frequency histogram, never an error.
func aggregate(patterns []pattern.Pattern, discounts pattern.DiscountParams) pattern.RunStatistics {
	stats := pattern.RunStatistics{
		PatternFrequency: make(map[pattern.PatternType]int),
	}
	if len(patterns) == 0 {
		return stats
	}

	n := float64(len(patterns))
	positive := 0
	best, worst := 0, 0
	for i, p := range patterns {
		stats.AvgConfidence += p.Confidence
		stats.AvgSupport += p.Support
		stats.AvgSignificance += p.Significance
		stats.OverallProfitability += p.Profitability
		stats.AvgWinRate += p.WinRate
		stats.AvgSharpeRatio += p.SharpeRatio
		stats.BootstrapConfidence += p.Confidence * p.Significance
		stats.PatternFrequency[p.Type]++

		if p.Profitability > 0 {
			positive++
		}
		if p.Profitability > patterns[best].Profitability {
			best = i
		}
		if p.Profitability < patterns[worst].Profitability {
			worst = i
		}
	}

	stats.TotalPatterns = len(patterns)
	stats.AvgConfidence /= n
	stats.AvgSupport /= n
	stats.AvgSignificance /= n
	stats.OverallProfitability /= n
	stats.AvgWinRate /= n
	stats.AvgSharpeRatio /= n
	stats.BootstrapConfidence /= n
	stats.BestPattern = patterns[best].ID
	stats.WorstPattern = patterns[worst].ID

	// Proxy score, not a true k-fold procedure
	stats.CrossValidationScore = float64(positive) / n

	// In-sample averages degraded by fixed discounts
	stats.OutOfSample = pattern.OutOfSampleEstimate{
		WinRate:     stats.AvgWinRate * discounts.WinRate,
		AvgReturn:   stats.OverallProfitability * discounts.AvgReturn,
		SharpeRatio: stats.AvgSharpeRatio * discounts.Sharpe,
	}
	return stats
}
