package mining

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"arachne/internal/domain/pattern"
	"arachne/internal/domain/series"
)

// Profitability clamp bounds, percent. The estimate is a heuristic scaled from
// mean trend; the clamp keeps it inside a presentable range.
const (
	minProfitability = -10.0
	maxProfitability = 15.0
)

// synthesize produces exactly one Pattern per retained cluster, in cluster
// order. The rng drives bootstrap resampling and the profitability
// perturbation, so a fixed seed reproduces identical patterns.
func synthesize(clusters [][]int, wins []window, feats [][]float64, srs series.Series, survivors int, params pattern.MiningParams, rng *rand.Rand) []pattern.Pattern {
	patterns := make([]pattern.Pattern, 0, len(clusters))
	for i, members := range clusters {
		patterns = append(patterns, synthesizeOne(i+1, members, wins, feats, srs, survivors, params, rng))
	}
	return patterns
}

func synthesizeOne(ordinal int, members []int, wins []window, feats [][]float64, srs series.Series, survivors int, params pattern.MiningParams, rng *rand.Rand) pattern.Pattern {
	est := params.Estimator

	trends := make([]float64, len(members))
	vols := make([]float64, len(members))
	moms := make([]float64, len(members))
	for i, m := range members {
		trends[i] = feats[m][featTrend]
		vols[i] = feats[m][featVolatility]
		moms[i] = feats[m][featMomentum]
	}
	meanTrend := stat.Mean(trends, nil)
	meanVol := stat.Mean(vols, nil)
	meanMom := stat.Mean(moms, nil)

	// Tight clusters get high confidence, never below the 0.5 floor
	confidence := math.Max(0.5, 1/(1+stat.PopVariance(trends, nil)*est.ConfidenceScale))

	significance := bootstrapSignificance(trends, meanTrend, params.BootstrapSamples, rng)

	shape := make([]float64, params.WindowSize)
	for _, m := range members {
		floats.Add(shape, wins[m].normalized)
	}
	floats.Scale(1/float64(len(members)), shape)

	profitability := clamp(
		meanTrend*est.ProfitScale+(rng.Float64()*2-1)*est.ProfitNoise,
		minProfitability, maxProfitability,
	)
	volPct := meanVol * 100

	firstWin, lastWin := wins[members[0]], wins[members[0]]
	for _, m := range members[1:] {
		if wins[m].start < firstWin.start {
			firstWin = wins[m]
		}
		if wins[m].start > lastWin.start {
			lastWin = wins[m]
		}
	}

	return pattern.Pattern{
		ID:            fmt.Sprintf("pattern_%03d", ordinal),
		Type:          classify(meanTrend, meanMom, est.TrendThreshold),
		Support:       float64(len(members)) / float64(survivors),
		Confidence:    confidence,
		Significance:  significance,
		PricePoints:   shape,
		Duration:      params.WindowSize,
		Frequency:     len(members),
		Profitability: profitability,
		WinRate:       confidence * est.WinRateFactor,
		AvgReturn:     meanTrend * 100,
		MaxDrawdown:   volPct * est.DrawdownFactor,
		SharpeRatio:   profitability / (volPct + est.Epsilon),
		FirstSeen:     srs[firstWin.start].Timestamp,
		LastSeen:      srs[lastWin.start+params.WindowSize-1].Timestamp,
	}
}

// classify labels a cluster by its mean trend and momentum. Both must agree
// for a directional label.
func classify(meanTrend, meanMomentum, threshold float64) pattern.PatternType {
	switch {
	case meanTrend > threshold && meanMomentum > 0:
		return pattern.TypeBullish
	case meanTrend < -threshold && meanMomentum < 0:
		return pattern.TypeBearish
	}
	return pattern.TypeNeutral
}

// bootstrapSignificance derives a two-sided empirical p-value from resampled
// trend means and returns max(0.1, 1-p). A cluster of near-zero trends books
// the 0.1 floor; a consistently directional cluster lands around 0.5.
func bootstrapSignificance(trends []float64, observedMean float64, samples int, rng *rand.Rand) float64 {
	absObserved := math.Abs(observedMean)
	n := len(trends)

	extreme := 0
	for b := 0; b < samples; b++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += trends[rng.Intn(n)]
		}
		if math.Abs(sum/float64(n)) >= absObserved {
			extreme++
		}
	}
	p := float64(extreme) / float64(samples)
	return math.Max(0.1, 1-p)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
