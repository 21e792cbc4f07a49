package mining

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// window is one fixed-length run of bars in base-relative form. Windows are
// transient: extracted here, consumed by feature computation and synthesis,
// discarded with the run.
type window struct {
	start      int       // index of the first bar in the source series
	closes     []float64 // raw closes, shares backing array with the series closes
	normalized []float64 // Close[i]/Close[0] - 1
	strength   float64   // patternStrength, see below
}

// extractWindows produces windows at start indices 0..N-w-1 and filters out
// flat segments inline: a window survives only when its patternStrength
// (population stddev of the normalized closes plus the absolute normalized
// net move) reaches the noise floor. Returns the surviving windows and the
// total candidate count. N <= w yields zero windows.
func extractWindows(closes []float64, windowSize int, noiseFilter float64) ([]window, int) {
	n := len(closes)
	if n <= windowSize {
		return nil, 0
	}

	extracted := n - windowSize
	wins := make([]window, 0, extracted)
	for start := 0; start <= n-windowSize-1; start++ {
		sub := closes[start : start+windowSize]
		base := sub[0]
		normalized := make([]float64, windowSize)
		for i, c := range sub {
			normalized[i] = c/base - 1
		}

		strength := stat.PopStdDev(normalized, nil) + math.Abs(normalized[windowSize-1]-normalized[0])
		if strength < noiseFilter {
			continue
		}

		wins = append(wins, window{
			start:      start,
			closes:     sub,
			normalized: normalized,
			strength:   strength,
		})
	}
	return wins, extracted
}
