package cluster

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WorstScore marks a degenerate clustering in a cluster-count sweep
const WorstScore = -1.0

// Score computes a centroid-based silhouette: per point, a is the distance to
// the own centroid, b the distance to the nearest other non-empty centroid,
// and the score the mean of (b-a)/max(a,b). Returns WorstScore when fewer
// than two clusters are non-empty.
func Score(points [][]float64, res *Result) float64 {
	if len(points) == 0 {
		return WorstScore
	}

	counts := make([]int, len(res.Centroids))
	for _, c := range res.Assignments {
		counts[c]++
	}
	nonEmpty := 0
	for _, n := range counts {
		if n > 0 {
			nonEmpty++
		}
	}
	if nonEmpty < 2 {
		return WorstScore
	}

	total := 0.0
	for i, p := range points {
		own := res.Assignments[i]
		a := floats.Distance(p, res.Centroids[own], 2)

		b := math.Inf(1)
		for c, centroid := range res.Centroids {
			if c == own || counts[c] == 0 {
				continue
			}
			if d := floats.Distance(p, centroid, 2); d < b {
				b = d
			}
		}

		// A point sitting exactly on two centroids contributes 0
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(len(points))
}
