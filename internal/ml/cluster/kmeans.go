// Package cluster implements seeded partitional clustering over feature
// vectors: z-score standardization, k-means with k-means++ initialization and
// restarts, and a centroid-based silhouette score for choosing the cluster
// count.
package cluster

import (
	"math/rand"

	"arachne/pkg/errors"
)

const (
	defaultMaxIter = 100
	defaultNInit   = 10
)

// Config controls one k-means run
type Config struct {
	K       int
	MaxIter int // Lloyd iterations per restart, default 100
	NInit   int // independent restarts, lowest inertia wins, default 10
}

// Result holds the best clustering found across restarts
type Result struct {
	Assignments []int
	Centroids   [][]float64
	Inertia     float64 // sum of squared distances to own centroid
}

// Run clusters points into cfg.K groups. All randomness is drawn from rng, so
// a fixed seed reproduces the identical assignment.
func Run(points [][]float64, cfg Config, rng *rand.Rand) (*Result, error) {
	n := len(points)
	if n == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "no points to cluster")
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "point %d has dimension %d, want %d", i, len(p), dim)
		}
	}
	if cfg.K < 1 || cfg.K > n {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "k=%d out of range [1, %d]", cfg.K, n)
	}

	maxIter := cfg.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	nInit := cfg.NInit
	if nInit <= 0 {
		nInit = defaultNInit
	}

	var best *Result
	for run := 0; run < nInit; run++ {
		res := lloyd(points, cfg.K, maxIter, rng)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func lloyd(points [][]float64, k, maxIter int, rng *rand.Rand) *Result {
	centroids := seedCentroids(points, k, rng)
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		if changed := assignPoints(points, centroids, assignments); !changed {
			break
		}
		moveCentroids(points, centroids, assignments)
	}

	inertia := 0.0
	for i, p := range points {
		inertia += sqDist(p, centroids[assignments[i]])
	}
	return &Result{Assignments: assignments, Centroids: centroids, Inertia: inertia}
}

// seedCentroids picks initial centroids with k-means++ weighting: the first
// uniformly, each next proportional to the squared distance from the nearest
// already-chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	dim := len(points[0])

	centroids := make([][]float64, k)
	for c := range centroids {
		centroids[c] = make([]float64, dim)
	}
	copy(centroids[0], points[rng.Intn(n)])

	minDist := make([]float64, n)
	for c := 1; c < k; c++ {
		total := 0.0
		for i, p := range points {
			d := sqDist(p, centroids[c-1])
			if c == 1 || d < minDist[i] {
				minDist[i] = d
			}
			total += minDist[i]
		}

		idx := n - 1
		if total > 0 {
			target := rng.Float64() * total
			cum := 0.0
			for i := 0; i < n; i++ {
				cum += minDist[i]
				if cum >= target {
					idx = i
					break
				}
			}
		} else {
			// All remaining points coincide with a centroid
			idx = rng.Intn(n)
		}
		copy(centroids[c], points[idx])
	}
	return centroids
}

// assignPoints moves every point to its nearest centroid and reports whether
// any assignment changed.
func assignPoints(points [][]float64, centroids [][]float64, assignments []int) bool {
	changed := false
	for i, p := range points {
		best, bestDist := 0, sqDist(p, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := sqDist(p, centroids[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		if assignments[i] != best {
			assignments[i] = best
			changed = true
		}
	}
	return changed
}

// moveCentroids recomputes each centroid as the mean of its members. A cluster
// left empty is respawned on the point currently farthest from its own
// centroid, one point per empty cluster.
func moveCentroids(points [][]float64, centroids [][]float64, assignments []int) {
	k := len(centroids)
	dim := len(points[0])

	counts := make([]int, k)
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		c := assignments[i]
		counts[c]++
		for d := 0; d < dim; d++ {
			sums[c][d] += p[d]
		}
	}

	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		for d := 0; d < dim; d++ {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}

	taken := make([]bool, len(points))
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		far, farDist := -1, -1.0
		for i, p := range points {
			if taken[i] {
				continue
			}
			if d := sqDist(p, centroids[assignments[i]]); d > farDist {
				far, farDist = i, d
			}
		}
		if far >= 0 {
			taken[far] = true
			copy(centroids[c], points[far])
		}
	}
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
