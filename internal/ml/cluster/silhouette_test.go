package cluster

import (
	"math/rand"
	"testing"
)

func TestScore_WellSeparatedBeatsOverlapping(t *testing.T) {
	rng := rand.New(rand.NewSource(21))

	separated := twoBlobs(80, rng)
	sepRes, err := Run(separated, Config{K: 2}, rng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	sepScore := Score(separated, sepRes)

	overlapping := make([][]float64, 80)
	for i := range overlapping {
		overlapping[i] = []float64{rng.NormFloat64(), rng.NormFloat64()}
	}
	ovRes, err := Run(overlapping, Config{K: 2}, rng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	ovScore := Score(overlapping, ovRes)

	if sepScore <= ovScore {
		t.Errorf("separated score %v not above overlapping score %v", sepScore, ovScore)
	}
	if sepScore < 0.9 {
		t.Errorf("separated blobs scored %v, expected near 1", sepScore)
	}
}

func TestScore_SingleNonEmptyCluster(t *testing.T) {
	points := [][]float64{{0, 0}, {1, 1}, {2, 2}}
	res := &Result{
		Assignments: []int{0, 0, 0},
		Centroids:   [][]float64{{1, 1}, {100, 100}},
	}

	if s := Score(points, res); s != WorstScore {
		t.Errorf("score = %v, want %v for a single non-empty cluster", s, WorstScore)
	}
}

func TestScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	points := make([][]float64, 50)
	for i := range points {
		points[i] = []float64{rng.Float64() * 10, rng.Float64() * 10}
	}

	res, err := Run(points, Config{K: 4}, rng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s := Score(points, res)
	if s < -1 || s > 1 {
		t.Errorf("score %v out of [-1, 1]", s)
	}
}

func TestScore_NoPoints(t *testing.T) {
	res := &Result{Assignments: nil, Centroids: [][]float64{{0}}}
	if s := Score(nil, res); s != WorstScore {
		t.Errorf("score = %v, want %v for no points", s, WorstScore)
	}
}
