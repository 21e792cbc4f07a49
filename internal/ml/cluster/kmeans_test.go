package cluster

import (
	"math"
	"math/rand"
	"testing"

	"arachne/pkg/errors"
)

// twoBlobs generates n points split between two well-separated centers.
// Even indices sit near the origin, odd indices near (10, 10).
func twoBlobs(n int, rng *rand.Rand) [][]float64 {
	points := make([][]float64, n)
	for i := range points {
		center := 0.0
		if i%2 == 1 {
			center = 10.0
		}
		points[i] = []float64{
			center + rng.NormFloat64()*0.1,
			center + rng.NormFloat64()*0.1,
		}
	}
	return points
}

func TestRun_SeparatesBlobs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := twoBlobs(100, rng)

	res, err := Run(points, Config{K: 2}, rng)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	evenCluster := res.Assignments[0]
	oddCluster := res.Assignments[1]
	if evenCluster == oddCluster {
		t.Fatalf("blobs not separated: both start points in cluster %d", evenCluster)
	}
	for i, c := range res.Assignments {
		want := evenCluster
		if i%2 == 1 {
			want = oddCluster
		}
		if c != want {
			t.Errorf("point %d assigned to cluster %d, want %d", i, c, want)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	points := twoBlobs(60, rand.New(rand.NewSource(7)))

	first, err := Run(points, Config{K: 3}, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := Run(points, Config{K: 3}, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.Inertia != second.Inertia {
		t.Errorf("inertia differs: %v vs %v", first.Inertia, second.Inertia)
	}
	for i := range first.Assignments {
		if first.Assignments[i] != second.Assignments[i] {
			t.Fatalf("assignment %d differs: %d vs %d", i, first.Assignments[i], second.Assignments[i])
		}
	}
	for c := range first.Centroids {
		for d := range first.Centroids[c] {
			if first.Centroids[c][d] != second.Centroids[c][d] {
				t.Fatalf("centroid %d dim %d differs", c, d)
			}
		}
	}
}

func TestRun_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := twoBlobs(10, rng)

	cases := []struct {
		name   string
		points [][]float64
		k      int
	}{
		{"no points", nil, 2},
		{"k zero", points, 0},
		{"k above n", points, 11},
		{"ragged point", [][]float64{{1, 2}, {3}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(tc.points, Config{K: tc.k}, rng)
			if !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRun_KEqualsN(t *testing.T) {
	points := [][]float64{{0, 0}, {5, 5}, {10, 10}}
	res, err := Run(points, Config{K: 3}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Inertia != 0 {
		t.Errorf("expected zero inertia with k == n, got %v", res.Inertia)
	}
}

func TestRun_IdenticalPoints(t *testing.T) {
	points := make([][]float64, 20)
	for i := range points {
		points[i] = []float64{1, 2, 3}
	}

	res, err := Run(points, Config{K: 3}, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Inertia != 0 {
		t.Errorf("expected zero inertia for identical points, got %v", res.Inertia)
	}
	if math.IsNaN(res.Inertia) {
		t.Error("inertia is NaN")
	}
}
