package mining

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Feature vector layout. Synthesis reads trend/volatility/momentum back out
// of the raw matrix by these indices.
const (
	featTrend = iota
	featVolatility
	featMomentum
	featPriceRange
	featSkewness
	featKurtosis
	featDirectionalChanges
	featPatternStrength

	featureDim
)

// computeFeatures maps one window to its feature vector. Pure function of the
// window, no shared state.
func computeFeatures(win *window) []float64 {
	returns := make([]float64, len(win.closes)-1)
	for i := 1; i < len(win.closes); i++ {
		returns[i-1] = win.closes[i]/win.closes[i-1] - 1
	}

	sigma := stat.PopStdDev(returns, nil)

	// Third and fourth standardized moments, population formulas. Both zero
	// for constant returns.
	skewness, kurtosis := 0.0, 0.0
	if sigma > 0 {
		m3 := stat.Moment(3, returns, nil)
		m4 := stat.Moment(4, returns, nil)
		skewness = m3 / math.Pow(sigma, 3)
		kurtosis = m4 / math.Pow(sigma, 4)
	}

	flips := 0
	for i := 1; i < len(returns); i++ {
		if signOf(returns[i]) != signOf(returns[i-1]) {
			flips++
		}
	}

	v := make([]float64, featureDim)
	v[featTrend] = win.normalized[len(win.normalized)-1] - win.normalized[0]
	v[featVolatility] = sigma
	v[featMomentum] = stat.Mean(returns, nil)
	v[featPriceRange] = (floats.Max(win.closes) - floats.Min(win.closes)) / win.closes[0]
	v[featSkewness] = skewness
	v[featKurtosis] = kurtosis
	v[featDirectionalChanges] = float64(flips)
	v[featPatternStrength] = win.strength
	return v
}

// signOf treats exact zero as its own sign, so transitions through zero count
// as directional changes.
func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// computeFeatureMatrix runs feature computation across a bounded worker pool.
// Output is index-addressed, so the result is identical regardless of
// scheduling. workers <= 0 means GOMAXPROCS.
func computeFeatureMatrix(wins []window, workers int) [][]float64 {
	if len(wins) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(wins) {
		workers = len(wins)
	}

	matrix := make([][]float64, len(wins))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				matrix[i] = computeFeatures(&wins[i])
			}
		}()
	}
	for i := range wins {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return matrix
}
