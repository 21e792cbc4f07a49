package cluster

import (
	"gonum.org/v1/gonum/stat"
)

// Standardize z-scores each feature column over the full set of rows and
// returns a new matrix. A zero-variance column standardizes to all zeros
// rather than dividing by zero. All rows must share the same length.
func Standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])

	means := make([]float64, dim)
	stds := make([]float64, dim)
	col := make([]float64, len(rows))
	for d := 0; d < dim; d++ {
		for i, r := range rows {
			col[i] = r[d]
		}
		means[d] = stat.Mean(col, nil)
		stds[d] = stat.PopStdDev(col, nil)
	}

	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, dim)
		for d := 0; d < dim; d++ {
			if stds[d] > 0 {
				out[i][d] = (r[d] - means[d]) / stds[d]
			}
		}
	}
	return out
}
