// Package tsp - cost of a decoded tour.
//
// TourCost recomputes the length of a closed tour straight from the distance
// matrix so that the solver objective can be cross-checked.
package tsp

import (
	"math"

	"github.com/katalvlaran/tspmip/matrix"
)

// roundScale controls final cost stabilization precision (1e-9).
const roundScale = 1e9

// TourCost sums dist along tour[i]→tour[i+1].
//
// Contract:
//   - tour is closed: len(tour) >= 2, indices within [0..n-1].
//   - dist is square.
//
// Errors: ErrDimensionMismatch, matrix.ErrNonSquare, ErrIncompleteGraph,
// ErrNegativeWeight.
//
// Complexity: O(n).
func TourCost(dist matrix.Matrix, tour []int) (float64, error) {
	if dist == nil || len(tour) < 2 {
		return 0, ErrDimensionMismatch
	}
	if err := matrix.ValidateSquare(dist); err != nil {
		return 0, err
	}

	var (
		n   = dist.Rows()
		sum float64
		u   int
		v   int
		w   float64
		err error
	)
	for i := 0; i+1 < len(tour); i++ {
		u, v = tour[i], tour[i+1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return 0, ErrDimensionMismatch
		}
		if w, err = edgeCost(dist, u, v); err != nil {
			return 0, err
		}
		sum += w
	}

	return round1e9(sum), nil
}

// edgeCost fetches the weight of u→v with strict validation.
//
// Complexity: O(1).
func edgeCost(m matrix.Matrix, u, v int) (float64, error) {
	w, err := m.At(u, v)
	if err != nil {
		return 0, ErrDimensionMismatch
	}
	if math.IsNaN(w) {
		return 0, ErrDimensionMismatch
	}
	if math.IsInf(w, 0) {
		return 0, ErrIncompleteGraph
	}
	if w < 0 {
		return 0, ErrNegativeWeight
	}

	return w, nil
}

// round1e9 returns x rounded to 1e-9 absolute precision.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}
