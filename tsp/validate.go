// Package tsp - validation of the distance matrix handed to Formulate.
//
// Deterministic, side-effect free; O(n²) where n is the matrix order.
package tsp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/katalvlaran/tspmip/matrix"
)

// symTol is the structural tolerance for the diagonal check.
const symTol = 1e-12

// validateDistMatrix performs full matrix validation:
//   - non-nil, square, n>=1,
//   - diagonal ≈ 0 (|a_ii| ≤ symTol),
//   - off-diagonal finite and non-negative.
//
// Symmetry is not required: the formulation is directed.
// Returns n (matrix order) on success.
//
// Complexity: O(n²).
func validateDistMatrix(dist matrix.Matrix) (int, error) {
	if dist == nil {
		return 0, errors.Wrap(matrix.ErrNilMatrix, "distance matrix")
	}
	if err := matrix.ValidateSquare(dist); err != nil {
		return 0, err
	}
	n := dist.Rows()
	if n == 0 {
		return 0, ErrEmptyMatrix
	}
	if err := matrix.ValidateZeroDiagonal(dist, symTol); err != nil {
		return 0, err
	}

	var (
		i, j int
		aij  float64
		err  error
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			if aij, err = dist.At(i, j); err != nil {
				return 0, err
			}
			switch {
			case math.IsNaN(aij):
				return 0, errors.Wrapf(matrix.ErrNaNInf, "distance (%d,%d)", i, j)
			case math.IsInf(aij, 0):
				return 0, errors.Wrapf(ErrIncompleteGraph, "distance (%d,%d)", i, j)
			case aij < 0:
				return 0, errors.Wrapf(ErrNegativeWeight, "distance (%d,%d)=%g", i, j, aij)
			}
		}
	}

	return n, nil
}
