// SPDX-License-Identifier: MIT

// Package ops provides whole-matrix algorithms on top of package matrix.
// floyd_warshall.go implements the Floyd–Warshall all-pairs shortest paths
// algorithm used to take the metric closure of a distance matrix.
package ops

import (
	"github.com/pkg/errors"

	"github.com/katalvlaran/tspmip/matrix"
)

// FloydWarshall replaces every entry m[i][j] by the length of the shortest
// i→j path through any sequence of intermediate indices, in place. m must be
// square, with +Inf representing absent arcs; entries that stay +Inf have no
// path at all.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, or the At/Set error of
// the implementation (wrapped with coordinates).
//
// Complexity: O(n³) time, O(1) extra memory.
func FloydWarshall(m matrix.Matrix) error {
	// Stage 1: Validate input shape
	if err := matrix.ValidateSquare(m); err != nil {
		return errors.Wrap(err, "FloydWarshall")
	}
	n := m.Rows()

	var (
		i, j, k       int
		dik, dkj, dij float64
		err           error
	)

	// Stage 2: relax every pair through every intermediate k
	for k = 0; k < n; k++ {
		for i = 0; i < n; i++ {
			if dik, err = m.At(i, k); err != nil {
				return errors.Wrapf(err, "FloydWarshall: At(%d,%d)", i, k)
			}
			for j = 0; j < n; j++ {
				if dkj, err = m.At(k, j); err != nil {
					return errors.Wrapf(err, "FloydWarshall: At(%d,%d)", k, j)
				}
				if dij, err = m.At(i, j); err != nil {
					return errors.Wrapf(err, "FloydWarshall: At(%d,%d)", i, j)
				}
				if dik+dkj < dij {
					if err = m.Set(i, j, dik+dkj); err != nil {
						return errors.Wrapf(err, "FloydWarshall: Set(%d,%d)", i, j)
					}
				}
			}
		}
	}

	return nil
}

// MetricClosure returns a copy of m with FloydWarshall applied; m itself is
// left untouched.
func MetricClosure(m matrix.Matrix) (matrix.Matrix, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, errors.Wrap(err, "MetricClosure")
	}
	c := m.Clone()
	if err := FloydWarshall(c); err != nil {
		return nil, err
	}

	return c, nil
}
