// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide a single source of truth for the structural checks distance
//     tables must pass before they reach a formulator.
//
// Determinism & Performance:
//   - All checks are pure, deterministic and allocate nothing.
//   - Symmetry check runs O(n²) on the upper triangle only.

package matrix

import (
	"math"

	"github.com/pkg/errors"
)

// validatorErrorf wraps an underlying sentinel with the validator tag.
func validatorErrorf(tag string, err error) error {
	return errors.Wrap(err, tag)
}

// ValidateNotNil ensures the matrix reference is non-nil.
func ValidateNotNil(m Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square (Rows == Cols).
//
// Errors: ErrNilMatrix if nil, ErrNonSquare if not square.
// Complexity: O(1).
func ValidateSquare(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateSymmetric checks |a_ij − a_ji| ≤ tol over the upper triangle.
// Assumes m is square (call ValidateSquare first).
//
// Errors: ErrAsymmetry, or the At error on a broken implementation.
// Complexity: O(n²).
func ValidateSymmetric(m Matrix, tol float64) error {
	var (
		n        = m.Rows()
		i, j     int
		aij, aji float64
		err      error
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if aij, err = m.At(i, j); err != nil {
				return err
			}
			if aji, err = m.At(j, i); err != nil {
				return err
			}
			if math.Abs(aij-aji) > tol {
				return errors.Wrapf(ErrAsymmetry, "ValidateSymmetric: (%d,%d)=%g vs (%d,%d)=%g", i, j, aij, j, i, aji)
			}
		}
	}

	return nil
}

// ValidateZeroDiagonal checks |a_ii| ≤ tol for every i.
// Assumes m is square.
//
// Complexity: O(n).
func ValidateZeroDiagonal(m Matrix, tol float64) error {
	var (
		n   = m.Rows()
		i   int
		aii float64
		err error
	)
	for i = 0; i < n; i++ {
		if aii, err = m.At(i, i); err != nil {
			return err
		}
		if math.Abs(aii) > tol {
			return errors.Wrapf(ErrNonZeroDiagonal, "ValidateZeroDiagonal: (%d,%d)=%g", i, i, aii)
		}
	}

	return nil
}

// ValidateNonNegative checks that every entry is finite and ≥ 0.
//
// Errors: ErrNaNInf for non-finite entries, ErrNegative for negatives.
// Complexity: O(r*c).
func ValidateNonNegative(m Matrix) error {
	var (
		r   = m.Rows()
		c   = m.Cols()
		i   int
		j   int
		v   float64
		err error
	)
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return err
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrNaNInf, "ValidateNonNegative: (%d,%d)", i, j)
			}
			if v < 0 {
				return errors.Wrapf(ErrNegative, "ValidateNonNegative: (%d,%d)=%g", i, j, v)
			}
		}
	}

	return nil
}
