// SPDX-License-Identifier: MIT

// Package matrix provides the dense, bounds-checked matrix used to carry
// distance tables between the reader, the distance calculator and the
// TSP formulator.
//
// What lives here:
//   - Matrix: the minimal read/write surface consumed by formulators.
//   - Dense: row-major storage with safe At/Set (errors, never panics).
//   - Validators: square, symmetric, zero-diagonal and non-negative checks.
//
// Numeric policy:
//   - Dense.Set rejects NaN/±Inf by default (DefaultValidateNaNInf).
//   - Tolerances are passed explicitly to validators; there is no global epsilon.
//
// All failures are reported through the sentinels in errors.go and must be
// matched with errors.Is.
package matrix
