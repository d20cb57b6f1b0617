// Package distance builds pairwise distance matrices from location tables.
//
// Euclidean computes D[i][j] = round(‖loc[i+1] − loc[j+1]‖₂, 2) over the
// locations of a table (the header row is skipped). Only the upper
// triangle is computed; the lower triangle is mirrored from it, so the
// result is exactly symmetric with a zero diagonal.
//
// Complexity: O(n²) time, O(n²) space.
package distance

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/tspmip/locations"
	"github.com/katalvlaran/tspmip/matrix"
)

// ErrNoLocations is returned when the table holds no location rows.
var ErrNoLocations = errors.New("distance: no locations")

// decimals is the number of decimal places distances are rounded to.
const decimals = 2

// Euclidean returns the n×n rounded Euclidean distance matrix of the n
// locations in t. Rows shorter than two values read their missing
// coordinates as 0.
//
// Errors: ErrNoLocations for an empty or header-only table.
func Euclidean(t locations.Table) (*matrix.Dense, error) {
	n := t.Len()
	if n == 0 {
		return nil, ErrNoLocations
	}
	d, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, errors.Wrap(err, "distance: allocate")
	}

	var (
		pts  = coords(t)
		i, j int
		v    float64
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			v = Round2(floats.Distance(pts[i], pts[j], 2))
			if err = d.Set(i, j, v); err != nil {
				return nil, errors.Wrapf(err, "distance: locations %d,%d", i, j)
			}
			if err = d.Set(j, i, v); err != nil {
				return nil, errors.Wrapf(err, "distance: locations %d,%d", j, i)
			}
		}
	}

	return d, nil
}

// Round2 rounds v to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

// coords extracts the (x, y) pairs of all locations as 2-vectors.
func coords(t locations.Table) [][]float64 {
	n := t.Len()
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		x, y, _ := t.Coord(i)
		out[i] = []float64{x, y}
	}

	return out
}
