// Package tsp - the assignment-position MILP.
//
// Decision variables:
//
//	x_i    integer in [0, n-1]: x_i = k iff location i is visited k-th; x_0 = 0.
//	R_i_j  binary, i != j:      R_i_j = 1 iff j is visited right after i.
//
// Rows:
//
//	succ_i:   Σ_j R_i_j = 1
//	pred_j:   Σ_i R_i_j = 1
//	link_i_j: x_i - x_j + 1 <= n (1 - R_i_j), stored as x_i - x_j + n R_i_j <= n - 1
//
// Objective: minimize Σ D[i][j] R_i_j.
package tsp

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/katalvlaran/tspmip/matrix"
	"github.com/katalvlaran/tspmip/matrix/ops"
	"github.com/katalvlaran/tspmip/mip"
)

// Formulation is a built TSP model together with handles to its variables.
type Formulation struct {
	Model *mip.Model

	// N is the number of locations.
	N int

	// Dist is the matrix the objective was built from: the input, or its
	// metric closure under WithMetricClosure.
	Dist matrix.Matrix

	// X[i] is the position variable of location i.
	X []*mip.Var

	// R[i][j] is the precedence variable of arc i→j; R[i][i] is nil.
	R [][]*mip.Var
}

// Formulate builds the TSP model for dist.
//
// Linking rows are added for every arc i→j with j != 0. The arcs that return
// to location 0 close the tour and carry no linking row unless
// WithReturnArcLinking(true) is set. No explicit "positions are distinct" row
// is added; assignment plus linking already force x to a permutation, and
// Solve checks it after every solve.
//
// With WithMetricClosure(true) the distances are first replaced by their
// shortest-path closure (matrix/ops.MetricClosure), so a matrix with absent
// arcs can still be toured as long as every location is reachable.
//
// A single location has no arcs, so the assignment rows are omitted and the
// model is trivially optimal with cost 0.
//
// Complexity: O(n²) variables and rows.
func Formulate(dist matrix.Matrix, opts ...Option) (*Formulation, error) {
	o := buildOptions(opts)
	var err error
	if o.MetricClosure && dist != nil {
		if dist, err = ops.MetricClosure(dist); err != nil {
			return nil, err
		}
	}
	n, err := validateDistMatrix(dist)
	if err != nil {
		return nil, err
	}

	f := &Formulation{
		Model: mip.NewModel(o.ModelName),
		N:     n,
		Dist:  dist,
		X:     make([]*mip.Var, n),
		R:     make([][]*mip.Var, n),
	}
	m := f.Model

	var i, j int
	for i = 0; i < n; i++ {
		ub := float64(n - 1)
		if i == 0 {
			ub = 0
		}
		if f.X[i], err = m.AddInteger(fmt.Sprintf("x_%d", i), 0, ub); err != nil {
			return nil, errors.Wrap(err, "position variable")
		}
	}
	for i = 0; i < n; i++ {
		f.R[i] = make([]*mip.Var, n)
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			if f.R[i][j], err = m.AddBinary(fmt.Sprintf("R_%d_%d", i, j)); err != nil {
				return nil, errors.Wrap(err, "precedence variable")
			}
		}
	}

	if n > 1 {
		for i = 0; i < n; i++ {
			row := mip.NewExpr()
			for j = 0; j < n; j++ {
				if i != j {
					row.Add(1, f.R[i][j])
				}
			}
			if _, err = m.AddRow(fmt.Sprintf("succ_%d", i), row, mip.EQ, 1); err != nil {
				return nil, err
			}
		}
		for j = 0; j < n; j++ {
			col := mip.NewExpr()
			for i = 0; i < n; i++ {
				if i != j {
					col.Add(1, f.R[i][j])
				}
			}
			if _, err = m.AddRow(fmt.Sprintf("pred_%d", j), col, mip.EQ, 1); err != nil {
				return nil, err
			}
		}
	}

	bigM := float64(n)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j || (j == 0 && !o.ReturnArcLinking) {
				continue
			}
			link := mip.NewExpr().Add(1, f.X[i]).Add(-1, f.X[j]).Add(bigM, f.R[i][j])
			if _, err = m.AddRow(fmt.Sprintf("link_%d_%d", i, j), link, mip.LE, bigM-1); err != nil {
				return nil, err
			}
		}
	}

	obj := mip.NewExpr()
	var d float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			if d, err = dist.At(i, j); err != nil {
				return nil, err
			}
			obj.Add(d, f.R[i][j])
		}
	}
	if err = m.SetObjective(mip.Minimize, obj); err != nil {
		return nil, err
	}

	return f, nil
}

// Start encodes a closed tour starting at 0 as a MIP start for Model:
// x_i is the position of i and R_i_j is 1 exactly on the tour arcs.
//
// Errors: the ValidateTour errors for a tour that is not a Hamiltonian
// cycle over f.N locations starting at 0.
func (f *Formulation) Start(tour []int) ([]float64, error) {
	if err := ValidateTour(tour, f.N, 0); err != nil {
		return nil, err
	}
	x := make([]float64, f.Model.NumVars())
	for k := 0; k < f.N; k++ {
		x[f.X[tour[k]].Index()] = float64(k)
		if f.N > 1 {
			x[f.R[tour[k]][tour[k+1]].Index()] = 1
		}
	}

	return x, nil
}
