package mip

import (
	"math"
	"time"
)

// Status is the terminal state of a solve.
type Status int

const (
	// Unknown is the zero Status; no backend reports it.
	Unknown Status = iota
	// Optimal means the incumbent is proven optimal.
	Optimal
	// Feasible means a limit stopped the search with an incumbent in hand.
	Feasible
	// Infeasible means no point satisfies the constraints.
	Infeasible
	// Unbounded means the objective improves without limit.
	Unbounded
	// LimitReached means a limit stopped the search before any incumbent.
	LimitReached
)

// String returns a short, stable label for logs and reports.
func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case LimitReached:
		return "limit reached"
	default:
		return "unknown"
	}
}

// HasSolution reports whether a Solution with this status carries values.
func (s Status) HasSolution() bool { return s == Optimal || s == Feasible }

// Solution is what a Backend returns for one Model.
type Solution struct {
	Status    Status
	Objective float64
	// X is indexed by Var.Index; nil unless Status.HasSolution().
	X []float64
	// Nodes is the number of branch-and-bound nodes processed.
	Nodes   int
	Backend string
	Elapsed time.Duration
}

// ObjValue returns the objective value, or NaN when there is no solution.
func (s *Solution) ObjValue() float64 {
	if s == nil || !s.Status.HasSolution() {
		return math.NaN()
	}

	return s.Objective
}

// Value returns the value of v, or NaN when there is no solution.
func (s *Solution) Value(v *Var) float64 {
	if s == nil || v == nil || v.index >= len(s.X) {
		return math.NaN()
	}

	return s.X[v.index]
}

// Values returns the values of vs in order.
func (s *Solution) Values(vs []*Var) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = s.Value(v)
	}

	return out
}

// Default parameter values.
const (
	DefaultNodeLimit = 100000
	DefaultIntTol    = 1e-6
	DefaultFeasTol   = 1e-7
)

// Params bounds the effort a backend may spend.
type Params struct {
	// NodeLimit caps branch-and-bound nodes; zero or less means unlimited.
	NodeLimit int
	// TimeLimit caps wall time; zero means unlimited.
	TimeLimit time.Duration
	// IntTol is the distance from an integer still accepted as integral.
	IntTol float64
	// FeasTol is the constraint violation still accepted as feasible.
	FeasTol float64
	// Start is an optional MIP start indexed like Model.Vars. Backends
	// that support it use a feasible start as the first incumbent and
	// ignore an infeasible one.
	Start []float64
}

// DefaultParams returns the parameters used when none are supplied.
func DefaultParams() Params {
	return Params{
		NodeLimit: DefaultNodeLimit,
		IntTol:    DefaultIntTol,
		FeasTol:   DefaultFeasTol,
	}
}

// withDefaults fills zero tolerances.
func (p Params) withDefaults() Params {
	if p.IntTol <= 0 {
		p.IntTol = DefaultIntTol
	}
	if p.FeasTol <= 0 {
		p.FeasTol = DefaultFeasTol
	}

	return p
}
