// Package tsp - sentinels and result types of the TSP formulator.
package tsp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/tspmip/mip"
)

var (
	// ErrDimensionMismatch flags tours or permutations of the wrong shape.
	ErrDimensionMismatch = errors.New("tsp: dimension mismatch")

	// ErrStartOutOfRange flags a start vertex outside [0, n).
	ErrStartOutOfRange = errors.New("tsp: start vertex out of range")

	// ErrEmptyMatrix is returned for a 0×0 distance matrix.
	ErrEmptyMatrix = errors.New("tsp: empty distance matrix")

	// ErrNegativeWeight flags a negative distance.
	ErrNegativeWeight = errors.New("tsp: negative distance")

	// ErrIncompleteGraph flags a ±Inf distance on a tour edge.
	ErrIncompleteGraph = errors.New("tsp: incomplete distance matrix")

	// ErrNoBackend is returned by Solve when no solver backend is given.
	ErrNoBackend = errors.New("tsp: no solver backend")

	// ErrPositionsNotDistinct means the solved positions are not a
	// permutation of 0..n-1.
	ErrPositionsNotDistinct = errors.New("tsp: positions are not distinct")

	// ErrBrokenTour means the chosen arcs do not form one Hamiltonian cycle
	// consistent with the positions.
	ErrBrokenTour = errors.New("tsp: arcs do not form a single tour")
)

// Status classifies the outcome of Solve.
type Status int

const (
	// Success means a validated tour was found; Result.SolverStatus tells
	// whether it is proven optimal (mip.Optimal) or only feasible.
	Success Status = iota
	// Infeasible means the solver proved the model has no solution, or
	// stopped without finding one.
	Infeasible
	// SolverError means the modeling layer or the backend failed; see Result.Err.
	SolverError
	// InvalidInput means the locations or the distance matrix were unusable.
	InvalidInput
)

// String returns a short, stable label.
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Infeasible:
		return "infeasible"
	case SolverError:
		return "solver error"
	case InvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Result is the decoded outcome of one formulate-and-solve call.
type Result struct {
	Status Status

	// N is the number of locations.
	N int

	// Cost is the objective value, the total distance of Tour.
	Cost float64

	// Positions[i] is the visit order of location i; Positions[0] == 0.
	Positions []int

	// Successor[i] is the location visited right after i.
	Successor []int

	// Tour starts and ends at location 0: len(Tour) == N+1.
	Tour []int

	// SolverStatus is the raw backend status.
	SolverStatus mip.Status

	// Nodes is the number of branch-and-bound nodes the backend used.
	Nodes int

	// Err carries the detail for SolverError and InvalidInput.
	Err error
}

// String renders the report printed by the command line tool.
func (r Result) String() string {
	var b strings.Builder
	switch r.Status {
	case Success:
		b.WriteString("positions: ")
		for i, p := range r.Positions {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", p)
		}
		b.WriteString("\ntour: ")
		for i, v := range r.Tour {
			if i > 0 {
				b.WriteString(" -> ")
			}
			fmt.Fprintf(&b, "%d", v)
		}
		fmt.Fprintf(&b, "\nobjective: %.2f", r.Cost)
	case Infeasible:
		fmt.Fprintf(&b, "solution status failed: %s", r.SolverStatus)
	default:
		fmt.Fprintf(&b, "%s: %v", r.Status, r.Err)
	}

	return b.String()
}
