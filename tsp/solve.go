// Package tsp - formulate-and-solve pipeline.
//
// Solve is the single entry point used by the command line tool:
//
//   - formulate the model (Formulate),
//   - optionally export it in LP format,
//   - seed a MIP start from the local-search Heuristic (WithWarmStart),
//   - acquire a mip.Env, solve, release the Env on every path,
//   - decode positions, successors and the closed tour, and validate them.
//
// Failures never propagate as panics or errors: they are classified into
// Result.Status with the detail in Result.Err.
package tsp

import (
	"context"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/tspmip/distance"
	"github.com/katalvlaran/tspmip/locations"
	"github.com/katalvlaran/tspmip/matrix"
	"github.com/katalvlaran/tspmip/mip"
)

// costTol is the accepted gap between the solver objective and the
// recomputed tour length.
const costTol = 1e-6

// SolveTable computes the distance matrix of t and solves it. An empty
// table yields InvalidInput wrapping distance.ErrNoLocations.
func SolveTable(ctx context.Context, backend mip.Backend, t locations.Table, opts ...Option) Result {
	dist, err := distance.Euclidean(t)
	if err != nil {
		return Result{Status: InvalidInput, Err: err}
	}

	return Solve(ctx, backend, dist, opts...)
}

// Solve formulates and solves the TSP on dist.
func Solve(ctx context.Context, backend mip.Backend, dist matrix.Matrix, opts ...Option) (res Result) {
	o := buildOptions(opts)
	log := o.Logger
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("tsp: modeling layer panicked")
			res = Result{Status: SolverError, N: res.N, Err: errors.Errorf("tsp: panic: %v", r)}
		}
	}()

	if backend == nil {
		return Result{Status: SolverError, Err: ErrNoBackend}
	}

	f, err := Formulate(dist, opts...)
	if err != nil {
		return Result{Status: InvalidInput, Err: err}
	}
	res.N = f.N
	log = log.WithField("locations", f.N)
	log.WithFields(logrus.Fields{
		"vars":        f.Model.NumVars(),
		"constraints": f.Model.NumConstraints(),
	}).Debug("model formulated")

	if o.ExportPath != "" {
		if err = f.Model.ExportLP(o.ExportPath); err != nil {
			res.Status, res.Err = SolverError, err
			return res
		}
		log.WithField("path", o.ExportPath).Info("model exported")
	}

	params := o.Params
	if o.WarmStart && params.Start == nil {
		params.Start = warmStart(f, log)
	}

	env, err := mip.NewEnv(backend, mip.WithLogger(log), mip.WithParams(params))
	if err != nil {
		res.Status, res.Err = SolverError, err
		return res
	}
	defer env.Close()

	sol, err := env.Solve(ctx, f.Model)
	if err != nil {
		res.Status, res.Err = SolverError, err
		return res
	}
	res.SolverStatus, res.Nodes = sol.Status, sol.Nodes

	switch sol.Status {
	case mip.Optimal, mip.Feasible:
	case mip.Infeasible, mip.LimitReached:
		res.Status = Infeasible
		return res
	default:
		res.Status = SolverError
		res.Err = errors.Errorf("tsp: unexpected solver status %s", sol.Status)
		return res
	}

	if err = res.decode(f, sol); err != nil {
		res.Status, res.Err = SolverError, err
		return res
	}
	res.Cost = sol.ObjValue()

	length, err := TourCost(f.Dist, res.Tour)
	if err != nil {
		res.Status, res.Err = SolverError, err
		return res
	}
	if math.Abs(length-res.Cost) > costTol*math.Max(1, math.Abs(length)) {
		res.Status = SolverError
		res.Err = errors.Wrapf(ErrBrokenTour, "tour length %g differs from objective %g", length, res.Cost)
		return res
	}

	res.Status = Success
	log.WithField("cost", res.Cost).Info("tour found")

	return res
}

// warmStart returns the Heuristic tour of f as a MIP start, or nil when the
// heuristic fails.
func warmStart(f *Formulation, log logrus.FieldLogger) []float64 {
	tour, cost, err := Heuristic(f.Dist, 0)
	if err == nil {
		var start []float64
		if start, err = f.Start(tour); err == nil {
			log.WithField("cost", cost).Debug("warm start")
			return start
		}
	}
	log.WithError(err).Debug("warm start skipped")

	return nil
}

// decode fills Positions, Successor and Tour from sol and cross-checks them.
func (r *Result) decode(f *Formulation, sol *mip.Solution) error {
	n := f.N
	r.Positions = make([]int, n)
	for i, v := range f.X {
		r.Positions[i] = int(math.Round(sol.Value(v)))
	}

	r.Successor = make([]int, n)
	for i := range r.Successor {
		r.Successor[i] = -1
	}
	if n == 1 {
		r.Successor[0] = 0
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || sol.Value(f.R[i][j]) < 0.5 {
				continue
			}
			if r.Successor[i] != -1 {
				return errors.Wrapf(ErrBrokenTour, "location %d has two successors", i)
			}
			r.Successor[i] = j
		}
	}

	order, err := OrderFromPositions(r.Positions)
	if err != nil {
		return errors.Wrapf(err, "positions %v", r.Positions)
	}
	tour, err := TourFromSuccessors(r.Successor, 0)
	if err != nil {
		return errors.Wrapf(err, "successors %v", r.Successor)
	}
	byPosition, err := MakeTourFromPermutation(order, n, 0)
	if err != nil {
		return err
	}
	if !EqualTours(tour, byPosition) {
		return errors.Wrapf(ErrBrokenTour, "successor tour %v disagrees with position order %v", tour, byPosition)
	}
	if err = ValidateTour(tour, n, 0); err != nil {
		return err
	}
	r.Tour = tour

	return nil
}
