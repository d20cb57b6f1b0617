package simplex

import (
	"context"
	"io"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/tspmip/mip"
)

// Name is the backend identifier reported in solutions and logs.
const Name = "gonum-simplex"

const (
	// DefaultTolerance is passed to lp.Simplex and used for rank decisions.
	DefaultTolerance = 1e-10
	// boundTol decides when a variable's range has collapsed to a point.
	boundTol = 1e-9
)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger routes per-node debug logging to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// WithTolerance overrides DefaultTolerance.
func WithTolerance(tol float64) Option {
	return func(b *Backend) {
		if tol > 0 {
			b.tol = tol
		}
	}
}

// Backend solves LP relaxations with gonum's simplex and enforces
// integrality by depth-first branch-and-bound.
type Backend struct {
	tol float64
	log logrus.FieldLogger
}

// New returns a Backend with default settings.
func New(opts ...Option) *Backend {
	l := logrus.New()
	l.Out = io.Discard
	b := &Backend{tol: DefaultTolerance, log: l}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Name implements mip.Backend.
func (b *Backend) Name() string { return Name }

type relaxStatus int

const (
	relaxOptimal relaxStatus = iota
	relaxInfeasible
	relaxUnbounded
)

// node is one branch-and-bound subproblem: the model under tighter bounds.
type node struct {
	lo, hi []float64
	depth  int
}

// Solve implements mip.Backend.
func (b *Backend) Solve(ctx context.Context, m *mip.Model, p mip.Params) (*mip.Solution, error) {
	start := time.Now()
	var deadline time.Time
	if p.TimeLimit > 0 {
		deadline = start.Add(p.TimeLimit)
	}
	intTol, feasTol := p.IntTol, p.FeasTol
	if intTol <= 0 {
		intTol = mip.DefaultIntTol
	}
	if feasTol <= 0 {
		feasTol = mip.DefaultFeasTol
	}

	sign := 1.0
	if m.ObjectiveSense() == mip.Maximize {
		sign = -1
	}
	vars := m.Vars()
	integral := make([]bool, len(vars))
	root := node{lo: make([]float64, len(vars)), hi: make([]float64, len(vars))}
	for j, v := range vars {
		root.lo[j], root.hi[j] = v.Lower(), v.Upper()
		if v.Type().IsIntegral() {
			integral[j] = true
			root.lo[j] = math.Ceil(root.lo[j] - intTol)
			root.hi[j] = math.Floor(root.hi[j] + intTol)
		}
	}

	var (
		incumbent []float64
		best      = math.Inf(1)
		nodes     int
		limited   bool
	)
	if p.Start != nil {
		if x, ok := startPoint(m, p.Start, integral, intTol, feasTol); ok {
			incumbent = x
			best = sign * m.Objective().Eval(x)
			b.log.WithField("objective", sign*best).Debug("mip start accepted")
		} else {
			b.log.Debug("mip start rejected")
		}
	}
	stack := []node{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "branch-and-bound interrupted")
		}
		if (p.NodeLimit > 0 && nodes >= p.NodeLimit) || (!deadline.IsZero() && time.Now().After(deadline)) {
			limited = true
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		st, z, x, err := b.relax(m, nd.lo, nd.hi, sign)
		if err != nil {
			return nil, errors.Wrapf(err, "node %d", nodes)
		}
		log := b.log.WithFields(logrus.Fields{"node": nodes, "depth": nd.depth})
		switch st {
		case relaxInfeasible:
			log.Debug("relaxation infeasible")
			continue
		case relaxUnbounded:
			log.Debug("relaxation unbounded")
			return &mip.Solution{Status: mip.Unbounded, Nodes: nodes, Backend: Name, Elapsed: time.Since(start)}, nil
		}
		if z >= best-pruneGap(best) {
			log.WithField("bound", z).Debug("pruned by incumbent")
			continue
		}

		j := mostFractional(x, integral, intTol)
		if j < 0 {
			cand := roundIntegral(x, integral)
			if feasible(m, cand, feasTol) {
				incumbent = cand
				best = sign * m.Objective().Eval(cand)
				log.WithField("objective", sign*best).Debug("new incumbent")
				continue
			}
			// Rounding within IntTol broke a row: split on the residual
			// fraction instead.
			if j = splittable(x, integral, nd.lo, nd.hi); j < 0 {
				log.Debug("rounded point infeasible")
				continue
			}
		}

		down := node{lo: cloneFloats(nd.lo), hi: cloneFloats(nd.hi), depth: nd.depth + 1}
		down.hi[j] = math.Floor(x[j])
		up := node{lo: cloneFloats(nd.lo), hi: cloneFloats(nd.hi), depth: nd.depth + 1}
		up.lo[j] = math.Ceil(x[j])
		// The child nearer the relaxed value is explored first.
		if x[j]-math.Floor(x[j]) < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	sol := &mip.Solution{Nodes: nodes, Backend: Name}
	switch {
	case incumbent != nil && limited:
		sol.Status = mip.Feasible
	case incumbent != nil:
		sol.Status = mip.Optimal
	case limited:
		sol.Status = mip.LimitReached
	default:
		sol.Status = mip.Infeasible
	}
	if incumbent != nil {
		sol.X = incumbent
		sol.Objective = sign * best
	}
	sol.Elapsed = time.Since(start)

	return sol, nil
}

// relax solves the LP relaxation under bounds [lo, hi]. z is in
// minimization sense.
func (b *Backend) relax(m *mip.Model, lo, hi []float64, sign float64) (relaxStatus, float64, []float64, error) {
	sf, ok := build(m, lo, hi, sign, boundTol)
	if !ok {
		return relaxInfeasible, 0, nil, nil
	}
	r, infeasible, unbounded := sf.reduce(b.tol * 1e3)
	switch {
	case infeasible:
		return relaxInfeasible, 0, nil, nil
	case unbounded:
		return relaxUnbounded, 0, nil, nil
	}

	yr := make([]float64, len(r.cols))
	if r.A != nil && len(r.cols) > 0 {
		_, opt, err := lp.Simplex(r.c, r.A, r.b, b.tol, nil)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return relaxInfeasible, 0, nil, nil
		case errors.Is(err, lp.ErrUnbounded):
			return relaxUnbounded, 0, nil, nil
		case err != nil:
			return 0, 0, nil, errors.Wrap(err, "simplex")
		}
		yr = opt
	}
	y := r.expand(sf.ncols, yr)

	return relaxOptimal, floats.Dot(sf.c, y) + sf.objConst, sf.recover(y), nil
}

// mostFractional picks the integral variable whose value is farthest from
// an integer, or -1 when all are within tol.
func mostFractional(x []float64, integral []bool, tol float64) int {
	pick, worst := -1, tol
	for j, v := range x {
		if !integral[j] {
			continue
		}
		if f := math.Abs(v - math.Round(v)); f > worst {
			pick, worst = j, f
		}
	}

	return pick
}

// splittable picks the most fractional integral variable whose floor and
// ceiling both lie inside [lo, hi], or -1.
func splittable(x []float64, integral []bool, lo, hi []float64) int {
	pick, worst := -1, 0.0
	for j, v := range x {
		if !integral[j] || math.Floor(v) < lo[j] || math.Ceil(v) > hi[j] {
			continue
		}
		if f := math.Abs(v - math.Round(v)); f > worst {
			pick, worst = j, f
		}
	}

	return pick
}

func roundIntegral(x []float64, integral []bool) []float64 {
	out := cloneFloats(x)
	for k := range out {
		if integral[k] {
			out[k] = math.Round(out[k])
		}
	}

	return out
}

// feasible reports whether every row holds at x within tol.
func feasible(m *mip.Model, x []float64, tol float64) bool {
	for _, con := range m.Constraints() {
		if !con.Satisfied(x, tol) {
			return false
		}
	}

	return true
}

// startPoint checks a MIP start against bounds, integrality and rows and
// returns it with integral entries rounded.
func startPoint(m *mip.Model, start []float64, integral []bool, intTol, feasTol float64) ([]float64, bool) {
	vars := m.Vars()
	if len(start) != len(vars) {
		return nil, false
	}
	for j, v := range vars {
		s := start[j]
		if math.IsNaN(s) || math.IsInf(s, 0) || s < v.Lower()-feasTol || s > v.Upper()+feasTol {
			return nil, false
		}
		if integral[j] && math.Abs(s-math.Round(s)) > intTol {
			return nil, false
		}
	}
	x := roundIntegral(start, integral)
	if !feasible(m, x, feasTol) {
		return nil, false
	}

	return x, true
}

func pruneGap(best float64) float64 {
	if math.IsInf(best, 1) {
		return 0
	}

	return 1e-9 * math.Max(1, math.Abs(best))
}

func cloneFloats(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}
