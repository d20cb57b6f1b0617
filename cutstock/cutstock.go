// Package cutstock solves the one-dimensional cutting-stock problem by
// column generation on the mip layer.
//
// A pattern a_p says how many pieces of each size one raw roll yields. The
// master LP over a pattern set P is
//
//	minimize   Σ_p x_p
//	subject to Σ_p a_ip x_p >= Demand[i]   for every size i
//	           x_p >= 0
//
// and its dual, solved as its own LP, is
//
//	maximize   Σ_i Demand[i] y_i
//	subject to Σ_i a_ip y_i <= 1           for every pattern p
//	           y_i >= 0
//
// The pricing knapsack maximizes Σ_i y_i a_i over integer a with
// Σ_i Sizes[i] a_i <= Raw. A pattern worth more than one roll enters the
// master; otherwise the LP is optimal over all patterns. Solve finishes by
// re-solving the master with integer x over the generated patterns.
package cutstock

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/tspmip/mip"
)

// DefaultMaxColumns bounds the number of pricing rounds.
const DefaultMaxColumns = 50

// reducedCostTol is the margin a new pattern must beat one roll by.
const reducedCostTol = 1e-9

var (
	// ErrNoItems is returned for a problem without sizes.
	ErrNoItems = errors.New("cutstock: no items")

	// ErrShape flags sizes and demands that do not line up or do not fit
	// the raw roll.
	ErrShape = errors.New("cutstock: inconsistent problem shape")

	// ErrNotOptimal means a master, dual or pricing solve ended without a
	// proven optimum.
	ErrNotOptimal = errors.New("cutstock: subproblem not solved to optimality")
)

// Problem is one cutting-stock instance.
type Problem struct {
	// Raw is the length of a stock roll.
	Raw float64
	// Sizes are the piece lengths; each must be in (0, Raw].
	Sizes []float64
	// Demand is the number of pieces needed per size.
	Demand []float64
}

// Example returns rolls of 17 cut into 25 pieces of 3, 20 of 5 and 15 of 9.
func Example() Problem {
	return Problem{
		Raw:    17,
		Sizes:  []float64{3, 5, 9},
		Demand: []float64{25, 20, 15},
	}
}

func (p Problem) validate() error {
	if len(p.Sizes) == 0 {
		return ErrNoItems
	}
	if len(p.Demand) != len(p.Sizes) {
		return errors.Wrapf(ErrShape, "%d sizes, %d demands", len(p.Sizes), len(p.Demand))
	}
	for i, s := range p.Sizes {
		if !(s > 0) || s > p.Raw || math.IsInf(s, 0) {
			return errors.Wrapf(ErrShape, "size %d is %g for raw %g", i, s, p.Raw)
		}
		if d := p.Demand[i]; !(d >= 0) || math.IsInf(d, 0) {
			return errors.Wrapf(ErrShape, "demand %d is %g", i, d)
		}
	}

	return nil
}

// Pattern holds the number of pieces of each size cut from one roll.
type Pattern []int

// InitialPatterns returns one pattern per size that cuts as many pieces of
// that size as fit.
func InitialPatterns(p Problem) []Pattern {
	out := make([]Pattern, len(p.Sizes))
	for i, s := range p.Sizes {
		out[i] = make(Pattern, len(p.Sizes))
		out[i][i] = int(math.Floor(p.Raw / s))
	}

	return out
}

// Master is the LP solution over a pattern set.
type Master struct {
	Objective float64
	// Usage[p] is the (fractional) number of rolls cut with pattern p.
	Usage []float64
	// Duals[i] is the value of one more piece of size i.
	Duals []float64
}

// Plan is the outcome of Solve.
type Plan struct {
	Patterns []Pattern
	// LPObjective is the final master LP value, a lower bound on Rolls.
	LPObjective float64
	Duals       []float64
	// Usage[p] is the integer number of rolls cut with Patterns[p].
	Usage []float64
	Rolls float64
	// Columns is the number of patterns added by pricing.
	Columns int
}

// Option configures Solve.
type Option func(*config)

type config struct {
	maxColumns int
	env        []mip.EnvOption
	log        logrus.FieldLogger
}

// WithMaxColumns overrides DefaultMaxColumns.
func WithMaxColumns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxColumns = n
		}
	}
}

// WithLogger sets the logger for pricing rounds and every solver Env.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
			c.env = append(c.env, mip.WithLogger(l))
		}
	}
}

// WithParams sets the backend parameters of every solve.
func WithParams(p mip.Params) Option {
	return func(c *config) { c.env = append(c.env, mip.WithParams(p)) }
}

func newConfig(opts []Option) config {
	l := logrus.New()
	l.Out = io.Discard
	c := config{maxColumns: DefaultMaxColumns, log: l}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// SolveMaster solves the master LP over patterns and its dual.
func SolveMaster(ctx context.Context, backend mip.Backend, p Problem, patterns []Pattern, opts ...mip.EnvOption) (Master, error) {
	if err := p.validate(); err != nil {
		return Master{}, err
	}
	env, err := mip.NewEnv(backend, opts...)
	if err != nil {
		return Master{}, err
	}
	defer env.Close()

	primal, x, err := buildMaster(p, patterns, mip.Continuous)
	if err != nil {
		return Master{}, err
	}
	sol, err := solveOptimal(ctx, env, primal)
	if err != nil {
		return Master{}, err
	}

	dual, y, err := buildDual(p, patterns)
	if err != nil {
		return Master{}, err
	}
	dsol, err := solveOptimal(ctx, env, dual)
	if err != nil {
		return Master{}, err
	}

	return Master{
		Objective: sol.ObjValue(),
		Usage:     sol.Values(x),
		Duals:     dsol.Values(y),
	}, nil
}

// Price solves the pricing knapsack for duals and returns the best pattern
// with its dual value.
func Price(ctx context.Context, backend mip.Backend, p Problem, duals []float64, opts ...mip.EnvOption) (Pattern, float64, error) {
	if err := p.validate(); err != nil {
		return nil, 0, err
	}
	if len(duals) != len(p.Sizes) {
		return nil, 0, errors.Wrapf(ErrShape, "%d duals for %d sizes", len(duals), len(p.Sizes))
	}
	env, err := mip.NewEnv(backend, opts...)
	if err != nil {
		return nil, 0, err
	}
	defer env.Close()

	m := mip.NewModel("pricing")
	a := make([]*mip.Var, len(p.Sizes))
	width, obj := mip.NewExpr(), mip.NewExpr()
	for i, s := range p.Sizes {
		if a[i], err = m.AddInteger(fmt.Sprintf("a_%d", i), 0, math.Floor(p.Raw/s)); err != nil {
			return nil, 0, err
		}
		width.Add(s, a[i])
		obj.Add(duals[i], a[i])
	}
	if _, err = m.AddRow("raw", width, mip.LE, p.Raw); err != nil {
		return nil, 0, err
	}
	if err = m.SetObjective(mip.Maximize, obj); err != nil {
		return nil, 0, err
	}

	sol, err := solveOptimal(ctx, env, m)
	if err != nil {
		return nil, 0, err
	}
	pat := make(Pattern, len(a))
	counts := sol.Values(a)
	for i, v := range counts {
		pat[i] = int(math.Round(v))
		counts[i] = float64(pat[i])
	}

	return pat, floats.Dot(duals, counts), nil
}

// Solve runs column generation from InitialPatterns until no pattern prices
// above one roll or the column limit is hit, then solves the integer master.
func Solve(ctx context.Context, backend mip.Backend, p Problem, opts ...Option) (Plan, error) {
	if err := p.validate(); err != nil {
		return Plan{}, err
	}
	c := newConfig(opts)
	patterns := InitialPatterns(p)

	var (
		master Master
		err    error
	)
	plan := Plan{}
	for {
		if master, err = SolveMaster(ctx, backend, p, patterns, c.env...); err != nil {
			return Plan{}, errors.Wrap(err, "cutstock: master")
		}
		log := c.log.WithFields(logrus.Fields{
			"patterns":  len(patterns),
			"objective": master.Objective,
		})
		if plan.Columns >= c.maxColumns {
			log.Warn("column limit reached")
			break
		}
		pat, value, err := Price(ctx, backend, p, master.Duals, c.env...)
		if err != nil {
			return Plan{}, errors.Wrap(err, "cutstock: pricing")
		}
		if value <= 1+reducedCostTol || contains(patterns, pat) {
			log.WithField("value", value).Debug("no improving pattern")
			break
		}
		patterns = append(patterns, pat)
		plan.Columns++
		log.WithFields(logrus.Fields{"pattern": pat, "value": value}).Debug("pattern added")
	}
	plan.Patterns = patterns
	plan.LPObjective = master.Objective
	plan.Duals = master.Duals

	env, err := mip.NewEnv(backend, c.env...)
	if err != nil {
		return Plan{}, err
	}
	defer env.Close()
	m, x, err := buildMaster(p, patterns, mip.Integer)
	if err != nil {
		return Plan{}, err
	}
	sol, err := env.Solve(ctx, m)
	if err != nil {
		return Plan{}, errors.Wrap(err, "cutstock: integer master")
	}
	if !sol.Status.HasSolution() {
		return Plan{}, errors.Wrapf(ErrNotOptimal, "integer master %s", sol.Status)
	}
	plan.Usage = sol.Values(x)
	plan.Rolls = sol.ObjValue()
	c.log.WithFields(logrus.Fields{
		"rolls":    plan.Rolls,
		"lp":       plan.LPObjective,
		"patterns": len(patterns),
		"columns":  plan.Columns,
	}).Info("cutting plan found")

	return plan, nil
}

// buildMaster returns the master model over patterns with one variable per
// pattern of type typ. Integer variables are bounded by the largest number
// of rolls the pattern could usefully cover.
func buildMaster(p Problem, patterns []Pattern, typ mip.VarType) (*mip.Model, []*mip.Var, error) {
	m := mip.NewModel("master")
	x := make([]*mip.Var, len(patterns))
	obj := mip.NewExpr()
	var err error
	for k, pat := range patterns {
		if len(pat) != len(p.Sizes) {
			return nil, nil, errors.Wrapf(ErrShape, "pattern %d has %d entries", k, len(pat))
		}
		ub := mip.Inf
		if typ != mip.Continuous {
			ub = 0
			for i, a := range pat {
				if a > 0 {
					ub = math.Max(ub, math.Ceil(p.Demand[i]/float64(a)))
				}
			}
		}
		if x[k], err = m.AddVar(fmt.Sprintf("x_%d", k), 0, ub, typ); err != nil {
			return nil, nil, err
		}
		obj.Add(1, x[k])
	}
	for i := range p.Sizes {
		row := mip.NewExpr()
		for k, pat := range patterns {
			if pat[i] != 0 {
				row.Add(float64(pat[i]), x[k])
			}
		}
		if _, err = m.AddRow(fmt.Sprintf("demand_%d", i), row, mip.GE, p.Demand[i]); err != nil {
			return nil, nil, err
		}
	}
	if err = m.SetObjective(mip.Minimize, obj); err != nil {
		return nil, nil, err
	}

	return m, x, nil
}

func buildDual(p Problem, patterns []Pattern) (*mip.Model, []*mip.Var, error) {
	m := mip.NewModel("dual")
	y := make([]*mip.Var, len(p.Sizes))
	obj := mip.NewExpr()
	var err error
	for i := range p.Sizes {
		if y[i], err = m.AddContinuous(fmt.Sprintf("y_%d", i), 0, mip.Inf); err != nil {
			return nil, nil, err
		}
		obj.Add(p.Demand[i], y[i])
	}
	for k, pat := range patterns {
		row := mip.NewExpr()
		for i, a := range pat {
			if a != 0 {
				row.Add(float64(a), y[i])
			}
		}
		if _, err = m.AddRow(fmt.Sprintf("pattern_%d", k), row, mip.LE, 1); err != nil {
			return nil, nil, err
		}
	}
	if err = m.SetObjective(mip.Maximize, obj); err != nil {
		return nil, nil, err
	}

	return m, y, nil
}

func solveOptimal(ctx context.Context, env *mip.Env, m *mip.Model) (*mip.Solution, error) {
	sol, err := env.Solve(ctx, m)
	if err != nil {
		return nil, err
	}
	if sol.Status != mip.Optimal {
		return nil, errors.Wrapf(ErrNotOptimal, "%s: %s", m.Name(), sol.Status)
	}

	return sol, nil
}

func contains(patterns []Pattern, pat Pattern) bool {
	return slices.ContainsFunc(patterns, func(q Pattern) bool { return slices.Equal(q, pat) })
}
