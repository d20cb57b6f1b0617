// Package alloc models a small integer resource-allocation problem:
// choose production quantities that maximize profit without exceeding the
// capacity of any resource.
//
//	maximize   Σ_k Profit[k] q_k
//	subject to Σ_k Usage[r][k] q_k <= Capacity[r]   for every resource r
//	           q_k integer in [0, Upper]
//
// Example returns the classic two-product instance whose optimum is
// q = (20, 60) with profit 180.
package alloc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/katalvlaran/tspmip/mip"
)

// DefaultUpper bounds every quantity when Problem.Upper is zero.
const DefaultUpper = 100

var (
	// ErrNoProducts is returned for a problem without products.
	ErrNoProducts = errors.New("alloc: no products")

	// ErrShape flags names, profits, usage rows and capacities that do not
	// line up.
	ErrShape = errors.New("alloc: inconsistent problem shape")
)

// Problem is one allocation instance. Usage[r][k] is the amount of
// resource r consumed by one unit of product k.
type Problem struct {
	Names    []string
	Profit   []float64
	Usage    [][]float64
	Capacity []float64
	Upper    float64

	// ResourceNames optionally names the capacity rows; empty entries get
	// generated names.
	ResourceNames []string
}

// Plan is the solved allocation.
type Plan struct {
	Status     mip.Status
	Quantities []float64
	Profit     float64
}

// Example returns the two-product instance:
//
//	maximize 3 x1 + 2 x2
//	2 x1 + x2 <= 100
//	  x1 + x2 <= 80
//	  x1      <= 40
func Example() Problem {
	return Problem{
		Names:  []string{"x1", "x2"},
		Profit: []float64{3, 2},
		Usage: [][]float64{
			{2, 1},
			{1, 1},
			{1, 0},
		},
		Capacity:      []float64{100, 80, 40},
		Upper:         DefaultUpper,
		ResourceNames: []string{"labor", "wood", "demand"},
	}
}

func (p Problem) validate() error {
	k := len(p.Names)
	if k == 0 {
		return ErrNoProducts
	}
	if len(p.Profit) != k {
		return errors.Wrapf(ErrShape, "%d names, %d profits", k, len(p.Profit))
	}
	if len(p.Usage) != len(p.Capacity) {
		return errors.Wrapf(ErrShape, "%d usage rows, %d capacities", len(p.Usage), len(p.Capacity))
	}
	for r, row := range p.Usage {
		if len(row) != k {
			return errors.Wrapf(ErrShape, "usage row %d has %d entries, want %d", r, len(row), k)
		}
	}
	if len(p.ResourceNames) > len(p.Capacity) {
		return errors.Wrapf(ErrShape, "%d resource names for %d resources", len(p.ResourceNames), len(p.Capacity))
	}

	return nil
}

// Build returns the model of p and its quantity variables in product order.
func Build(p Problem) (*mip.Model, []*mip.Var, error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	upper := p.Upper
	if upper == 0 {
		upper = DefaultUpper
	}

	m := mip.NewModel("alloc")
	q := make([]*mip.Var, len(p.Names))
	var err error
	for k, name := range p.Names {
		if q[k], err = m.AddInteger(name, 0, upper); err != nil {
			return nil, nil, errors.Wrapf(err, "product %d", k)
		}
	}

	for r, row := range p.Usage {
		lhs := mip.NewExpr()
		for k, a := range row {
			lhs.Add(a, q[k])
		}
		var name string
		if r < len(p.ResourceNames) {
			name = p.ResourceNames[r]
		}
		if _, err = m.AddRow(name, lhs, mip.LE, p.Capacity[r]); err != nil {
			return nil, nil, errors.Wrapf(err, "resource %d", r)
		}
	}

	obj := mip.NewExpr()
	for k, c := range p.Profit {
		obj.Add(c, q[k])
	}
	if err = m.SetObjective(mip.Maximize, obj); err != nil {
		return nil, nil, err
	}

	return m, q, nil
}

// Solve builds p and solves it in a scoped Env. A plan without a solution
// (infeasible, limit reached) is returned with a nil error; check
// Plan.Status.
func Solve(ctx context.Context, backend mip.Backend, p Problem, opts ...mip.EnvOption) (Plan, error) {
	m, q, err := Build(p)
	if err != nil {
		return Plan{}, err
	}

	env, err := mip.NewEnv(backend, opts...)
	if err != nil {
		return Plan{}, err
	}
	defer env.Close()

	sol, err := env.Solve(ctx, m)
	if err != nil {
		return Plan{}, errors.Wrap(err, "alloc: solve")
	}

	plan := Plan{Status: sol.Status}
	if !sol.Status.HasSolution() {
		return plan, nil
	}
	plan.Quantities = sol.Values(q)
	plan.Profit = sol.ObjValue()

	return plan, nil
}
