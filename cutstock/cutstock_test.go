package cutstock_test

import (
	"context"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmip/cutstock"
	"github.com/katalvlaran/tspmip/mip/simplex"
)

const eps = 1e-6

func TestInitialPatterns(t *testing.T) {
	got := cutstock.InitialPatterns(cutstock.Example())
	assert.Equal(t, []cutstock.Pattern{{5, 0, 0}, {0, 3, 0}, {0, 0, 1}}, got)
}

func TestSolveMaster_InitialPatterns(t *testing.T) {
	p := cutstock.Example()
	m, err := cutstock.SolveMaster(context.Background(), simplex.New(), p, cutstock.InitialPatterns(p))
	require.NoError(t, err)

	assert.InDelta(t, 80.0/3, m.Objective, eps)
	assert.InDeltaSlice(t, []float64{5, 20.0 / 3, 15}, m.Usage, eps)
	assert.InDeltaSlice(t, []float64{0.2, 1.0 / 3, 1}, m.Duals, eps)
}

func TestPrice_FindsImprovingPattern(t *testing.T) {
	pat, value, err := cutstock.Price(context.Background(), simplex.New(), cutstock.Example(),
		[]float64{0.2, 1.0 / 3, 1})
	require.NoError(t, err)
	assert.Equal(t, cutstock.Pattern{1, 1, 1}, pat)
	assert.InDelta(t, 0.2+1.0/3+1, value, eps)

	_, _, err = cutstock.Price(context.Background(), simplex.New(), cutstock.Example(), []float64{1})
	assert.ErrorIs(t, err, cutstock.ErrShape)
}

func TestSolve_Example(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	p := cutstock.Example()

	plan, err := cutstock.Solve(context.Background(), simplex.New(), p, cutstock.WithLogger(logger))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, plan.Columns, 1)
	require.Len(t, plan.Patterns, 3+plan.Columns)
	// Total piece length over roll length bounds the LP from below.
	assert.GreaterOrEqual(t, plan.LPObjective, 310.0/17-eps)
	assert.Less(t, plan.LPObjective, 80.0/3-eps)

	// Strong duality on the final master.
	var dualObj float64
	for i, y := range plan.Duals {
		dualObj += p.Demand[i] * y
	}
	assert.InDelta(t, plan.LPObjective, dualObj, eps)

	assert.GreaterOrEqual(t, plan.Rolls, math.Ceil(plan.LPObjective-eps))
	assert.LessOrEqual(t, plan.Rolls, 27.0)
	for i, d := range p.Demand {
		var cut float64
		for k, pat := range plan.Patterns {
			cut += float64(pat[i]) * plan.Usage[k]
		}
		assert.GreaterOrEqual(t, cut, d-eps, "size %d", i)
	}
	for _, pat := range plan.Patterns {
		var width float64
		for i, a := range pat {
			width += float64(a) * p.Sizes[i]
		}
		assert.LessOrEqual(t, width, p.Raw)
	}

	var sawPlan bool
	for _, e := range hook.AllEntries() {
		if e.Message == "cutting plan found" {
			sawPlan = true
			assert.Equal(t, plan.Rolls, e.Data["rolls"])
		}
	}
	assert.True(t, sawPlan)
}

func TestSolve_ColumnLimit(t *testing.T) {
	logger, hook := test.NewNullLogger()

	plan, err := cutstock.Solve(context.Background(), simplex.New(), cutstock.Example(),
		cutstock.WithMaxColumns(1), cutstock.WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Columns)
	assert.Equal(t, cutstock.Pattern{1, 1, 1}, plan.Patterns[3])

	var sawLimit bool
	for _, e := range hook.AllEntries() {
		sawLimit = sawLimit || e.Message == "column limit reached"
	}
	assert.True(t, sawLimit)
}

func TestSolve_InvalidProblem(t *testing.T) {
	cases := []struct {
		name string
		p    cutstock.Problem
		want error
	}{
		{"no items", cutstock.Problem{Raw: 10}, cutstock.ErrNoItems},
		{"short demand", cutstock.Problem{Raw: 10, Sizes: []float64{3, 4}, Demand: []float64{1}}, cutstock.ErrShape},
		{"size above raw", cutstock.Problem{Raw: 10, Sizes: []float64{11}, Demand: []float64{1}}, cutstock.ErrShape},
		{"zero size", cutstock.Problem{Raw: 10, Sizes: []float64{0}, Demand: []float64{1}}, cutstock.ErrShape},
		{"negative demand", cutstock.Problem{Raw: 10, Sizes: []float64{2}, Demand: []float64{-1}}, cutstock.ErrShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cutstock.Solve(context.Background(), simplex.New(), tc.p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cutstock.Solve(ctx, simplex.New(), cutstock.Example())
	assert.ErrorIs(t, err, context.Canceled)
}
