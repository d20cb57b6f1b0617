package tsp_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmip/distance"
	"github.com/katalvlaran/tspmip/locations"
	"github.com/katalvlaran/tspmip/matrix"
	"github.com/katalvlaran/tspmip/mip"
	"github.com/katalvlaran/tspmip/mip/simplex"
	"github.com/katalvlaran/tspmip/tsp"
)

// stubBackend returns a canned solution or error, or panics.
type stubBackend struct {
	status mip.Status
	err    error
	panic  bool
}

func (s stubBackend) Name() string { return "stub" }

func (s stubBackend) Solve(_ context.Context, m *mip.Model, _ mip.Params) (*mip.Solution, error) {
	if s.panic {
		panic("stub exploded")
	}
	if s.err != nil {
		return nil, s.err
	}

	return &mip.Solution{Status: s.status, X: make([]float64, m.NumVars())}, nil
}

func squareTable() locations.Table {
	return locations.Table{
		{4, 2},
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
	}
}

// bruteForce returns the shortest closed tour over all orders that start at 0.
func bruteForce(t *testing.T, d matrix.Matrix) float64 {
	t.Helper()
	n := d.Rows()
	rest := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		rest = append(rest, i)
	}
	best := math.Inf(1)
	var walk func(k int)
	walk = func(k int) {
		if k == len(rest) {
			tour := append(append([]int{0}, rest...), 0)
			c, err := tsp.TourCost(d, tour)
			require.NoError(t, err)
			best = math.Min(best, c)
			return
		}
		for i := k; i < len(rest); i++ {
			rest[k], rest[i] = rest[i], rest[k]
			walk(k + 1)
			rest[k], rest[i] = rest[i], rest[k]
		}
	}
	walk(0)

	return best
}

func TestSolveTable_Square(t *testing.T) {
	res := tsp.SolveTable(context.Background(), simplex.New(), squareTable())
	require.Equal(t, tsp.Success, res.Status, res.String())
	require.NoError(t, res.Err)

	assert.Equal(t, 4, res.N)
	assert.InDelta(t, 4.0, res.Cost, 1e-6)
	assert.Equal(t, mip.Optimal, res.SolverStatus)
	assert.Equal(t, 0, res.Positions[0])
	assert.NoError(t, tsp.ValidatePermutation(res.Positions, 4))
	assert.NoError(t, tsp.ValidateTour(res.Tour, 4, 0))

	// Perimeter only: the diagonals 0-2 and 1-3 are never used.
	for i := 0; i < 4; i++ {
		j := res.Successor[i]
		assert.NotEqual(t, (i+2)%4, j, "diagonal arc %d->%d", i, j)
		assert.Equal(t, i, res.Tour[res.Positions[i]])
	}

	out := res.String()
	assert.Contains(t, out, "positions: 0,")
	assert.Contains(t, out, "tour: 0 -> ")
	assert.Contains(t, out, "objective: 4.00")
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	tbl := locations.Table{
		{0, 0},
		{0, 0},
		{3, 0.5},
		{4, 3},
		{1, 4},
		{-1.5, 2},
	}
	d, err := distance.Euclidean(tbl)
	require.NoError(t, err)

	res := tsp.Solve(context.Background(), simplex.New(), d)
	require.Equal(t, tsp.Success, res.Status, res.String())
	assert.InDelta(t, bruteForce(t, d), res.Cost, 1e-6)

	length, err := tsp.TourCost(d, res.Tour)
	require.NoError(t, err)
	assert.InDelta(t, res.Cost, length, 1e-6)
}

func TestSolve_AsymmetricMatrix(t *testing.T) {
	// Clockwise is cheap, counter-clockwise expensive.
	d := sliceMatrix{a: [][]float64{
		{0, 1, 9},
		{9, 0, 1},
		{1, 9, 0},
	}}
	res := tsp.Solve(context.Background(), simplex.New(), d)
	require.Equal(t, tsp.Success, res.Status, res.String())
	assert.InDelta(t, 3.0, res.Cost, 1e-6)
	assert.Equal(t, []int{0, 1, 2, 0}, res.Tour)
	assert.Equal(t, []int{0, 1, 2}, res.Positions)
}

func TestSolve_SingleLocation(t *testing.T) {
	res := tsp.SolveTable(context.Background(), simplex.New(), locations.Table{{1}, {5, 5}})
	require.Equal(t, tsp.Success, res.Status, res.String())
	assert.Equal(t, 0.0, res.Cost)
	assert.Equal(t, []int{0}, res.Positions)
	assert.Equal(t, []int{0, 0}, res.Tour)
}

func TestSolve_TwoLocations(t *testing.T) {
	res := tsp.SolveTable(context.Background(), simplex.New(), locations.Table{{2}, {0, 0}, {3, 4}})
	require.Equal(t, tsp.Success, res.Status, res.String())
	assert.InDelta(t, 10.0, res.Cost, 1e-9)
	assert.Equal(t, []int{0, 1, 0}, res.Tour)
}

func TestSolveTable_NoLocations(t *testing.T) {
	for _, tbl := range []locations.Table{nil, {{3, 4}}} {
		res := tsp.SolveTable(context.Background(), simplex.New(), tbl)
		assert.Equal(t, tsp.InvalidInput, res.Status)
		assert.ErrorIs(t, res.Err, distance.ErrNoLocations)
	}
}

func TestSolveTable_MissingFile(t *testing.T) {
	tbl, err := locations.ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)

	res := tsp.SolveTable(context.Background(), simplex.New(), tbl)
	assert.Equal(t, tsp.InvalidInput, res.Status)
	assert.Contains(t, res.String(), "invalid input")
}

func TestSolve_InvalidMatrix(t *testing.T) {
	res := tsp.Solve(context.Background(), simplex.New(), sliceMatrix{a: [][]float64{{0, -2}, {1, 0}}})
	assert.Equal(t, tsp.InvalidInput, res.Status)
	assert.ErrorIs(t, res.Err, tsp.ErrNegativeWeight)

	res = tsp.Solve(context.Background(), simplex.New(), sliceMatrix{a: [][]float64{{1, 2}, {2, 0}}})
	assert.Equal(t, tsp.InvalidInput, res.Status)
	assert.ErrorIs(t, res.Err, matrix.ErrNonZeroDiagonal)
}

func TestSolve_ReturnArcLinkingIsInfeasible(t *testing.T) {
	res := tsp.Solve(context.Background(), simplex.New(), triangle(), tsp.WithReturnArcLinking(true))
	assert.Equal(t, tsp.Infeasible, res.Status)
	assert.Equal(t, mip.Infeasible, res.SolverStatus)
	assert.Equal(t, "solution status failed: infeasible", res.String())
}

func TestSolve_BackendOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		backend mip.Backend
		want    tsp.Status
		wantErr error
	}{
		{"nil backend", nil, tsp.SolverError, tsp.ErrNoBackend},
		{"backend error", stubBackend{err: errors.New("license expired")}, tsp.SolverError, nil},
		{"backend panic", stubBackend{panic: true}, tsp.SolverError, mip.ErrBackendPanic},
		{"limit without incumbent", stubBackend{status: mip.LimitReached}, tsp.Infeasible, nil},
		{"unknown status", stubBackend{status: mip.Unknown}, tsp.SolverError, nil},
		{"all-zero optimum", stubBackend{status: mip.Optimal}, tsp.SolverError, tsp.ErrPositionsNotDistinct},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := tsp.Solve(context.Background(), tc.backend, triangle())
			assert.Equal(t, tc.want, res.Status, res.String())
			if tc.wantErr != nil {
				assert.ErrorIs(t, res.Err, tc.wantErr)
			}
			if tc.want == tsp.SolverError {
				assert.Error(t, res.Err)
			}
		})
	}
}

func TestSolve_ModelingPanicIsContained(t *testing.T) {
	d := sliceMatrix{
		a:       [][]float64{{0, 1}, {1, 0}},
		onPanic: func(i, j int) bool { return i == 1 && j == 1 },
	}
	res := tsp.Solve(context.Background(), simplex.New(), d)
	assert.Equal(t, tsp.SolverError, res.Status)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "boom")
}

func TestSolve_ExportIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.lp")
	b := filepath.Join(dir, "b.lp")

	r1 := tsp.SolveTable(context.Background(), simplex.New(), squareTable(), tsp.WithExportPath(a))
	r2 := tsp.SolveTable(context.Background(), simplex.New(), squareTable(), tsp.WithExportPath(b))
	require.Equal(t, tsp.Success, r1.Status, r1.String())
	require.Equal(t, tsp.Success, r2.Status, r2.String())
	assert.Equal(t, r1.Cost, r2.Cost)
	assert.Equal(t, r1.Tour, r2.Tour)

	ba, err := os.ReadFile(a)
	require.NoError(t, err)
	bb, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, ba, bb)
	assert.True(t, strings.HasPrefix(string(ba), `\ Model: tsp`))

	// The export reads back into an equivalent model.
	m, err := mip.ImportLP(a)
	require.NoError(t, err)
	assert.Equal(t, 4+12, m.NumVars())
	assert.Equal(t, 8+9, m.NumConstraints())
}

func TestSolve_ExportFailure(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "no", "such", "dir", "m.lp")
	res := tsp.Solve(context.Background(), simplex.New(), triangle(), tsp.WithExportPath(bad))
	assert.Equal(t, tsp.SolverError, res.Status)
	assert.Error(t, res.Err)
}

func TestSolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := tsp.Solve(ctx, simplex.New(), triangle())
	assert.Equal(t, tsp.SolverError, res.Status)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestSolve_Logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	res := tsp.Solve(context.Background(), simplex.New(), triangle(), tsp.WithLogger(logger))
	require.Equal(t, tsp.Success, res.Status, res.String())

	var sawSolve, sawTour, sawClose bool
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "solve finished":
			sawSolve = true
			assert.Equal(t, "gonum-simplex", e.Data["backend"])
		case "tour found":
			sawTour = true
			assert.Equal(t, 3, e.Data["locations"])
			assert.InDelta(t, 9.0, e.Data["cost"], 1e-6)
		case "environment closed":
			sawClose = true
		}
	}
	assert.True(t, sawSolve)
	assert.True(t, sawTour)
	assert.True(t, sawClose)
}

func TestSolve_MetricClosure(t *testing.T) {
	inf := math.Inf(1)
	// A one-way ring 0->1->2->3->0; every other arc is absent.
	ring := sliceMatrix{a: [][]float64{
		{0, 1, inf, inf},
		{inf, 0, 1, inf},
		{inf, inf, 0, 1},
		{1, inf, inf, 0},
	}}

	res := tsp.Solve(context.Background(), simplex.New(), ring)
	assert.Equal(t, tsp.InvalidInput, res.Status)
	assert.ErrorIs(t, res.Err, tsp.ErrIncompleteGraph)

	res = tsp.Solve(context.Background(), simplex.New(), ring, tsp.WithMetricClosure(true))
	require.Equal(t, tsp.Success, res.Status, res.String())
	assert.InDelta(t, 4.0, res.Cost, 1e-9)
	assert.Equal(t, []int{0, 1, 2, 3, 0}, res.Tour)

	// The input is left untouched.
	v, err := ring.At(1, 0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))
}
