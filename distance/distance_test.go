package distance_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmip/distance"
	"github.com/katalvlaran/tspmip/locations"
	"github.com/katalvlaran/tspmip/matrix"
)

func TestEuclideanSquare(t *testing.T) {
	tab := locations.Table{{4}, {0, 0}, {0, 1}, {1, 1}, {1, 0}}

	d, err := distance.Euclidean(tab)
	require.NoError(t, err)
	require.Equal(t, 4, d.Rows())

	want := [][]float64{
		{0, 1, 1.41, 1},
		{1, 0, 1, 1.41},
		{1.41, 1, 0, 1},
		{1, 1.41, 1, 0},
	}
	for i := range want {
		require.Equal(t, want[i], d.Row(i), "row %d", i)
	}
}

func TestEuclideanEmpty(t *testing.T) {
	_, err := distance.Euclidean(nil)
	require.ErrorIs(t, err, distance.ErrNoLocations)

	_, err = distance.Euclidean(locations.Table{{3}})
	require.ErrorIs(t, err, distance.ErrNoLocations)
}

func TestEuclideanSingle(t *testing.T) {
	d, err := distance.Euclidean(locations.Table{{1}, {3, 4}})
	require.NoError(t, err)
	v, err := d.At(0, 0)
	require.NoError(t, err)
	require.Zero(t, v)
}

// TestEuclideanSymmetricZeroDiagonal checks the structural invariants on
// random coordinate sets.
func TestEuclideanSymmetricZeroDiagonal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 25; trial++ {
		n := 1 + rng.Intn(12)
		tab := locations.Table{{float64(n)}}
		for i := 0; i < n; i++ {
			tab = append(tab, []float64{rng.Float64()*200 - 100, rng.Float64()*200 - 100})
		}

		d, err := distance.Euclidean(tab)
		require.NoError(t, err)
		require.NoError(t, matrix.ValidateSquare(d))
		require.NoError(t, matrix.ValidateSymmetric(d, 0))
		require.NoError(t, matrix.ValidateZeroDiagonal(d, 0))
		require.NoError(t, matrix.ValidateNonNegative(d))
	}
}

func TestRound2(t *testing.T) {
	require.Equal(t, 1.41, distance.Round2(1.41421356))
	require.Equal(t, 2.24, distance.Round2(2.2360679))
	require.Equal(t, 0.0, distance.Round2(0.004))
	require.Equal(t, 3.0, distance.Round2(3))
}
