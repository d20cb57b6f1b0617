// SPDX-License-Identifier: MIT

package ops_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmip/matrix"
	"github.com/katalvlaran/tspmip/matrix/ops"
)

func TestFloydWarshall_TriangleShortcut(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{
		{0, 10, 3},
		{10, 0, 4},
		{3, 4, 0},
	})
	require.NoError(t, err)

	require.NoError(t, ops.FloydWarshall(m))
	v, err := m.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	v, err = m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
	v, err = m.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestMetricClosure_LeavesInputAlone(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{
		{0, 5, 1},
		{5, 0, 1},
		{1, 1, 0},
	})
	require.NoError(t, err)

	c, err := ops.MetricClosure(m)
	require.NoError(t, err)

	orig, _ := m.At(0, 1)
	closed, _ := c.At(0, 1)
	assert.Equal(t, 5.0, orig)
	assert.Equal(t, 2.0, closed)
}

func TestFloydWarshall_Errors(t *testing.T) {
	assert.ErrorIs(t, ops.FloydWarshall(nil), matrix.ErrNilMatrix)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, ops.FloydWarshall(rect), matrix.ErrNonSquare)

	_, err = ops.MetricClosure(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestFloydWarshall_DisconnectedStaysLarge(t *testing.T) {
	// Dense rejects +Inf, so absent arcs are modelled with a large finite
	// weight here; nothing shorter exists, so it survives.
	const far = 1e9
	m, err := matrix.NewDenseFrom([][]float64{
		{0, 1, far},
		{1, 0, far},
		{far, far, 0},
	})
	require.NoError(t, err)
	require.NoError(t, ops.FloydWarshall(m))
	v, _ := m.At(0, 2)
	assert.Equal(t, far, v)
	assert.False(t, math.IsInf(v, 0))
}
