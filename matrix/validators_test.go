package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tspmip/matrix"
)

func TestValidateSquare(t *testing.T) {
	require.ErrorIs(t, matrix.ValidateSquare(nil), matrix.ErrNilMatrix)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	require.ErrorIs(t, matrix.ValidateSquare(rect), matrix.ErrNonSquare)

	sq, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSquare(sq))
}

func TestValidateSymmetricAndDiagonal(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		wantSym error
		wantDia error
	}{
		{
			name: "symmetric zero diagonal",
			rows: [][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}},
		},
		{
			name:    "asymmetric",
			rows:    [][]float64{{0, 1}, {2, 0}},
			wantSym: matrix.ErrAsymmetry,
		},
		{
			name:    "non-zero diagonal",
			rows:    [][]float64{{1, 1}, {1, 0}},
			wantDia: matrix.ErrNonZeroDiagonal,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := matrix.NewDenseFrom(tc.rows)
			require.NoError(t, err)

			err = matrix.ValidateSymmetric(m, 1e-12)
			if tc.wantSym == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantSym)
			}

			err = matrix.ValidateZeroDiagonal(m, 1e-12)
			if tc.wantDia == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantDia)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{0, -1}, {1, 0}})
	require.NoError(t, err)
	require.ErrorIs(t, matrix.ValidateNonNegative(m), matrix.ErrNegative)

	require.NoError(t, m.Set(0, 1, 1))
	require.NoError(t, matrix.ValidateNonNegative(m))
}
