package ensemble

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// pivotEpsilon is the smallest pivot magnitude treated as non-zero
const pivotEpsilon = 1e-9

// ErrSingularMatrix is returned when Gauss-Jordan elimination meets a zero pivot
var ErrSingularMatrix = errors.New("matrix is singular")

// solveLinearSystem solves a·x = b by Gauss-Jordan elimination with partial
// pivoting on the augmented matrix [a | b]. Inputs are not modified.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	if n == 0 || len(b) != n {
		return nil, ErrSingularMatrix
	}

	aug := make([][]float64, n)
	for i := range a {
		if len(a[i]) != n {
			return nil, ErrSingularMatrix
		}
		aug[i] = make([]float64, n+1)
		copy(aug[i], a[i])
		aug[i][n] = b[i]
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		for r := col + 1; r < n; r++ {
			if math.Abs(aug[r][col]) > math.Abs(aug[pivotRow][col]) {
				pivotRow = r
			}
		}
		if math.Abs(aug[pivotRow][col]) < pivotEpsilon {
			return nil, ErrSingularMatrix
		}
		aug[col], aug[pivotRow] = aug[pivotRow], aug[col]

		pivot := aug[col][col]
		for c := col; c <= n; c++ {
			aug[col][c] /= pivot
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c <= n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := range aug {
		x[i] = aug[i][n]
	}
	return x, nil
}

// normalEquations builds XᵀX and Xᵀy for ordinary least squares
func normalEquations(x [][]float64, y []float64) ([][]float64, []float64) {
	if len(x) == 0 || len(y) != len(x) {
		return nil, nil
	}
	k := len(x[0])
	design := mat.NewDense(len(x), k, nil)
	for i, row := range x {
		design.SetRow(i, row)
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)
	var moments mat.VecDense
	moments.MulVec(design.T(), mat.NewVecDense(len(y), y))

	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = mat.Row(nil, i, &gram)
	}
	return xtx, mat.Col(nil, 0, &moments)
}

func dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}
