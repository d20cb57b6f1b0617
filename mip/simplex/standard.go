package simplex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/tspmip/mip"
)

// colRef maps one model variable to a standard-form column:
// x = offset + Σ mult·y[col].
type colRef struct {
	col  int
	mult float64
}

type varMap struct {
	offset float64
	cols   []colRef
}

// standardForm is min cᵀy + objConst s.t. A·y = b, y >= 0, together with
// the recipe to recover model values from y.
type standardForm struct {
	c        []float64
	rows     [][]float64
	b        []float64
	objConst float64
	vars     []varMap
	ncols    int
}

// build converts model m restricted to bounds [lo, hi] into standard form.
// sign is +1 for minimization and -1 for maximization. It reports false when
// the bounds are contradictory.
func build(m *mip.Model, lo, hi []float64, sign, tol float64) (*standardForm, bool) {
	sf := &standardForm{vars: make([]varMap, len(lo))}
	type boundRow struct {
		col   int
		width float64
	}
	var bounds []boundRow

	for j := range lo {
		l, h := lo[j], hi[j]
		switch {
		case h < l-tol:
			return nil, false
		case !math.IsInf(l, 0) && !math.IsInf(h, 0) && h-l <= tol:
			sf.vars[j] = varMap{offset: l}
		case !math.IsInf(l, 0):
			col := sf.newCol()
			sf.vars[j] = varMap{offset: l, cols: []colRef{{col, 1}}}
			if !math.IsInf(h, 0) {
				bounds = append(bounds, boundRow{col, h - l})
			}
		case !math.IsInf(h, 0):
			col := sf.newCol()
			sf.vars[j] = varMap{offset: h, cols: []colRef{{col, -1}}}
		default:
			pos, neg := sf.newCol(), sf.newCol()
			sf.vars[j] = varMap{cols: []colRef{{pos, 1}, {neg, -1}}}
		}
	}

	type rowSpec struct {
		coefs map[int]float64
		slack float64
		rhs   float64
	}
	specs := make([]rowSpec, 0, m.NumConstraints()+len(bounds))
	for _, con := range m.Constraints() {
		rs := rowSpec{coefs: make(map[int]float64), rhs: con.RHS()}
		for _, t := range con.Terms() {
			vm := sf.vars[t.Var.Index()]
			rs.rhs -= t.Coef * vm.offset
			for _, cr := range vm.cols {
				rs.coefs[cr.col] += t.Coef * cr.mult
			}
		}
		switch con.Sense() {
		case mip.LE:
			rs.slack = 1
		case mip.GE:
			rs.slack = -1
		}
		specs = append(specs, rs)
	}
	for _, br := range bounds {
		specs = append(specs, rowSpec{coefs: map[int]float64{br.col: 1}, slack: 1, rhs: br.width})
	}

	slackCol := make([]int, len(specs))
	for i, rs := range specs {
		slackCol[i] = -1
		if rs.slack != 0 {
			slackCol[i] = sf.newCol()
		}
	}

	sf.c = make([]float64, sf.ncols)
	obj := m.Objective()
	sf.objConst = sign * obj.Constant()
	for _, t := range obj.Terms() {
		vm := sf.vars[t.Var.Index()]
		sf.objConst += sign * t.Coef * vm.offset
		for _, cr := range vm.cols {
			sf.c[cr.col] += sign * t.Coef * cr.mult
		}
	}

	sf.rows = make([][]float64, len(specs))
	sf.b = make([]float64, len(specs))
	for i, rs := range specs {
		row := make([]float64, sf.ncols)
		for col, v := range rs.coefs {
			row[col] = v
		}
		if slackCol[i] >= 0 {
			row[slackCol[i]] = rs.slack
		}
		// Simplex phase one starts from b >= 0.
		if rs.rhs < 0 {
			floats.Scale(-1, row)
			rs.rhs = -rs.rhs
		}
		sf.rows[i] = row
		sf.b[i] = rs.rhs
	}

	return sf, true
}

func (sf *standardForm) newCol() int {
	sf.ncols++
	return sf.ncols - 1
}

// recover maps a standard-form point back to model variable values.
func (sf *standardForm) recover(y []float64) []float64 {
	x := make([]float64, len(sf.vars))
	for j, vm := range sf.vars {
		x[j] = vm.offset
		for _, cr := range vm.cols {
			x[j] += cr.mult * y[cr.col]
		}
	}

	return x
}

// reduced is a full-row-rank, zero-column-free view of a standardForm,
// the shape lp.Simplex requires.
type reduced struct {
	c    []float64
	A    *mat.Dense
	b    []float64
	cols []int // reduced column -> standard-form column
}

// reduce drops linearly dependent rows and empty columns. It reports
// infeasible when a dependent row disagrees on its right-hand side and
// unbounded when an empty column has negative cost.
func (sf *standardForm) reduce(tol float64) (r *reduced, infeasible, unbounded bool) {
	keep := independentRows(sf.rows, sf.b, tol)
	if keep == nil {
		return nil, true, false
	}

	var cols []int
	for j := 0; j < sf.ncols; j++ {
		empty := true
		for _, i := range keep {
			if sf.rows[i][j] != 0 {
				empty = false
				break
			}
		}
		if !empty {
			cols = append(cols, j)
			continue
		}
		if sf.c[j] < 0 {
			return nil, false, true
		}
	}

	r = &reduced{cols: cols, b: make([]float64, len(keep)), c: make([]float64, len(cols))}
	for k, j := range cols {
		r.c[k] = sf.c[j]
	}
	if len(keep) > 0 {
		data := make([]float64, 0, len(keep)*len(cols))
		for k, i := range keep {
			r.b[k] = sf.b[i]
			for _, j := range cols {
				data = append(data, sf.rows[i][j])
			}
		}
		r.A = mat.NewDense(len(keep), len(cols), data)
	}

	return r, false, false
}

// expand lifts a reduced solution to all standard-form columns; dropped
// columns sit at zero.
func (r *reduced) expand(ncols int, yr []float64) []float64 {
	y := make([]float64, ncols)
	for k, j := range r.cols {
		y[j] = math.Max(0, yr[k])
	}

	return y
}

// independentRows returns the indices of a maximal set of linearly
// independent rows, eliminating in input order with partial pivoting.
// It returns nil when some dependent row is inconsistent with b.
func independentRows(rows [][]float64, b []float64, tol float64) []int {
	type pivotRow struct {
		coef  []float64
		rhs   float64
		pivot int
	}
	var basis []pivotRow
	keep := make([]int, 0, len(rows))

	for i, row := range rows {
		work := make([]float64, len(row))
		copy(work, row)
		rhs := b[i]
		scale := math.Max(1, floats.Norm(row, math.Inf(1)))

		for _, p := range basis {
			f := work[p.pivot] / p.coef[p.pivot]
			if f == 0 {
				continue
			}
			floats.AddScaled(work, -f, p.coef)
			rhs -= f * p.rhs
		}

		piv, best := -1, tol*scale
		for j, v := range work {
			if math.Abs(v) > best {
				piv, best = j, math.Abs(v)
			}
		}
		if piv < 0 {
			if math.Abs(rhs) > tol*math.Max(1, math.Abs(b[i])) {
				return nil
			}
			continue
		}
		basis = append(basis, pivotRow{coef: work, rhs: rhs, pivot: piv})
		keep = append(keep, i)
	}

	return keep
}
