// Package simplex is a pure-Go mip.Backend built on gonum's dense simplex
// (gonum.org/v1/gonum/optimize/convex/lp).
//
// Every branch-and-bound node is converted to the standard form lp.Simplex
// accepts (min cᵀy, A·y = b, y >= 0):
//
//   - a variable with a finite lower bound is shifted, x = lb + y;
//   - a variable with only an upper bound is reflected, x = ub - y;
//   - a free variable is split, x = y⁺ - y⁻;
//   - a variable whose bounds meet is substituted as a constant;
//   - finite upper bounds become rows y + s = ub - lb;
//   - <= and >= rows get a slack or surplus column.
//
// Linearly dependent rows and empty columns are removed before the call, as
// lp.Simplex requires a full-row-rank matrix without zero columns.
//
// Integrality is enforced depth-first, branching on the most fractional
// integer variable and pruning nodes whose relaxation cannot beat the
// incumbent. The backend is meant for small models such as the ones built
// by packages tsp and alloc.
package simplex
