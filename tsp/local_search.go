// Package tsp - construction and local search used to warm-start the MILP.
//
// NearestNeighbor builds a greedy closed tour. TwoOpt improves it with
// first-improvement segment reversal. TabuSearch explores the same reversal
// neighbourhood with best-improvement moves, accepting uphill steps while a
// short list of recently added links keeps it from undoing them.
//
// Reversing T[i..k] on a directed matrix also flips every arc inside the
// segment, so the move delta is
//
//	Δ = w(a,c) + w(b,d) − w(a,b) − w(c,d) + Σ_{p=i}^{k−1} (w(T[p+1],T[p]) − w(T[p],T[p+1]))
//
// with a=T[i−1], b=T[i], c=T[k], d=T[k+1]. On symmetric input the sum is 0.
//
// Contracts:
//   - tours are closed: len == n+1, tour[0] == tour[n] == start.
//   - +Inf distances are allowed; moves that would use them are rejected.
//   - NaN distances yield ErrDimensionMismatch, negative ones ErrNegativeWeight.
//
// Complexity: O(n³) per TwoOpt pass and per TabuSearch step.
package tsp

import (
	"math"

	"github.com/katalvlaran/tspmip/matrix"
)

// improveEps is the smallest cost decrease accepted as an improvement.
const improveEps = 1e-9

// weights prefetches dist into w[u*n+v].
func weights(dist matrix.Matrix) ([]float64, int, error) {
	if dist == nil {
		return nil, 0, ErrDimensionMismatch
	}
	if err := matrix.ValidateSquare(dist); err != nil {
		return nil, 0, err
	}
	n := dist.Rows()
	w := make([]float64, n*n)
	var (
		i, j int
		x    float64
		err  error
	)
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if x, err = dist.At(i, j); err != nil {
				return nil, 0, ErrDimensionMismatch
			}
			if math.IsNaN(x) {
				return nil, 0, ErrDimensionMismatch
			}
			if x < 0 {
				return nil, 0, ErrNegativeWeight
			}
			w[i*n+j] = x
		}
	}

	return w, n, nil
}

// NearestNeighbor returns the closed tour that always moves to the closest
// unvisited location. Ties go to the lower index.
//
// Errors: ErrStartOutOfRange, ErrIncompleteGraph when some step or the
// closing arc has no finite distance, plus the weights errors.
//
// Complexity: O(n²).
func NearestNeighbor(dist matrix.Matrix, start int) ([]int, error) {
	w, n, err := weights(dist)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrEmptyMatrix
	}
	if start < 0 || start >= n {
		return nil, ErrStartOutOfRange
	}

	visited := make([]bool, n)
	tour := make([]int, 0, n+1)
	cur := start
	visited[cur] = true
	tour = append(tour, cur)
	for len(tour) < n {
		next, bestW := -1, math.Inf(1)
		for v := 0; v < n; v++ {
			if !visited[v] && w[cur*n+v] < bestW {
				next, bestW = v, w[cur*n+v]
			}
		}
		if next < 0 {
			return nil, ErrIncompleteGraph
		}
		visited[next] = true
		tour = append(tour, next)
		cur = next
	}
	if math.IsInf(w[cur*n+start], 0) {
		return nil, ErrIncompleteGraph
	}

	return append(tour, start), nil
}

// reversalDelta returns the cost change of reversing cur[i..k] and whether
// the move is admissible (uses no +Inf arc).
func reversalDelta(w []float64, n int, cur []int, i, k int) (float64, bool) {
	a, b, c, d := cur[i-1], cur[i], cur[k], cur[k+1]
	wac, wbd := w[a*n+c], w[b*n+d]
	if math.IsInf(wac, 0) || math.IsInf(wbd, 0) {
		return 0, false
	}
	delta := wac + wbd - w[a*n+b] - w[c*n+d]
	var back float64
	for p := i; p < k; p++ {
		back = w[cur[p+1]*n+cur[p]]
		if math.IsInf(back, 0) {
			return 0, false
		}
		delta += back - w[cur[p]*n+cur[p+1]]
	}

	return delta, true
}

// reverse flips tour[i..k] in place.
func reverse(tour []int, i, k int) {
	for i < k {
		tour[i], tour[k] = tour[k], tour[i]
		i++
		k--
	}
}

// TwoOpt runs first-improvement segment reversal from tour until no move
// lowers the cost by more than improveEps. The input is not modified.
//
// Errors: the TourCost and ValidateTour errors of the starting tour.
func TwoOpt(dist matrix.Matrix, tour []int) ([]int, float64, error) {
	w, n, cur, cost, err := prepare(dist, tour)
	if err != nil {
		return nil, 0, err
	}

	for improved := true; improved; {
		improved = false
	scan:
		for i := 1; i <= n-2; i++ {
			for k := i + 1; k <= n-1; k++ {
				delta, ok := reversalDelta(w, n, cur, i, k)
				if !ok || delta >= -improveEps {
					continue
				}
				reverse(cur, i, k)
				cost += delta
				improved = true

				break scan
			}
		}
	}

	return cur, round1e9(cost), nil
}

// link is an undirected pair of locations, lower index first.
type link [2]int

func newLink(u, v int) link {
	if u > v {
		u, v = v, u
	}

	return link{u, v}
}

// TabuSearch runs best-improvement segment reversal, accepting the best
// admissible move even when it raises the cost. The two links a move adds
// become tabu; a move is skipped when both links it would delete are tabu.
// The list keeps the n/2+1 most recent links. The search stops after stall
// consecutive moves without a new best (n/2 when stall <= 0) and returns
// the best tour seen.
//
// Reversing the whole tail T[1..n−1] only changes orientation and is never
// considered.
func TabuSearch(dist matrix.Matrix, tour []int, stall int) ([]int, float64, error) {
	w, n, cur, cost, err := prepare(dist, tour)
	if err != nil {
		return nil, 0, err
	}
	if stall <= 0 {
		stall = n / 2
	}
	if stall < 1 {
		stall = 1
	}

	best := make([]int, len(cur))
	copy(best, cur)
	bestCost := cost

	tabuCap := n/2 + 1
	tabu := make([]link, 0, tabuCap+2)
	isTabu := func(l link) bool {
		for _, t := range tabu {
			if t == l {
				return true
			}
		}

		return false
	}

	for misses := 0; misses < stall; {
		mi, mk, md := -1, -1, math.Inf(1)
		for i := 1; i <= n-2; i++ {
			for k := i + 1; k <= n-1; k++ {
				if i == 1 && k == n-1 {
					continue
				}
				if isTabu(newLink(cur[i-1], cur[i])) && isTabu(newLink(cur[k], cur[k+1])) {
					continue
				}
				delta, ok := reversalDelta(w, n, cur, i, k)
				if ok && delta < md {
					mi, mk, md = i, k, delta
				}
			}
		}
		if mi < 0 {
			break
		}

		tabu = append(tabu, newLink(cur[mi-1], cur[mk]), newLink(cur[mi], cur[mk+1]))
		if len(tabu) > tabuCap {
			tabu = append(tabu[:0], tabu[len(tabu)-tabuCap:]...)
		}
		reverse(cur, mi, mk)
		cost += md

		if cost < bestCost-improveEps {
			copy(best, cur)
			bestCost = cost
			misses = 0
		} else {
			misses++
		}
	}

	return best, round1e9(bestCost), nil
}

// prepare validates a starting tour and returns a working copy with its cost.
func prepare(dist matrix.Matrix, tour []int) ([]float64, int, []int, float64, error) {
	w, n, err := weights(dist)
	if err != nil {
		return nil, 0, nil, 0, err
	}
	if len(tour) != n+1 {
		return nil, 0, nil, 0, ErrDimensionMismatch
	}
	if err = ValidateTour(tour, n, tour[0]); err != nil {
		return nil, 0, nil, 0, err
	}
	cost, err := TourCost(dist, tour)
	if err != nil {
		return nil, 0, nil, 0, err
	}
	cur := make([]int, len(tour))
	copy(cur, tour)

	return w, n, cur, cost, nil
}

// Heuristic chains NearestNeighbor, TwoOpt and TabuSearch from start and
// returns the best closed tour found with its cost.
func Heuristic(dist matrix.Matrix, start int) ([]int, float64, error) {
	tour, err := NearestNeighbor(dist, start)
	if err != nil {
		return nil, 0, err
	}
	tour, cost, err := TwoOpt(dist, tour)
	if err != nil {
		return nil, 0, err
	}
	improved, tabuCost, err := TabuSearch(dist, tour, 0)
	if err != nil {
		return nil, 0, err
	}
	if tabuCost < cost {
		return improved, tabuCost, nil
	}

	return tour, cost, nil
}
