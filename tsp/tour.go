// Package tsp - tour utilities used to decode and check solver output.
//
// These helpers operate purely on index sequences:
//   - ValidatePermutation: verify a permutation over {0..n-1}.
//   - MakeTourFromPermutation: closed tour from a visit order, rotated to a start.
//   - TourFromSuccessors: closed tour by following successor links.
//   - ValidateTour: enforce Hamiltonian cycle invariants.
//   - OrderFromPositions: invert a position vector into a visit order.
//
// No logging, no panics on user input; only sentinel errors from types.go.
package tsp

// ValidatePermutation checks that perm is a permutation of {0..n-1} of length n.
//
// Complexity: O(n) time, O(n) space.
func ValidatePermutation(perm []int, n int) error {
	if n <= 0 || len(perm) != n {
		return ErrDimensionMismatch
	}
	seen := make([]bool, n)

	var (
		i int
		v int
	)
	for i = 0; i < n; i++ {
		v = perm[i]
		if v < 0 || v >= n || seen[v] {
			return ErrDimensionMismatch
		}
		seen[v] = true
	}

	return nil
}

// OrderFromPositions inverts pos, where pos[i] is the visit slot of location
// i, into order[k] = location visited k-th.
//
// Complexity: O(n).
func OrderFromPositions(pos []int) ([]int, error) {
	n := len(pos)
	if err := ValidatePermutation(pos, n); err != nil {
		return nil, ErrPositionsNotDistinct
	}
	order := make([]int, n)
	for i, p := range pos {
		order[p] = i
	}

	return order, nil
}

// MakeTourFromPermutation builds a closed tour from a visit order, rotated so
// that it starts and ends at start.
//
// Contract:
//   - perm is a permutation (ValidatePermutation).
//   - start ∈ [0..n-1].
//   - Returned tour satisfies: len==n+1, tour[0]==tour[n]==start.
//
// Complexity: O(n) time, O(n) space.
func MakeTourFromPermutation(perm []int, n int, start int) ([]int, error) {
	if err := ValidatePermutation(perm, n); err != nil {
		return nil, err
	}
	if start < 0 || start >= n {
		return nil, ErrStartOutOfRange
	}

	var (
		i     int
		pivot int
	)
	for i = 0; i < n; i++ {
		if perm[i] == start {
			pivot = i
			break
		}
	}

	tour := make([]int, n+1)
	for i = 0; i < n; i++ {
		tour[i] = perm[(pivot+i)%n]
	}
	tour[n] = start

	return tour, nil
}

// TourFromSuccessors walks succ from start for n steps and closes the tour.
// It returns ErrBrokenTour when the walk revisits a location early or does
// not come back to start, i.e. when succ describes subtours.
//
// Complexity: O(n).
func TourFromSuccessors(succ []int, start int) ([]int, error) {
	n := len(succ)
	if n == 0 {
		return nil, ErrDimensionMismatch
	}
	if start < 0 || start >= n {
		return nil, ErrStartOutOfRange
	}

	var (
		tour = make([]int, n+1)
		seen = make([]bool, n)
		cur  = start
		i    int
	)
	for i = 0; i < n; i++ {
		if cur < 0 || cur >= n || seen[cur] {
			return nil, ErrBrokenTour
		}
		seen[cur] = true
		tour[i] = cur
		cur = succ[cur]
	}
	if cur != start {
		return nil, ErrBrokenTour
	}
	tour[n] = start

	return tour, nil
}

// ValidateTour enforces Hamiltonian-cycle invariants:
//
//	len(tour) == n+1, tour[0]==tour[n]==start,
//	each vertex v∈[0..n-1] appears exactly once in positions [0..n-1].
//
// Complexity: O(n) time, O(n) space.
func ValidateTour(tour []int, n int, start int) error {
	if n <= 0 || len(tour) != n+1 {
		return ErrDimensionMismatch
	}
	if start < 0 || start >= n {
		return ErrStartOutOfRange
	}
	if tour[0] != start || tour[n] != start {
		return ErrDimensionMismatch
	}

	return ValidatePermutation(tour[:n], n)
}

// EqualTours reports whether two closed tours visit the same sequence.
func EqualTours(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
