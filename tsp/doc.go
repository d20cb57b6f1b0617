// Package tsp formulates the Travelling Salesman Problem as a mixed-integer
// linear program and solves it through a mip.Backend.
//
// The formulation combines an assignment-position model with
// immediate-precedence binaries linked by a big-M row:
//
//   - x_i ∈ {0..n-1} is the visit position of location i, x_0 = 0;
//   - R_i_j ∈ {0,1} says that j is visited right after i;
//   - every location has exactly one successor and one predecessor;
//   - R_i_j = 1 forces x_j >= x_i + 1 for every j != 0.
//
// Formulate builds the model; Solve runs the whole pipeline inside a scoped
// mip.Env and returns a Result that is already decoded (positions,
// successors, closed tour) and validated with the tour utilities in tour.go.
//
// Solve never returns an error value: outcomes are classified into
// Success, Infeasible, SolverError and InvalidInput.
//
// Before solving, Heuristic (nearest neighbour, 2-opt and a short tabu
// search over segment reversals) builds a tour that is handed to the backend
// as a MIP start; WithWarmStart(false) turns this off.
//
// WithMetricClosure replaces the distances by shortest-path lengths first,
// which lets a matrix with absent (+Inf) arcs be toured.
//
// The model has n + n(n-1) variables, so it is meant for small instances.
package tsp
