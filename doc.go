// Package tspmip models small optimization problems as mixed-integer linear
// programs and solves them with a pure-Go branch-and-bound backend.
//
// What is in the box:
//
//	mip/           modeling API: variables, expressions, constraints, LP text I/O,
//	               the Backend contract and the Env session wrapper
//	mip/simplex/   Backend built on gonum's simplex with depth-first branch-and-bound
//	locations/     reader for whitespace-separated numeric location files
//	matrix/        dense, bounds-checked matrix plus validators
//	matrix/ops/    Floyd–Warshall metric closure
//	distance/      rounded Euclidean distance matrices
//	tsp/           assignment-position TSP formulation, local-search warm start,
//	               solve and decode
//	alloc/         toy integer resource-allocation model
//	cutstock/      cutting stock by column generation
//	importer/      import an LP file, drop a constraint range, resolve
//
// Commands:
//
//	cmd/tspmip     locations file → distance matrix → tour (writes tsp_model.lp)
//	cmd/lpresolve  LP file → remove rows → resolve
//
// Quick start:
//
//	tbl, _ := locations.ReadFile("cities.txt")
//	res := tsp.SolveTable(ctx, simplex.New(), tbl)
//	fmt.Println(res)
package tspmip
