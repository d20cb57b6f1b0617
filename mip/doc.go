// Package mip is the modeling surface for mixed-integer linear programs and
// the contract every solver backend implements.
//
// A Model owns variables (continuous, integer or binary, each with bounds),
// linear constraints in normalized form (terms on the left, a constant on
// the right) and one linear objective. Expressions are built with Expr and
// turned into constraints by Model.AddConstraint, which moves every constant
// to the right-hand side and every variable to the left.
//
// Models travel in the CPLEX LP text format: WriteLP/ExportLP produce a
// deterministic file, ReadLP/ImportLP read the subset this package writes
// (objective, Subject To, Bounds, Generals, Binaries).
//
// Solving goes through a Backend. Callers acquire an Env around one
// formulate-and-solve call and release it with Close:
//
//	env, err := mip.NewEnv(simplex.New(), mip.WithLogger(log))
//	if err != nil { ... }
//	defer env.Close()
//	sol, err := env.Solve(ctx, model)
//
// An error from Solve means the backend failed; infeasibility and
// unboundedness are reported through Solution.Status instead.
package mip
