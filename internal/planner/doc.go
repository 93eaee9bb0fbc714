// Package planner builds the complete split plan for a dataset before any
// file is touched.
//
// Implemented:
//   - Plan, ClassPlan, Transfer, Action (types.go)
//   - BuildPlan: path resolution, per-class listing, shared-seed partition,
//     destination mapping (planner.go)
//   - Preflight: on-disk collision and backup checks (preflight.go)
//
// The pipeline executes a Plan verbatim; it makes no routing decisions of
// its own.
package planner
