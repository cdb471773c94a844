package opt

import "errors"

// Fatal errors: short-circuit the whole run.
var (
	// ErrInfeasible is returned when no construction heuristic, down to
	// the greedy fallback, can place all customers within capacity and
	// vehicle-count limits.
	ErrInfeasible = errors.New("opt: instance is infeasible")
)

// Recoverable errors: handled locally by the destroy/repair/LNS loop
// and never escape it.
var (
	// ErrCapacityExceeded is returned by Solution.Insert when adding a
	// customer would push a route's load over capacity.
	ErrCapacityExceeded = errors.New("opt: insertion exceeds capacity")

	// ErrTransientInfeasibleRepair is returned when repair cannot find
	// any feasible position for a customer; the caller restores the
	// pre-destroy backup.
	ErrTransientInfeasibleRepair = errors.New("opt: no feasible insertion point")
)
