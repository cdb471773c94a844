package opt

import (
	"math"
	"math/rand"
	"sort"

	"gpsnav-cvrp/internal/vrp"
)

// jitterSigma is the standard deviation of the Gaussian perturbation
// added to each Clarke-Wright saving, in distance units.
const jitterSigma = 1.0

// Construct builds an initial feasible solution using the three-tier
// bootstrap: Clarke-Wright savings with jitter, then sweep, then
// greedy fallback. The first tier to succeed wins.
func Construct(inst *vrp.Instance, rng *rand.Rand) (*Solution, error) {
	if sol, err := clarkeWright(inst, rng); err == nil {
		return sol, nil
	}
	if sol, err := sweep(inst); err == nil {
		return sol, nil
	}
	return greedyFallback(inst)
}

// validateDemands returns ErrInfeasible if any single customer's demand
// exceeds the vehicle capacity: per spec.md's error taxonomy this is an
// Infeasible instance, not a malformed one, so Parse accepts it and
// every construction tier rejects it here instead, before doing any
// work that could otherwise paper over it (a capacity-violating
// singleton route would never exceed a generous vehicle count on its
// own, so Clarke-Wright in particular cannot rely on its own route-count
// check to catch this).
func validateDemands(inst *vrp.Instance) error {
	for c := 1; c <= inst.N; c++ {
		if inst.Demand[c] > inst.Capacity {
			return ErrInfeasible
		}
	}
	return nil
}

type cwRoute struct {
	stops []int
	load  int
}

// clarkeWright merges singleton routes by descending perturbed saving
// s(i,j) = d(0,i) + d(0,j) - d(i,j), stitching i and j together only
// when both are route endpoints and the merge stays within capacity.
// It fails with ErrInfeasible if more routes than vehicles remain once
// every pair has been considered.
func clarkeWright(inst *vrp.Instance, rng *rand.Rand) (*Solution, error) {
	if err := validateDemands(inst); err != nil {
		return nil, err
	}
	n := inst.N
	if n == 0 {
		return NewSolution(inst), nil
	}
	d := inst.Dist

	routeOf := make([]*cwRoute, n+1)
	for c := 1; c <= n; c++ {
		routeOf[c] = &cwRoute{stops: []int{c}, load: inst.Demand[c]}
	}

	type pair struct {
		i, j   int
		saving float64
	}
	pairs := make([]pair, 0, n*(n-1)/2)
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			s := d.At(depot, i) + d.At(depot, j) - d.At(i, j)
			s += rng.NormFloat64() * jitterSigma
			pairs = append(pairs, pair{i, j, s})
		}
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].saving > pairs[b].saving })

	for _, p := range pairs {
		ri, rj := routeOf[p.i], routeOf[p.j]
		if ri == rj {
			continue
		}
		if ri.load+rj.load > inst.Capacity {
			continue
		}
		iAtTail := ri.stops[len(ri.stops)-1] == p.i
		iAtHead := ri.stops[0] == p.i
		jAtTail := rj.stops[len(rj.stops)-1] == p.j
		jAtHead := rj.stops[0] == p.j
		if !(iAtTail || iAtHead) || !(jAtTail || jAtHead) {
			continue
		}

		var merged []int
		switch {
		case iAtTail && jAtHead:
			merged = append(append([]int{}, ri.stops...), rj.stops...)
		case iAtHead && jAtTail:
			merged = append(append([]int{}, rj.stops...), ri.stops...)
		case iAtTail && jAtTail:
			merged = append(append([]int{}, ri.stops...), reversed(rj.stops)...)
		default: // iAtHead && jAtHead
			merged = append(reversed(ri.stops), rj.stops...)
		}
		nr := &cwRoute{stops: merged, load: ri.load + rj.load}
		for _, c := range merged {
			routeOf[c] = nr
		}
	}

	seen := make(map[*cwRoute]bool, n)
	var unique []*cwRoute
	for c := 1; c <= n; c++ {
		r := routeOf[c]
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	if len(unique) > inst.Vehicles {
		return nil, ErrInfeasible
	}

	sol := NewSolution(inst)
	for idx, r := range unique {
		sol.Routes[idx].Stops = append(sol.Routes[idx].Stops[:0], r.stops...)
	}
	sol.Recompute()
	return sol, nil
}

func reversed(xs []int) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = x
	}
	return out
}

// sweep orders customers by polar angle about the depot and greedily
// packs the sorted list into consecutive routes, opening a new route
// whenever the next customer would exceed capacity.
func sweep(inst *vrp.Instance) (*Solution, error) {
	if err := validateDemands(inst); err != nil {
		return nil, err
	}
	n := inst.N
	sol := NewSolution(inst)
	if n == 0 {
		return sol, nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}
	depotPt := inst.Coord[depot]
	angle := func(c int) float64 {
		p := inst.Coord[c]
		return math.Atan2(p.Y-depotPt.Y, p.X-depotPt.X)
	}
	sort.Slice(order, func(a, b int) bool { return angle(order[a]) < angle(order[b]) })

	route := 0
	for _, c := range order {
		if route >= inst.Vehicles {
			return nil, ErrInfeasible
		}
		if sol.Load[route]+inst.Demand[c] > inst.Capacity {
			route++
			if route >= inst.Vehicles {
				return nil, ErrInfeasible
			}
		}
		pos := len(sol.Routes[route].Stops)
		if err := sol.Insert(route, pos, c); err != nil {
			return nil, ErrInfeasible
		}
	}
	return sol, nil
}

// greedyFallback places customers in input order into the first
// existing route with remaining capacity, opening a new route only
// when none has room. It is the last resort and fails when a customer
// fits in no open route and every vehicle is already in use. Being a
// single first-fit pass, it can fail even when total demand is within
// the fleet's total capacity.
func greedyFallback(inst *vrp.Instance) (*Solution, error) {
	if err := validateDemands(inst); err != nil {
		return nil, err
	}
	sol := NewSolution(inst)
	used := 0
	for c := 1; c <= inst.N; c++ {
		placed := false
		for r := 0; r < used; r++ {
			if sol.Load[r]+inst.Demand[c] <= inst.Capacity {
				if err := sol.Insert(r, len(sol.Routes[r].Stops), c); err == nil {
					placed = true
					break
				}
			}
		}
		if placed {
			continue
		}
		if used >= inst.Vehicles {
			return nil, ErrInfeasible
		}
		if err := sol.Insert(used, 0, c); err != nil {
			return nil, ErrInfeasible
		}
		used++
	}
	return sol, nil
}
