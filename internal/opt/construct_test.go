package opt

import (
	"math/rand"
	"testing"

	"gpsnav-cvrp/internal/vrp"
)

func TestConstructScenarioBSingleRoute(t *testing.T) {
	inst := scenarioB()
	rng := rand.New(rand.NewSource(1))
	sol, err := Construct(inst, rng)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if err := sol.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	want := 1.0 + 1.0 + 1.0 + 3.0
	if diff := sol.Cost - want; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("cost = %v, want %v (single route visiting 1, 2, 3 in order)", sol.Cost, want)
	}
}

// TestConstructScenarioAAtLeastAsGoodAsTwoSingletons checks the trivial
// two-customer instance against the naive two-singleton-route baseline
// rather than asserting an exact optimum: the two customers here are
// closer to each other than either is to the depot, so an LNS-capable
// constructor may legitimately find the cheaper single merged route.
func TestConstructScenarioAAtLeastAsGoodAsTwoSingletons(t *testing.T) {
	inst := scenarioA()
	rng := rand.New(rand.NewSource(2))
	sol, err := Construct(inst, rng)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if err := sol.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	const twoSingletons = 4.0
	if sol.Cost > twoSingletons+1e-9 {
		t.Fatalf("cost = %v, should never exceed the naive baseline %v", sol.Cost, twoSingletons)
	}
}

func TestSweepRespectsCapacityAndVehicleCount(t *testing.T) {
	inst := vrp.NewInstance(2, 10,
		[]vrp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}},
		[]int{0, 5, 5, 5, 5},
	)
	sol, err := sweep(inst)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if err := sol.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestSweepFailsWhenVehiclesInsufficient(t *testing.T) {
	inst := vrp.NewInstance(1, 10,
		[]vrp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		[]int{0, 8, 8},
	)
	if _, err := sweep(inst); err != ErrInfeasible {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestGreedyFallbackPacksInInputOrder(t *testing.T) {
	inst := vrp.NewInstance(2, 10,
		[]vrp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
		[]int{0, 6, 6, 4},
	)
	sol, err := greedyFallback(inst)
	if err != nil {
		t.Fatalf("greedyFallback: %v", err)
	}
	if err := sol.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// Customer 1 (demand 6) opens route 0; customer 2 (demand 6) cannot
	// join it (would be 12 > 10) so it opens route 1; customer 3
	// (demand 4) fits behind customer 1 in route 0.
	if sol.Assign[1] != sol.Assign[3] {
		t.Fatalf("expected customers 1 and 3 to share a route, got routes %d and %d", sol.Assign[1], sol.Assign[3])
	}
	if sol.Assign[1] == sol.Assign[2] {
		t.Fatal("expected customer 2 to need its own route")
	}
}

func TestConstructRejectsSingleDemandOverCapacity(t *testing.T) {
	// A single customer's demand exceeding vehicle capacity is
	// Infeasible even with an ample vehicle count, since no route,
	// however built, could ever serve it alone.
	inst := vrp.NewInstance(5, 10,
		[]vrp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		[]int{0, 3, 11},
	)
	rng := rand.New(rand.NewSource(1))
	if _, err := clarkeWright(inst, rng); err != ErrInfeasible {
		t.Fatalf("clarkeWright: expected ErrInfeasible, got %v", err)
	}
	if _, err := sweep(inst); err != ErrInfeasible {
		t.Fatalf("sweep: expected ErrInfeasible, got %v", err)
	}
	if _, err := greedyFallback(inst); err != ErrInfeasible {
		t.Fatalf("greedyFallback: expected ErrInfeasible, got %v", err)
	}
	if _, err := Construct(inst, rng); err != ErrInfeasible {
		t.Fatalf("Construct: expected ErrInfeasible, got %v", err)
	}
}

func TestGreedyFallbackFailsWhenTotalDemandExceedsFleetCapacity(t *testing.T) {
	inst := vrp.NewInstance(1, 10,
		[]vrp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		[]int{0, 8, 8},
	)
	if _, err := greedyFallback(inst); err != ErrInfeasible {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestClarkeWrightFailsWhenEveryCustomerNeedsItsOwnVehicle(t *testing.T) {
	// Every demand equals capacity, so no two customers can ever share
	// a route: Clarke-Wright is left with n singleton routes, which
	// exceeds a vehicle count smaller than n regardless of RNG jitter.
	inst := vrp.NewInstance(2, 10,
		[]vrp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
		[]int{0, 10, 10, 10},
	)
	rng := rand.New(rand.NewSource(3))
	if _, err := clarkeWright(inst, rng); err != ErrInfeasible {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
	// Construct must still fail overall: sweep and greedy face the same
	// one-customer-per-route requirement with an insufficient fleet.
	if _, err := Construct(inst, rng); err != ErrInfeasible {
		t.Fatalf("expected Construct to propagate ErrInfeasible, got %v", err)
	}
}

func TestConstructIsRobustAcrossSeeds(t *testing.T) {
	inst := vrp.NewInstance(3, 15,
		[]vrp.Point{
			{X: 0, Y: 0},
			{X: 2, Y: 1}, {X: -1, Y: 3}, {X: 4, Y: -2}, {X: -3, Y: -1},
			{X: 1, Y: 5}, {X: -4, Y: 2}, {X: 3, Y: 3}, {X: -2, Y: -4},
		},
		[]int{0, 4, 5, 3, 6, 2, 4, 5, 3},
	)
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		sol, err := Construct(inst, rng)
		if err != nil {
			t.Fatalf("seed %d: construct failed: %v", seed, err)
		}
		if err := sol.Verify(); err != nil {
			t.Fatalf("seed %d: verify failed: %v", seed, err)
		}
	}
}
