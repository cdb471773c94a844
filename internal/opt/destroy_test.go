package opt

import (
	"math/rand"
	"testing"
)

func TestDestroyRemovesExactlyKAndPushesToTabu(t *testing.T) {
	inst := scenarioB()
	s := NewSolution(inst)
	_ = s.Insert(0, 0, 1)
	_ = s.Insert(0, 1, 2)
	_ = s.Insert(0, 2, 3)

	tabu := NewTabu(inst.N, 1.0) // limit = n, so nothing evicts yet
	rng := rand.New(rand.NewSource(42))
	removed := Destroy(s, tabu, 2, rng, nil)

	if len(removed) != 2 {
		t.Fatalf("removed %d customers, want 2", len(removed))
	}
	if tabu.Len() != 2 {
		t.Fatalf("tabu holds %d, want 2", tabu.Len())
	}
	for _, c := range removed {
		if s.Assign[c] != -1 {
			t.Fatalf("customer %d still assigned after destroy", c)
		}
		if !tabu.inTabu[c] {
			t.Fatalf("customer %d should be tabu after destroy", c)
		}
	}
}

func TestDestroyClampsKToFreeSetSize(t *testing.T) {
	inst := scenarioB()
	s := NewSolution(inst)
	_ = s.Insert(0, 0, 1)
	_ = s.Insert(0, 1, 2)
	_ = s.Insert(0, 2, 3)

	tabu := NewTabu(inst.N, 1.0)
	tabu.Push(1)
	tabu.Push(2) // only customer 3 remains free

	rng := rand.New(rand.NewSource(7))
	removed := Destroy(s, tabu, 5, rng, nil)
	if len(removed) != 1 {
		t.Fatalf("removed %d, want 1 (clamped to free-set size)", len(removed))
	}
	if removed[0] != 3 {
		t.Fatalf("removed customer %d, want 3", removed[0])
	}
}

func TestDestroyIgnoringTabuRemovesPresentCustomersOnly(t *testing.T) {
	inst := scenarioB()
	s := NewSolution(inst)
	_ = s.Insert(0, 0, 1)
	_ = s.Insert(0, 1, 2)
	// customer 3 intentionally left unassigned

	rng := rand.New(rand.NewSource(1))
	removed := DestroyIgnoringTabu(s, inst.N, 5, rng, nil)
	for _, c := range removed {
		if c == 3 {
			t.Fatal("DestroyIgnoringTabu should not touch an already-unassigned customer")
		}
		if s.Assign[c] != -1 {
			t.Fatalf("customer %d still assigned after DestroyIgnoringTabu", c)
		}
	}
	if len(removed) != 2 {
		t.Fatalf("removed %d customers, want 2 (only the ones actually present)", len(removed))
	}
}
