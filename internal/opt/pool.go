package opt

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"gpsnav-cvrp/internal/metrics"
	"gpsnav-cvrp/internal/progress"
	"gpsnav-cvrp/internal/vrp"
)

// var (not const) so the uint64->int64 conversion below is a runtime
// bit-reinterpretation rather than a constant-overflow compile error.
var goldenRatio64 uint64 = 0x9E3779B97F4A7C15

// Orchestrator holds the single process-wide mutable global best
// snapshot. Its update is the only synchronization point in the
// system; workers otherwise operate independently.
type Orchestrator struct {
	mu   sync.Mutex
	best *Solution
}

func newOrchestrator(initial *Solution) *Orchestrator {
	return &Orchestrator{best: initial.Clone()}
}

// Cost returns the current global best cost. Cheap, lock-protected.
func (o *Orchestrator) Cost() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.best.Cost
}

// Best returns an owned snapshot of the current global best; the
// caller may mutate it freely.
func (o *Orchestrator) Best() *Solution {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.best.Clone()
}

// Offer replaces the global best with candidate if candidate is
// strictly cheaper, reporting whether it did. The snapshot's
// ownership transfers to the orchestrator: candidate is deep-copied
// into the publication buffer, never aliased.
func (o *Orchestrator) Offer(candidate *Solution) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if candidate.Cost < o.best.Cost {
		candidate.CloneInto(o.best)
		metrics.GlobalBestCost.Set(o.best.Cost)
		return true
	}
	return false
}

// RunParams configures a worker-pool solve.
type RunParams struct {
	Workers    int
	Seed       int64
	Config     Config
	Iterations int // 0 = unbounded, governed only by ctx
	Broker     progress.Broker
}

// Run builds an initial feasible solution up front (surfacing
// ErrInfeasible immediately, before any goroutine is spawned), then
// fans Workers goroutines out, each running an independent Controller
// against a shared Orchestrator, until ctx is cancelled. It joins all
// workers before returning the best solution seen.
func Run(ctx context.Context, inst *vrp.Instance, p RunParams) (*Solution, error) {
	if p.Workers <= 0 {
		p.Workers = 1
	}
	broker := p.Broker
	if broker == nil {
		broker = progress.NewMemoryBroker()
	}

	bootstrapRng := rand.New(rand.NewSource(p.Seed))
	initial, err := Construct(inst, bootstrapRng)
	if err != nil {
		return nil, err
	}
	orch := newOrchestrator(initial)

	var wg sync.WaitGroup
	for i := 0; i < p.Workers; i++ {
		wg.Add(1)
		// Each worker's RNG is split from the master seed by index, per
		// the spec's RNG discipline; reproducibility is only claimed
		// within a single worker's stream, not across interleavings.
		workerSeed := p.Seed ^ (int64(i+1) * int64(goldenRatio64))
		workerID := uuid.NewString()
		go func(idx int, seed int64, id string) {
			defer wg.Done()
			metrics.ActiveWorkers.Inc()
			defer metrics.ActiveWorkers.Dec()
			runWorker(ctx, inst, p.Config, idx, seed, id, orch, broker, p.Iterations)
		}(i, workerSeed, workerID)
	}
	wg.Wait()

	return orch.Best(), nil
}

func runWorker(ctx context.Context, inst *vrp.Instance, cfg Config, idx int, seed int64, workerID string, orch *Orchestrator, broker progress.Broker, iterLimit int) {
	rng := rand.New(rand.NewSource(seed))
	initial, err := constructForWorker(inst, idx, rng)
	if err != nil {
		// This worker's rotated constructor failed even though the
		// pool-wide bootstrap above succeeded; seed from the
		// orchestrator's current best instead of sitting idle.
		initial = orch.Best()
	}
	orch.Offer(initial)

	ctrl := NewController(inst, cfg, initial, rng)
	ctrl.RequestGlobalBest = func() *Solution { return orch.Best() }
	ctrl.OnRestart = func(iteration int) {
		broker.Publish(progress.Event{Kind: progress.EventRestart, Iteration: iteration, Worker: workerID, Cost: ctrl.Current.Cost})
	}

	iter := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		improved, cost := ctrl.Step(orch.Cost())
		if improved && orch.Offer(ctrl.Current) {
			broker.Publish(progress.Event{Kind: progress.EventImproved, Iteration: iter, Worker: workerID, Cost: cost})
		}

		iter++
		if iterLimit > 0 && iter >= iterLimit {
			return
		}
	}
}

// constructForWorker rotates the bootstrap constructor across
// workers (supplementing the spec with the original Rust solver's
// per-thread constructor rotation) so the pool explores from
// structurally different initial solutions, not identical seeds.
func constructForWorker(inst *vrp.Instance, idx int, rng *rand.Rand) (*Solution, error) {
	if idx%3 == 0 {
		if sol, err := sweep(inst); err == nil {
			return sol, nil
		}
		if sol, err := clarkeWright(inst, rng); err == nil {
			return sol, nil
		}
		return greedyFallback(inst)
	}
	return Construct(inst, rng)
}
