package opt

import (
	"math/rand"

	"gpsnav-cvrp/internal/metrics"
	"gpsnav-cvrp/internal/vrp"
)

// Config holds the LNS engine's tunable constants; see internal/config
// for the YAML-backed loader that produces one of these with the
// documented spec defaults.
type Config struct {
	K               int     // customers removed per ordinary destroy
	PRandom         float64 // probability of random-position insertion during repair
	PWorse          float64 // probability of accepting a non-improving move
	StagnationLimit int     // iterations without improvement before a restart
	TabuFraction    float64 // fraction of n held in tabu at any time
	KJumpFraction   float64 // fraction of n removed on a jump restart
	RestartFromBest float64 // probability a restart seeds from global best vs. recent best
	RecomputeEvery  int     // iterations between full cost resynchronization
}

// DefaultConfig returns the engine defaults documented in the design:
// k=5, pRandom=0.02, pWorse=0.10, stagnation_limit=50, tabu_fraction=0.10,
// jump fraction 0.15, restart-from-global-best 0.80.
func DefaultConfig() Config {
	return Config{
		K:               DefaultK,
		PRandom:         PRandom,
		PWorse:          0.10,
		StagnationLimit: 50,
		TabuFraction:    0.10,
		KJumpFraction:   0.15,
		RestartFromBest: 0.80,
		RecomputeEvery:  1000,
	}
}

// Controller runs the adaptive LNS loop for one worker: destroy,
// repair, accept/reject, stagnation tracking, and jump restarts. It
// holds no cross-worker state; the worker pool supplies GlobalBest
// lookups through it and publishes improvements itself.
type Controller struct {
	inst *vrp.Instance
	cfg  Config
	rng  *rand.Rand

	Current    *Solution
	RecentBest *Solution
	backup     *Solution

	tabu       *Tabu
	stagnation int
	iteration  int

	destroyBuf []int
	slotBuf    []slot

	// RequestGlobalBest lets the worker pool inject the shared best
	// without the controller importing the pool package. OnRestart, if
	// set, is called after every restart; OnImprove is never called by
	// the controller.
	RequestGlobalBest func() *Solution
	OnImprove         func(cost float64, iteration int)
	OnRestart         func(iteration int)
}

// NewController builds a Controller seeded with an already-constructed
// initial solution.
func NewController(inst *vrp.Instance, cfg Config, initial *Solution, rng *rand.Rand) *Controller {
	c := &Controller{
		inst:       inst,
		cfg:        cfg,
		rng:        rng,
		Current:    initial,
		RecentBest: initial.Clone(),
		backup:     initial.Clone(),
		tabu:       NewTabu(inst.N, cfg.TabuFraction),
		destroyBuf: make([]int, 0, cfg.K),
		slotBuf:    make([]slot, 0, inst.Vehicles+inst.N),
	}
	return c
}

// Step runs exactly one LNS iteration, mutating Current and returning
// whether an improving move brought Current below globalBestCost,
// together with Current's cost afterwards. GlobalBest tracking and publication
// is the caller's responsibility (the worker pool), since only it
// knows the true global best across workers.
func (c *Controller) Step(globalBestCost float64) (improved bool, newCost float64) {
	c.iteration++
	metrics.Iterations.Inc()
	c.Current.CloneInto(c.backup)

	w := Destroy(c.Current, c.tabu, c.cfg.K, c.rng, c.destroyBuf)
	var err error
	c.slotBuf, err = Repair(c.Current, w, c.cfg.PRandom, c.rng, c.slotBuf)
	if err != nil {
		c.backup.CloneInto(c.Current)
		c.stagnation++
		c.maybeRestart(globalBestCost)
		return false, c.Current.Cost
	}

	delta := c.Current.Cost - c.backup.Cost
	if delta < 0 {
		if c.Current.Cost < c.RecentBest.Cost {
			c.Current.CloneInto(c.RecentBest)
		}
		if c.Current.Cost < globalBestCost {
			improved = true
			c.stagnation = 0
			metrics.Improvements.Inc()
		} else {
			c.stagnation++
		}
	} else {
		if c.rng.Float64() >= c.cfg.PWorse {
			c.backup.CloneInto(c.Current)
		} else {
			metrics.AcceptedWorse.Inc()
		}
		c.stagnation++
	}

	if c.cfg.RecomputeEvery > 0 && c.iteration%c.cfg.RecomputeEvery == 0 {
		c.Current.Recompute()
	}

	c.maybeRestart(globalBestCost)
	return improved, c.Current.Cost
}

// maybeRestart triggers a jump restart once stagnation reaches the
// configured limit: reseed from global best (80%) or recent best
// (20%), apply a larger tabu-ignoring destroy, repair greedily, clear
// tabu, and reset stagnation.
func (c *Controller) maybeRestart(globalBestCost float64) {
	if c.stagnation < c.cfg.StagnationLimit {
		return
	}
	seed := c.RecentBest
	if c.RequestGlobalBest != nil && c.rng.Float64() < c.cfg.RestartFromBest {
		if gb := c.RequestGlobalBest(); gb != nil {
			seed = gb
		}
	}
	seed.CloneInto(c.Current)

	kJump := int(c.cfg.KJumpFraction*float64(c.inst.N) + 0.999999)
	if kJump < c.cfg.K {
		kJump = c.cfg.K
	}
	removed := DestroyIgnoringTabu(c.Current, c.inst.N, kJump, c.rng, c.destroyBuf)
	if err := RepairGreedy(c.Current, removed); err != nil {
		// Jump left the solution unrepairable; fall back to the seed
		// unmodified rather than propagate a broken solution.
		seed.CloneInto(c.Current)
	}

	c.tabu.Reset()
	c.stagnation = 0
	c.Current.CloneInto(c.RecentBest)
	metrics.Restarts.Inc()

	if c.OnRestart != nil {
		c.OnRestart(c.iteration)
	}
}
