// Package metrics exposes the solver's own search statistics as
// Prometheus instruments on a dedicated registry, the same pattern
// the teacher uses for its HTTP/webhook counters.
package metrics

import (
    "sync"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the solver.
    Registry = prometheus.NewRegistry()

    Iterations = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "cvrp_iterations_total", Help: "Total LNS iterations across all workers."},
    )
    Improvements = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "cvrp_improvements_total", Help: "Accepted improvements to the global best."},
    )
    AcceptedWorse = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "cvrp_accepted_worse_total", Help: "Non-improving moves accepted under p_worse."},
    )
    Restarts = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "cvrp_restarts_total", Help: "Jump restarts triggered by stagnation."},
    )
    GlobalBestCost = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "cvrp_global_best_cost", Help: "Current global best total distance."},
    )
    ActiveWorkers = prometheus.NewGauge(
        prometheus.GaugeOpts{Name: "cvrp_active_workers", Help: "Number of LNS worker goroutines currently running."},
    )
)

// RegisterDefault registers the solver's collectors, plus the Go and
// process collectors, on the dedicated Registry (once).
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(Iterations)
        Registry.MustRegister(Improvements)
        Registry.MustRegister(AcceptedWorse)
        Registry.MustRegister(Restarts)
        Registry.MustRegister(GlobalBestCost)
        Registry.MustRegister(ActiveWorkers)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
