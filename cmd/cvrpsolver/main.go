package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gpsnav-cvrp/internal/buildinfo"
	"gpsnav-cvrp/internal/config"
	"gpsnav-cvrp/internal/metrics"
	"gpsnav-cvrp/internal/model"
	"gpsnav-cvrp/internal/opt"
	"gpsnav-cvrp/internal/progress"
	"gpsnav-cvrp/internal/vrp"
	"gpsnav-cvrp/internal/watch"
)

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "number of parallel LNS workers")
	timeBudget := flag.Duration("time-budget", 4*time.Minute+59*time.Second, "wall-clock budget for the search")
	iterations := flag.Int("iterations", 0, "optional per-worker iteration cap (0 = unbounded)")
	configPath := flag.String("config", "", "optional YAML file overriding engine constants")
	seed := flag.Int64("seed", 0, "master RNG seed (0 = time-based)")
	watchAddr := flag.String("watch-addr", "", "optional address to stream progress events over WebSocket (e.g. :8090)")
	redisURL := flag.String("redis-url", "", "optional Redis URL; when set, progress events are also published to Redis Pub/Sub")
	metricsAddr := flag.String("metrics-addr", "", "optional address to serve Prometheus metrics (e.g. :9090)")
	showVersion := flag.Bool("version", false, "print build info and exit")
	flag.Parse()

	if *showVersion {
		info := buildinfo.Info()
		fmt.Printf("cvrpsolver %s (commit %s, built %s)\n", info["version"], info["commit"], info["builtAt"])
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cvrpsolver [flags] <instance.vrp>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	inst, err := vrp.ParseFile(path)
	if err != nil {
		log.Fatalf("failed to parse instance: %v", err)
	}

	runSeed := *seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}

	broker := buildBroker(*redisURL)
	defer broker.Close()

	if *watchAddr != "" {
		ws := watch.NewServer(*watchAddr, broker)
		ws.Start()
		defer ws.Shutdown()
	}

	if *metricsAddr != "" {
		metrics.RegisterDefault()
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics: server error: %v", err)
			}
		}()
		defer srv.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeBudget)
	defer cancel()

	start := time.Now()
	best, err := opt.Run(ctx, inst, opt.RunParams{
		Workers:    *workers,
		Seed:       runSeed,
		Config:     cfg,
		Iterations: *iterations,
		Broker:     broker,
	})
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("solve failed: %v", err)
	}

	if err := best.Verify(); err != nil {
		log.Fatalf("internal error: final solution failed verification: %v", err)
	}

	result := model.Result{
		Instance: filepath.Base(path),
		Time:     elapsed.Seconds(),
		Result:   best.Cost,
		Solution: best.Tokens(),
	}
	out, err := json.Marshal(result)
	if err != nil {
		log.Fatalf("failed to marshal result: %v", err)
	}
	fmt.Println(string(out))
}

func buildBroker(redisURL string) progress.Broker {
	if redisURL == "" {
		return progress.NewMemoryBroker()
	}
	rb, err := progress.NewRedisBroker(redisURL)
	if err != nil {
		log.Printf("progress: failed to connect to redis at %s, falling back to in-memory broker: %v", redisURL, err)
		return progress.NewMemoryBroker()
	}
	return rb
}
