// Package config loads the LNS engine's tunable constants from an
// optional YAML file, generalizing the teacher's env-var configuration
// pattern (internal/api/server.go's os.Getenv reads) to a file-based
// config, since the engine has more than a couple of knobs worth
// naming together.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"gpsnav-cvrp/internal/opt"
)

// File mirrors opt.Config with YAML tags and pointer fields so a
// partial document only overrides the keys it sets; every other field
// keeps its spec default.
type File struct {
	K               *int     `yaml:"k"`
	PRandom         *float64 `yaml:"pRandom"`
	PWorse          *float64 `yaml:"pWorse"`
	StagnationLimit *int     `yaml:"stagnationLimit"`
	TabuFraction    *float64 `yaml:"tabuFraction"`
	KJumpFraction   *float64 `yaml:"kJumpFraction"`
	RestartFromBest *float64 `yaml:"restartFromBest"`
	RecomputeEvery  *int     `yaml:"recomputeEvery"`
}

// Load reads path (if non-empty) and overlays it on opt.DefaultConfig.
// An empty path is not an error: Load simply returns the defaults. A
// non-empty path that cannot be read returns the read error.
func Load(path string) (opt.Config, error) {
	cfg := opt.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return cfg, err
	}
	applyOverrides(&cfg, f)
	return cfg, nil
}

func applyOverrides(cfg *opt.Config, f File) {
	if f.K != nil {
		cfg.K = *f.K
	}
	if f.PRandom != nil {
		cfg.PRandom = *f.PRandom
	}
	if f.PWorse != nil {
		cfg.PWorse = *f.PWorse
	}
	if f.StagnationLimit != nil {
		cfg.StagnationLimit = *f.StagnationLimit
	}
	if f.TabuFraction != nil {
		cfg.TabuFraction = *f.TabuFraction
	}
	if f.KJumpFraction != nil {
		cfg.KJumpFraction = *f.KJumpFraction
	}
	if f.RestartFromBest != nil {
		cfg.RestartFromBest = *f.RestartFromBest
	}
	if f.RecomputeEvery != nil {
		cfg.RecomputeEvery = *f.RecomputeEvery
	}
}
