// Package config loads the YAML run configuration the CLI driver (but
// not the sampler packages) consumes, adapted from the teacher's
// internal/config: model and sampler choice plus their numeric
// parameters, with defaults and named presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDim       = 1
	DefaultStepsize  = 0.25
	DefaultIntTime   = 1.0
	DefaultMaxDepth  = 10
	DefaultMaxDeltaE = 1000.0
	DefaultEta       = 0.0 // 0 means "tune"
	DefaultTolRelObj = 0.01
	DefaultMaxIter   = 10000
	DefaultNPosterior = 1000
)

// Config drives one CLI run: which model to target, which sampler to
// run against it, and that sampler's tunables.
type Config struct {
	Model   string       `yaml:"model"`
	Sampler string       `yaml:"sampler"`
	Seed    int64        `yaml:"seed"`
	NDraws  int          `yaml:"n_draws"`
	Target  TargetConfig `yaml:"target"`
	HMC     HMCConfig    `yaml:"hmc"`
	ADVI    ADVIConfig   `yaml:"advi"`
}

// TargetConfig parameterizes the concrete model.LogDensityModel the CLI
// builds: Dim for StandardNormal, Mean/Diag for a diagonal multivariate
// Gaussian target. DoubleWell is always one-dimensional and ignores Dim.
type TargetConfig struct {
	Kind string    `yaml:"kind"` // "standard_normal" | "gaussian" | "double_well"
	Dim  int       `yaml:"dim"`
	Mean []float64 `yaml:"mean"`
	Diag []float64 `yaml:"diag"`
}

// HMCConfig covers both Static and NUTS; MaxTreeDepth/MaxDeltaEnergy are
// ignored by Static, IntTime is ignored by NUTS.
type HMCConfig struct {
	Metric         string  `yaml:"metric"` // "unit" | "diag" | "dense"
	Stepsize       float64 `yaml:"stepsize"`
	IntTime        float64 `yaml:"int_time"`
	MaxTreeDepth   int     `yaml:"max_tree_depth"`
	MaxDeltaEnergy float64 `yaml:"max_delta_energy"`
}

type ADVIConfig struct {
	Family            string  `yaml:"family"` // "meanfield" | "fullrank"
	Eta               float64 `yaml:"eta"`
	TolRelObj         float64 `yaml:"tol_rel_obj"`
	MaxIterations     int     `yaml:"max_iterations"`
	NPosteriorSamples int     `yaml:"n_posterior_samples"`
}

// DefaultConfig mirrors the teacher's DefaultConfig: a runnable
// configuration out of the box, here a standard-normal smoke test under
// NUTS.
func DefaultConfig() *Config {
	return &Config{
		Model:   "standard_normal",
		Sampler: "nuts",
		Seed:    42,
		NDraws:  1000,
		Target: TargetConfig{
			Kind: "standard_normal",
			Dim:  DefaultDim,
		},
		HMC: HMCConfig{
			Metric:         "unit",
			Stepsize:       DefaultStepsize,
			IntTime:        DefaultIntTime,
			MaxTreeDepth:   DefaultMaxDepth,
			MaxDeltaEnergy: DefaultMaxDeltaE,
		},
		ADVI: ADVIConfig{
			Family:            "meanfield",
			Eta:               DefaultEta,
			TolRelObj:         DefaultTolRelObj,
			MaxIterations:     DefaultMaxIter,
			NPosteriorSamples: DefaultNPosterior,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
