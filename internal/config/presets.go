package config

// Presets mirrors the teacher's config.Presets: named, ready-to-run
// configurations keyed by scenario name, covering the three reference
// scenarios spec.md's testable properties exercise.
var Presets = map[string]*Config{
	"standard-normal": {
		Model:   "standard_normal",
		Sampler: "nuts",
		Seed:    1,
		NDraws:  1000,
		Target: TargetConfig{
			Kind: "standard_normal",
			Dim:  1,
		},
		HMC: HMCConfig{
			Metric:         "unit",
			Stepsize:       0.5,
			IntTime:        1.0,
			MaxTreeDepth:   DefaultMaxDepth,
			MaxDeltaEnergy: DefaultMaxDeltaE,
		},
	},
	"ill-scaled-gaussian": {
		Model:   "gaussian",
		Sampler: "nuts",
		Seed:    2,
		NDraws:  1000,
		Target: TargetConfig{
			Kind: "gaussian",
			Dim:  2,
			Mean: []float64{0, 0},
			Diag: []float64{1, 100},
		},
		HMC: HMCConfig{
			Metric:         "unit",
			Stepsize:       0.5,
			IntTime:        1.0,
			MaxTreeDepth:   DefaultMaxDepth,
			MaxDeltaEnergy: DefaultMaxDeltaE,
		},
	},
	"advi-2d-gaussian": {
		Model:   "gaussian",
		Sampler: "advi",
		Seed:    3,
		NDraws:  1000,
		Target: TargetConfig{
			Kind: "gaussian",
			Dim:  2,
			Mean: []float64{1, -1},
			Diag: []float64{1, 1},
		},
		ADVI: ADVIConfig{
			Family:            "meanfield",
			Eta:               DefaultEta,
			TolRelObj:         DefaultTolRelObj,
			MaxIterations:     DefaultMaxIter,
			NPosteriorSamples: DefaultNPosterior,
		},
	},
}

// GetPreset returns the named preset and whether it was found, mirroring
// the teacher's GetPreset.
func GetPreset(name string) (*Config, bool) {
	cfg, ok := Presets[name]
	return cfg, ok
}

// ListPresets returns the available preset names, mirroring the
// teacher's ListPresets.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
