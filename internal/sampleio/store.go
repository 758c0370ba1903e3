package sampleio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunMetadata is the persisted description of one sampler run, adapted
// from the teacher's storage.RunMetadata: the fields that no longer
// apply to an ODE simulation (Integrator, Controller) are replaced by
// the sampler/model identifiers and final diagnostics an inference run
// actually produces.
type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Sampler     string             `json:"sampler"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	NIterations int                `json:"n_iterations"`
	Duration    float64            `json:"duration_seconds"`
	Diagnostics map[string]float64 `json:"diagnostics"`
}

// RunStore persists run metadata as JSON alongside a states.csv sample
// table in its own directory per run, directly adapted from the
// teacher's internal/storage.Store.
type RunStore struct {
	baseDir string
}

func NewRunStore(baseDir string) *RunStore {
	return &RunStore{baseDir: baseDir}
}

func (s *RunStore) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

// Begin creates a fresh run directory and returns its ID and path; the
// caller writes sample files into that directory and saves metadata
// later via Save.
func (s *RunStore) Begin(modelName, samplerName string, seed int64) (runID string, runDir string, err error) {
	runID = fmt.Sprintf("%s_%s_%d", modelName, samplerName, time.Now().Unix())
	runDir = filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", "", err
	}
	return runID, runDir, nil
}

func (s *RunStore) Save(meta RunMetadata) error {
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	f, err := os.Create(metaPath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *RunStore) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *RunStore) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// SamplesPath returns the path of runID's sample CSV.
func (s *RunStore) SamplesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, "states.csv")
}
