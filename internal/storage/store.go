package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/neurodyn/internal/analysis"
	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/neuron"
)

// Store persists analysis runs under a base directory, one directory per
// run with JSON metadata beside CSV data.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string                  `json:"id"`
	Kind        string                  `json:"kind"` // "sweep" or "trace"
	Class       string                  `json:"class"`
	Timestamp   time.Time               `json:"timestamp"`
	Integrator  string                  `json:"integrator"`
	Dt          float64                 `json:"dt"`
	Stimulus    float64                 `json:"stimulus,omitempty"`
	SweepFrom   float64                 `json:"sweep_from,omitempty"`
	SweepTo     float64                 `json:"sweep_to,omitempty"`
	Params      *neuron.ModelParameters `json:"params,omitempty"`
	Transitions []string                `json:"transitions,omitempty"`
}

// SaveSweep writes a sweep's rows to records.csv with metadata.json beside
// it and returns the run id.
func (s *Store) SaveSweep(class, integrator string, dt float64, params neuron.ModelParameters, sweep analysis.Sweep) (string, error) {
	runID := fmt.Sprintf("sweep_%s_%d", class, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       "sweep",
		Class:      class,
		Timestamp:  time.Now(),
		Integrator: integrator,
		Dt:         dt,
		Params:     &params,
	}
	if n := len(sweep.Records); n > 0 {
		meta.SweepFrom = sweep.Records[0].Stimulus
		meta.SweepTo = sweep.Records[n-1].Stimulus
	}
	for _, tr := range sweep.Transitions {
		meta.Transitions = append(meta.Transitions,
			fmt.Sprintf("%s at I=%.4f (index %d)", tr.Kind, tr.Stimulus, tr.Index))
	}
	if err := s.writeMetadata(runDir, meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "records.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"stimulus", "v_star", "w_star", "residual", "converged", "label",
		"eig1_re", "eig1_im", "eig2_re", "eig2_im", "v_max", "v_min", "frequency",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, r := range sweep.Records {
		row := []string{
			num(r.Stimulus),
			num(r.Point.V),
			num(r.Point.W),
			num(r.Point.Residual),
			strconv.FormatBool(r.Point.Converged),
			r.Label.String(),
			num(real(r.Eigenvalues[0])),
			num(imag(r.Eigenvalues[0])),
			num(real(r.Eigenvalues[1])),
			num(imag(r.Eigenvalues[1])),
			num(r.VMax),
			num(r.VMin),
			num(r.Frequency),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveTrajectory writes a single run's samples to trace.csv and returns
// the run id.
func (s *Store) SaveTrajectory(class, integrator string, dt, stim float64, traj *dynamo.Trajectory) (string, error) {
	runID := fmt.Sprintf("trace_%s_%d", class, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       "trace",
		Class:      class,
		Timestamp:  time.Now(),
		Integrator: integrator,
		Dt:         dt,
		Stimulus:   stim,
	}
	if err := s.writeMetadata(runDir, meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "v", "w"}); err != nil {
		return "", err
	}
	for i := range traj.Times {
		row := []string{
			num(traj.Times[i]),
			num(traj.States[i][neuron.IdxV]),
			num(traj.States[i][neuron.IdxW]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns the metadata of all stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) writeMetadata(runDir string, meta RunMetadata) error {
	f, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
