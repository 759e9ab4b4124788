package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelswick/monsim/internal/econ"
)

// Store persists finished runs under a base directory, one subdirectory per
// run holding metadata.json and trajectory.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Epochs    int                `json:"epochs"`
	Params    econ.Params        `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
}

var csvHeader = []string{
	"epoch", "supply", "velocity", "output", "energy",
	"delta", "error", "stimulus", "demurrage",
}

// Save writes one run to disk and returns its generated ID.
func (s *Store) Save(name string, p econ.Params, traj econ.Trajectory, metrics map[string]float64) (string, error) {
	runID := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now(),
		Seed:      p.Seed,
		Epochs:    len(traj),
		Params:    p,
		Metrics:   metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, traj); err != nil {
		return "", err
	}

	return runID, nil
}

// WriteCSV writes the trajectory in the store's CSV layout.
func WriteCSV(w io.Writer, traj econ.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range traj {
		row := []string{
			strconv.Itoa(r.Epoch),
			formatFloat(r.Supply),
			formatFloat(r.Velocity),
			formatFloat(r.Output),
			formatFloat(r.Energy),
			formatFloat(r.Delta),
			formatFloat(r.Error),
			strconv.FormatBool(r.Stimulus),
			strconv.FormatBool(r.Demurrage),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns the metadata of every readable run under the base directory.
// Entries with missing or corrupt metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads a stored trajectory back. Malformed rows are skipped.
func (s *Store) LoadTrajectory(runID string) (econ.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "trajectory.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return econ.Trajectory{}, nil
	}

	traj := make(econ.Trajectory, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(csvHeader) {
			continue
		}

		epoch, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}

		vals := make([]float64, 6)
		ok := true
		for i := range vals {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}

		stimulus, _ := strconv.ParseBool(record[7])
		demurrage, _ := strconv.ParseBool(record[8])

		traj = append(traj, econ.StepResult{
			Epoch:     epoch,
			Supply:    vals[0],
			Velocity:  vals[1],
			Output:    vals[2],
			Energy:    vals[3],
			Delta:     vals[4],
			Error:     vals[5],
			Stimulus:  stimulus,
			Demurrage: demurrage,
		})
	}

	return traj, nil
}
