package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/kelswick/monsim/internal/econ"
)

// ExportData is the JSON document written by the export commands.
type ExportData struct {
	Name       string             `json:"name"`
	Epochs     int                `json:"epochs"`
	Params     econ.Params        `json:"params"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Trajectory econ.Trajectory    `json:"trajectory"`
}

func NewExportData(name string, p econ.Params, traj econ.Trajectory, metrics map[string]float64) ExportData {
	return ExportData{
		Name:       name,
		Epochs:     len(traj),
		Params:     p,
		Metrics:    metrics,
		Trajectory: traj,
	}
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return writeJSON(os.Stdout, data)
}

func writeJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
