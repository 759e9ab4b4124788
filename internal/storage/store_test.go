package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kelswick/monsim/internal/econ"
)

func sampleTrajectory() econ.Trajectory {
	return econ.Trajectory{
		{Epoch: 0, Supply: 1200, Velocity: 4.166667, Output: 4975, Energy: 10416.68, Delta: 0.2, Error: 1.0},
		{Epoch: 1, Supply: 1560, Velocity: 3.667468, Output: 5692.64, Energy: 10490.9, Delta: 0.3, Error: 1.833333, Stimulus: true},
		{Epoch: 2, Supply: 1544.44, Velocity: 7.9, Output: 5000, Energy: 48193.4, Delta: -0.05, Error: -1.9, Demurrage: true},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p := econ.Default()
	p.Seed = 42
	metrics := map[string]float64{"mean_energy": 23033.66}

	runID, err := st.Save("baseline", p, sampleTrajectory(), metrics)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}
	if !strings.HasPrefix(runID, "baseline_") {
		t.Errorf("run id %q does not carry the run name", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "baseline" {
		t.Errorf("expected name 'baseline', got %q", meta.Name)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Epochs != 3 {
		t.Errorf("expected 3 epochs, got %d", meta.Epochs)
	}
	if meta.Params.Kp != p.Kp {
		t.Errorf("expected kp %v, got %v", p.Kp, meta.Params.Kp)
	}
	if meta.Metrics["mean_energy"] != 23033.66 {
		t.Errorf("expected mean_energy 23033.66, got %f", meta.Metrics["mean_energy"])
	}
}

func TestStoreLoadTrajectory(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	want := sampleTrajectory()
	runID, err := st.Save("roundtrip", econ.Default(), want, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i].Epoch != want[i].Epoch {
			t.Errorf("row %d: epoch %d, want %d", i, got[i].Epoch, want[i].Epoch)
		}
		if diff := got[i].Supply - want[i].Supply; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("row %d: supply %v, want %v", i, got[i].Supply, want[i].Supply)
		}
		if got[i].Stimulus != want[i].Stimulus || got[i].Demurrage != want[i].Demurrage {
			t.Errorf("row %d: flags (%v,%v), want (%v,%v)", i,
				got[i].Stimulus, got[i].Demurrage, want[i].Stimulus, want[i].Demurrage)
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("first", econ.Default(), sampleTrajectory(), nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListSkipsCorrupt(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := st.Save("good", econ.Default(), sampleTrajectory(), nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	badDir := filepath.Join(dir, "bad_run")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "metadata.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected corrupt run to be skipped, got %d runs", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("layout", econ.Default(), sampleTrajectory(), nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(dir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "trajectory.csv")); os.IsNotExist(err) {
		t.Error("trajectory.csv not created")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTrajectory()); err != nil {
		t.Fatalf("write csv failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "epoch,supply,velocity,output,energy,delta,error,stimulus,demurrage" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0,1200.000000,") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "true,false") {
		t.Errorf("stimulus flag not serialized in %q", lines[2])
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	data := NewExportData("baseline", econ.Default(), sampleTrajectory(),
		map[string]float64{"supply_growth": 0.25})

	if err := ExportJSON(path, data); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if got.Name != "baseline" || got.Epochs != 3 {
		t.Errorf("roundtrip mismatch: name %q epochs %d", got.Name, got.Epochs)
	}
	if len(got.Trajectory) != 3 {
		t.Errorf("expected 3 trajectory rows, got %d", len(got.Trajectory))
	}
	if got.Trajectory[1].Stimulus != true {
		t.Error("stimulus flag lost in export")
	}
}
