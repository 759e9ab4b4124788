package econ

import (
	"context"
	"errors"
	"math"
	"testing"
)

// quiet returns the reference parameters with noise disabled so trajectories
// are fully deterministic.
func quiet() Params {
	p := Default()
	p.NoiseStdDev = 0
	return p
}

func TestNewRejectsInvalidParams(t *testing.T) {
	if _, err := New(Params{}); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("got %v, want ErrInvalidParams", err)
	}
}

func TestSimulatorReferenceTrajectory(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	traj, err := s.Run(context.Background(), 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(traj) != 4 {
		t.Fatalf("got %d epochs, want 4", len(traj))
	}

	wantSupply := []float64{1200.0, 1560.0, 2028.0, 2636.4}
	wantVelocity := []float64{4.166666666666667, 3.667467948717949, 3.2280770771696248}

	for i, r := range traj {
		if r.Epoch != i {
			t.Errorf("epoch field = %d, want %d", r.Epoch, i)
		}
		if math.Abs(r.Supply-wantSupply[i]) > 1e-9 {
			t.Errorf("epoch %d: supply = %v, want %v", i, r.Supply, wantSupply[i])
		}
		if i < len(wantVelocity) && math.Abs(r.Velocity-wantVelocity[i]) > 1e-12 {
			t.Errorf("epoch %d: velocity = %v, want %v", i, r.Velocity, wantVelocity[i])
		}
	}

	first := traj[0]
	if math.Abs(first.Error-1.0) > 1e-12 {
		t.Errorf("epoch 0: error = %v, want 1.0", first.Error)
	}
	if math.Abs(first.Delta-0.20) > 1e-12 {
		t.Errorf("epoch 0: delta = %v, want 0.20", first.Delta)
	}
	if math.Abs(first.Output-4975.0) > 1e-9 {
		t.Errorf("epoch 0: output = %v, want 4975", first.Output)
	}
	if first.Stimulus || first.Demurrage {
		t.Errorf("epoch 0: regimes = (%v, %v), want both inactive", first.Stimulus, first.Demurrage)
	}

	second := traj[1]
	if !second.Stimulus {
		t.Error("epoch 1: stimulus inactive, want active")
	}
	if math.Abs(second.Error-1.833333333333333) > 1e-12 {
		t.Errorf("epoch 1: error = %v, want 1.8333...", second.Error)
	}
	if math.Abs(second.Output-5692.64375) > 1e-9 {
		t.Errorf("epoch 1: output = %v, want 5692.64375", second.Output)
	}
}

func TestSimulatorClampBeforeStimulus(t *testing.T) {
	// The controller output is clamped to [floor, ceiling] first; the stimulus
	// multiplier applies afterwards, so the recorded delta may exceed the
	// ceiling. Epoch 1 of the reference trajectory pins the order: 0.20 * 1.5.
	p := quiet()
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	traj, err := s.Run(context.Background(), 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := traj[1].Delta
	if got <= p.Ceiling {
		t.Fatalf("epoch 1: delta = %v, want above ceiling %v", got, p.Ceiling)
	}
	if math.Abs(got-p.Ceiling*p.StimulusMultiplier) > 1e-12 {
		t.Errorf("epoch 1: delta = %v, want %v", got, p.Ceiling*p.StimulusMultiplier)
	}
}

func TestSimulatorZeroGains(t *testing.T) {
	// With all gains zero the controller is inert: delta stays exactly 0,
	// supply exactly constant, and velocity decays with output.
	p := quiet()
	p.Kp, p.Ki, p.Kd = 0, 0, 0

	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	traj, err := s.Run(context.Background(), 4, nil)
	if err != nil {
		t.Fatal(err)
	}

	wantV := []float64{5.0, 4.975, 4.950125, 4.925374375}
	for i, r := range traj {
		if r.Delta != 0.0 {
			t.Errorf("epoch %d: delta = %v, want exactly 0", i, r.Delta)
		}
		if r.Supply != 1000.0 {
			t.Errorf("epoch %d: supply = %v, want exactly 1000", i, r.Supply)
		}
		if math.Abs(r.Velocity-wantV[i]) > 1e-9 {
			t.Errorf("epoch %d: velocity = %v, want %v", i, r.Velocity, wantV[i])
		}
	}
}

func TestSimulatorRegimeBoundaries(t *testing.T) {
	// Regime comparisons are strict, so measured velocity exactly at a
	// threshold activates nothing. Ratios 0.75 and 1.25 against target 6.0
	// give thresholds 4.5 and 7.5 that are exact in float64.
	tests := []struct {
		name          string
		initial       float64
		wantStimulus  bool
		wantDemurrage bool
	}{
		{"at stagnation threshold", 4.5, false, false},
		{"below stagnation threshold", 4.4999, true, false},
		{"at overheat threshold", 7.5, false, false},
		{"above overheat threshold", 7.5001, false, true},
		{"between thresholds", 6.0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := quiet()
			p.StagnationRatio = 0.75
			p.OverheatRatio = 1.25
			p.InitialVelocity = tt.initial

			s, err := New(p)
			if err != nil {
				t.Fatal(err)
			}

			r := s.Step(0)
			if r.Stimulus != tt.wantStimulus {
				t.Errorf("stimulus = %v, want %v", r.Stimulus, tt.wantStimulus)
			}
			if r.Demurrage != tt.wantDemurrage {
				t.Errorf("demurrage = %v, want %v", r.Demurrage, tt.wantDemurrage)
			}
		})
	}
}

func TestSimulatorShockEntersMeasurement(t *testing.T) {
	// A shock shifts the measured velocity for the regime checks and the
	// controller error, but the underlying velocity is recomputed from the
	// feedback identity in the same step.
	p := quiet()
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	r := s.Step(-4)
	if !r.Stimulus {
		t.Error("stimulus inactive under measured velocity 1.0")
	}
	if math.Abs(r.Error-5.0) > 1e-12 {
		t.Errorf("error = %v, want 5.0", r.Error)
	}
}

func TestSimulatorEnergyIdentity(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	traj, err := s.Run(context.Background(), 50, Shocks{20: -2})
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range traj {
		want := 0.5 * r.Supply * r.Velocity * r.Velocity
		if r.Energy != want {
			t.Errorf("epoch %d: energy = %v, want %v", r.Epoch, r.Energy, want)
		}
	}
}

func TestSimulatorCrashShock(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	traj, err := s.Run(context.Background(), 150, Shocks{50: -4})
	if err != nil {
		t.Fatal(err)
	}

	if v := traj[50].Velocity; v >= 4.8 {
		t.Errorf("velocity at shock epoch = %v, want below 4.8", v)
	}
	if !traj[51].Stimulus {
		t.Error("stimulus inactive the epoch after the crash")
	}
	// Epoch 0 measures 5.0, inside the band; every later epoch stagnates.
	if got := traj.StimulusEpochs(); got != 149 {
		t.Errorf("stimulus epochs = %d, want 149", got)
	}
	if got := traj.MinVelocity(); got != DefaultVelocityFloor {
		t.Errorf("min velocity = %v, want floor %v", got, DefaultVelocityFloor)
	}
	if got := traj.Final().Velocity; got != DefaultVelocityFloor {
		t.Errorf("final velocity = %v, want floor %v", got, DefaultVelocityFloor)
	}
	for _, m := range traj.Supplies() {
		if m <= 0 {
			t.Fatalf("supply %v not positive", m)
		}
	}
}

func TestSimulatorBubbleShock(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		s, err := New(quiet())
		if err != nil {
			t.Fatal(err)
		}

		traj, err := s.Run(context.Background(), 60, Shocks{50: 35})
		if err != nil {
			t.Fatal(err)
		}

		if got := traj.DemurrageEpochs(); got != 1 {
			t.Errorf("demurrage epochs = %d, want 1", got)
		}
		if !traj[50].Demurrage {
			t.Error("demurrage inactive at shock epoch")
		}
		if traj[50].Supply >= traj[49].Supply {
			t.Errorf("supply %v did not contract from %v", traj[50].Supply, traj[49].Supply)
		}
	})

	t.Run("sustained", func(t *testing.T) {
		s, err := New(quiet())
		if err != nil {
			t.Fatal(err)
		}

		traj, err := s.Run(context.Background(), 60, Shocks{50: 35, 51: 35, 52: 35})
		if err != nil {
			t.Fatal(err)
		}

		if got := traj.DemurrageEpochs(); got != 3 {
			t.Errorf("demurrage epochs = %d, want 3", got)
		}
		for epoch := 50; epoch <= 52; epoch++ {
			if !traj[epoch].Demurrage {
				t.Errorf("demurrage inactive at epoch %d", epoch)
			}
			if traj[epoch].Supply >= traj[epoch-1].Supply {
				t.Errorf("epoch %d: supply %v did not contract from %v",
					epoch, traj[epoch].Supply, traj[epoch-1].Supply)
			}
		}
	})
}

func TestSimulatorSeededReplay(t *testing.T) {
	p := Default()
	p.Seed = 42

	run := func() Trajectory {
		s, err := New(p)
		if err != nil {
			t.Fatal(err)
		}
		traj, err := s.Run(context.Background(), 100, Shocks{30: -3})
		if err != nil {
			t.Fatal(err)
		}
		return traj
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("epoch %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSimulatorReset(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	first := s.Step(0)
	s.Step(0)
	s.Step(-1)

	s.Reset()
	if s.Epoch() != 0 {
		t.Errorf("epoch after reset = %d, want 0", s.Epoch())
	}
	if s.Supply() != DefaultInitialSupply {
		t.Errorf("supply after reset = %v, want %v", s.Supply(), DefaultInitialSupply)
	}

	if got := s.Step(0); got != first {
		t.Errorf("replayed step = %+v, want %+v", got, first)
	}
}

func TestSimulatorAccessors(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	if s.Supply() != DefaultInitialSupply || s.Velocity() != DefaultInitialVelocity {
		t.Errorf("initial state = (%v, %v)", s.Supply(), s.Velocity())
	}
	if s.Price() != DefaultInitialPrice || s.Output() != DefaultInitialOutput {
		t.Errorf("initial price/output = (%v, %v)", s.Price(), s.Output())
	}
	if got := s.Energy(); got != 0.5*DefaultInitialSupply*DefaultInitialVelocity*DefaultInitialVelocity {
		t.Errorf("initial energy = %v", got)
	}

	s.Step(0)
	if s.Epoch() != 1 {
		t.Errorf("epoch after one step = %d, want 1", s.Epoch())
	}
}

func TestSimulatorRunErrors(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Run(context.Background(), 0, nil); !errors.Is(err, ErrInvalidEpochs) {
		t.Errorf("epochs=0: got %v, want ErrInvalidEpochs", err)
	}
	if _, err := s.Run(context.Background(), -5, nil); !errors.Is(err, ErrInvalidEpochs) {
		t.Errorf("epochs=-5: got %v, want ErrInvalidEpochs", err)
	}
}

func TestSimulatorRunCancellation(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	traj, err := s.Run(ctx, 100, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if len(traj) != 0 {
		t.Errorf("got %d epochs before cancellation, want 0", len(traj))
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	s, err := New(quiet())
	if err != nil {
		t.Fatal(err)
	}

	var seen int
	err = s.RunWithCallback(context.Background(), 100, nil, func(r StepResult) bool {
		if r.Epoch != seen {
			t.Errorf("callback epoch = %d, want %d", r.Epoch, seen)
		}
		seen++
		return seen < 10
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != 10 {
		t.Errorf("callback ran %d times, want 10", seen)
	}
}

func TestGaussianNoiseSeeded(t *testing.T) {
	a := NewGaussianNoise(0.02, 7)
	b := NewGaussianNoise(0.02, 7)

	for i := 0; i < 20; i++ {
		x, y := a.Sample(), b.Sample()
		if x != y {
			t.Fatalf("sample %d diverged: %v vs %v", i, x, y)
		}
	}
}

func TestNoNoise(t *testing.T) {
	var n NoNoise
	for i := 0; i < 5; i++ {
		if got := n.Sample(); got != 0 {
			t.Fatalf("sample = %v, want 0", got)
		}
	}
}
