package econ

import "math/rand"

// Noise perturbs the velocity once per epoch. Implementations must be
// deterministic for a fixed seed so trajectories can be replayed.
type Noise interface {
	Sample() float64
}

// GaussianNoise draws zero-mean perturbations with a fixed standard
// deviation from a seeded generator.
type GaussianNoise struct {
	rng   *rand.Rand
	sigma float64
}

func NewGaussianNoise(sigma float64, seed int64) *GaussianNoise {
	return &GaussianNoise{
		rng:   rand.New(rand.NewSource(seed)),
		sigma: sigma,
	}
}

func (g *GaussianNoise) Sample() float64 {
	return g.rng.NormFloat64() * g.sigma
}

// NoNoise disables stochastic perturbation entirely.
type NoNoise struct{}

func (NoNoise) Sample() float64 { return 0 }
