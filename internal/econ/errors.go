package econ

import "errors"

// Domain errors for simulation construction and runs.
var (
	// ErrInvalidParams indicates a parameter set that fails validation.
	ErrInvalidParams = errors.New("econ: invalid parameters")

	// ErrInvalidEpochs indicates a non-positive epoch count.
	ErrInvalidEpochs = errors.New("econ: epoch count must be positive")
)
