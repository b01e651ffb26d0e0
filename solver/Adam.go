package solver

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	StepSize float64
	Epsilon  float64 // Smoothing factor
	Beta1    float64
	Beta2    float64

	// Batch scales gradients by 1/Batch. A loss that already averages
	// over its batch, or a summed loss, should use 1.
	Batch int
}

// NewDefaultAdam returns a new Adam Solver with default hyperparameters
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, 1e-7, 0.9, 0.999, batchSize)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchSize int) (*Solver,
	error) {
	adam := AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
	}

	return newSolver(Adam, adam)
}

// Create returns a new Gorgonia Adam Solver as described by the
// AdamConfig
func (a AdamConfig) Create() G.Solver {
	return G.NewAdamSolver(
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	)
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}

// Validate checks the Adam hyperparameters
func (a AdamConfig) Validate() error {
	if a.StepSize <= 0 {
		return fmt.Errorf("adam: step size must be positive\n\thave(%v)",
			a.StepSize)
	}
	if a.Beta1 < 0 || a.Beta1 >= 1 {
		return fmt.Errorf("adam: β1 must be in [0, 1)\n\thave(%v)", a.Beta1)
	}
	if a.Beta2 < 0 || a.Beta2 >= 1 {
		return fmt.Errorf("adam: β2 must be in [0, 1)\n\thave(%v)", a.Beta2)
	}
	if a.Batch < 1 {
		return fmt.Errorf("adam: batch must be positive\n\thave(%v)",
			a.Batch)
	}
	return nil
}
