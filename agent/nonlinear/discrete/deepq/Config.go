package deepq

import (
	"fmt"

	"github.com/samuelfneumann/godqn/agent"
	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/expreplay"
	"github.com/samuelfneumann/godqn/initwfn"
	"github.com/samuelfneumann/godqn/network"
	"github.com/samuelfneumann/godqn/solver"
)

// Reduction determines how the squared errors of a batch are combined
// into a single loss
type Reduction string

const (
	Sum  Reduction = "sum"
	Mean Reduction = "mean"
)

// Config implements a configuration for a DeepQ agent
type Config struct {
	Hidden      []int                 // Hidden layer sizes in neural net
	Biases      []bool                // Whether each layer should have a bias
	Activations []*network.Activation // Activation of each hidden layer
	Solver      *solver.Solver        // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	Gamma     float64 // Discount factor
	BatchSize int     // Transitions per gradient step
	Loss      Reduction

	// Experience replay parameters
	ExpReplay expreplay.Config
}

// DefaultConfig returns a Config with two hidden layers of 200 tanh
// units, N(0, 0.05) weights, Adam with step size 0.01, γ = 0.99,
// batches of 32 and a replay buffer of 10000 transitions which is
// trained from once it holds 100.
func DefaultConfig() (Config, error) {
	adam, err := solver.NewDefaultAdam(1e-2, 1)
	if err != nil {
		return Config{}, fmt.Errorf("defaultConfig: %w", err)
	}
	init, err := initwfn.NewDefaultGaussian()
	if err != nil {
		return Config{}, fmt.Errorf("defaultConfig: %w", err)
	}

	return Config{
		Hidden:      []int{200, 200},
		Biases:      []bool{true, true},
		Activations: []*network.Activation{network.TanH(), network.TanH()},
		Solver:      adam,
		InitWFn:     init,
		Gamma:       0.99,
		BatchSize:   32,
		Loss:        Sum,
		ExpReplay: expreplay.Config{
			Capacity:    10000,
			MinCapacity: 100,
		},
	}, nil
}

// NetworkConfig returns the topology of the value network
func (c Config) NetworkConfig() network.Config {
	return network.Config{
		Hidden:      c.Hidden,
		Biases:      c.Biases,
		Activations: c.Activations,
	}
}

// Validate checks a Config for invalid values
func (c Config) Validate() error {
	if err := c.NetworkConfig().Validate(); err != nil {
		return fmt.Errorf("deepq: %w", err)
	}
	if c.Solver == nil {
		return fmt.Errorf("deepq: no solver specified")
	}
	if c.InitWFn == nil {
		return fmt.Errorf("deepq: no weight initializer specified")
	}
	if c.Gamma <= 0 || c.Gamma >= 1 {
		return fmt.Errorf("deepq: invalid discount factor γ ∉ (0, 1)"+
			"\n\thave(%v)", c.Gamma)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("deepq: invalid batch size\n\twant(>0)\n\thave(%v)",
			c.BatchSize)
	}
	if c.Loss != Sum && c.Loss != Mean {
		return fmt.Errorf("deepq: invalid loss reduction %q", c.Loss)
	}
	if err := c.ExpReplay.Validate(); err != nil {
		return fmt.Errorf("deepq: %w", err)
	}
	return nil
}

// CreateLearner creates a DeepQ learner for the environment e
func (c Config) CreateLearner(e env.Environment,
	seed uint64) (agent.Learner, error) {
	d, err := New(e, c, seed)
	if err != nil {
		return nil, err
	}
	return d, nil
}
