// Package agent defines the contract between a value-based learning
// agent and the loop which drives it through an environment
package agent

import (
	"github.com/samuelfneumann/godqn/network"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Learner implements an off-policy value-based learning algorithm which
// selects actions with an exploration policy, stores its experience and
// learns from it against a separately owned target network.
//
// The target network is owned by the caller and only ever changed
// through CopyToTarget. A Learner is not safe for concurrent use.
type Learner interface {
	// SelectAction returns the action to take in state, exploring
	// with probability epsilon
	SelectAction(state mat.Vector, epsilon float64) (int, error)

	// StoreExperience records a transition for later training
	StoreExperience(t ts.Transition) error

	// TrainStep performs a single update using target to compute
	// bootstrap targets. It does nothing until enough experience has
	// been stored.
	TrainStep(target *network.Approximator) error

	// CopyToTarget overwrites the parameters of target with the
	// Learner's current parameters
	CopyToTarget(target *network.Approximator) error

	// NewTarget returns a target network initialised to the Learner's
	// current parameters
	NewTarget() (*network.Approximator, error)
}
