package agent

import (
	"github.com/samuelfneumann/godqn/environment"
)

// Config represents a configuration for creating a Learner
type Config interface {
	// CreateLearner creates the Learner that the Config describes for
	// the given environment
	CreateLearner(env environment.Environment, seed uint64) (Learner, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}
