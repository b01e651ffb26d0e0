package mountaincar

import (
	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
)

// Discrete implements the classic control Mountain Car environment.
// In this environment, the agent controls a car in a valley between two
// hills. The car is underpowered and cannot drive up the hill unless
// it rocks back and forth from hill to hill, using its momentum to
// gradually climb higher.
//
// Actions determine in which direction to apply full accelerating
// force to the car:
//
//	Action	Meaning
//	  0		Accelerate left
//	  1		Do nothing
//	  2		Accelerate right
type Discrete struct {
	*base
}

// NewDiscrete creates a new Discrete action Mountain Car environment
// with the argument task
func NewDiscrete(t env.Task) (*Discrete, ts.TimeStep, error) {
	baseEnv, firstStep, err := newBase(t)
	if err != nil {
		return nil, ts.TimeStep{}, err
	}

	return &Discrete{baseEnv}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (m *Discrete) ActionSpec() env.Spec {
	return env.DiscreteActionSpec(NumActions)
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended.
func (m *Discrete) Step(action int) (ts.TimeStep, bool, error) {
	if err := env.ValidateAction(action, NumActions); err != nil {
		return ts.TimeStep{}, false, err
	}

	force := float64(action) - 1.0
	return m.update(action, m.nextState(force))
}
