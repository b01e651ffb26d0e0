package cartpole

import (
	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
)

// Discrete implements the classic control environment Cartpole with
// discrete actions. In this environment, a pole is attached to a cart,
// which can move horizontally. Gravity pulls the pole downwards so
// that balancing it in an upright position is very difficult.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity. Upon reaching a position
// boundary, the velocity of the cart is set to 0. The pole's angle is
// kept in (-π, π].
//
// Actions are discrete, consisting of the direction to apply
// horizontal force to the cart:
//
//	Action		Meaning
//	  0			Apply force left
//	  1			Do nothing
//	  2			Apply force right
//
// Any other action results in an *environment.InvalidActionError.
type Discrete struct {
	*base
}

// NewDiscrete constructs a new Cartpole environment with discrete
// actions. Frames are written to renderDir when Render is called.
func NewDiscrete(t env.Task, renderDir string) (*Discrete, ts.TimeStep,
	error) {
	base, firstStep, err := newBase(t, renderDir)
	if err != nil {
		return nil, ts.TimeStep{}, err
	}

	return &Discrete{base}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (c *Discrete) ActionSpec() env.Spec {
	return env.DiscreteActionSpec(NumActions)
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended.
func (c *Discrete) Step(action int) (ts.TimeStep, bool, error) {
	if err := env.ValidateAction(action, NumActions); err != nil {
		return ts.TimeStep{}, false, err
	}

	// Convert action (0, 1, 2) to a direction (-1, 0, 1)
	direction := float64(action - 1)

	return c.update(action, c.nextState(direction))
}
