// Package environment outlines the interfaces and structs needed to
// implement concrete environments with discrete actions.
package environment

import (
	"fmt"

	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode ends. End marks t as the last
// TimeStep of its episode when appropriate and reports whether it did.
type Ender interface {
	End(t *ts.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment, together with how episodes start and end.
type Task interface {
	Starter
	Ender

	GetReward(state mat.Vector, action int, nextState mat.Vector) float64
	AtGoal(state mat.Vector) bool
	Min() float64 // Minimum attainable reward
	Max() float64 // Maximum attainable reward
}

// Environment implements a simulated environment with a discrete
// action set enumerated from 0.
type Environment interface {
	// Reset begins a new episode and returns its first TimeStep
	Reset() (ts.TimeStep, error)

	// Step applies action and returns the next TimeStep and whether
	// it ends the episode. Actions outside the action set produce an
	// *InvalidActionError.
	Step(action int) (ts.TimeStep, bool, error)

	CurrentTimeStep() ts.TimeStep
	ObservationSpec() Spec
	ActionSpec() Spec
	Close() error
}

// Renderer is implemented by environments that can draw their current
// state
type Renderer interface {
	Render() error
}

// InvalidActionError is returned when an action outside of
// [0, NumActions) is supplied
type InvalidActionError struct {
	Action     int
	NumActions int
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action %v ∉ [0, %v)", e.Action, e.NumActions)
}

// ValidateAction returns an *InvalidActionError if action is not in
// [0, numActions)
func ValidateAction(action, numActions int) error {
	if action < 0 || action >= numActions {
		return &InvalidActionError{Action: action, NumActions: numActions}
	}
	return nil
}
