// Package gym provides access to OpenAI Gym environments with discrete
// action spaces.
//
// Environments only work with their default tasks and episode cutoffs.
// This is made possible through the Go bindings for OpenAI Gym, found
// at https://github.com/samuelfneumann/GoGym, which require a Python
// installation with gym available.
package gym

import (
	"fmt"

	"github.com/samuelfneumann/gogym"
	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// GymEnv implements access to an OpenAI Gym environment using GoGym
type GymEnv struct {
	gogym.Environment

	numActions  int
	currentStep ts.TimeStep
}

// New returns a new GymEnv with the given name, which must be a legal
// name from the OpenAI Gym suite with a discrete action space.
func New(name string, seed uint64) (*GymEnv, ts.TimeStep, error) {
	goGymEnv, err := gogym.Make(name)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not create "+
			"environment: %w", err)
	}

	numActions, err := discreteActions(goGymEnv.ActionSpace())
	if err != nil {
		goGymEnv.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v: %w", name, err)
	}

	goGymEnv.Seed(int(seed))
	gymEnv := &GymEnv{
		Environment: goGymEnv,
		numActions:  numActions,
	}

	step, err := gymEnv.Reset()
	if err != nil {
		goGymEnv.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return gymEnv, step, nil
}

// Step takes a single environmental step
func (g *GymEnv) Step(action int) (ts.TimeStep, bool, error) {
	if err := env.ValidateAction(action, g.numActions); err != nil {
		return ts.TimeStep{}, false, err
	}

	a := mat.NewVecDense(1, []float64{float64(action)})
	obs, reward, done, err := g.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not step "+
			"GoGym environment: %w", err)
	}

	t := ts.New(ts.Mid, reward, obs, g.currentStep.Number+1)
	if done {
		// Gym does not report why an episode ended
		t.SetEnd(ts.TerminalStateReached)
	}
	g.currentStep = t

	return t, done, nil
}

// Reset resets the environment to some starting state
func (g *GymEnv) Reset() (ts.TimeStep, error) {
	obs, err := g.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not reset "+
			"environment: %w", err)
	}

	g.currentStep = ts.New(ts.First, 0, obs, 0)
	return g.currentStep, nil
}

// CurrentTimeStep returns the current timestep in the environment
func (g *GymEnv) CurrentTimeStep() ts.TimeStep {
	return g.currentStep
}

// ObservationSpec returns the observation spec of the environment
func (g *GymEnv) ObservationSpec() env.Spec {
	space := g.ObservationSpace()
	low := space.Low()[0]
	high := space.High()[0]

	return env.Spec{
		Shape:       mat.NewVecDense(low.Len(), nil),
		Type:        env.Observation,
		LowerBound:  low,
		UpperBound:  high,
		Cardinality: env.Continuous,
	}
}

// ActionSpec returns the action specification of the environment
func (g *GymEnv) ActionSpec() env.Spec {
	return env.DiscreteActionSpec(g.numActions)
}

// Close performs resource cleanup after the environment is no longer
// needed
func (g *GymEnv) Close() error {
	g.Environment.Close()
	return nil
}

// discreteActions returns the number of actions in a GoGym discrete
// action space
func discreteActions(space interface{}) (int, error) {
	discrete, ok := space.(*gogym.DiscreteSpace)
	if !ok {
		return 0, fmt.Errorf("action space %T is not discrete", space)
	}
	return int(discrete.High()[0].AtVec(0)) + 1, nil
}
