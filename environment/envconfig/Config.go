// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/environment/box2d/lunarlander"
	"github.com/samuelfneumann/godqn/environment/classiccontrol/acrobot"
	"github.com/samuelfneumann/godqn/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/godqn/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/godqn/environment/gym"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	MountainCar EnvName = "MountainCar"
	Cartpole    EnvName = "Cartpole"
	Acrobot     EnvName = "Acrobot"
	LunarLander EnvName = "LunarLander"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment			Task
//	MountainCar			Goal
//	Cartpole			Balance
//	Acrobot				SwingUp
//	LunarLander			Land
type TaskName string

// Tasks available for configuration
const (
	Goal    TaskName = "Goal"
	Balance TaskName = "Balance"
	SwingUp TaskName = "SwingUp"
	Land    TaskName = "Land"
)

// Config implements a specific configuration of a specific environment
// and specific task. If Gym is set, Environment is interpreted as an
// OpenAI Gym environment ID such as "CartPole-v1" and Task and
// EpisodeCutoff are ignored.
type Config struct {
	Environment   EnvName
	Task          TaskName
	EpisodeCutoff uint
	Gym           bool

	// RenderDir is where image based renderers write their frames
	RenderDir string `json:",omitempty"`
}

// Validate checks that the Config names a known environment and task
func (c Config) Validate() error {
	if c.Gym {
		if c.Environment == "" {
			return fmt.Errorf("validate: gym environment ID must be set")
		}
		return nil
	}
	if c.EpisodeCutoff == 0 {
		return fmt.Errorf("validate: episode cutoff must be positive")
	}

	switch c.Environment {
	case MountainCar:
		if c.Task != Goal {
			return fmt.Errorf("validate: MountainCar has no task %v", c.Task)
		}
	case Cartpole:
		if c.Task != Balance {
			return fmt.Errorf("validate: Cartpole has no task %v", c.Task)
		}
	case Acrobot:
		if c.Task != SwingUp {
			return fmt.Errorf("validate: Acrobot has no task %v", c.Task)
		}
	case LunarLander:
		if c.Task != Land {
			return fmt.Errorf("validate: LunarLander has no task %v", c.Task)
		}
	default:
		return fmt.Errorf("validate: no such environment %v", c.Environment)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	if c.Gym {
		e, step, err := gym.New(string(c.Environment), seed)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
		return e, step, nil
	}

	switch c.Environment {
	case MountainCar:
		return CreateMountainCar(int(c.EpisodeCutoff), seed)
	case Acrobot:
		return CreateAcrobot(int(c.EpisodeCutoff), seed)
	case LunarLander:
		return CreateLunarLander(int(c.EpisodeCutoff), seed, c.RenderDir)
	default:
		return CreateCartpole(int(c.EpisodeCutoff), seed, c.RenderDir)
	}
}

// CreateMountainCar is a factory for creating the MountainCar
// environment with the Goal task and default parameters.
func CreateMountainCar(cutoff int, seed uint64) (env.Environment,
	ts.TimeStep, error) {
	position := r1.Interval{Min: -0.6, Max: -0.4}
	velocity := r1.Interval{Min: 0.0, Max: 0.0}

	s := env.NewUniformStarter([]r1.Interval{position, velocity}, seed)
	task := mountaincar.NewGoal(s, cutoff, mountaincar.GoalPosition)

	m, step, err := mountaincar.NewDiscrete(task)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createMountainCar: %w", err)
	}
	return m, step, nil
}

// CreateCartpole is a factory for creating the Cartpole environment
// with the Balance task and default parameters.
func CreateCartpole(cutoff int, seed uint64, renderDir string) (
	env.Environment, ts.TimeStep, error) {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds, bounds},
		seed)

	task, err := cartpole.NewBalance(s, cutoff, cartpole.FailAngle)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %w", err)
	}
	c, step, err := cartpole.NewDiscrete(task, renderDir)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %w", err)
	}
	return c, step, nil
}

// CreateAcrobot is a factory for creating the Acrobot environment with
// the SwingUp task and default parameters.
func CreateAcrobot(cutoff int, seed uint64) (env.Environment, ts.TimeStep,
	error) {
	bounds := r1.Interval{Min: -0.1, Max: 0.1}
	s := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds, bounds},
		seed)
	task := acrobot.NewSwingUp(s, cutoff, acrobot.GoalHeight)

	a, step, err := acrobot.NewDiscrete(task)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createAcrobot: %w", err)
	}
	return a, step, nil
}

// CreateLunarLander is a factory for creating the LunarLander
// environment with the Land task. The lander starts at the top centre
// of the screen and is pushed by a random initial force.
func CreateLunarLander(cutoff int, seed uint64, renderDir string) (
	env.Environment, ts.TimeStep, error) {
	s := env.NewUniformStarter([]r1.Interval{
		{Min: lunarlander.InitialX, Max: lunarlander.InitialX},
		{Min: lunarlander.InitialY, Max: lunarlander.InitialY},
		{Min: lunarlander.InitialRandom, Max: lunarlander.InitialRandom},
	}, seed)
	task := lunarlander.NewLand(s, cutoff)

	l, step, err := lunarlander.NewDiscrete(task, seed, renderDir)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createLunarLander: %w", err)
	}
	return l, step, nil
}
