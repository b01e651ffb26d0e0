package acrobot

import (
	"math"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// GoalHeight is the classic control goal: the tip must swing one link
// length above the base
const GoalHeight float64 = LinkLength1

// SwingUp implements the classic control Acrobot task where the agent
// must swing the tip of the second link above some height.
//
// The task is cost-to-goal. A reward of -1 is given on every timestep
// except the one which moves the tip above the goal height, which is
// rewarded 0. Episodes end at the goal or after a step limit.
type SwingUp struct {
	env.Starter
	stepLimiter *env.StepLimit
	lineEnder   *env.FunctionEnder
	goalHeight  float64
}

// NewSwingUp returns a new SwingUp task
func NewSwingUp(s env.Starter, stepLimit int, goalHeight float64) *SwingUp {
	task := &SwingUp{
		Starter:     s,
		stepLimiter: env.NewStepLimit(stepLimit),
		goalHeight:  goalHeight,
	}
	task.lineEnder = env.NewFunctionEnder(task.AtGoal,
		ts.TerminalStateReached)
	return task
}

// AtGoal returns whether the tip of the acrobot is above the goal
// height in state
func (s *SwingUp) AtGoal(state mat.Vector) bool {
	theta1, theta2 := state.AtVec(0), state.AtVec(1)
	return -math.Cos(theta1)-math.Cos(theta1+theta2) > s.goalHeight
}

// End determines if a timestep is the last timestep in the episode.
// Reaching the goal takes precedence over the step limit.
func (s *SwingUp) End(t *ts.TimeStep) bool {
	if s.lineEnder.End(t) {
		return true
	}
	return s.stepLimiter.End(t)
}

// GetReward returns the reward for the transition into nextState
func (s *SwingUp) GetReward(_ mat.Vector, _ int, nextState mat.Vector) float64 {
	if s.AtGoal(nextState) {
		return s.Max()
	}
	return s.Min()
}

// Min returns the minimum attainable reward
func (s *SwingUp) Min() float64 { return -1.0 }

// Max returns the maximum attainable reward
func (s *SwingUp) Max() float64 { return 0.0 }
