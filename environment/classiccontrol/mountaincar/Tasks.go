package mountaincar

import (
	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

const (
	// Commonly used goal position
	GoalPosition float64 = 0.45
)

// Goal implements the classic control task of reaching a goal on
// Mountain Car.
//
// Rewards are -1 on each timestep and 0 for the action which
// transitions the car to the goal. Episodes end after a step limit or
// when the car reaches the goal state.
type Goal struct {
	env.Starter
	goalEnder *env.FunctionEnder
	stepEnder *env.StepLimit
	goalX     float64
}

// NewGoal creates and returns a new Goal task given a Starter, the
// maximum number of episode steps and the goal x position.
func NewGoal(s env.Starter, episodeSteps int, goalX float64) *Goal {
	g := &Goal{
		Starter:   s,
		stepEnder: env.NewStepLimit(episodeSteps),
		goalX:     goalX,
	}
	g.goalEnder = env.NewFunctionEnder(g.AtGoal, ts.TerminalStateReached)

	return g
}

// AtGoal returns whether state is at or beyond the goal
func (g *Goal) AtGoal(state mat.Vector) bool {
	return state.AtVec(0) >= g.goalX
}

// GetReward returns the reward for the transition into nextState
func (g *Goal) GetReward(_ mat.Vector, _ int, nextState mat.Vector) float64 {
	if g.AtGoal(nextState) {
		return 0.0
	}
	return -1.0
}

// Min returns the minimum attainable reward over all timesteps
func (g *Goal) Min() float64 { return -1.0 }

// Max returns the maximum attainable reward over all timesteps
func (g *Goal) Max() float64 { return 0.0 }

// End ends the episode at the goal or at the step limit
func (g *Goal) End(t *ts.TimeStep) bool {
	if end := g.goalEnder.End(t); end {
		return true
	}
	return g.stepEnder.End(t)
}
