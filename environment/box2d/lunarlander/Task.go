package lunarlander

import (
	"math"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Land implements the task of landing the lander on the helipad.
//
// Rewards are shaped by the distance to the helipad, the speed and tilt
// of the lander, and leg contact with the ground. Firing the main
// engine costs 0.3 per frame and the side engines 0.03. Crashing or
// flying off screen is rewarded -100 and coming to rest +100, both of
// which end the episode.
//
// A Land task can only be used by a single environment.
type Land struct {
	env.Starter
	stepLimit *env.StepLimit

	prevShaping *float64
	lander      *Discrete
}

// NewLand returns a new Land task with episodes cut off after cutoff
// steps
func NewLand(s env.Starter, cutoff int) *Land {
	return &Land{Starter: s, stepLimit: env.NewStepLimit(cutoff)}
}

func (l *Land) register(lander *Discrete) {
	l.lander = lander
}

func (l *Land) reset() {
	l.prevShaping = nil
}

// shape returns the shaping potential of state and records it as the
// previous potential
func (l *Land) shape(state mat.Vector) float64 {
	shaping := -100*math.Hypot(state.AtVec(0), state.AtVec(1)) -
		100*math.Hypot(state.AtVec(2), state.AtVec(3)) -
		100*math.Abs(state.AtVec(4)) +
		10*state.AtVec(6) +
		10*state.AtVec(7)

	prev := shaping
	if l.prevShaping != nil {
		prev = *l.prevShaping
	}
	l.prevShaping = &shaping
	return shaping - prev
}

// crashed returns whether the lander touched the ground with its body
// or left the screen
func (l *Land) crashed(state mat.Vector) bool {
	return l.lander.gameOver || math.Abs(state.AtVec(0)) >= 1.0
}

// GetReward returns the reward for the transition into nextState
func (l *Land) GetReward(_ mat.Vector, _ int, nextState mat.Vector) float64 {
	reward := l.shape(nextState)
	reward -= l.lander.mPower * 0.30
	reward -= l.lander.sPower * 0.03

	if l.crashed(nextState) {
		return -100
	} else if l.AtGoal(nextState) {
		return 100
	}
	return reward
}

// AtGoal returns whether the lander has come to rest
func (l *Land) AtGoal(mat.Vector) bool {
	return !l.lander.awake()
}

// End ends the episode when the lander crashes, comes to rest, or
// reaches the step limit
func (l *Land) End(t *ts.TimeStep) bool {
	if l.crashed(t.Observation) || l.AtGoal(t.Observation) {
		t.SetEnd(ts.TerminalStateReached)
		return true
	}
	return l.stepLimit.End(t)
}

// Min returns the minimum attainable reward
func (l *Land) Min() float64 { return -100 }

// Max returns the maximum attainable reward
func (l *Land) Max() float64 { return 100 }
