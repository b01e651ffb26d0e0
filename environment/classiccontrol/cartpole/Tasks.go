package cartpole

import (
	"math"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// FailAngle is the commonly used angle (12°) past which the pole
	// is considered fallen
	FailAngle float64 = 12 * 2 * math.Pi / 360
)

// Balance implements the classic control Cartpole Balance task. In this
// Task, the goal of the agent is to balance the pole on the cart in
// an upright position for as long as possible.
//
// The rewards are +1 for every timestep and -1 when the pole has fallen
// past the fail angle. Episodes end after a step limit or once the pole
// has fallen past the fail angle.
type Balance struct {
	env.Starter
	stepLimiter  *env.StepLimit
	angleLimiter *env.IntervalLimit
	failAngle    float64
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, episodeSteps int,
	failAngle float64) (*Balance, error) {
	legalAngles := []r1.Interval{{Min: -failAngle, Max: failAngle}}
	angleLimiter, err := env.NewIntervalLimit(legalAngles, []int{2},
		ts.TerminalStateReached)
	if err != nil {
		return nil, err
	}

	return &Balance{
		Starter:      s,
		stepLimiter:  env.NewStepLimit(episodeSteps),
		angleLimiter: angleLimiter,
		failAngle:    failAngle,
	}, nil
}

// End checks if a TimeStep is the last in an episode. A fallen pole
// takes precedence over the step limit.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.angleLimiter.End(t); end {
		return true
	}
	return b.stepLimiter.End(t)
}

// GetReward returns the reward for the transition into nextState
func (b *Balance) GetReward(_ mat.Vector, _ int, nextState mat.Vector) float64 {
	if b.AtGoal(nextState) {
		return 1.0
	}
	return -1.0
}

// AtGoal returns whether the pole is still upright in state
func (b *Balance) AtGoal(state mat.Vector) bool {
	return math.Abs(state.AtVec(2)) <= b.failAngle
}

// Min returns the minimum possible reward
func (b *Balance) Min() float64 { return -1.0 }

// Max returns the maximum possible reward
func (b *Balance) Max() float64 { return 1.0 }
