// Package cartpole implements the Cartpole classic control environment
// with discrete actions
package cartpole

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnification of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Bounds (+/-) on state variables
	PositionBounds        float64 = 4.8
	SpeedBounds           float64 = math.MaxFloat64
	AngleBounds           float64 = math.Pi
	AngularVelocityBounds float64 = math.MaxFloat64

	ObservationDims int = 4
	NumActions      int = 3
)

var (
	positionBounds        = r1.Interval{Min: -PositionBounds, Max: PositionBounds}
	speedBounds           = r1.Interval{Min: -SpeedBounds, Max: SpeedBounds}
	angleBounds           = r1.Interval{Min: -AngleBounds, Max: AngleBounds}
	angularVelocityBounds = r1.Interval{Min: -AngularVelocityBounds,
		Max: AngularVelocityBounds}
)

// base tracks the physical state of a Cartpole and advances it given
// a horizontal force direction in [-1, 1]. The discrete action
// environment embeds a base and maps actions onto directions.
type base struct {
	env.Task
	lastStep ts.TimeStep

	renderDir string
	frame     int
}

func newBase(t env.Task, renderDir string) (*base, ts.TimeStep, error) {
	c := &base{Task: t, renderDir: renderDir}
	step, err := c.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return c, step, nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *base) Reset() (ts.TimeStep, error) {
	state := c.Start()
	if err := validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	c.lastStep = ts.New(ts.First, 0, state, 0)
	return c.lastStep, nil
}

// CurrentTimeStep returns the last TimeStep that occurred
func (c *base) CurrentTimeStep() ts.TimeStep {
	return c.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (c *base) ObservationSpec() env.Spec {
	lower := []float64{positionBounds.Min, speedBounds.Min,
		angleBounds.Min, angularVelocityBounds.Min}
	upper := []float64{positionBounds.Max, speedBounds.Max,
		angleBounds.Max, angularVelocityBounds.Max}

	return env.Spec{
		Shape:       mat.NewVecDense(ObservationDims, nil),
		Type:        env.Observation,
		LowerBound:  mat.NewVecDense(ObservationDims, lower),
		UpperBound:  mat.NewVecDense(ObservationDims, upper),
		Cardinality: env.Continuous,
	}
}

// Close implements the environment.Environment interface
func (c *base) Close() error { return nil }

// nextState computes the state that follows the current one when force
// is applied to the cart in the given direction
func (c *base) nextState(direction float64) *mat.VecDense {
	force := direction * ForceMag

	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	poleMassLength := PoleMass * HalfPoleLength
	temp := (force + poleMassLength*thDot*thDot*sinTheta) / TotalMass
	thAcc := (Gravity*sinTheta - cosTheta*temp) / (HalfPoleLength *
		(4.0/3.0 - PoleMass*cosTheta*cosTheta/TotalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/TotalMass

	// Euler integration
	x += Dt * xDot
	xDot += Dt * xAcc
	th += Dt * thDot
	thDot += Dt * thAcc

	// The cart stops dead at the edges of the track
	if !floatutils.Contains(positionBounds, x) {
		x = floatutils.ClipInterval(x, positionBounds)
		xDot = 0
	}
	xDot = floatutils.ClipInterval(xDot, speedBounds)
	th = normalizeAngle(th)
	thDot = floatutils.ClipInterval(thDot, angularVelocityBounds)

	return mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
}

// update moves the environment to newState after action was taken
func (c *base) update(action int, newState *mat.VecDense) (ts.TimeStep,
	bool, error) {
	reward := c.GetReward(c.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, newState, c.lastStep.Number+1)

	c.End(&nextStep)

	c.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

func (c *base) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	return fmt.Sprintf(msg, state.AtVec(0), state.AtVec(1), state.AtVec(2),
		state.AtVec(3))
}

func validateState(obs mat.Vector) error {
	if obs.Len() != ObservationDims {
		return fmt.Errorf("invalid state dimension\n\twant(%v)\n\thave(%v)",
			ObservationDims, obs.Len())
	}
	bounds := []r1.Interval{positionBounds, speedBounds, angleBounds,
		angularVelocityBounds}
	for i, b := range bounds {
		if !floatutils.Contains(b, obs.AtVec(i)) {
			return fmt.Errorf("state feature %v = %v is not within bounds %v",
				i, obs.AtVec(i), b)
		}
	}
	return nil
}

// normalizeAngle wraps th into (-π, π]
func normalizeAngle(th float64) float64 {
	th = math.Mod(th+math.Pi, 2*math.Pi)
	if th < 0 {
		th += 2 * math.Pi
	}
	th -= math.Pi
	if th == -math.Pi {
		return math.Pi
	}
	return th
}
