// Package acrobot implements the Acrobot classic control environment
// with discrete actions
package acrobot

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
	dt float64 = 0.2

	// Physical constants
	LinkLength1 float64 = 1.0 // Metres, length of link 1
	LinkLength2 float64 = 1.0 // Metres, length of link 2
	LinkMass1   float64 = 1.0 // Kg, mass of link 1
	LinkMass2   float64 = 1.0 // Kg, mass of link 2
	LinkCOMPos1 float64 = 0.5 // Metres, centre of mass link 1
	LinkCOMPos2 float64 = 0.5 // Metres, centre of mass link 2
	LinkMOI     float64 = 1.0 // Moments of inertia for both links
	MaxVel1     float64 = 4 * math.Pi
	MaxVel2     float64 = 9 * math.Pi
	Gravity     float64 = 9.8

	ObservationDims int = 4
	NumActions      int = 3
)

var (
	angleBounds     = r1.Interval{Min: -math.Pi, Max: math.Pi}
	velocity1Bounds = r1.Interval{Min: -MaxVel1, Max: MaxVel1}
	velocity2Bounds = r1.Interval{Min: -MaxVel2, Max: MaxVel2}
)

// Discrete implements the classic control environment Acrobot with
// discrete actions. A double linked pendulum hangs from a fixed base
// to which torque can be applied to swing the links around.
//
// Observations are 4-dimensional:
//
//	[θ1, θ2, θ̇1, θ̇2], where:
//	θ1 = angle of the first link measured from the negative y-axis
//	θ2 = angle of the second link relative to the first
//	θ̇1 = angular velocity of the first link
//	θ̇2 = angular velocity of the second link
//
// Angles are wrapped into [-π, π] and angular velocities are clipped to
// [-MaxVel1, MaxVel1] and [-MaxVel2, MaxVel2] respectively.
//
// Actions are the torque applied to the base:
//
//	Action		Torque
//	  0			 -1
//	  1			  0
//	  2			 +1
//
// Any other action results in an *environment.InvalidActionError.
type Discrete struct {
	env.Task
	lastStep ts.TimeStep
}

// NewDiscrete returns a new Acrobot environment with discrete actions
func NewDiscrete(t env.Task) (*Discrete, ts.TimeStep, error) {
	a := &Discrete{Task: t}
	step, err := a.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newDiscrete: %w", err)
	}
	return a, step, nil
}

// Reset begins a new episode and returns its first TimeStep
func (a *Discrete) Reset() (ts.TimeStep, error) {
	state := a.Start()
	if err := validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	a.lastStep = ts.New(ts.First, 0, state, 0)
	return a.lastStep, nil
}

// Step takes one environmental step given action and returns the next
// TimeStep and whether the episode has ended
func (a *Discrete) Step(action int) (ts.TimeStep, bool, error) {
	if err := env.ValidateAction(action, NumActions); err != nil {
		return ts.TimeStep{}, false, err
	}

	torque := float64(action) - 1.0
	newState := a.nextState(torque)

	reward := a.GetReward(a.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, newState, a.lastStep.Number+1)
	a.End(&nextStep)

	a.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// CurrentTimeStep returns the current timestep of the environment
func (a *Discrete) CurrentTimeStep() ts.TimeStep {
	return a.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (a *Discrete) ObservationSpec() env.Spec {
	return env.Spec{
		Shape: mat.NewVecDense(ObservationDims, nil),
		Type:  env.Observation,
		LowerBound: mat.NewVecDense(ObservationDims, []float64{
			angleBounds.Min, angleBounds.Min, velocity1Bounds.Min,
			velocity2Bounds.Min}),
		UpperBound: mat.NewVecDense(ObservationDims, []float64{
			angleBounds.Max, angleBounds.Max, velocity1Bounds.Max,
			velocity2Bounds.Max}),
		Cardinality: env.Continuous,
	}
}

// ActionSpec returns the action specification of the environment
func (a *Discrete) ActionSpec() env.Spec {
	return env.DiscreteActionSpec(NumActions)
}

// Close implements the environment.Environment interface
func (a *Discrete) Close() error { return nil }

func (a *Discrete) String() string {
	state := a.lastStep.Observation

	return fmt.Sprintf("Acrobot  |  θ1: %v  |  θ2: %v  |  θ̇1: %v  |  θ̇2: %v",
		state.AtVec(0), state.AtVec(1), state.AtVec(2), state.AtVec(3))
}

// nextState returns the state following the current one when torque
// is applied to the base
func (a *Discrete) nextState(torque float64) *mat.VecDense {
	s := a.lastStep.Observation

	// The torque is integrated as a constant fifth state component
	augmented := mat.NewVecDense(ObservationDims+1, nil)
	for i := 0; i < ObservationDims; i++ {
		augmented.SetVec(i, s.AtVec(i))
	}
	augmented.SetVec(ObservationDims, torque)

	integrated := rk4(dsDt, augmented, dt)

	ns := mat.NewVecDense(ObservationDims, nil)
	ns.SetVec(0, floatutils.WrapInterval(integrated.AtVec(0), angleBounds))
	ns.SetVec(1, floatutils.WrapInterval(integrated.AtVec(1), angleBounds))
	ns.SetVec(2, floatutils.ClipInterval(integrated.AtVec(2), velocity1Bounds))
	ns.SetVec(3, floatutils.ClipInterval(integrated.AtVec(3), velocity2Bounds))
	return ns
}

func validateState(state mat.Vector) error {
	if l := state.Len(); l != ObservationDims {
		return fmt.Errorf("invalid state dimension\n\twant(%v)\n\thave(%v)",
			ObservationDims, l)
	}
	bounds := []r1.Interval{angleBounds, angleBounds, velocity1Bounds,
		velocity2Bounds}
	for i, b := range bounds {
		if !floatutils.Contains(b, state.AtVec(i)) {
			return fmt.Errorf("state feature %v = %v is not within bounds %v",
				i, state.AtVec(i), b)
		}
	}
	return nil
}

// dsDt returns the time derivative of the augmented state [s, torque]
// following the dynamics in the RL book
func dsDt(augmented mat.Vector) []float64 {
	m1, m2 := LinkMass1, LinkMass2
	l1 := LinkLength1
	lc1, lc2 := LinkCOMPos1, LinkCOMPos2
	i1, i2 := LinkMOI, LinkMOI
	g := Gravity

	theta1, theta2 := augmented.AtVec(0), augmented.AtVec(1)
	dtheta1, dtheta2 := augmented.AtVec(2), augmented.AtVec(3)
	torque := augmented.AtVec(4)

	d1 := m1*lc1*lc1 + m2*(l1*l1+lc2*lc2+2*l1*lc2*math.Cos(theta2)) + i1 + i2
	d2 := m2*(lc2*lc2+l1*lc2*math.Cos(theta2)) + i2

	phi2 := m2 * lc2 * g * math.Cos(theta1+theta2-math.Pi/2.0)
	phi1 := -m2*l1*lc2*dtheta2*dtheta2*math.Sin(theta2) -
		2*m2*l1*lc2*dtheta2*dtheta1*math.Sin(theta2) +
		(m1*lc1+m2*l1)*g*math.Cos(theta1-math.Pi/2.0) + phi2

	ddtheta2 := (torque + d2/d1*phi1 -
		m2*l1*lc2*dtheta1*dtheta1*math.Sin(theta2) - phi2) /
		(m2*lc2*lc2 + i2 - d2*d2/d1)
	ddtheta1 := -(d2*ddtheta2 + phi1) / d1

	return []float64{dtheta1, dtheta2, ddtheta1, ddtheta2, 0.0}
}

// rk4 integrates y0 over a single step of length h with 4th order
// Runge-Kutta
func rk4(derivs func(mat.Vector) []float64, y0 *mat.VecDense,
	h float64) *mat.VecDense {
	n := y0.Len()
	k := func(scale float64, prev *mat.VecDense) *mat.VecDense {
		input := mat.NewVecDense(n, nil)
		input.CopyVec(y0)
		if prev != nil {
			input.AddScaledVec(y0, scale, prev)
		}
		return mat.NewVecDense(n, derivs(input))
	}

	k1 := k(0, nil)
	k2 := k(h/2, k1)
	k3 := k(h/2, k2)
	k4 := k(h, k3)

	sum := mat.NewVecDense(n, nil)
	sum.AddVec(k1, k4)
	sum.AddScaledVec(sum, 2.0, k2)
	sum.AddScaledVec(sum, 2.0, k3)

	out := mat.NewVecDense(n, nil)
	out.AddScaledVec(y0, h/6.0, sum)
	return out
}
