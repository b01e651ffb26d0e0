// Package mountaincar implements the classic control environment
// Mountain Car with discrete actions
package mountaincar

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/godqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	MinPosition float64 = -1.2
	MaxPosition float64 = 0.6
	MaxSpeed    float64 = 0.07
	Power       float64 = 0.0015 // Engine power
	Gravity     float64 = 0.0025

	ObservationDims int = 2
	NumActions      int = 3
)

var (
	positionBounds = r1.Interval{Min: MinPosition, Max: MaxPosition}
	speedBounds    = r1.Interval{Min: -MaxSpeed, Max: MaxSpeed}
)

// base tracks the Task and current state of Mountain Car. The state is
// continuous and consists of the car's x position and velocity.
type base struct {
	env.Task
	lastStep ts.TimeStep
	out      io.Writer
}

func newBase(t env.Task) (*base, ts.TimeStep, error) {
	m := &base{Task: t, out: os.Stdout}
	step, err := m.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return m, step, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (m *base) ObservationSpec() env.Spec {
	return env.Spec{
		Shape: mat.NewVecDense(ObservationDims, nil),
		Type:  env.Observation,
		LowerBound: mat.NewVecDense(ObservationDims,
			[]float64{positionBounds.Min, speedBounds.Min}),
		UpperBound: mat.NewVecDense(ObservationDims,
			[]float64{positionBounds.Max, speedBounds.Max}),
		Cardinality: env.Continuous,
	}
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (m *base) Reset() (ts.TimeStep, error) {
	state := m.Start()
	if err := validateState(state); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	m.lastStep = ts.New(ts.First, 0, state, 0)

	return m.lastStep, nil
}

// CurrentTimeStep returns the last TimeStep that occurred
func (m *base) CurrentTimeStep() ts.TimeStep {
	return m.lastStep
}

// Close implements the environment.Environment interface
func (m *base) Close() error { return nil }

// nextState calculates the next state given the force applied to the
// car in [-1, 1]
func (m *base) nextState(force float64) *mat.VecDense {
	state := m.lastStep.Observation
	position, velocity := state.AtVec(0), state.AtVec(1)

	velocity += force*Power - Gravity*math.Cos(3*position)
	velocity = floatutils.ClipInterval(velocity, speedBounds)

	position += velocity
	position = floatutils.ClipInterval(position, positionBounds)

	// The left wall is inelastic
	if position <= positionBounds.Min && velocity < 0 {
		velocity = 0
	}

	return mat.NewVecDense(ObservationDims, []float64{position, velocity})
}

// update moves the environment to newState, computing the reward and
// whether the episode has ended
func (m *base) update(action int, newState *mat.VecDense) (ts.TimeStep,
	bool, error) {
	reward := m.GetReward(m.lastStep.Observation, action, newState)
	nextStep := ts.New(ts.Mid, reward, newState, m.lastStep.Number+1)

	m.End(&nextStep)

	m.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// Render renders a text-based version of the environment
func (m *base) Render() error {
	xIndices := 16

	var hill strings.Builder
	for i := 1; i < xIndices/2+1; i++ {
		if i == 1 {
			fmt.Fprint(&hill, calculateRow(xIndices, i)+"🏁\n")
		} else {
			fmt.Fprintln(&hill, calculateRow(xIndices, i))
		}
	}
	fmt.Fprintln(&hill, "")

	// Column at which to draw the car
	xPos := (m.lastStep.Observation.AtVec(0) - positionBounds.Min) /
		(positionBounds.Max - positionBounds.Min)
	x := int(xPos * float64(xIndices))

	var track strings.Builder
	for i := 0; i < xIndices; i++ {
		switch {
		case i == x:
			track.WriteString("🚗")
		case i == xIndices-1:
			track.WriteString("🏁")
		default:
			track.WriteString("=")
		}
	}

	// Clear screen and draw
	_, err := fmt.Fprintf(m.out, "\x1b[3;J\x1b[H\x1b[2J%v%v\n", &hill,
		&track)
	return err
}

// String returns a string representation of the environment
func (m *base) String() string {
	str := "Mountain Car  |  Position: %v  |  Speed: %v"
	state := m.lastStep.Observation
	return fmt.Sprintf(str, state.AtVec(0), state.AtVec(1))
}

// calculateRow draws a single row of the hill
func calculateRow(xIndices, width int) string {
	return strings.Repeat("=", width) +
		strings.Repeat(" ", xIndices-2*width) +
		strings.Repeat("=", width)
}

func validateState(s mat.Vector) error {
	if s.Len() != ObservationDims {
		return fmt.Errorf("invalid state dimension\n\twant(%v)\n\thave(%v)",
			ObservationDims, s.Len())
	}
	if position := s.AtVec(0); !floatutils.Contains(positionBounds, position) {
		return fmt.Errorf("illegal position %v ∉ [%v, %v]", position,
			positionBounds.Min, positionBounds.Max)
	}
	if speed := s.AtVec(1); !floatutils.Contains(speedBounds, speed) {
		return fmt.Errorf("illegal speed %v ∉ [%v, %v]", speed,
			speedBounds.Min, speedBounds.Max)
	}
	return nil
}
