// Package timestep implements timesteps of the agent-environment
// interaction and the transitions built from consecutive timesteps.
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes how an episode ended
type EndType int

const (
	// Unset is the EndType of any TimeStep that is not the last
	Unset EndType = iota

	// TerminalStateReached means the task failed or succeeded
	TerminalStateReached

	// Timeout means the episode was cut off by a step limit
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Unset"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Observation mat.Vector
	Number      int
	endType     EndType
}

// New returns a new TimeStep
func New(t StepType, r float64, o mat.Vector, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Observation: o, Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd marks the TimeStep as the last in its episode, ending for the
// reason e
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.endType = e
}

// EndType returns why the episode ended. It is Unset unless the
// TimeStep is the last in the episode.
func (t *TimeStep) EndType() EndType {
	return t.endType
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Step Number:  %v"
	if t.StepType == Last {
		str += "  |  End: " + t.endType.String()
	}

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Number)
}
