package environment

import ts "github.com/samuelfneumann/godqn/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) *StepLimit {
	return &StepLimit{episodeSteps}
}

// End ends the episode with a Timeout once t.Number reaches the step
// limit
func (s *StepLimit) End(t *ts.TimeStep) bool {
	if t.Number >= s.episodeSteps {
		t.SetEnd(ts.Timeout)
		return true
	}
	return false
}
