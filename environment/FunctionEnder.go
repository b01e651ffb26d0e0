package environment

import (
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// FunctionEnder ends an episode whenever a function of the observation
// returns true.
type FunctionEnder struct {
	end     func(mat.Vector) bool
	endType ts.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(mat.Vector) bool,
	endType ts.EndType) *FunctionEnder {
	return &FunctionEnder{f, endType}
}

func (f *FunctionEnder) End(t *ts.TimeStep) bool {
	if f.end(t.Observation) {
		t.SetEnd(f.endType)
		return true
	}
	return false
}
