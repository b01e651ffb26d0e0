package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (s, a, r, s', terminal) experience tuple
type Transition struct {
	State     *mat.VecDense
	Action    int
	Reward    float64
	NextState *mat.VecDense
	Terminal  bool
}

// NewTransition returns a Transition that owns copies of state and
// nextState, so later changes to either vector do not leak into it.
func NewTransition(state mat.Vector, action int, reward float64,
	nextState mat.Vector, terminal bool) Transition {
	return Transition{
		State:     cloneVec(state),
		Action:    action,
		Reward:    reward,
		NextState: cloneVec(nextState),
		Terminal:  terminal,
	}
}

// Copy returns a deep copy of the Transition
func (t Transition) Copy() Transition {
	return NewTransition(t.State, t.Action, t.Reward, t.NextState,
		t.Terminal)
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | Action: %v  |  Reward: %.2f  |  "+
		"Terminal: %v", t.Action, t.Reward, t.Terminal)
}

func cloneVec(v mat.Vector) *mat.VecDense {
	if v == nil {
		return nil
	}
	if vd, ok := v.(*mat.VecDense); ok && vd == nil {
		return nil
	}
	out := mat.NewVecDense(v.Len(), nil)
	out.CopyVec(v)
	return out
}
