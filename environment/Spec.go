package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Reward
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, or reward in an
// environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification. The shape
// argument outlines the shape of the data described by the
// specification, and both bounds must have the same length.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) (Spec, error) {
	if shape.Len() != lowerBound.Len() {
		return Spec{}, fmt.Errorf("newSpec: shape length %v must match "+
			"lower bounds length %v", shape.Len(), lowerBound.Len())
	}
	if shape.Len() != upperBound.Len() {
		return Spec{}, fmt.Errorf("newSpec: shape length %v must match "+
			"upper bounds length %v", shape.Len(), upperBound.Len())
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}, nil
}

// Features returns the number of features described by the Spec
func (s Spec) Features() int {
	return s.Shape.Len()
}

// NumActions returns the number of actions in a discrete action Spec
// whose single dimension is enumerated [LowerBound, UpperBound].
func NumActions(s Spec) (int, error) {
	if s.Type != Action {
		return 0, fmt.Errorf("numActions: spec is not an action spec")
	}
	if s.Cardinality != Discrete {
		return 0, fmt.Errorf("numActions: actions must be discrete")
	}
	if s.Shape.Len() != 1 {
		return 0, fmt.Errorf("numActions: actions must be 1-dimensional"+
			"\n\twant(1)\n\thave(%v)", s.Shape.Len())
	}
	if s.LowerBound.AtVec(0) != 0 {
		return 0, fmt.Errorf("numActions: actions must be enumerated "+
			"from 0\n\thave(%v)", s.LowerBound.AtVec(0))
	}
	return int(s.UpperBound.AtVec(0)) + 1, nil
}

// DiscreteActionSpec returns the Spec of a 1-dimensional action set
// {0, 1, ..., numActions-1}
func DiscreteActionSpec(numActions int) Spec {
	return Spec{
		Shape:       mat.NewVecDense(1, nil),
		Type:        Action,
		LowerBound:  mat.NewVecDense(1, []float64{0}),
		UpperBound:  mat.NewVecDense(1, []float64{float64(numActions - 1)}),
		Cardinality: Discrete,
	}
}
