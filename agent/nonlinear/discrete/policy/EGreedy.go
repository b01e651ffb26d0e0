// Package policy implements behaviour policies over the action values
// produced by a value approximator.
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

// EGreedy implements an ε-greedy policy. With probability ε an action
// is chosen uniformly at random; otherwise the action of highest value
// is chosen, with ties broken in favour of the lowest index.
type EGreedy struct {
	rng *rand.Rand
}

// NewEGreedy returns a new ε-greedy policy seeded with seed
func NewEGreedy(seed uint64) *EGreedy {
	return &EGreedy{rng: rand.New(rand.NewSource(seed))}
}

// SelectAction selects an action given the value of every action
func (e *EGreedy) SelectAction(values []float64, epsilon float64) (int,
	error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("selectAction: no action values")
	}
	if epsilon < 0 || epsilon > 1 {
		return 0, fmt.Errorf("selectAction: ε must be in [0, 1]\n\thave(%v)",
			epsilon)
	}

	if e.rng.Float64() < epsilon {
		return e.rng.Intn(len(values)), nil
	}
	return Greedy(values), nil
}

// Greedy returns the index of the largest value, preferring the lowest
// index among equal values
func Greedy(values []float64) int {
	return floats.MaxIdx(values)
}
