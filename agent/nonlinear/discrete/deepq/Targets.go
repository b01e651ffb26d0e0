package deepq

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Targets computes the bootstrap targets of a batch of transitions.
// For transition i,
//
//	y[i] = rewards[i]                                if terminals[i]
//	y[i] = rewards[i] + γ * max_a nextValues[i, a]   otherwise
//
// where nextValues holds the action values of the next states as
// estimated by the target network.
func Targets(rewards []float64, terminals []bool, nextValues mat.Matrix,
	gamma float64) ([]float64, error) {
	rows, cols := nextValues.Dims()
	if len(rewards) != len(terminals) || len(rewards) != rows {
		return nil, fmt.Errorf("targets: mismatched batch sizes, rewards "+
			"(%v), terminals (%v), next values (%v)", len(rewards),
			len(terminals), rows)
	}

	targets := make([]float64, len(rewards))
	next := make([]float64, cols)
	for i, r := range rewards {
		if terminals[i] {
			targets[i] = r
			continue
		}
		mat.Row(next, i, nextValues)
		targets[i] = r + gamma*floats.Max(next)
	}
	return targets, nil
}
