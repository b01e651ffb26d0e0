// Package network implements feed-forward neural networks built on
// Gorgonia computational graphs, and the Approximator which uses them
// to estimate action values.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet is a neural network whose forward pass has been added to
// a computational graph. The graph may be extended with further
// operations, for example a loss, before a VM is built on it.
type NeuralNet interface {
	// Graph returns the graph that holds the network
	Graph() *G.ExprGraph

	// CloneWithBatch returns a copy of the network, including its
	// current weights, on a new graph with a new input batch size
	CloneWithBatch(batch int) (NeuralNet, error)

	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the input node to a row-major batch of
	// BatchSize() * Features() values
	SetInput(input []float64) error

	// Set copies the weights of source into the network
	Set(source NeuralNet) error

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Prediction returns the output node of the network
	Prediction() *G.Node

	// Output returns the value of Prediction() once a VM has run
	Output() G.Value

	GobEncode() ([]byte, error)
}
