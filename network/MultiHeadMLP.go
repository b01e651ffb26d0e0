package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// multiHeadMLP implements a multi-layered perceptron with one output
// node per predicted value, for example one per action.
type multiHeadMLP struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	// Hidden layer description, needed for cloning and gobbing
	hiddenSizes []int
	biases      []bool
	activations []*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	prediction *G.Node
	predVal    G.Value
}

// NewMultiHeadMLP creates and returns a new multi-layered perceptron
// with outputs output nodes. The graph parameter g is populated with
// the MLP.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. A final
// layer with a bias unit and no activation is always added such that
// the network produces outputs predictions for each input. For index
// i, hiddenSizes[i] is the number of nodes in hidden layer i; biases[i]
// is true if the hidden layer will contain a bias unit; and
// activations[i] is the activation function for hidden layer i. The
// parameter init determines the weight initialization scheme.
func NewMultiHeadMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) (NeuralNet, error) {
	net := &multiHeadMLP{}
	err := net.build(features, batch, outputs, g, hiddenSizes, biases, init,
		activations)
	if err != nil {
		return nil, fmt.Errorf("newMultiHeadMLP: %w", err)
	}
	return net, nil
}

// build populates g with the network described by the arguments and
// stores the result in e
func (e *multiHeadMLP) build(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*Activation) error {
	if len(hiddenSizes) != len(activations) {
		return fmt.Errorf("invalid number of activations\n\twant(%d)"+
			"\n\thave(%d)", len(hiddenSizes), len(activations))
	}
	if len(hiddenSizes) != len(biases) {
		return fmt.Errorf("invalid number of biases\n\twant(%d)"+
			"\n\thave(%d)", len(hiddenSizes), len(biases))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return fmt.Errorf("features (%v), batch (%v) and outputs (%v) "+
			"must be positive", features, batch, outputs)
	}
	for i, size := range hiddenSizes {
		if size < 1 {
			return fmt.Errorf("hidden layer %v must have positive size"+
				"\n\thave(%v)", i, size)
		}
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Hidden layers followed by the linear output layer
	sizes := append(append([]int{features}, hiddenSizes...), outputs)
	layers := make([]*fcLayer, 0, len(hiddenSizes)+1)
	for i := 0; i < len(sizes)-1; i++ {
		bias, act := true, Identity()
		if i < len(hiddenSizes) {
			bias, act = biases[i], activations[i]
		}
		layers = append(layers, newFCLayer(g, sizes[i], sizes[i+1], i, bias,
			init, act))
	}

	*e = multiHeadMLP{
		g:           g,
		layers:      layers,
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: append([]int(nil), hiddenSizes...),
		biases:      append([]bool(nil), biases...),
		activations: append([]*Activation(nil), activations...),
	}

	if _, err := e.fwd(input); err != nil {
		return fmt.Errorf("could not compute forward pass: %w", err)
	}
	return nil
}

// Graph returns the computational graph of the multiHeadMLP.
func (e *multiHeadMLP) Graph() *G.ExprGraph {
	return e.g
}

// CloneWithBatch clones a multiHeadMLP onto a new graph with a new
// input batch size.
func (e *multiHeadMLP) CloneWithBatch(batchSize int) (NeuralNet, error) {
	net, err := NewMultiHeadMLP(e.numInputs, batchSize, e.numOutputs,
		G.NewGraph(), e.hiddenSizes, e.biases, G.Zeroes(), e.activations)
	if err != nil {
		return nil, fmt.Errorf("cloneWithBatch: %w", err)
	}

	if err := net.Set(e); err != nil {
		return nil, fmt.Errorf("cloneWithBatch: %w", err)
	}
	return net, nil
}

// BatchSize returns the batch size of inputs to the network
func (e *multiHeadMLP) BatchSize() int {
	return e.batchSize
}

// Features returns the number of features in a single observation
// vector that the network takes as input.
func (e *multiHeadMLP) Features() int {
	return e.numInputs
}

// Outputs returns the number of outputs from the network
func (e *multiHeadMLP) Outputs() int {
	return e.numOutputs
}

// SetInput sets the value of the input node before running the forward
// pass.
func (e *multiHeadMLP) SetInput(input []float64) error {
	if len(input) != e.numInputs*e.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", e.numInputs*e.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// Set sets the weights of the network to be equal to the weights of
// source. Weights are copied in place, so VMs already compiled on
// either graph remain valid.
func (dest *multiHeadMLP) Set(source NeuralNet) error {
	sourceNodes := source.Learnables()
	nodes := dest.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: invalid number of learnables\n\twant(%v)"+
			"\n\thave(%v)", len(nodes), len(sourceNodes))
	}

	for i := range nodes {
		destWeights, err := denseData(nodes[i])
		if err != nil {
			return fmt.Errorf("set: %w", err)
		}
		sourceWeights, err := denseData(sourceNodes[i])
		if err != nil {
			return fmt.Errorf("set: %w", err)
		}
		if !nodes[i].Shape().Eq(sourceNodes[i].Shape()) {
			return fmt.Errorf("set: invalid shape for %v\n\twant(%v)"+
				"\n\thave(%v)", nodes[i].Name(), nodes[i].Shape(),
				sourceNodes[i].Shape())
		}
		copy(destWeights, sourceWeights)
	}
	return nil
}

// Learnables returns the learnable nodes in a multiHeadMLP
func (e *multiHeadMLP) Learnables() G.Nodes {
	if e.learnables == nil {
		learnables := make(G.Nodes, 0, 2*len(e.layers))
		for _, layer := range e.layers {
			learnables = append(learnables, layer.weights)
			if layer.bias != nil {
				learnables = append(learnables, layer.bias)
			}
		}
		e.learnables = learnables
	}
	return e.learnables
}

// Model returns the learnables nodes with their gradients.
func (e *multiHeadMLP) Model() []G.ValueGrad {
	if e.model == nil {
		model := make([]G.ValueGrad, 0, 2*len(e.layers))
		for _, node := range e.Learnables() {
			model = append(model, node)
		}
		e.model = model
	}
	return e.model
}

// fwd performs the forward pass of the multiHeadMLP on the input
// node
func (e *multiHeadMLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range e.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %w"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	e.prediction = pred
	G.Read(e.prediction, &e.predVal)

	return pred, nil
}

// Output returns the output of the multiHeadMLP.
func (e *multiHeadMLP) Output() G.Value {
	return e.predVal
}

// Prediction returns the node of the computational graph the stores
// the output of the multiHeadMLP
func (e *multiHeadMLP) Prediction() *G.Node {
	return e.prediction
}

// GobEncode implements the gob.GobEncoder interface
func (e *multiHeadMLP) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	header := []interface{}{e.numInputs, e.batchSize, e.numOutputs,
		e.hiddenSizes, e.biases, e.activations}
	for _, field := range header {
		if err := enc.Encode(field); err != nil {
			return nil, fmt.Errorf("gobEncode: %w", err)
		}
	}

	for _, node := range e.Learnables() {
		weights, err := denseData(node)
		if err != nil {
			return nil, fmt.Errorf("gobEncode: %w", err)
		}
		if err := enc.Encode(weights); err != nil {
			return nil, fmt.Errorf("gobEncode: could not encode %v: %w",
				node.Name(), err)
		}
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The network is
// rebuilt on a new graph.
func (e *multiHeadMLP) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var numInputs, batchSize, numOutputs int
	var hiddenSizes []int
	var biases []bool
	var activations []*Activation
	header := []interface{}{&numInputs, &batchSize, &numOutputs,
		&hiddenSizes, &biases, &activations}
	for _, field := range header {
		if err := dec.Decode(field); err != nil {
			return fmt.Errorf("gobDecode: %w", err)
		}
	}

	err := e.build(numInputs, batchSize, numOutputs, G.NewGraph(),
		hiddenSizes, biases, G.Zeroes(), activations)
	if err != nil {
		return fmt.Errorf("gobDecode: %w", err)
	}

	for _, node := range e.Learnables() {
		var weights []float64
		if err := dec.Decode(&weights); err != nil {
			return fmt.Errorf("gobDecode: could not decode %v: %w",
				node.Name(), err)
		}
		dest, err := denseData(node)
		if err != nil {
			return fmt.Errorf("gobDecode: %w", err)
		}
		if len(dest) != len(weights) {
			return fmt.Errorf("gobDecode: invalid size for %v\n\twant(%v)"+
				"\n\thave(%v)", node.Name(), len(dest), len(weights))
		}
		copy(dest, weights)
	}
	return nil
}

// denseData returns the backing data of a learnable node
func denseData(node *G.Node) ([]float64, error) {
	value, ok := node.Value().(*tensor.Dense)
	if !ok {
		return nil, fmt.Errorf("node %v has no dense value", node.Name())
	}
	data, ok := value.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("node %v is not float64", node.Name())
	}
	return data, nil
}
