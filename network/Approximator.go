package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Approximator estimates the value of every action in a batch of
// states with a NeuralNet.
//
// The Approximator owns a canonical network whose learnables are its
// parameters. Forward passes never run on the canonical graph, which
// callers may extend with a loss and train. Instead, each distinct
// batch size is evaluated on its own copy of the network, which is
// refreshed from the canonical parameters after Invalidate.
type Approximator struct {
	net        NeuralNet
	evaluators map[int]*evaluator
}

// evaluator runs the forward pass for a single batch size
type evaluator struct {
	net   NeuralNet
	vm    G.VM
	stale bool
}

// Config describes the topology of an Approximator's network
type Config struct {
	Hidden      []int
	Biases      []bool
	Activations []*Activation
}

// Validate checks that every hidden layer is fully described
func (c Config) Validate() error {
	if len(c.Hidden) != len(c.Biases) {
		return fmt.Errorf("network: invalid number of biases\n\twant(%d)"+
			"\n\thave(%d)", len(c.Hidden), len(c.Biases))
	}
	if len(c.Hidden) != len(c.Activations) {
		return fmt.Errorf("network: invalid number of activations"+
			"\n\twant(%d)\n\thave(%d)", len(c.Hidden), len(c.Activations))
	}
	for i, size := range c.Hidden {
		if size < 1 {
			return fmt.Errorf("network: hidden layer %v must have positive "+
				"size\n\thave(%v)", i, size)
		}
	}
	return nil
}

// NewApproximator returns an Approximator mapping features inputs to
// outputs values. The canonical network is built on a new graph with
// input batch size batch.
func NewApproximator(features, outputs, batch int, c Config,
	init G.InitWFn) (*Approximator, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newApproximator: %w", err)
	}

	net, err := NewMultiHeadMLP(features, batch, outputs, G.NewGraph(),
		c.Hidden, c.Biases, init, c.Activations)
	if err != nil {
		return nil, fmt.Errorf("newApproximator: %w", err)
	}

	return FromNeuralNet(net), nil
}

// FromNeuralNet returns an Approximator whose canonical network is net
func FromNeuralNet(net NeuralNet) *Approximator {
	return &Approximator{
		net:        net,
		evaluators: make(map[int]*evaluator),
	}
}

// Features returns the dimension of the states the Approximator takes
func (a *Approximator) Features() int {
	return a.net.Features()
}

// Outputs returns the number of values predicted for each state
func (a *Approximator) Outputs() int {
	return a.net.Outputs()
}

// Network returns the canonical network
func (a *Approximator) Network() NeuralNet {
	return a.net
}

// Learnables returns the learnable nodes of the canonical network
func (a *Approximator) Learnables() G.Nodes {
	return a.net.Learnables()
}

// Parameters returns the trainable tensors, in layer order, by
// reference. Changing the returned tensors changes the Approximator
// once Invalidate is called.
func (a *Approximator) Parameters() []*tensor.Dense {
	learnables := a.net.Learnables()
	params := make([]*tensor.Dense, len(learnables))
	for i, node := range learnables {
		params[i] = node.Value().(*tensor.Dense)
	}
	return params
}

// Invalidate marks every evaluation network as out of date. It must be
// called whenever the parameters are changed in place.
func (a *Approximator) Invalidate() {
	for _, e := range a.evaluators {
		e.stale = true
	}
}

// Evaluate returns the N×A matrix of action values for the N×D matrix
// of states. It returns a *DimensionError if D != Features().
func (a *Approximator) Evaluate(states mat.Matrix) (*mat.Dense, error) {
	rows, cols := states.Dims()
	if cols != a.Features() {
		return nil, &DimensionError{Op: "evaluate", Want: a.Features(),
			Have: cols}
	}

	e, err := a.evaluator(rows)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	if e.stale {
		if err := e.net.Set(a.net); err != nil {
			return nil, fmt.Errorf("evaluate: %w", err)
		}
		e.stale = false
	}

	input := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			input = append(input, states.At(i, j))
		}
	}
	if err := e.net.SetInput(input); err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	defer e.vm.Reset()
	if err := e.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("evaluate: could not run forward pass: %w", err)
	}

	out, ok := e.net.Output().Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("evaluate: forward pass produced %T",
			e.net.Output().Data())
	}
	values := make([]float64, len(out))
	copy(values, out)

	return mat.NewDense(rows, a.Outputs(), values), nil
}

// EvaluateVec returns the action values of a single state
func (a *Approximator) EvaluateVec(state mat.Vector) ([]float64, error) {
	values, err := a.Evaluate(state.T())
	if err != nil {
		return nil, err
	}
	return values.RawRowView(0), nil
}

// evaluator returns the evaluator for batch size n, creating it if
// needed
func (a *Approximator) evaluator(n int) (*evaluator, error) {
	if n < 1 {
		return nil, fmt.Errorf("cannot evaluate an empty batch")
	}
	if e, ok := a.evaluators[n]; ok {
		return e, nil
	}

	net, err := a.net.CloneWithBatch(n)
	if err != nil {
		return nil, err
	}
	e := &evaluator{net: net, vm: G.NewTapeMachine(net.Graph())}
	a.evaluators[n] = e
	return e, nil
}

// CopyFrom overwrites the parameters of a with those of source. Both
// Approximators must have the same topology.
func (a *Approximator) CopyFrom(source *Approximator) error {
	if a.Features() != source.Features() {
		return &DimensionError{Op: "copyFrom", Want: a.Features(),
			Have: source.Features()}
	}
	if a.Outputs() != source.Outputs() {
		return &DimensionError{Op: "copyFrom", Want: a.Outputs(),
			Have: source.Outputs()}
	}

	if err := a.net.Set(source.net); err != nil {
		return fmt.Errorf("copyFrom: %w", err)
	}
	a.Invalidate()
	return nil
}

// Clone returns an independent Approximator with the same topology
// and parameters as a
func (a *Approximator) Clone() (*Approximator, error) {
	net, err := a.net.CloneWithBatch(a.net.BatchSize())
	if err != nil {
		return nil, fmt.Errorf("clone: %w", err)
	}
	return FromNeuralNet(net), nil
}

// GobEncode implements the gob.GobEncoder interface
func (a *Approximator) GobEncode() ([]byte, error) {
	return a.net.GobEncode()
}

// GobDecode implements the gob.GobDecoder interface
func (a *Approximator) GobDecode(in []byte) error {
	net := &multiHeadMLP{}
	if err := net.GobDecode(in); err != nil {
		return err
	}
	*a = *FromNeuralNet(net)
	return nil
}

// Save writes the Approximator to a gob encoded byte slice
func Save(a *Approximator) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads an Approximator written by Save
func Load(data []byte) (*Approximator, error) {
	a := &Approximator{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(a); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return a, nil
}
