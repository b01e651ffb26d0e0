// Package deepq implements the DQN learning algorithm on a multi-layer
// perceptron action-value network
package deepq

import (
	"fmt"

	"github.com/samuelfneumann/godqn/agent/nonlinear/discrete/policy"
	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/expreplay"
	"github.com/samuelfneumann/godqn/network"
	ts "github.com/samuelfneumann/godqn/timestep"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// DeepQ implements the DQN algorithm. An online network is trained
// on batches sampled from an experience replay buffer against targets
// computed by a separately owned target network:
//
//	L = Σᵢ (yᵢ - Q(sᵢ, aᵢ))²
//
// where yᵢ is computed by Targets.
type DeepQ struct {
	online  *network.Approximator
	trainVM G.VM
	solver  G.Solver

	// Nodes added to the online network's graph to compute the loss
	targets    *G.Node // Bootstrap targets, one per transition
	actionMask *G.Node // One-hot encoding of the action taken
	loss       *G.Node
	lossVal    G.Value

	replay    *expreplay.Buffer
	policy    *policy.EGreedy
	gamma     float64
	batchSize int

	features      int
	numActions    int
	gradientSteps int
}

// New creates a new DeepQ learner for environment e
func New(e env.Environment, c Config, seed uint64) (*DeepQ, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	numActions, err := env.NumActions(e.ActionSpec())
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	features := e.ObservationSpec().Features()

	online, err := network.NewApproximator(features, numActions,
		c.BatchSize, c.NetworkConfig(), c.InitWFn.InitWFn())
	if err != nil {
		return nil, fmt.Errorf("new: could not create online network: %w",
			err)
	}

	replay, err := c.ExpReplay.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create replay buffer: %w",
			err)
	}

	d := &DeepQ{
		online:     online,
		solver:     c.Solver,
		replay:     replay,
		policy:     policy.NewEGreedy(seed + 1),
		gamma:      c.Gamma,
		batchSize:  c.BatchSize,
		features:   features,
		numActions: numActions,
	}

	if err := d.buildLoss(c.Loss); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	return d, nil
}

// buildLoss extends the online network's graph with the loss and its
// gradient
func (d *DeepQ) buildLoss(reduction Reduction) error {
	net := d.online.Network()
	g := net.Graph()

	d.targets = G.NewVector(g, tensor.Float64, G.WithShape(d.batchSize),
		G.WithName("targets"), G.WithInit(G.Zeroes()))
	d.actionMask = G.NewMatrix(g, tensor.Float64,
		G.WithShape(d.batchSize, d.numActions), G.WithName("actionMask"),
		G.WithInit(G.Zeroes()))

	// Action values of the actions taken
	selected := G.Must(G.HadamardProd(net.Prediction(), d.actionMask))
	selected = G.Must(G.Sum(selected, 1))

	errs := G.Must(G.Square(G.Must(G.Sub(d.targets, selected))))
	switch reduction {
	case Mean:
		d.loss = G.Must(G.Mean(errs))
	default:
		d.loss = G.Must(G.Sum(errs))
	}
	G.Read(d.loss, &d.lossVal)

	learnables := d.online.Learnables()
	if _, err := G.Grad(d.loss, learnables...); err != nil {
		return fmt.Errorf("buildLoss: could not compute gradient: %w", err)
	}

	d.trainVM = G.NewTapeMachine(g, G.BindDualValues(learnables...))
	return nil
}

// SelectAction selects an ε-greedy action with respect to the online
// network's action values in state
func (d *DeepQ) SelectAction(state mat.Vector, epsilon float64) (int,
	error) {
	if state.Len() != d.features {
		return -1, &network.DimensionError{
			Op:   "selectAction",
			Want: d.features,
			Have: state.Len(),
		}
	}

	values, err := d.online.EvaluateVec(state)
	if err != nil {
		return -1, fmt.Errorf("selectAction: %w", err)
	}
	return d.policy.SelectAction(values, epsilon)
}

// StoreExperience adds a copy of t to the replay buffer
func (d *DeepQ) StoreExperience(t ts.Transition) error {
	if err := env.ValidateAction(t.Action, d.numActions); err != nil {
		return fmt.Errorf("storeExperience: %w", err)
	}
	for _, state := range []*mat.VecDense{t.State, t.NextState} {
		have := 0
		if state != nil {
			have = state.Len()
		}
		if have != d.features {
			return &network.DimensionError{
				Op:   "storeExperience",
				Want: d.features,
				Have: have,
			}
		}
	}

	d.replay.Add(t)
	return nil
}

// TrainStep performs one gradient step on a batch of transitions
// sampled from the replay buffer. Nothing is done until the buffer
// holds its minimum number of transitions.
func (d *DeepQ) TrainStep(target *network.Approximator) error {
	if target == nil {
		return fmt.Errorf("trainStep: nil target network")
	}
	if target.Features() != d.features {
		return &network.DimensionError{Op: "trainStep", Want: d.features,
			Have: target.Features()}
	}
	if target.Outputs() != d.numActions {
		return &network.DimensionError{Op: "trainStep", Want: d.numActions,
			Have: target.Outputs()}
	}
	if !d.replay.Ready() {
		return nil
	}

	batch, err := d.replay.Sample(d.batchSize)
	if err != nil {
		return fmt.Errorf("trainStep: %w", err)
	}

	states := mat.NewDense(d.batchSize, d.features, nil)
	nextStates := mat.NewDense(d.batchSize, d.features, nil)
	rewards := make([]float64, d.batchSize)
	terminals := make([]bool, d.batchSize)
	mask := make([]float64, d.batchSize*d.numActions)
	for i, t := range batch {
		states.SetRow(i, t.State.RawVector().Data)
		nextStates.SetRow(i, t.NextState.RawVector().Data)
		rewards[i] = t.Reward
		terminals[i] = t.Terminal
		mask[i*d.numActions+t.Action] = 1.0
	}

	nextValues, err := target.Evaluate(nextStates)
	if err != nil {
		return fmt.Errorf("trainStep: could not compute next action "+
			"values: %w", err)
	}
	y, err := Targets(rewards, terminals, nextValues, d.gamma)
	if err != nil {
		return fmt.Errorf("trainStep: %w", err)
	}

	if err := d.online.Network().SetInput(states.RawMatrix().Data); err != nil {
		return fmt.Errorf("trainStep: could not set input: %w", err)
	}
	targetTensor := tensor.New(tensor.WithBacking(y),
		tensor.WithShape(d.batchSize))
	if err := G.Let(d.targets, targetTensor); err != nil {
		return fmt.Errorf("trainStep: could not set targets: %w", err)
	}
	maskTensor := tensor.New(tensor.WithBacking(mask),
		tensor.WithShape(d.batchSize, d.numActions))
	if err := G.Let(d.actionMask, maskTensor); err != nil {
		return fmt.Errorf("trainStep: could not set action mask: %w", err)
	}

	defer d.trainVM.Reset()
	if err := d.trainVM.RunAll(); err != nil {
		return fmt.Errorf("trainStep: could not run graph: %w", err)
	}
	if err := d.solver.Step(d.online.Network().Model()); err != nil {
		return fmt.Errorf("trainStep: could not step solver: %w", err)
	}

	d.online.Invalidate()
	d.gradientSteps++
	return nil
}

// CopyToTarget overwrites the parameters of target with those of the
// online network
func (d *DeepQ) CopyToTarget(target *network.Approximator) error {
	if err := target.CopyFrom(d.online); err != nil {
		return fmt.Errorf("copyToTarget: %w", err)
	}
	return nil
}

// NewTarget returns a new target network with the online network's
// current parameters
func (d *DeepQ) NewTarget() (*network.Approximator, error) {
	target, err := d.online.Clone()
	if err != nil {
		return nil, fmt.Errorf("newTarget: %w", err)
	}
	return target, nil
}

// Online returns the online network
func (d *DeepQ) Online() *network.Approximator {
	return d.online
}

// Buffer returns the experience replay buffer
func (d *DeepQ) Buffer() *expreplay.Buffer {
	return d.replay
}

// GradientSteps returns the number of gradient steps taken so far
func (d *DeepQ) GradientSteps() int {
	return d.gradientSteps
}

// Loss returns the loss of the most recent gradient step
func (d *DeepQ) Loss() float64 {
	if d.lossVal == nil {
		return 0
	}
	if v, ok := d.lossVal.Data().(float64); ok {
		return v
	}
	return 0
}
