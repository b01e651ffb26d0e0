package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
}

// newFCLayer adds the weights of a fully connected layer with in
// inputs and out outputs to g. Biases, if used, start at 0.
func newFCLayer(g *G.ExprGraph, in, out, index int, bias bool,
	init G.InitWFn, act *Activation) *fcLayer {
	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(in, out),
		G.WithName(fmt.Sprintf("L%dW", index)),
		G.WithInit(init),
	)

	var b *G.Node
	if bias {
		b = G.NewMatrix(
			g,
			tensor.Float64,
			G.WithShape(1, out),
			G.WithName(fmt.Sprintf("L%dB", index)),
			G.WithInit(G.Zeroes()),
		)
	}

	return &fcLayer{weights: weights, bias: b, act: act}
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, err
	}
	if f.bias != nil {
		// Broadcast the bias weights to all samples along the batch
		// dimension
		if x, err = G.BroadcastAdd(x, f.bias, nil, []byte{0}); err != nil {
			return nil, err
		}
	}
	return f.act.fwd(x)
}
