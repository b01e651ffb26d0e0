// Package expreplay implements a fixed-capacity experience replay
// buffer of transitions.
package expreplay

import (
	"fmt"

	"github.com/gammazero/deque"
	ts "github.com/samuelfneumann/godqn/timestep"
)

// Buffer is a first-in-first-out store of at most Capacity()
// transitions. Adding to a full Buffer evicts its oldest transition.
// Batches are drawn uniformly at random with replacement.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	items       *deque.Deque[ts.Transition]
	sampler     Selector
	capacity    int
	minCapacity int
}

// Config implements a specific configuration of a Buffer
type Config struct {
	Capacity    int
	MinCapacity int
}

// Validate checks the capacities of the Config
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("expreplay: capacity must be >= 1\n\thave(%v)",
			c.Capacity)
	}
	if c.MinCapacity < 1 || c.MinCapacity > c.Capacity {
		return fmt.Errorf("expreplay: minimum capacity must be in "+
			"[1, %v]\n\thave(%v)", c.Capacity, c.MinCapacity)
	}
	return nil
}

// Create creates the Buffer described by the Config
func (c Config) Create(seed uint64) (*Buffer, error) {
	return New(c.Capacity, c.MinCapacity, seed)
}

// New returns an empty Buffer holding at most capacity transitions,
// which can be sampled from once it holds minCapacity of them.
func New(capacity, minCapacity int, seed uint64) (*Buffer, error) {
	if err := (Config{capacity, minCapacity}).Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &Buffer{
		items:       deque.New[ts.Transition](capacity),
		sampler:     NewUniformSelector(seed),
		capacity:    capacity,
		minCapacity: minCapacity,
	}, nil
}

// Add stores a copy of t, evicting the oldest transition if the
// Buffer is full.
func (b *Buffer) Add(t ts.Transition) {
	if b.items.Len() == b.capacity {
		b.items.PopFront()
	}
	b.items.PushBack(t.Copy())
}

// Sample returns batchSize transitions drawn uniformly at random with
// replacement. The returned transitions share storage with the
// Buffer and must not be modified.
func (b *Buffer) Sample(batchSize int) ([]ts.Transition, error) {
	if batchSize < 1 {
		return nil, &ExpReplayError{
			Op:  "sample",
			Err: fmt.Errorf("batch size must be positive, have %v", batchSize),
		}
	}
	if b.Len() == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: ErrEmptyBuffer}
	}
	if b.Len() < b.minCapacity {
		return nil, &ExpReplayError{Op: "sample", Err: ErrInsufficientSamples}
	}

	indices := b.sampler.choose(batchSize, b.Len())
	batch := make([]ts.Transition, batchSize)
	for i, index := range indices {
		batch[i] = b.items.At(index)
	}
	return batch, nil
}

// Len returns the number of transitions in the Buffer
func (b *Buffer) Len() int {
	return b.items.Len()
}

// At returns the i-th oldest transition in the Buffer
func (b *Buffer) At(i int) ts.Transition {
	return b.items.At(i)
}

// Capacity returns the maximum number of transitions the Buffer holds
func (b *Buffer) Capacity() int {
	return b.capacity
}

// MinCapacity returns the number of transitions required before the
// Buffer can be sampled
func (b *Buffer) MinCapacity() int {
	return b.minCapacity
}

// Ready returns whether the Buffer holds enough transitions to be
// sampled
func (b *Buffer) Ready() bool {
	return b.Len() >= b.minCapacity
}
