package expreplay

import "golang.org/x/exp/rand"

// Selector chooses the positions of a buffer that a batch is drawn from
type Selector interface {
	// choose returns n positions in [0, length)
	choose(n, length int) []int
}

// uniformSelector selects positions uniformly at random with
// replacement
type uniformSelector struct {
	rng *rand.Rand
}

// NewUniformSelector returns a new Selector which selects positions
// uniformly at random, with replacement
func NewUniformSelector(seed uint64) Selector {
	return &uniformSelector{rng: rand.New(rand.NewSource(seed))}
}

func (u *uniformSelector) choose(n, length int) []int {
	selected := make([]int, n)
	for i := range selected {
		selected[i] = u.rng.Intn(length)
	}
	return selected
}
