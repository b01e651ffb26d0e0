// Package experiment implements the loop which drives a Learner
// through episodes of an Environment
package experiment

import (
	"fmt"
	"math"
)

// Schedule is a multiplicative exploration schedule. After each
// episode, ε is multiplied by Decay and floored at Min. The first
// episode runs with Initial itself rather than a decayed rate, so the
// rate used in episode k is max(Min, Initial·Decay^(k-1)).
type Schedule struct {
	Initial float64
	Decay   float64
	Min     float64
}

// Next returns the exploration rate following epsilon
func (s Schedule) Next(epsilon float64) float64 {
	return math.Max(s.Min, epsilon*s.Decay)
}

// Validate checks that the Schedule produces a valid non-increasing
// sequence of exploration rates
func (s Schedule) Validate() error {
	if s.Min < 0 || s.Min > 1 {
		return fmt.Errorf("schedule: minimum ε ∉ [0, 1]\n\thave(%v)", s.Min)
	}
	if s.Initial < s.Min || s.Initial > 1 {
		return fmt.Errorf("schedule: initial ε ∉ [%v, 1]\n\thave(%v)",
			s.Min, s.Initial)
	}
	if s.Decay <= 0 || s.Decay > 1 {
		return fmt.Errorf("schedule: decay ∉ (0, 1]\n\thave(%v)", s.Decay)
	}
	return nil
}

// Config configures an Online experiment
type Config struct {
	Episodes   int // Episode budget
	SyncPeriod int // Global steps between target network syncs

	// TerminalPenalty replaces the reward stored for the last
	// transition of each episode. If nil, rewards are stored as given.
	TerminalPenalty *float64 `json:",omitempty"`

	Schedule Schedule

	// Progress is logged every LogEvery episodes, including the mean
	// return of the last AverageWindow episodes
	LogEvery      int
	AverageWindow int
}

// DefaultConfig returns a Config which runs 300 episodes, syncs the
// target network every 25 steps, penalizes terminal transitions with
// a reward of -200 and decays ε from 0.99 by a factor of 0.9999 down
// to 0.1.
func DefaultConfig() Config {
	penalty := -200.0
	return Config{
		Episodes:        300,
		SyncPeriod:      25,
		TerminalPenalty: &penalty,
		Schedule: Schedule{
			Initial: 0.99,
			Decay:   0.9999,
			Min:     0.1,
		},
		LogEvery:      10,
		AverageWindow: 100,
	}
}

// Validate checks a Config for invalid values
func (c Config) Validate() error {
	if c.Episodes < 0 {
		return fmt.Errorf("experiment: negative episode budget\n\thave(%v)",
			c.Episodes)
	}
	if c.SyncPeriod < 1 {
		return fmt.Errorf("experiment: sync period must be positive"+
			"\n\thave(%v)", c.SyncPeriod)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("experiment: negative logging interval\n\thave(%v)",
			c.LogEvery)
	}
	if c.AverageWindow < 1 {
		return fmt.Errorf("experiment: average window must be positive"+
			"\n\thave(%v)", c.AverageWindow)
	}
	if err := c.Schedule.Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}
	return nil
}

// Context holds the state of a training run which persists across
// episodes
type Context struct {
	Episode    int       // Episodes completed
	GlobalStep int       // Environment steps taken over all episodes
	Epsilon    float64   // Current exploration rate
	Returns    []float64 // Undiscounted return of each episode
}

// NewContext returns a Context for a run which has not yet started
func NewContext(c Config) *Context {
	return &Context{Epsilon: c.Schedule.Initial}
}
