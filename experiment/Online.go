package experiment

import (
	"fmt"
	"time"

	"github.com/aunum/log"
	"github.com/samuelfneumann/godqn/agent"
	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/godqn/network"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/samuelfneumann/progressbar"
	"gonum.org/v1/gonum/stat"
)

// Online is an experiment which trains a Learner online. Each
// environment step is followed by storing the transition, a single
// training step and, every SyncPeriod steps, a target network sync.
type Online struct {
	env     env.Environment
	learner agent.Learner
	target  *network.Approximator
	config  Config

	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	progress      bool
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given learner. The trackers t determine which
// data is saved.
func NewOnline(e env.Environment, l agent.Learner, c Config,
	t ...tracker.Tracker) (*Online, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newOnline: %w", err)
	}

	target, err := l.NewTarget()
	if err != nil {
		return nil, fmt.Errorf("newOnline: could not create target "+
			"network: %w", err)
	}

	return &Online{
		env:      e,
		learner:  l,
		target:   target,
		config:   c,
		trackers: t,
	}, nil
}

// Register registers a Tracker with the experiment
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer adds a Checkpointer which is called after every
// episode
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// ShowProgress sets whether Run displays a progress bar
func (o *Online) ShowProgress(show bool) {
	o.progress = show
}

// Target returns the target network
func (o *Online) Target() *network.Approximator {
	return o.target
}

// RunEpisode runs a single episode and returns its undiscounted return
func (o *Online) RunEpisode(ctx *Context) (float64, error) {
	return o.runEpisode(ctx, nil)
}

// Demo runs a single episode like RunEpisode, rendering the
// environment after every step if it implements env.Renderer
func (o *Online) Demo(ctx *Context) (float64, error) {
	renderer, ok := o.env.(env.Renderer)
	if !ok {
		log.Warningf("demo: environment cannot be rendered")
		return o.runEpisode(ctx, nil)
	}

	if err := renderer.Render(); err != nil {
		return 0, fmt.Errorf("demo: %w", err)
	}
	return o.runEpisode(ctx, renderer)
}

func (o *Online) runEpisode(ctx *Context, r env.Renderer) (float64, error) {
	step, err := o.env.Reset()
	if err != nil {
		return 0, fmt.Errorf("runEpisode: could not reset environment: %w",
			err)
	}
	o.track(step)

	episodeReturn := 0.0
	for done := step.Last(); !done; {
		action, err := o.learner.SelectAction(step.Observation, ctx.Epsilon)
		if err != nil {
			return episodeReturn, fmt.Errorf("runEpisode: %w", err)
		}

		next, last, err := o.env.Step(action)
		if err != nil {
			return episodeReturn, fmt.Errorf("runEpisode: %w", err)
		}
		o.track(next)
		if r != nil {
			if err := r.Render(); err != nil {
				return episodeReturn, fmt.Errorf("runEpisode: %w", err)
			}
		}
		episodeReturn += next.Reward

		reward := next.Reward
		if last && o.config.TerminalPenalty != nil {
			reward = *o.config.TerminalPenalty
		}
		t := ts.NewTransition(step.Observation, action, reward,
			next.Observation, last)
		if err := o.learner.StoreExperience(t); err != nil {
			return episodeReturn, fmt.Errorf("runEpisode: %w", err)
		}

		if err := o.learner.TrainStep(o.target); err != nil {
			return episodeReturn, fmt.Errorf("runEpisode: %w", err)
		}

		ctx.GlobalStep++
		if ctx.GlobalStep%o.config.SyncPeriod == 0 {
			if err := o.learner.CopyToTarget(o.target); err != nil {
				return episodeReturn, fmt.Errorf("runEpisode: %w", err)
			}
		}

		step, done = next, last
	}

	ctx.Episode++
	ctx.Returns = append(ctx.Returns, episodeReturn)
	return episodeReturn, nil
}

// Run runs episodes until the episode budget is exhausted. The
// exploration rate is decayed after each episode.
func (o *Online) Run(ctx *Context) error {
	start := time.Now()

	var bar *progressbar.ProgressBar
	if o.progress && ctx.Episode < o.config.Episodes {
		bar = progressbar.New(50, o.config.Episodes-ctx.Episode,
			time.Second, true)
		bar.Display()
		defer bar.Close()
	}

	for ctx.Episode < o.config.Episodes {
		episodeReturn, err := o.RunEpisode(ctx)
		if err != nil {
			return fmt.Errorf("run: episode %v: %w", ctx.Episode+1, err)
		}
		ctx.Epsilon = o.config.Schedule.Next(ctx.Epsilon)

		for _, c := range o.checkpointers {
			if err := c.Checkpoint(ctx.Episode); err != nil {
				return fmt.Errorf("run: %w", err)
			}
		}

		if o.config.LogEvery > 0 && ctx.Episode%o.config.LogEvery == 0 {
			log.Infof("episode %v | return %.2f | ε %.4f | average %.2f | "+
				"elapsed %v", ctx.Episode, episodeReturn, ctx.Epsilon,
				trailingMean(ctx.Returns, o.config.AverageWindow),
				time.Since(start).Round(time.Millisecond))
		}

		if bar != nil {
			bar.Increment()
		}
	}
	return nil
}

// Save saves all data tracked by the experiment's Trackers
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track sends t to each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// trailingMean returns the mean of the last window values
func trailingMean(values []float64, window int) float64 {
	if len(values) > window {
		values = values[len(values)-window:]
	}
	return stat.Mean(values, nil)
}
