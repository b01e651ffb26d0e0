package experiment

import (
	"errors"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/godqn/network"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

// chainEnv is a 1-dimensional environment whose episodes last
// length steps, each with reward 1
type chainEnv struct {
	length  int
	current ts.TimeStep
	renders int
}

func (c *chainEnv) Reset() (ts.TimeStep, error) {
	c.current = ts.New(ts.First, 0, mat.NewVecDense(1, []float64{0}), 0)
	return c.current, nil
}

func (c *chainEnv) Step(action int) (ts.TimeStep, bool, error) {
	if err := env.ValidateAction(action, 2); err != nil {
		return ts.TimeStep{}, false, err
	}
	n := c.current.Number + 1
	stepType := ts.Mid
	if n == c.length {
		stepType = ts.Last
	}
	c.current = ts.New(stepType, 1, mat.NewVecDense(1, []float64{float64(n)}), n)
	return c.current, n == c.length, nil
}

func (c *chainEnv) CurrentTimeStep() ts.TimeStep { return c.current }
func (c *chainEnv) ActionSpec() env.Spec         { return env.DiscreteActionSpec(2) }
func (c *chainEnv) Close() error                 { return nil }
func (c *chainEnv) Render() error                { c.renders++; return nil }
func (c *chainEnv) ObservationSpec() env.Spec {
	return env.Spec{
		Shape:       mat.NewVecDense(1, nil),
		Type:        env.Observation,
		LowerBound:  mat.NewVecDense(1, nil),
		UpperBound:  mat.NewVecDense(1, []float64{float64(c.length)}),
		Cardinality: env.Continuous,
	}
}

// recorder is a Learner which records every call made to it
type recorder struct {
	epsilons    []float64
	transitions []ts.Transition
	trainSteps  int
	syncSteps   []int
	trainErr    error
}

func (r *recorder) SelectAction(_ mat.Vector, epsilon float64) (int, error) {
	r.epsilons = append(r.epsilons, epsilon)
	return 0, nil
}

func (r *recorder) StoreExperience(t ts.Transition) error {
	r.transitions = append(r.transitions, t)
	return nil
}

func (r *recorder) TrainStep(*network.Approximator) error {
	r.trainSteps++
	return r.trainErr
}

func (r *recorder) CopyToTarget(*network.Approximator) error {
	r.syncSteps = append(r.syncSteps, r.trainSteps)
	return nil
}

func (r *recorder) NewTarget() (*network.Approximator, error) {
	return network.NewApproximator(1, 2, 1, network.Config{}, G.Zeroes())
}

func testConfig(episodes int) Config {
	c := DefaultConfig()
	c.Episodes = episodes
	c.SyncPeriod = 4
	c.LogEvery = 0
	c.Schedule = Schedule{Initial: 0.5, Decay: 0.5, Min: 0.1}
	return c
}

func TestRunEpisode(t *testing.T) {
	e := &chainEnv{length: 5}
	l := &recorder{}
	returns := tracker.NewReturn("")
	o, err := NewOnline(e, l, testConfig(1), returns)
	require.NoError(t, err)

	ctx := NewContext(testConfig(1))
	ret, err := o.RunEpisode(ctx)
	require.NoError(t, err)

	require.Equal(t, 5.0, ret)
	require.Equal(t, 1, ctx.Episode)
	require.Equal(t, 5, ctx.GlobalStep)
	require.Equal(t, []float64{5}, ctx.Returns)
	require.Equal(t, []float64{5}, returns.Returns())
	require.Equal(t, 5, l.trainSteps)

	// Rewards are stored as given except on the terminal transition
	require.Len(t, l.transitions, 5)
	for i, tr := range l.transitions {
		require.Equal(t, float64(i), tr.State.AtVec(0))
		require.Equal(t, float64(i+1), tr.NextState.AtVec(0))
		if i < 4 {
			require.False(t, tr.Terminal)
			require.Equal(t, 1.0, tr.Reward)
		} else {
			require.True(t, tr.Terminal)
			require.Equal(t, -200.0, tr.Reward)
		}
	}
}

func TestNoTerminalPenalty(t *testing.T) {
	c := testConfig(1)
	c.TerminalPenalty = nil
	l := &recorder{}
	o, err := NewOnline(&chainEnv{length: 3}, l, c)
	require.NoError(t, err)

	_, err = o.RunEpisode(NewContext(c))
	require.NoError(t, err)
	require.Equal(t, 1.0, l.transitions[2].Reward)
}

func TestSyncPeriodSpansEpisodes(t *testing.T) {
	c := testConfig(3)
	l := &recorder{}
	o, err := NewOnline(&chainEnv{length: 3}, l, c)
	require.NoError(t, err)

	ctx := NewContext(c)
	require.NoError(t, o.Run(ctx))
	require.Equal(t, 9, ctx.GlobalStep)
	require.Equal(t, []int{4, 8}, l.syncSteps)
}

func TestEpsilonSchedule(t *testing.T) {
	c := testConfig(4)
	l := &recorder{}
	o, err := NewOnline(&chainEnv{length: 1}, l, c)
	require.NoError(t, err)

	ctx := NewContext(c)
	require.NoError(t, o.Run(ctx))
	require.InDeltaSlice(t, []float64{0.5, 0.25, 0.125, 0.1}, l.epsilons,
		1e-12)
	require.Equal(t, 0.1, ctx.Epsilon)
	require.Equal(t, 4, ctx.Episode)
}

func TestRunWithProgress(t *testing.T) {
	c := testConfig(3)
	l := &recorder{}
	o, err := NewOnline(&chainEnv{length: 2}, l, c)
	require.NoError(t, err)
	o.ShowProgress(true)

	ctx := NewContext(c)
	require.NoError(t, o.Run(ctx))
	require.Equal(t, 3, ctx.Episode)
	require.Equal(t, 6, l.trainSteps)

	// Nothing is left to run, so no bar is shown
	require.NoError(t, o.Run(ctx))
	require.Equal(t, 3, ctx.Episode)
}

func TestRunStopsOnError(t *testing.T) {
	c := testConfig(3)
	trainErr := errors.New("train failed")
	l := &recorder{trainErr: trainErr}
	o, err := NewOnline(&chainEnv{length: 3}, l, c)
	require.NoError(t, err)

	ctx := NewContext(c)
	err = o.Run(ctx)
	require.ErrorIs(t, err, trainErr)
	require.Equal(t, 0, ctx.Episode)
	require.Equal(t, 1, l.trainSteps)
}

func TestDemoRenders(t *testing.T) {
	e := &chainEnv{length: 4}
	o, err := NewOnline(e, &recorder{}, testConfig(1))
	require.NoError(t, err)

	_, err = o.Demo(NewContext(testConfig(1)))
	require.NoError(t, err)
	require.Equal(t, 5, e.renders)
}

func TestScheduleNext(t *testing.T) {
	s := Schedule{Initial: 0.99, Decay: 0.9999, Min: 0.1}
	eps := s.Initial
	for i := 0; i < 50000; i++ {
		next := s.Next(eps)
		require.LessOrEqual(t, next, eps)
		require.GreaterOrEqual(t, next, s.Min)
		eps = next
	}
	require.Equal(t, s.Min, eps)

	require.Error(t, Schedule{Initial: 0.05, Decay: 0.9, Min: 0.1}.Validate())
	require.Error(t, Schedule{Initial: 0.5, Decay: 1.5, Min: 0.1}.Validate())
}
