package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aunum/log"
	"github.com/gofrs/uuid"
	"github.com/samuelfneumann/godqn/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/godqn/environment/envconfig"
	"github.com/samuelfneumann/godqn/experiment"
	"github.com/samuelfneumann/godqn/experiment/checkpointer"
	"github.com/samuelfneumann/godqn/experiment/plot"
	"github.com/samuelfneumann/godqn/experiment/tracker"
	"github.com/samuelfneumann/godqn/network"
	"github.com/samuelfneumann/godqn/solver"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// trainFlags holds the flags of the train command which override the
// run configuration
type trainFlags struct {
	environment string
	gym         bool
	cutoff      uint

	hidden       []int
	gamma        float64
	learningRate float64
	batchSize    int
	capacity     int
	minReplay    int
	loss         string

	episodes     int
	syncPeriod   int
	epsilon      float64
	epsilonDecay float64
	epsilonMin   float64
	penalty      float64
	noPenalty    bool
	logEvery     int

	plot            bool
	demo            bool
	progress        bool
	checkpointEvery int
}

// TrainCommand returns the command which trains a DeepQ agent
func TrainCommand() *cobra.Command {
	var f trainFlags

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a DeepQ agent on an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := LoadRunConfig(configFile)
			if err != nil {
				return err
			}
			if err := f.apply(cmd.Flags(), &c); err != nil {
				return err
			}
			return train(c, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.environment, "env", "e", string(envconfig.Cartpole), "Environment to train on: Cartpole, MountainCar, Acrobot, LunarLander or a Gym ID with --gym")
	flags.BoolVar(&f.gym, "gym", false, "Interpret --env as an OpenAI Gym environment ID")
	flags.UintVar(&f.cutoff, "cutoff", 500, "Maximum number of steps per episode")

	flags.IntSliceVar(&f.hidden, "hidden", []int{200, 200}, "Hidden layer sizes, each with a tanh activation")
	flags.Float64Var(&f.gamma, "gamma", 0.99, "Discount factor")
	flags.Float64Var(&f.learningRate, "lr", 1e-2, "Adam step size")
	flags.IntVar(&f.batchSize, "batch", 32, "Transitions per gradient step")
	flags.IntVar(&f.capacity, "capacity", 10000, "Replay buffer capacity")
	flags.IntVar(&f.minReplay, "min-replay", 100, "Transitions stored before training starts")
	flags.StringVar(&f.loss, "loss", string(deepq.Sum), "Reduction of the squared errors of a batch: sum or mean")

	flags.IntVar(&f.episodes, "episodes", 300, "Number of episodes to run")
	flags.IntVar(&f.syncPeriod, "sync", 25, "Steps between target network syncs")
	flags.Float64Var(&f.epsilon, "epsilon", 0.99, "Initial exploration rate")
	flags.Float64Var(&f.epsilonDecay, "epsilon-decay", 0.9999, "Exploration rate decay per episode")
	flags.Float64Var(&f.epsilonMin, "epsilon-min", 0.1, "Minimum exploration rate")
	flags.Float64Var(&f.penalty, "penalty", -200, "Reward stored for terminal transitions")
	flags.BoolVar(&f.noPenalty, "no-penalty", false, "Store terminal rewards unchanged")
	flags.IntVar(&f.logEvery, "log-every", 10, "Episodes between progress logs, 0 disables logging")

	flags.BoolVar(&f.plot, "plot", false, "Save a plot of the episodic returns")
	flags.BoolVar(&f.demo, "demo", false, "Run and render one more episode after training")
	flags.BoolVar(&f.progress, "progress", false, "Display a progress bar")
	flags.IntVar(&f.checkpointEvery, "checkpoint-every", 0, "Episodes between weight checkpoints, 0 disables checkpointing")
	return cmd
}

// apply overwrites the values of c with those of each flag set on the
// command line
func (f trainFlags) apply(flags *pflag.FlagSet, c *RunConfig) error {
	if flags.Changed("env") {
		c.Environment.Environment = envconfig.EnvName(f.environment)
		switch c.Environment.Environment {
		case envconfig.MountainCar:
			c.Environment.Task = envconfig.Goal
		case envconfig.Cartpole:
			c.Environment.Task = envconfig.Balance
		case envconfig.Acrobot:
			c.Environment.Task = envconfig.SwingUp
		case envconfig.LunarLander:
			c.Environment.Task = envconfig.Land
		}
	}
	if flags.Changed("gym") {
		c.Environment.Gym = f.gym
	}
	if flags.Changed("cutoff") {
		c.Environment.EpisodeCutoff = f.cutoff
	}

	if flags.Changed("hidden") {
		c.Agent.Hidden = f.hidden
		c.Agent.Biases = make([]bool, len(f.hidden))
		c.Agent.Activations = make([]*network.Activation, len(f.hidden))
		for i := range f.hidden {
			c.Agent.Biases[i] = true
			c.Agent.Activations[i] = network.TanH()
		}
	}
	if flags.Changed("gamma") {
		c.Agent.Gamma = f.gamma
	}
	if flags.Changed("lr") {
		adam, err := solver.NewDefaultAdam(f.learningRate, 1)
		if err != nil {
			return fmt.Errorf("apply: %w", err)
		}
		c.Agent.Solver = adam
	}
	if flags.Changed("batch") {
		c.Agent.BatchSize = f.batchSize
	}
	if flags.Changed("capacity") {
		c.Agent.ExpReplay.Capacity = f.capacity
	}
	if flags.Changed("min-replay") {
		c.Agent.ExpReplay.MinCapacity = f.minReplay
	}
	if flags.Changed("loss") {
		c.Agent.Loss = deepq.Reduction(f.loss)
	}

	if flags.Changed("episodes") {
		c.Experiment.Episodes = f.episodes
	}
	if flags.Changed("sync") {
		c.Experiment.SyncPeriod = f.syncPeriod
	}
	if flags.Changed("epsilon") {
		c.Experiment.Schedule.Initial = f.epsilon
	}
	if flags.Changed("epsilon-decay") {
		c.Experiment.Schedule.Decay = f.epsilonDecay
	}
	if flags.Changed("epsilon-min") {
		c.Experiment.Schedule.Min = f.epsilonMin
	}
	if flags.Changed("penalty") {
		penalty := f.penalty
		c.Experiment.TerminalPenalty = &penalty
	}
	if f.noPenalty {
		c.Experiment.TerminalPenalty = nil
	}
	if flags.Changed("log-every") {
		c.Experiment.LogEvery = f.logEvery
	}
	return nil
}

// train runs a single training run described by c, saving all results
// in a new sub-directory of saveDir
func train(c RunConfig, f trainFlags) error {
	id, err := uuid.NewV4()
	if err != nil {
		return fmt.Errorf("train: could not create run id: %w", err)
	}
	runDir := filepath.Join(saveDir, id.String())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if f.demo && c.Environment.RenderDir == "" {
		c.Environment.RenderDir = filepath.Join(runDir, "frames")
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := writeJSON(filepath.Join(runDir, "config.json"), c); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	e, _, err := c.Environment.Create(seed)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	defer e.Close()

	learner, err := deepq.New(e, c.Agent, seed)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	returns := tracker.NewReturn(filepath.Join(runDir, "returns.bin"))
	lengths := tracker.NewEpisodeLength(filepath.Join(runDir, "lengths.bin"))
	o, err := experiment.NewOnline(e, learner, c.Experiment, returns, lengths)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	o.ShowProgress(f.progress)

	if f.checkpointEvery > 0 {
		ck, err := checkpointer.NewNEpisode(f.checkpointEvery,
			learner.Online(), checkpointer.FilenameEnumerator(0,
				filepath.Join(runDir, "weights"), ".bin"))
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		o.AddCheckpointer(ck)
	}

	log.Infof("run %v: training on %v for %v episodes", id,
		c.Environment.Environment, c.Experiment.Episodes)
	start := time.Now()

	ctx := experiment.NewContext(c.Experiment)
	if err := o.Run(ctx); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	log.Successf("finished %v episodes (%v steps, %v gradient steps) in %v",
		ctx.Episode, ctx.GlobalStep, learner.GradientSteps(),
		time.Since(start).Round(time.Second))

	if err := o.Save(); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	weights, err := network.Save(learner.Online())
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "weights.bin"), weights,
		0o644); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if f.plot && len(ctx.Returns) > 0 {
		filename := filepath.Join(runDir, "rewards.png")
		if err := plot.Rewards(ctx.Returns, c.Experiment.AverageWindow,
			filename); err != nil {
			return fmt.Errorf("train: %w", err)
		}
		log.Infof("saved reward plot to %v", filename)
	}

	if f.demo {
		ret, err := o.Demo(ctx)
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		log.Infof("demo episode return: %.2f", ret)
	}

	log.Successf("results saved to %v", runDir)
	return nil
}

// writeJSON writes the indented JSON encoding of v to filename
func writeJSON(filename string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("writeJSON: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}
