package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/godqn/agent/nonlinear/discrete/deepq"
	"github.com/samuelfneumann/godqn/environment/envconfig"
	"github.com/samuelfneumann/godqn/experiment"
	"github.com/spf13/cobra"
)

// RunConfig configures a single training run
type RunConfig struct {
	Environment envconfig.Config
	Agent       deepq.Config
	Experiment  experiment.Config
}

// DefaultRunConfig returns a RunConfig which trains DeepQ with its
// default hyperparameters on Cartpole
func DefaultRunConfig() (RunConfig, error) {
	agent, err := deepq.DefaultConfig()
	if err != nil {
		return RunConfig{}, fmt.Errorf("defaultRunConfig: %w", err)
	}

	return RunConfig{
		Environment: envconfig.Config{
			Environment:   envconfig.Cartpole,
			Task:          envconfig.Balance,
			EpisodeCutoff: 500,
		},
		Agent:      agent,
		Experiment: experiment.DefaultConfig(),
	}, nil
}

// Validate checks each part of the RunConfig
func (r RunConfig) Validate() error {
	if err := r.Environment.Validate(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if err := r.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := r.Experiment.Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}
	return nil
}

// LoadRunConfig reads a RunConfig from a JSON file. Fields missing
// from the file keep their default values. If filename is empty, the
// default RunConfig is returned.
func LoadRunConfig(filename string) (RunConfig, error) {
	c, err := DefaultRunConfig()
	if err != nil || filename == "" {
		return c, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return RunConfig{}, fmt.Errorf("loadRunConfig: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return RunConfig{}, fmt.Errorf("loadRunConfig: could not decode "+
			"%v: %w", filename, err)
	}
	return c, nil
}

// ConfigCommand returns the command which prints the default run
// configuration
func ConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default JSON run configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := DefaultRunConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
