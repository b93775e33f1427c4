package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/tictoc/internal/bench"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for inspecting the effective tictoc configuration.`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the effective configuration",
	Long: `Prints the configuration the CLI would run with, after merging
defaults, the config file and environment variables, as YAML suitable for
~/.tictoc/config.yaml.`,
	RunE: runConfigView,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configViewCmd)
}

type effectiveConfig struct {
	Verbose bool         `yaml:"verbose"`
	Listen  string       `yaml:"listen"`
	Bench   benchSection `yaml:"bench"`
	Host    bench.Host   `yaml:"host"`
}

type benchSection struct {
	Iterations int           `yaml:"iterations"`
	Workers    int           `yaml:"workers"`
	Sleep      time.Duration `yaml:"sleep"`
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig{
		Verbose: viper.GetBool("verbose"),
		Listen:  viper.GetString("listen"),
		Bench: benchSection{
			Iterations: viper.GetInt("bench.iterations"),
			Workers:    viper.GetInt("bench.workers"),
			Sleep:      viper.GetDuration("bench.sleep"),
		},
		Host: bench.HostInfo(),
	}

	output, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Print(string(output))
	return nil
}
