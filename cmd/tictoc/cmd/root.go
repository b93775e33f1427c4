package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tictoc",
	Short: "Named-timer instrumentation toolkit",
	Long: `tictoc records elapsed wall-clock intervals under string tags and
aggregates them into per-tag statistics (mean, variance, min, max, count)
using a numerically stable online algorithm.

The CLI runs instrumented benchmark workloads and can serve the aggregated
statistics over HTTP in JSON and Prometheus exposition formats.`,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tictoc/config)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", true, "warn about unmatched and unstopped timers")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory with name ".tictoc/config" (without extension)
		configDir := filepath.Join(home, ".tictoc")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("tictoc")
	viper.AutomaticEnv() // read in environment variables that match

	viper.SetDefault("verbose", true)
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("bench.iterations", 100)
	viper.SetDefault("bench.workers", 4)
	viper.SetDefault("bench.sleep", "2ms")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if !rootCmd.PersistentFlags().Changed("verbose") {
			verbose = viper.GetBool("verbose")
		}
	}
}

// IsJSONOutput returns true if JSON output is requested
func IsJSONOutput() bool {
	return outputFormat == "json"
}
