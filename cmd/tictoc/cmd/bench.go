package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tictoc/internal/bench"
	"github.com/psantana5/tictoc/pkg/api"
	"github.com/psantana5/tictoc/pkg/logging"
	"github.com/psantana5/tictoc/pkg/tictoc"
)

var (
	benchIterations int
	benchWorkers    int
	benchSleep      time.Duration
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run instrumented benchmark workloads",
	Long: `Runs CPU-bound, blocking and parallel demo workloads with timers
around each region, then aggregates and prints the per-tag statistics.`,
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchIterations, "iterations", 0, "iterations per workload (default from config)")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "parallel workers (default from config)")
	benchCmd.Flags().DurationVar(&benchSleep, "sleep", 0, "sleep workload duration (default from config)")
}

// benchReport is the JSON shape emitted with --output json
type benchReport struct {
	Host   bench.Host              `json:"host"`
	Config bench.Config            `json:"config"`
	Timers map[string]api.TagStats `json:"timers"`
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := bench.Config{
		Iterations: benchIterations,
		Workers:    benchWorkers,
		Sleep:      benchSleep,
	}
	if cfg.Iterations == 0 {
		cfg.Iterations = viper.GetInt("bench.iterations")
	}
	if cfg.Workers == 0 {
		cfg.Workers = viper.GetInt("bench.workers")
	}
	if cfg.Sleep == 0 {
		cfg.Sleep = viper.GetDuration("bench.sleep")
	}

	log := logging.NewComponentLogger("bench", logging.INFO, false)
	reg := tictoc.New(
		tictoc.WithVerbose(verbose),
		tictoc.WithWarnSink(func(message string) { log.Warn(message) }),
	)

	host := bench.HostInfo()
	bench.Run(reg, cfg)
	stats := reg.Aggregate()

	if IsJSONOutput() {
		report := benchReport{
			Host:   host,
			Config: cfg,
			Timers: make(map[string]api.TagStats, len(stats)),
		}
		for tag, st := range stats {
			report.Timers[tag] = api.TagStats{
				MeanNs:     st.Mean,
				VarianceNs: st.Variance(),
				StdDevNs:   st.StdDev(),
				MinNs:      st.Min,
				MaxNs:      st.Max,
				Count:      st.Count,
			}
		}
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Host: %s (%d threads, %s/%s)\n\n", host.CPUModel, host.CPUThreads, host.OS, host.Arch)

	tags := make([]string, 0, len(stats))
	for tag := range stats {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Tag", "Count", "Mean", "StdDev", "Min", "Max")
	for _, tag := range tags {
		st := stats[tag]
		table.Append(
			tag,
			fmt.Sprintf("%d", st.Count),
			formatNs(st.Mean),
			formatNs(st.StdDev()),
			formatNs(st.Min),
			formatNs(st.Max),
		)
	}
	table.Render()
	return nil
}

func formatNs(ns float64) string {
	return time.Duration(ns).Round(time.Microsecond).String()
}
