// Package bench runs instrumented demo workloads against a timer
// registry. It backs the `tictoc bench` command.
package bench

import (
	"sync"
	"time"

	"github.com/psantana5/tictoc/pkg/tictoc"
)

// Config controls the benchmark workloads
type Config struct {
	Iterations int           `json:"iterations" yaml:"iterations"`
	Workers    int           `json:"workers" yaml:"workers"`
	Sleep      time.Duration `json:"sleep" yaml:"sleep"`
}

// DefaultConfig returns the default benchmark configuration
func DefaultConfig() Config {
	return Config{
		Iterations: 100,
		Workers:    4,
		Sleep:      2 * time.Millisecond,
	}
}

// spinSink keeps the compiler from discarding the busy loop
var spinSink uint64

func spin(n int) {
	var sum uint64
	for i := 0; i < n; i++ {
		sum += uint64(i) * uint64(i)
	}
	spinSink = sum
}

// Run executes the workloads, recording every interval into reg under
// the tags "spin", "sleep" and "parallel". The caller aggregates.
func Run(reg *tictoc.Registry, cfg Config) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}

	// CPU-bound region, scoped bracketing
	for i := 0; i < cfg.Iterations; i++ {
		func() {
			defer reg.Scoped("spin").Stop()
			spin(200_000)
		}()
	}

	// Blocking region, explicit start/stop bracketing
	reg.Start("sleep")
	time.Sleep(cfg.Sleep)
	reg.Stop("sleep")

	// Fan-out region: each goroutine times the same tag through its
	// own worker handle
	perWorker := cfg.Iterations / cfg.Workers
	if perWorker == 0 {
		perWorker = 1
	}
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(h tictoc.Worker) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h.Start("parallel")
				spin(50_000)
				h.Stop("parallel")
			}
		}(reg.Worker(w))
	}
	wg.Wait()
}
