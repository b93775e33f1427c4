// Package tictoc provides a concurrent named-timer registry.
//
// Callers bracket code regions with Start/Stop under a string tag;
// completed intervals are folded into per-tag running statistics
// (mean, variance, min, max, count) on Aggregate. Timers started from
// different workers are kept apart by a worker id, so the same tag can
// be timed concurrently from a parallel loop.
//
// Misuse never fails the caller: stopping a timer that was never
// started, or aggregating while timers are still open, only emits a
// warning through the configured sink (and only when verbose).
package tictoc

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/psantana5/tictoc/pkg/logging"
)

// DefaultTag is used when Start/Stop are called with an empty tag.
const DefaultTag = "tictoc"

// timerKey identifies one open timer: same tag from two workers are
// two independent timers.
type timerKey struct {
	tag    string
	worker int
}

type observation struct {
	tag      string
	duration time.Duration
}

// Registry records named timing intervals and aggregates them into
// per-tag statistics. All methods are safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	open       map[timerKey]time.Time
	pending    []observation
	aggregated map[string]*Stats

	verbose  bool
	warn     func(message string)
	workerID func() int
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithVerbose enables or disables warnings about unmatched stops and
// timers left open at aggregation time. Default true.
func WithVerbose(verbose bool) Option {
	return func(r *Registry) { r.verbose = verbose }
}

// WithWarnSink sets the function receiving diagnostic warnings.
// The default sink logs at WARN level.
func WithWarnSink(sink func(message string)) Option {
	return func(r *Registry) { r.warn = sink }
}

// WithWorkerID sets the provider for the calling worker's id, used to
// key open timers. The default provider returns 0, which is correct
// for single-goroutine use; parallel callers should either inject a
// provider or use Worker handles.
func WithWorkerID(provider func() int) Option {
	return func(r *Registry) { r.workerID = provider }
}

// WithClock sets the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New creates a Registry. Verbose defaults to true.
func New(opts ...Option) *Registry {
	r := &Registry{
		open:       make(map[timerKey]time.Time),
		aggregated: make(map[string]*Stats),
		verbose:    true,
		workerID:   func() int { return 0 },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.warn == nil {
		log := logging.NewComponentLogger("tictoc", logging.WARN, false)
		r.warn = func(message string) { log.Warn(message) }
	}
	return r
}

// Start records the current time under (tag, worker id). Starting a
// timer that is already open for the same key overwrites the previous
// start; timers for the same tag do not nest.
func (r *Registry) Start(tag string) {
	r.startWorker(tag, r.workerID())
}

// Stop closes the open timer for (tag, worker id) and queues the
// elapsed duration for the next Aggregate. Stopping a timer that was
// never started is a no-op apart from a warning when verbose.
func (r *Registry) Stop(tag string) {
	r.stopWorker(tag, r.workerID())
}

func (r *Registry) startWorker(tag string, worker int) {
	if tag == "" {
		tag = DefaultTag
	}
	key := timerKey{tag: tag, worker: worker}

	r.mu.Lock()
	r.open[key] = r.now()
	r.mu.Unlock()
}

func (r *Registry) stopWorker(tag string, worker int) {
	if tag == "" {
		tag = DefaultTag
	}
	// Read the clock before taking the lock so lock contention does
	// not inflate the measured interval.
	stopped := r.now()
	key := timerKey{tag: tag, worker: worker}

	r.mu.Lock()
	started, ok := r.open[key]
	if ok {
		delete(r.open, key)
		r.pending = append(r.pending, observation{tag: tag, duration: stopped.Sub(started)})
	}
	verbose := r.verbose
	r.mu.Unlock()

	if !ok && verbose {
		r.warn(fmt.Sprintf("stop %q: timer not started", tag))
	}
}

// Aggregate folds every interval recorded since the previous call into
// the per-tag running statistics and returns a snapshot of all
// statistics accumulated so far. Timers still open are reported as
// warnings when verbose but are left untouched; they can still be
// stopped later and will measure from their original start.
func (r *Registry) Aggregate() map[string]Stats {
	r.mu.Lock()

	var openTags []string
	if r.verbose {
		for key := range r.open {
			openTags = append(openTags, key.tag)
		}
	}

	for _, obs := range r.pending {
		st := r.aggregated[obs.tag]
		if st == nil {
			st = &Stats{}
			r.aggregated[obs.tag] = st
		}
		st.observe(float64(obs.duration.Nanoseconds()))
	}
	r.pending = nil

	snapshot := make(map[string]Stats, len(r.aggregated))
	for tag, st := range r.aggregated {
		snapshot[tag] = *st
	}
	r.mu.Unlock()

	sort.Strings(openTags)
	for _, tag := range openTags {
		r.warn(fmt.Sprintf("timer %q not stopped yet", tag))
	}
	return snapshot
}

// Reset discards all open timers, queued intervals and aggregated
// statistics. Open timers are dropped without a warning.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.open = make(map[timerKey]time.Time)
	r.pending = nil
	r.aggregated = make(map[string]*Stats)
	r.mu.Unlock()
}

// Worker is a Registry handle bound to a fixed worker id. It is meant
// for parallel loops where the caller owns the worker indices:
//
//	for w := 0; w < workers; w++ {
//		go func(h tictoc.Worker) {
//			h.Start("chunk")
//			process()
//			h.Stop("chunk")
//		}(reg.Worker(w))
//	}
type Worker struct {
	reg *Registry
	id  int
}

// Worker returns a handle whose Start/Stop/Scoped use the given id
// instead of the registry's worker id provider.
func (r *Registry) Worker(id int) Worker {
	return Worker{reg: r, id: id}
}

func (w Worker) Start(tag string) { w.reg.startWorker(tag, w.id) }

func (w Worker) Stop(tag string) { w.reg.stopWorker(tag, w.id) }

// Scoped starts a timer bound to this worker's id, to be stopped with
// defer.
func (w Worker) Scoped(tag string) *ScopedTimer {
	return newScopedTimer(w.reg, tag, w.id)
}
