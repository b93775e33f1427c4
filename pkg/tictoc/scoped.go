package tictoc

// DefaultScopedTag is used when Scoped is called with an empty tag.
const DefaultScopedTag = "scoped"

// ScopedTimer brackets a lexical scope: the timer starts when the
// ScopedTimer is created and stops when Stop runs, typically deferred:
//
//	defer reg.Scoped("load").Stop()
//
// Stop fires at most once per instance, so a stray second call (or a
// copy of the value calling Stop again) degrades to a no-op instead of
// closing someone else's timer.
type ScopedTimer struct {
	reg    *Registry
	tag    string
	worker int
	done   bool
}

// Scoped starts a timer tied to the returned instance. The worker id
// is captured at creation, so the deferred Stop matches the Start even
// if the provider would answer differently later.
func (r *Registry) Scoped(tag string) *ScopedTimer {
	return newScopedTimer(r, tag, r.workerID())
}

func newScopedTimer(reg *Registry, tag string, worker int) *ScopedTimer {
	if tag == "" {
		tag = DefaultScopedTag
	}
	reg.startWorker(tag, worker)
	return &ScopedTimer{reg: reg, tag: tag, worker: worker}
}

// Stop closes the interval opened at creation. Subsequent calls do
// nothing.
func (t *ScopedTimer) Stop() {
	if t.done {
		return
	}
	t.done = true
	t.reg.stopWorker(t.tag, t.worker)
}
