package reactive

// Effect is a procedure that re-runs when a signal it read changes.
type Effect struct {
	id       uint64
	rt       *Runtime
	fn       func()
	sources  []*signalBase
	runs     int
	disposed bool
}

// MarkDirty re-runs the effect. Implements Listener.
func (e *Effect) MarkDirty() {
	e.run()
}

// ID implements Listener.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has executed.
func (e *Effect) Runs() int {
	return e.runs
}

// SourceCount returns the number of signals the last run read.
func (e *Effect) SourceCount() int {
	return len(e.sources)
}

// Disposed reports whether Dispose was called.
func (e *Effect) Disposed() bool {
	return e.disposed
}

// Dispose detaches the effect from every signal. It never runs again.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.clearSources()
}

// run drops last run's edges, then executes fn with e active so its reads
// rebuild them.
func (e *Effect) run() {
	if e.disposed {
		return
	}
	e.clearSources()

	if e.rt.onRun != nil {
		e.rt.onRun(e)
	}
	e.runs++

	prev := e.rt.setActive(e)
	defer e.rt.setActive(prev)
	e.fn()
}

func (e *Effect) addSource(s *signalBase) {
	e.sources = append(e.sources, s)
}

func (e *Effect) clearSources() {
	for _, s := range e.sources {
		s.unsubscribe(e)
	}
	e.sources = e.sources[:0]
}
