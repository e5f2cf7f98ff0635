package reactive

import (
	"log/slog"
)

// DefaultMaxDepth bounds nested notification passes.
const DefaultMaxDepth = 100

// Runtime is the execution context of a signal graph: it holds the
// currently running effect and the notification depth.
type Runtime struct {
	active   *Effect
	depth    int
	maxDepth int
	dropped  int
	logger   *slog.Logger
	onRun    func(*Effect)
	onDrop   func(source uint64)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxDepth sets the cascade limit. n <= 0 means DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(rt *Runtime) {
		if n > 0 {
			rt.maxDepth = n
		}
	}
}

// WithLogger sets the logger for dropped cascades.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithRunHook calls fn before every effect run, first runs included.
func WithRunHook(fn func(*Effect)) Option {
	return func(rt *Runtime) { rt.onRun = fn }
}

// WithDropHook calls fn with the writing signal's id whenever the depth
// limit cuts off a notification pass.
func WithDropHook(fn func(source uint64)) Option {
	return func(rt *Runtime) { rt.onDrop = fn }
}

// NewRuntime creates an empty runtime.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Active returns the effect currently running, or nil.
func (rt *Runtime) Active() *Effect {
	return rt.active
}

// Dropped returns how many notification passes were cut off by the
// depth limit.
func (rt *Runtime) Dropped() int {
	return rt.dropped
}

// RunEffect creates an effect for fn and runs it once, subscribing it to
// every signal it reads. The effect re-runs whenever one of those signals
// changes.
func (rt *Runtime) RunEffect(fn func()) *Effect {
	e := &Effect{
		id: nextID(),
		rt: rt,
		fn: fn,
	}
	e.run()
	return e
}

// Untracked runs fn without an active effect, so its reads subscribe
// nothing.
func (rt *Runtime) Untracked(fn func()) {
	prev := rt.setActive(nil)
	defer rt.setActive(prev)
	fn()
}

// setActive installs e as the running effect and returns the previous one.
func (rt *Runtime) setActive(e *Effect) *Effect {
	prev := rt.active
	rt.active = e
	return prev
}

// notify runs subs in order, one notification pass.
func (rt *Runtime) notify(source uint64, subs []Listener) {
	if rt.depth >= rt.maxDepth {
		rt.dropped++
		rt.logger.Warn("reactive: notification depth exceeded, dropping pass",
			"signal", source,
			"depth", rt.depth,
			"subscribers", len(subs),
		)
		if rt.onDrop != nil {
			rt.onDrop(source)
		}
		return
	}
	rt.depth++
	defer func() { rt.depth-- }()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}
