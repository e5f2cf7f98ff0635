// Package frame schedules work on the display loop.
//
// The runtime is single-threaded: signal writes, effect runs, hydration
// and the synchronous part of a FLIP animation all happen on one
// goroutine. The only deferred work is "run this on the next frame",
// expressed as a Scheduler so tests can drive frames by hand.
package frame

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs callbacks on the next display frame.
type Scheduler interface {
	RequestFrame(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// RequestFrame implements Scheduler.
func (f SchedulerFunc) RequestFrame(fn func()) {
	f(fn)
}

// Poster queues a task to run on the loop goroutine.
type Poster interface {
	Post(fn func())
}

// Manual is a Scheduler whose frames advance only when Flush is called.
// It is not safe for concurrent use.
type Manual struct {
	pending []func()
	frames  int
}

// NewManual returns an idle manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(fn func()) {
	if fn != nil {
		m.pending = append(m.pending, fn)
	}
}

// Pending returns the number of callbacks waiting for the next frame.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Frames returns how many frames have been flushed.
func (m *Manual) Frames() int {
	return m.frames
}

// Flush runs one frame: every callback requested before the call. Callbacks
// requested while flushing wait for the following frame.
func (m *Manual) Flush() int {
	batch := m.pending
	m.pending = nil
	m.frames++
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// DefaultInterval is 60 frames per second.
const DefaultInterval = time.Second / 60

// Loop is a host main loop for targets without a display engine. Tasks
// posted from any goroutine and frame callbacks run on the goroutine that
// calls Run, in order.
type Loop struct {
	interval time.Duration

	mu     sync.Mutex
	tasks  []func()
	frames []func()
	wake   chan struct{}
}

// NewLoop returns a loop ticking at interval (DefaultInterval if <= 0).
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		wake:     make(chan struct{}, 1),
	}
}

// Post queues fn to run on the loop as soon as possible.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RequestFrame implements Scheduler: fn runs on the next tick.
func (l *Loop) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Run processes tasks and frames until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.drainTasks()
		case <-ticker.C:
			l.drainTasks()
			l.tick()
		}
	}
}

func (l *Loop) drainTasks() {
	for {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			fn()
		}
	}
}

func (l *Loop) tick() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, fn := range frames {
		fn()
	}
}
