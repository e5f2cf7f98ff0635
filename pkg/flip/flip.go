// Package flip animates layout changes with the FLIP technique.
//
// Flip records the position of every keyed child of a container (First),
// runs a mutation, reads the new positions (Last), moves each displaced
// child back to where it was with an instant transform (Invert), and on
// the next frame clears the transform under a transition (Play) so the
// child slides into its new place.
package flip

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/frame"
)

// Defaults.
const (
	DefaultKeyAttr  = "key"
	DefaultDuration = 300 * time.Millisecond
	DefaultEasing   = "cubic-bezier(0.2, 0, 0.2, 1)"
)

// Result describes one Flip call.
type Result struct {
	// Animated lists the keys that moved, in their new order.
	Animated []string
	// Entered lists keys present only after the mutation.
	Entered []string
	// Exited lists keys present only before the mutation.
	Exited []string
}

// Moved reports whether any child was animated.
func (r Result) Moved() bool {
	return len(r.Animated) > 0
}

// Animator runs FLIP animations on one scheduler.
type Animator struct {
	scheduler frame.Scheduler
	keyAttr   string
	duration  time.Duration
	easing    string
	logger    *slog.Logger
}

// Option configures an Animator.
type Option func(*Animator)

// WithKeyAttr sets the attribute that identifies children across the
// mutation.
func WithKeyAttr(name string) Option {
	return func(a *Animator) {
		if name != "" {
			a.keyAttr = name
		}
	}
}

// WithDuration sets the Play transition duration.
func WithDuration(d time.Duration) Option {
	return func(a *Animator) {
		if d > 0 {
			a.duration = d
		}
	}
}

// WithEasing sets the Play timing function.
func WithEasing(easing string) Option {
	return func(a *Animator) {
		if easing != "" {
			a.easing = easing
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an animator that schedules Play on s.
func New(s frame.Scheduler, opts ...Option) *Animator {
	a := &Animator{
		scheduler: s,
		keyAttr:   DefaultKeyAttr,
		duration:  DefaultDuration,
		easing:    DefaultEasing,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Transition returns the Play transition value,
// "transform 0.3s cubic-bezier(0.2, 0, 0.2, 1)" by default.
func (a *Animator) Transition() string {
	return "transform " + strconv.FormatFloat(a.duration.Seconds(), 'f', -1, 64) + "s " + a.easing
}

type keyed struct {
	key string
	el  dom.Element
}

// children returns the keyed element children of container.
func (a *Animator) children(container dom.Node) []keyed {
	var out []keyed
	for _, el := range dom.Elements(container) {
		key, ok := el.Attr(a.keyAttr)
		if !ok {
			continue
		}
		out = append(out, keyed{key: key, el: el})
	}
	return out
}

// Flip runs mutate and animates keyed children of container from their
// old positions to their new ones. Without keyed children it just calls
// mutate.
func (a *Animator) Flip(container dom.Node, mutate func()) Result {
	if mutate == nil {
		mutate = func() {}
	}

	// First.
	before := a.children(container)
	if len(before) == 0 {
		mutate()
		return Result{}
	}
	first := make(map[string]dom.Rect, len(before))
	for _, k := range before {
		first[k.key] = k.el.BoundingRect()
	}

	mutate()

	// Last + Invert.
	var res Result
	var moved []dom.Element
	seen := make(map[string]bool, len(first))
	for _, k := range a.children(container) {
		seen[k.key] = true
		from, ok := first[k.key]
		if !ok {
			res.Entered = append(res.Entered, k.key)
			continue
		}
		to := k.el.BoundingRect()
		dx := from.Left - to.Left
		dy := from.Top - to.Top
		if dx == 0 && dy == 0 {
			continue
		}
		k.el.SetStyle("transform", translate(dx, dy))
		k.el.SetStyle("transition", "transform 0s")
		moved = append(moved, k.el)
		res.Animated = append(res.Animated, k.key)
	}
	for _, k := range before {
		if !seen[k.key] {
			res.Exited = append(res.Exited, k.key)
			seen[k.key] = true
		}
	}

	if len(moved) == 0 {
		return res
	}

	// Play.
	transition := a.Transition()
	a.scheduler.RequestFrame(func() {
		for _, el := range moved {
			el.SetStyle("transform", "")
			el.SetStyle("transition", transition)
		}
	})

	a.logger.Debug("flip: animating",
		"moved", len(res.Animated),
		"entered", len(res.Entered),
		"exited", len(res.Exited),
	)
	return res
}

func translate(dx, dy float64) string {
	return "translate(" + px(dx) + ", " + px(dy) + ")"
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
