package qjs

import (
	"log/slog"
	"time"

	"github.com/vango-dev/qcss/internal/config"
	"github.com/vango-dev/qcss/pkg/flip"
	"github.com/vango-dev/qcss/pkg/frame"
	"github.com/vango-dev/qcss/pkg/hydrate"
	"github.com/vango-dev/qcss/pkg/metrics"
	"github.com/vango-dev/qcss/pkg/reactive"
)

// Attributes names the DOM attributes the runtime uses.
type Attributes struct {
	ID  string
	Ref string
	Key string
}

type options struct {
	scheduler frame.Scheduler
	logger    *slog.Logger
	metrics   *metrics.Metrics
	attrs     Attributes
	duration  time.Duration
	easing    string
	maxDepth  int
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
		attrs: Attributes{
			ID:  hydrate.DefaultIDAttr,
			Ref: hydrate.DefaultRefAttr,
			Key: flip.DefaultKeyAttr,
		},
		duration: flip.DefaultDuration,
		easing:   flip.DefaultEasing,
		maxDepth: reactive.DefaultMaxDepth,
	}
}

// Option configures a Runtime.
type Option func(*options)

// WithScheduler sets the frame scheduler for the FLIP Play phase. Without
// one the document is used when it is a frame.Scheduler, otherwise Play
// waits in the queue returned by Runtime.Frames.
func WithScheduler(s frame.Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithLogger sets the logger shared by all components.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records runtime activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithAttributes overrides attribute names. Empty fields keep defaults.
func WithAttributes(a Attributes) Option {
	return func(o *options) {
		if a.ID != "" {
			o.attrs.ID = a.ID
		}
		if a.Ref != "" {
			o.attrs.Ref = a.Ref
		}
		if a.Key != "" {
			o.attrs.Key = a.Key
		}
	}
}

// WithFlip sets the Play transition duration and easing.
func WithFlip(duration time.Duration, easing string) Option {
	return func(o *options) {
		if duration > 0 {
			o.duration = duration
		}
		if easing != "" {
			o.easing = easing
		}
	}
}

// WithMaxDepth sets the reactive cascade limit.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// FromConfig applies the attributes, flip and reactive sections of cfg.
func FromConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		WithAttributes(Attributes{
			ID:  cfg.Attributes.ID,
			Ref: cfg.Attributes.Ref,
			Key: cfg.Attributes.Key,
		})(o)
		WithFlip(cfg.FlipDuration(), cfg.Flip.Easing)(o)
		WithMaxDepth(cfg.Reactive.MaxDepth)(o)
	}
}
