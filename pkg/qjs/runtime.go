package qjs

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/qcss/pkg/bridge"
	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/flip"
	"github.com/vango-dev/qcss/pkg/frame"
	"github.com/vango-dev/qcss/pkg/hydrate"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/metrics"
	"github.com/vango-dev/qcss/pkg/reactive"
	"github.com/vango-dev/qcss/pkg/selector"
)

const tracerName = "github.com/vango-dev/qcss/pkg/qjs"

// Runtime is the assembled qcss runtime for one document.
type Runtime struct {
	doc      dom.Document
	opts     options
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	reactive *reactive.Runtime
	animator *flip.Animator
	frames   *frame.Manual

	manifest *manifest.Manifest
	resolver *selector.Resolver
	hydrator *hydrate.Hydrator
	builder  *bridge.Builder
}

// New creates a runtime for doc with an empty manifest.
func New(doc dom.Document, opts ...Option) *Runtime {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Runtime{
		doc:     doc,
		opts:    o,
		logger:  o.logger,
		metrics: o.metrics,
		tracer:  otel.Tracer(tracerName),
	}
	r.reactive = reactive.NewRuntime(
		reactive.WithMaxDepth(o.maxDepth),
		reactive.WithLogger(o.logger),
		reactive.WithRunHook(func(*reactive.Effect) { r.metrics.EffectRun() }),
		reactive.WithDropHook(func(uint64) { r.metrics.CascadeDropped() }),
	)
	sched := o.scheduler
	if sched == nil {
		if s, ok := doc.(frame.Scheduler); ok {
			sched = s
		} else {
			r.frames = frame.NewManual()
			sched = r.frames
		}
	}
	r.animator = flip.New(sched,
		flip.WithKeyAttr(o.attrs.Key),
		flip.WithDuration(o.duration),
		flip.WithEasing(o.easing),
		flip.WithLogger(o.logger),
	)
	r.setManifest(manifest.Empty())
	return r
}

func (r *Runtime) setManifest(m *manifest.Manifest) {
	if m == nil {
		m = manifest.Empty()
	}
	r.manifest = m
	r.resolver = selector.NewResolver(m,
		selector.WithIDAttr(r.opts.attrs.ID),
		selector.WithRefAttr(r.opts.attrs.Ref),
	)
	r.hydrator = hydrate.New(m,
		hydrate.WithIDAttr(r.opts.attrs.ID),
		hydrate.WithRefAttr(r.opts.attrs.Ref),
		hydrate.WithLogger(r.logger),
	)
	r.builder = bridge.NewBuilder(r.doc, m,
		bridge.WithIDAttr(r.opts.attrs.ID),
		bridge.WithRefAttr(r.opts.attrs.Ref),
	)
}

// Init installs m (nil means empty) and, if hydrateBody is set, hydrates
// the document body.
func (r *Runtime) Init(m *manifest.Manifest, hydrateBody bool) hydrate.Stats {
	return r.InitContext(context.Background(), m, hydrateBody)
}

// InitContext is Init with a parent context for tracing.
func (r *Runtime) InitContext(ctx context.Context, m *manifest.Manifest, hydrateBody bool) hydrate.Stats {
	r.setManifest(m)
	r.logger.Info("qjs: manifest installed", "entries", r.manifest.Len())
	if !hydrateBody {
		return hydrate.Stats{}
	}
	return r.HydrateContext(ctx, nil, "")
}

// Frames returns the runtime's own frame queue, or nil when a scheduler
// was supplied or the document is one. The host calls Flush once per
// display frame to run pending FLIP Play phases.
func (r *Runtime) Frames() *frame.Manual {
	return r.frames
}

// Manifest returns the installed manifest.
func (r *Runtime) Manifest() *manifest.Manifest {
	return r.manifest
}

// Document returns the document the runtime drives.
func (r *Runtime) Document() dom.Document {
	return r.doc
}

// Reactive returns the signal runtime.
func (r *Runtime) Reactive() *reactive.Runtime {
	return r.reactive
}

// Hydrate assigns identifiers under root, the document body when root is
// nil, starting from the base path.
func (r *Runtime) Hydrate(root dom.Node, base string) hydrate.Stats {
	return r.HydrateContext(context.Background(), root, base)
}

// HydrateContext is Hydrate with a parent context for tracing.
func (r *Runtime) HydrateContext(ctx context.Context, root dom.Node, base string) hydrate.Stats {
	if root == nil && r.doc != nil {
		root = r.doc.Body()
	}

	_, span := r.tracer.Start(ctx, "qcss.hydrate",
		trace.WithAttributes(attribute.String("qcss.base", base)),
	)
	defer span.End()

	start := time.Now()
	st := r.hydrator.Hydrate(root, base)
	r.metrics.ObserveHydrate(st, time.Since(start))

	span.SetAttributes(
		attribute.Int("qcss.visited", st.Visited),
		attribute.Int("qcss.assigned", st.Assigned),
		attribute.Int("qcss.missed", st.Missed),
	)
	return st
}

// ResolvePath maps a structural path to a query target.
func (r *Runtime) ResolvePath(path string) selector.Target {
	t := r.resolver.Resolve(path)
	r.metrics.ObserveResolve(t.Kind)
	return t
}

// Select returns the first element in the document matching path, or nil.
func (r *Runtime) Select(path string) dom.Node {
	return selector.Select(r.root(), r.ResolvePath(path))
}

// SelectAll returns every element in the document matching path.
func (r *Runtime) SelectAll(path string) []dom.Node {
	return selector.SelectAll(r.root(), r.ResolvePath(path))
}

func (r *Runtime) root() dom.Node {
	if r.doc == nil {
		return nil
	}
	return r.doc.DocumentElement()
}

// Flip runs mutate and animates the keyed children of container.
func (r *Runtime) Flip(container dom.Node, mutate func()) flip.Result {
	res := r.animator.Flip(container, mutate)
	r.metrics.ObserveFlip(res)
	return res
}

// RunEffect runs fn now and again whenever a signal it read changes.
func (r *Runtime) RunEffect(fn func()) *reactive.Effect {
	return r.reactive.RunEffect(fn)
}

// GetVar reads a CSS custom property from the document element.
func (r *Runtime) GetVar(name string) string {
	return bridge.GetVar(r.doc, name)
}

// H creates an element for a structural path.
func (r *Runtime) H(tag, path string, props bridge.Props, children ...any) dom.Container {
	return r.builder.H(tag, path, props, children...)
}

// Watch re-installs the manifest and re-hydrates the body whenever store
// swaps, posting the work to the display goroutine through p. The
// returned function stops watching.
func (r *Runtime) Watch(store *manifest.Store, p frame.Poster) func() {
	return store.Subscribe(func(m *manifest.Manifest) {
		p.Post(func() {
			r.Init(m, true)
			r.metrics.ManifestLoaded(m, nil)
		})
	})
}

// CreateSignal creates a signal on r and returns its read and write
// functions.
func CreateSignal[T any](r *Runtime, initial T) (func() T, func(T)) {
	return reactive.CreateSignal(r.reactive, initial)
}

// NewSignal creates a typed signal on r.
func NewSignal[T any](r *Runtime, initial T) *reactive.Signal[T] {
	return reactive.NewSignal(r.reactive, initial)
}

// BindVar keeps the CSS custom property name on the document element equal
// to read().
func BindVar[T any](r *Runtime, name string, read func() T) *reactive.Effect {
	return bridge.BindVar(r.reactive, r.doc.DocumentElement(), name, read)
}

// RenderList replaces the children of container with one rendered node
// per item.
func RenderList[T any](r *Runtime, container dom.Container, items []T, render func(item T, index int) dom.Node) {
	bridge.RenderList(container, items, render)
}
