// Package hydrate stamps manifest identifiers onto a tree.
//
// Elements carrying the reference attribute (data-ref) contribute one
// segment to the structural path of everything beneath them. For each
// such element the hydrator looks up the accumulated path in the
// manifest, then the bare reference on a miss, and writes the identifier
// attribute (q-id) on a hit. Elements without the reference attribute are
// transparent: their children inherit the parent's path.
package hydrate

import (
	"log/slog"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/qpath"
)

// Default attribute names.
const (
	DefaultIDAttr  = "q-id"
	DefaultRefAttr = "data-ref"
)

// Stats summarizes one Hydrate call.
type Stats struct {
	// Visited counts every element walked.
	Visited int
	// Marked counts elements carrying the reference attribute.
	Marked int
	// Assigned counts marked elements that received an identifier.
	Assigned int
	// LeafFallbacks counts assignments that used the bare reference.
	LeafFallbacks int
	// Missed counts marked elements with no manifest entry.
	Missed int
	// Missing lists the paths that missed, in traversal order.
	Missing []string
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Visited += other.Visited
	s.Marked += other.Marked
	s.Assigned += other.Assigned
	s.LeafFallbacks += other.LeafFallbacks
	s.Missed += other.Missed
	s.Missing = append(s.Missing, other.Missing...)
}

// Hydrator assigns identifiers from one manifest.
type Hydrator struct {
	manifest *manifest.Manifest
	idAttr   string
	refAttr  string
	logger   *slog.Logger
}

// Option configures a Hydrator.
type Option func(*Hydrator)

// WithIDAttr sets the attribute identifiers are written to.
func WithIDAttr(name string) Option {
	return func(h *Hydrator) {
		if name != "" {
			h.idAttr = name
		}
	}
}

// WithRefAttr sets the attribute segments are read from.
func WithRefAttr(name string) Option {
	return func(h *Hydrator) {
		if name != "" {
			h.refAttr = name
		}
	}
}

// WithLogger sets the logger for per-element debug output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hydrator) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a hydrator. A nil manifest behaves as empty.
func New(m *manifest.Manifest, opts ...Option) *Hydrator {
	if m == nil {
		m = manifest.Empty()
	}
	h := &Hydrator{
		manifest: m,
		idAttr:   DefaultIDAttr,
		refAttr:  DefaultRefAttr,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Manifest returns the manifest identifiers come from.
func (h *Hydrator) Manifest() *manifest.Manifest {
	return h.manifest
}

// Hydrate walks root in pre-order with base as the starting path and
// assigns identifiers. Calling it again on the same tree writes the same
// values.
func (h *Hydrator) Hydrate(root dom.Node, base string) Stats {
	var st Stats
	if root == nil {
		return st
	}
	h.walk(root, base, &st)
	h.logger.Debug("hydrate: done",
		"visited", st.Visited,
		"marked", st.Marked,
		"assigned", st.Assigned,
		"missed", st.Missed,
	)
	return st
}

func (h *Hydrator) walk(n dom.Node, base string, st *Stats) {
	st.Visited++

	path := base
	if ref, ok := n.Attr(h.refAttr); ok {
		st.Marked++
		path = qpath.Join(base, ref)
		if id, leaf, found := h.manifest.LookupLeaf(path); found {
			n.SetAttr(h.idAttr, id)
			st.Assigned++
			if leaf {
				st.LeafFallbacks++
			}
			h.logger.Debug("hydrate: assigned", "path", path, "id", id, "leaf", leaf)
		} else {
			st.Missed++
			st.Missing = append(st.Missing, path)
		}
	}

	for _, c := range n.Children() {
		h.walk(c, path, st)
	}
}

// Paths returns the structural path of every marked element under root,
// in pre-order, without modifying the tree.
func Paths(root dom.Node, base, refAttr string) []string {
	if refAttr == "" {
		refAttr = DefaultRefAttr
	}
	var out []string
	var walk func(n dom.Node, base string)
	walk = func(n dom.Node, base string) {
		path := base
		if ref, ok := n.Attr(refAttr); ok {
			path = qpath.Join(base, ref)
			out = append(out, path)
		}
		for _, c := range n.Children() {
			walk(c, path)
		}
	}
	if root != nil {
		walk(root, base)
	}
	return out
}
