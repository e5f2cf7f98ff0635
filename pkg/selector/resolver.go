package selector

import (
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/qpath"
)

// Default attribute names.
const (
	DefaultIDAttr  = "q-id"
	DefaultRefAttr = "data-ref"
)

// Resolver maps structural paths to targets for one manifest.
// It holds no mutable state; Resolve is pure.
type Resolver struct {
	manifest *manifest.Manifest
	idAttr   string
	refAttr  string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIDAttr sets the identifier attribute hash targets select on.
func WithIDAttr(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.idAttr = name
		}
	}
}

// WithRefAttr sets the reference attribute legacy chains select on.
func WithRefAttr(name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.refAttr = name
		}
	}
}

// NewResolver creates a resolver. A nil manifest behaves as empty.
func NewResolver(m *manifest.Manifest, opts ...Option) *Resolver {
	if m == nil {
		m = manifest.Empty()
	}
	r := &Resolver{
		manifest: m,
		idAttr:   DefaultIDAttr,
		refAttr:  DefaultRefAttr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Manifest returns the manifest the resolver reads.
func (r *Resolver) Manifest() *manifest.Manifest {
	return r.manifest
}

// Resolve maps a structural path to a target. Whitespace runs separate
// segments. A blank path yields an empty legacy target.
func (r *Resolver) Resolve(path string) Target {
	p := qpath.Split(path)
	if p.IsEmpty() {
		return Target{Kind: KindLegacy, Attr: r.refAttr}
	}

	if id, ok := r.manifest.Lookup(p.String()); ok {
		return Target{Kind: KindHash, Attr: r.idAttr, Hash: id}
	}

	leaf := qpath.Tokenize(p.Leaf())
	if leaf.HasSuffix() {
		key := qpath.Join(p.Parent().String(), leaf.Identity)
		if id, ok := r.manifest.Lookup(key); ok {
			return Target{Kind: KindHashSuffix, Attr: r.idAttr, Hash: id, Suffix: leaf.Suffix}
		}
	}

	tokens := p.Tokens()
	steps := make([]Step, len(tokens))
	for i, tok := range tokens {
		steps[i] = Step{Ref: tok.Identity}
	}
	steps[len(steps)-1].Suffix = leaf.Suffix
	return Target{Kind: KindLegacy, Attr: r.refAttr, Steps: steps}
}
