// Package bridge connects reactive state and the manifest to a document:
// CSS custom properties driven by signals, element construction that
// stamps identifiers, and list rendering.
package bridge

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/vango-dev/qcss/pkg/dom"
	"github.com/vango-dev/qcss/pkg/manifest"
	"github.com/vango-dev/qcss/pkg/qpath"
	"github.com/vango-dev/qcss/pkg/reactive"
)

// BindVar keeps the CSS custom property name on style equal to read().
// The returned effect re-runs whenever a signal read() depends on changes;
// dispose it to stop syncing.
func BindVar[T any](rt *reactive.Runtime, style dom.StyleSetter, name string, read func() T) *reactive.Effect {
	name = VarName(name)
	return rt.RunEffect(func() {
		style.SetStyle(name, formatValue(read()))
	})
}

// GetVar returns the computed value of a CSS custom property on the
// document element, trimmed.
func GetVar(doc dom.Document, name string) string {
	return strings.TrimSpace(doc.ComputedStyle(VarName(name)))
}

// VarName adds the "--" prefix to a bare custom property name.
func VarName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// Props are the attributes and listeners passed to H. A key starting with
// "on" whose value is a func() registers a listener for the lowercased
// event name after the prefix ("onClick" listens for "click"). Every other
// entry becomes an attribute.
type Props map[string]any

// Builder creates elements that carry manifest identifiers.
type Builder struct {
	doc      dom.Document
	manifest *manifest.Manifest
	idAttr   string
	refAttr  string
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDAttr sets the identifier attribute.
func WithIDAttr(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.idAttr = name
		}
	}
}

// WithRefAttr sets the reference attribute written on a manifest miss.
func WithRefAttr(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.refAttr = name
		}
	}
}

// NewBuilder creates a builder for doc. A nil manifest behaves as empty.
func NewBuilder(doc dom.Document, m *manifest.Manifest, opts ...Option) *Builder {
	if m == nil {
		m = manifest.Empty()
	}
	b := &Builder{doc: doc, manifest: m, idAttr: "q-id", refAttr: "data-ref"}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// H creates a tag element for the structural path. When the manifest has
// the path the element gets its identifier; otherwise it gets the
// reference attribute set to the path's leaf so a later Hydrate can find
// it. An empty path creates a plain element.
//
// Children can be strings (text), dom.Node, []dom.Node or nil.
func (b *Builder) H(tag, path string, props Props, children ...any) dom.Container {
	el := b.doc.CreateElement(tag)

	if p := qpath.Split(path); !p.IsEmpty() {
		if id, ok := b.manifest.Lookup(p.String()); ok {
			el.SetAttr(b.idAttr, id)
		} else {
			el.SetAttr(b.refAttr, p.Leaf())
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := props[k]
		if fn, ok := v.(func()); ok && len(k) > 2 && strings.HasPrefix(k, "on") {
			el.AddEventListener(strings.ToLower(k[2:]), fn)
			continue
		}
		// Other functions have no attribute form.
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
			continue
		}
		el.SetAttr(k, formatValue(v))
	}

	for _, c := range children {
		switch v := c.(type) {
		case nil:
		case string:
			el.AppendText(v)
		case dom.Node:
			el.AppendChild(v)
		case []dom.Node:
			for _, n := range v {
				el.AppendChild(n)
			}
		}
	}
	return el
}

// H is Builder.H with default attribute names.
func H(doc dom.Document, m *manifest.Manifest, tag, path string, props Props, children ...any) dom.Container {
	return NewBuilder(doc, m).H(tag, path, props, children...)
}

// RenderList replaces the children of container with render applied to
// each item, in order. Items for which render returns nil are skipped.
func RenderList[T any](container dom.Container, items []T, render func(item T, index int) dom.Node) {
	nodes := make([]dom.Node, 0, len(items))
	for i, item := range items {
		if n := render(item, i); n != nil {
			nodes = append(nodes, n)
		}
	}
	container.ClearChildren()
	for _, n := range nodes {
		container.AppendChild(n)
	}
}
