package selector

import "github.com/vango-dev/qcss/pkg/dom"

type compiledStep struct {
	ref  string
	tail compound
}

// matcher is a Target compiled for evaluation.
type matcher struct {
	attr  string
	hash  bool
	steps []compiledStep
}

func newMatcher(t Target) *matcher {
	if t.IsEmpty() {
		return nil
	}
	m := &matcher{attr: t.Attr, hash: t.IsHash()}
	if m.hash {
		m.steps = []compiledStep{{ref: t.Hash, tail: compile(t.Suffix)}}
		return m
	}
	m.steps = make([]compiledStep, len(t.Steps))
	for i, s := range t.Steps {
		m.steps[i] = compiledStep{ref: s.Ref, tail: compile(s.Suffix)}
	}
	return m
}

type located struct {
	node dom.Node
	pos  position
}

func (s compiledStep) match(attr string, l located) bool {
	v, ok := l.node.Attr(attr)
	return ok && v == s.ref && s.tail.match(l.node, l.pos)
}

// match tests l against the last step, then finds the earlier steps among
// its ancestors, nearest first.
func (m *matcher) match(l located, ancestors []located) bool {
	last := len(m.steps) - 1
	if !m.steps[last].match(m.attr, l) {
		return false
	}
	i := last - 1
	for a := len(ancestors) - 1; a >= 0 && i >= 0; a-- {
		if m.steps[i].match(m.attr, ancestors[a]) {
			i--
		}
	}
	return i < 0
}

// SelectAll returns every node under root, root included, that t matches,
// in document order. Ancestors above root are not considered.
func SelectAll(root dom.Node, t Target) []dom.Node {
	m := newMatcher(t)
	if m == nil || root == nil {
		return nil
	}
	var out []dom.Node
	m.walk(located{node: root, pos: rootPosition}, nil, func(n dom.Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Select returns the first node SelectAll would return, or nil.
func Select(root dom.Node, t Target) dom.Node {
	m := newMatcher(t)
	if m == nil || root == nil {
		return nil
	}
	var found dom.Node
	m.walk(located{node: root, pos: rootPosition}, nil, func(n dom.Node) bool {
		found = n
		return false
	})
	return found
}

// walk visits l and its subtree in pre-order; emit returning false stops
// the walk.
func (m *matcher) walk(l located, ancestors []located, emit func(dom.Node) bool) bool {
	if m.match(l, ancestors) && !emit(l.node) {
		return false
	}
	children := l.node.Children()
	ancestors = append(ancestors, l)
	for i, c := range children {
		if !m.walk(located{node: c, pos: position{index: i, count: len(children)}}, ancestors, emit) {
			return false
		}
	}
	return true
}
