package selector

import (
	"strings"

	"github.com/vango-dev/qcss/pkg/dom"
)

// Stateful is implemented by nodes that track dynamic state such as
// "hover" or "focus". Nodes without it never match state pseudo-classes.
type Stateful interface {
	HasState(pseudo string) bool
}

// position is a node's place among its parent's element children.
// index is -1 when the parent is outside the traversal.
type position struct {
	index int
	count int
}

var rootPosition = position{index: -1}

type condition func(n dom.Node, pos position) bool

// compound is a compiled suffix. A compound that failed to parse, or that
// names a pseudo-element, never matches.
type compound struct {
	conds []condition
	never bool
}

func (c compound) match(n dom.Node, pos position) bool {
	if c.never {
		return false
	}
	for _, cond := range c.conds {
		if !cond(n, pos) {
			return false
		}
	}
	return true
}

// compile parses a suffix such as ".active:first-child" or
// "[data-state=open]:hover".
func compile(suffix string) compound {
	var c compound
	s := suffix
	for s != "" {
		switch {
		case strings.HasPrefix(s, "::"):
			return compound{never: true}

		case s[0] == '.':
			name, rest := readIdent(s[1:])
			if name == "" {
				return compound{never: true}
			}
			c.conds = append(c.conds, hasClass(name))
			s = rest

		case s[0] == '#':
			name, rest := readIdent(s[1:])
			if name == "" {
				return compound{never: true}
			}
			c.conds = append(c.conds, attrOp("id", "=", name))
			s = rest

		case s[0] == '[':
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return compound{never: true}
			}
			cond, ok := parseAttr(s[1:end])
			if !ok {
				return compound{never: true}
			}
			c.conds = append(c.conds, cond)
			s = s[end+1:]

		case s[0] == ':':
			name, rest := readIdent(s[1:])
			if name == "" || strings.HasPrefix(rest, "(") {
				return compound{never: true}
			}
			c.conds = append(c.conds, pseudoClass(strings.ToLower(name)))
			s = rest

		default:
			return compound{never: true}
		}
	}
	return c
}

func readIdent(s string) (ident, rest string) {
	i := 0
	for i < len(s) {
		b := s[i]
		if b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_' || b >= 0x80 {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

// parseAttr handles "name", "name=value" and the ~= ^= $= *= |= operators,
// with optionally quoted values.
func parseAttr(body string) (condition, bool) {
	body = strings.TrimSpace(body)
	i := strings.IndexByte(body, '=')
	if i < 0 {
		if body == "" {
			return nil, false
		}
		name := body
		return func(n dom.Node, _ position) bool { return dom.HasAttr(n, name) }, true
	}

	op := "="
	nameEnd := i
	if i > 0 && strings.IndexByte("~^$*|", body[i-1]) >= 0 {
		op = body[i-1 : i+1]
		nameEnd = i - 1
	}
	name := strings.TrimSpace(body[:nameEnd])
	if name == "" {
		return nil, false
	}
	value := strings.TrimSpace(body[i+1:])
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}
	return attrOp(name, op, value), true
}

func attrOp(name, op, want string) condition {
	return func(n dom.Node, _ position) bool {
		got, ok := n.Attr(name)
		if !ok {
			return false
		}
		switch op {
		case "=":
			return got == want
		case "~=":
			for _, f := range strings.Fields(got) {
				if f == want {
					return true
				}
			}
			return false
		case "^=":
			return want != "" && strings.HasPrefix(got, want)
		case "$=":
			return want != "" && strings.HasSuffix(got, want)
		case "*=":
			return want != "" && strings.Contains(got, want)
		case "|=":
			return got == want || strings.HasPrefix(got, want+"-")
		}
		return false
	}
}

func hasClass(name string) condition {
	return attrOp("class", "~=", name)
}

func pseudoClass(name string) condition {
	switch name {
	case "first-child":
		return func(_ dom.Node, pos position) bool { return pos.index == 0 }
	case "last-child":
		return func(_ dom.Node, pos position) bool { return pos.index >= 0 && pos.index == pos.count-1 }
	case "only-child":
		return func(_ dom.Node, pos position) bool { return pos.index == 0 && pos.count == 1 }
	case "empty":
		return func(n dom.Node, _ position) bool { return len(n.Children()) == 0 }
	}
	return func(n dom.Node, _ position) bool {
		s, ok := n.(Stateful)
		return ok && s.HasState(name)
	}
}
