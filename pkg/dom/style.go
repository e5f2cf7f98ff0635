package dom

import "strings"

// Style is an ordered list of inline declarations, the parsed form of a
// style attribute.
type Style struct {
	props  []string
	values map[string]string
}

// ParseStyle parses "a: b; c: d".
func ParseStyle(s string) *Style {
	st := &Style{}
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		st.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return st
}

// Get returns a property value, or "".
func (s *Style) Get(property string) string {
	if s == nil {
		return ""
	}
	return s.values[property]
}

// Set sets a property; an empty value removes it. New properties go last.
func (s *Style) Set(property, value string) {
	if property == "" {
		return
	}
	if value == "" {
		if _, ok := s.values[property]; !ok {
			return
		}
		delete(s.values, property)
		for i, p := range s.props {
			if p == property {
				s.props = append(s.props[:i], s.props[i+1:]...)
				break
			}
		}
		return
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[property]; !ok {
		s.props = append(s.props, property)
	}
	s.values[property] = value
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	if s == nil {
		return 0
	}
	return len(s.props)
}

// String renders "a: b; c: d".
func (s *Style) String() string {
	if s.Len() == 0 {
		return ""
	}
	parts := make([]string, len(s.props))
	for i, p := range s.props {
		parts[i] = p + ": " + s.values[p]
	}
	return strings.Join(parts, "; ")
}
