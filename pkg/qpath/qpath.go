// Package qpath tokenizes structural paths.
//
// A structural path is a space-separated list of segments, one per marked
// ancestor, ending in the leaf:
//
//	card header title
//	card header title:hover
//
// Each segment splits into an identity (the leading run of word characters
// and hyphens) and an optional suffix (everything after it, kept verbatim).
// The resolver and the hydrator share this tokenizer so both sides agree on
// what a segment means.
package qpath

import "strings"

// Kind discriminates tokenized segments.
type Kind uint8

const (
	// KindIdentity is a segment that is only an identity ("title").
	KindIdentity Kind = iota

	// KindIdentityWithSuffix is an identity followed by a selector suffix
	// ("title:hover", "item[data-state=open]").
	KindIdentityWithSuffix
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindIdentity:
		return "Identity"
	case KindIdentityWithSuffix:
		return "IdentityWithSuffix"
	default:
		return "Unknown"
	}
}

// Segment is one tokenized path segment.
type Segment struct {
	Kind     Kind
	Identity string
	Suffix   string
}

// HasSuffix reports whether the segment carries a suffix.
func (s Segment) HasSuffix() bool {
	return s.Kind == KindIdentityWithSuffix
}

// String reassembles the segment.
func (s Segment) String() string {
	return s.Identity + s.Suffix
}

// Tokenize splits a single segment into identity and suffix.
//
// A segment that does not start with an identity character is malformed;
// it is returned whole as the identity with an empty suffix.
func Tokenize(segment string) Segment {
	n := identityLen(segment)
	if n == 0 || n == len(segment) {
		return Segment{Kind: KindIdentity, Identity: segment}
	}
	return Segment{
		Kind:     KindIdentityWithSuffix,
		Identity: segment[:n],
		Suffix:   segment[n:],
	}
}

// identityLen returns the length of the leading [A-Za-z0-9_-] run.
func identityLen(s string) int {
	for i := 0; i < len(s); i++ {
		if !isIdentityByte(s[i]) {
			return i
		}
	}
	return len(s)
}

func isIdentityByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

// Path is an ordered list of raw segments.
type Path []string

// Split parses a structural path. Runs of whitespace separate segments and
// empty segments are dropped.
func Split(path string) Path {
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return nil
	}
	return Path(fields)
}

// String joins the segments with single spaces, the manifest key form.
func (p Path) String() string {
	return strings.Join(p, " ")
}

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool {
	return len(p) == 0
}

// Leaf returns the last segment, or "" for an empty path.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the path without its leaf.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	return p[:len(p)-1]
}

// Append returns a new path with seg added. p is not modified.
func (p Path) Append(seg string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Tokens tokenizes every segment.
func (p Path) Tokens() []Segment {
	out := make([]Segment, len(p))
	for i, seg := range p {
		out[i] = Tokenize(seg)
	}
	return out
}

// Join appends a segment to a joined path string, the form the hydrator
// threads through the traversal.
func Join(base, seg string) string {
	if base == "" {
		return seg
	}
	return base + " " + seg
}

// LeafOf returns the last space-separated segment of a joined path.
func LeafOf(path string) string {
	if i := strings.LastIndexByte(path, ' '); i >= 0 {
		return path[i+1:]
	}
	return path
}
