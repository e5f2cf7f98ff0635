package selector

import "strings"

// Kind is the resolution outcome a Target came from.
type Kind uint8

const (
	// KindHash matched the full path in the manifest.
	KindHash Kind = iota

	// KindHashSuffix matched the path minus the last segment's suffix.
	KindHashSuffix

	// KindLegacy is the reference-attribute fallback chain.
	KindLegacy
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindHash:
		return "hash"
	case KindHashSuffix:
		return "hash+suffix"
	case KindLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Step is one link of a legacy chain: an element whose reference
// attribute equals Ref, optionally narrowed by Suffix.
type Step struct {
	Ref    string
	Suffix string
}

// Target is a resolved query.
//
// Hash targets use Attr, Hash and Suffix. Legacy targets use Attr and
// Steps, each step a descendant of the one before it. A legacy target with
// no steps matches nothing.
type Target struct {
	Kind   Kind
	Attr   string
	Hash   string
	Suffix string
	Steps  []Step
}

// IsHash reports whether the target selects by identifier.
func (t Target) IsHash() bool {
	return t.Kind == KindHash || t.Kind == KindHashSuffix
}

// IsEmpty reports whether the target can never match.
func (t Target) IsEmpty() bool {
	if t.IsHash() {
		return t.Hash == ""
	}
	return len(t.Steps) == 0
}

// String renders the target as a CSS selector.
func (t Target) String() string {
	if t.IsHash() {
		return attrSelector(t.Attr, t.Hash) + t.Suffix
	}
	parts := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		parts[i] = attrSelector(t.Attr, s.Ref) + s.Suffix
	}
	return strings.Join(parts, " ")
}

var attrValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func attrSelector(name, value string) string {
	return `[` + name + `="` + attrValueEscaper.Replace(value) + `"]`
}
