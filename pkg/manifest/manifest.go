// Package manifest holds the read-only mapping from structural path to
// hashed identifier produced by the qcss build step.
//
// Keys are structural paths with segments joined by single spaces
// ("card header title"); a key may also be a bare leaf ("title"), which the
// hydrator uses as a fallback when the full path is not listed. Values are
// opaque identifiers stamped onto elements.
//
// A Manifest never changes after construction. Reloading produces a new
// Manifest which is published through a Store.
package manifest

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/vango-dev/qcss/pkg/qpath"
)

// Manifest is an immutable path-to-identifier mapping.
// The zero value and a nil *Manifest are both empty.
type Manifest struct {
	entries map[string]string
}

// New copies entries into a new Manifest.
func New(entries map[string]string) *Manifest {
	m := &Manifest{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// Empty returns a manifest with no entries.
func Empty() *Manifest {
	return &Manifest{}
}

// Lookup returns the identifier for an exact path. A blank path is never
// found.
func (m *Manifest) Lookup(path string) (string, bool) {
	if m == nil || strings.TrimSpace(path) == "" {
		return "", false
	}
	id, ok := m.entries[path]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// LookupLeaf looks up path and, on a miss, its last segment alone.
// The second result reports whether the bare-leaf entry was used.
func (m *Manifest) LookupLeaf(path string) (id string, leaf bool, ok bool) {
	if id, ok := m.Lookup(path); ok {
		return id, false, true
	}
	l := qpath.LeafOf(path)
	if l == path {
		return "", false, false
	}
	if id, ok := m.Lookup(l); ok {
		return id, true, true
	}
	return "", false, false
}

// Has reports whether path is a key.
func (m *Manifest) Has(path string) bool {
	_, ok := m.Lookup(path)
	return ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Paths returns all keys in sorted order.
func (m *Manifest) Paths() []string {
	if m == nil {
		return nil
	}
	paths := make([]string, 0, len(m.entries))
	for k := range m.entries {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

// Entries returns a copy of the mapping.
func (m *Manifest) Entries() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the manifest as a flat JSON object.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}
