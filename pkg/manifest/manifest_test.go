package manifest

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookup(t *testing.T) {
	m := New(map[string]string{
		"card":       "q1",
		"card title": "q2",
		"title":      "q3",
		"empty":      "",
	})

	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"card", "q1", true},
		{"card title", "q2", true},
		{"card body", "", false},
		{"", "", false},
		{"   ", "", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		got, ok := m.Lookup(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLookupLeaf(t *testing.T) {
	m := New(map[string]string{
		"card title": "full",
		"title":      "leaf",
	})

	tests := []struct {
		path     string
		wantID   string
		wantLeaf bool
		wantOK   bool
	}{
		{"card title", "full", false, true},
		{"list title", "leaf", true, true},
		{"title", "leaf", false, true},
		{"card body", "", false, false},
		{"", "", false, false},
	}
	for _, tt := range tests {
		id, leaf, ok := m.LookupLeaf(tt.path)
		if id != tt.wantID || leaf != tt.wantLeaf || ok != tt.wantOK {
			t.Errorf("LookupLeaf(%q) = %q, %v, %v; want %q, %v, %v",
				tt.path, id, leaf, ok, tt.wantID, tt.wantLeaf, tt.wantOK)
		}
	}
}

func TestNilManifest(t *testing.T) {
	var m *Manifest
	if _, ok := m.Lookup("a"); ok {
		t.Error("nil manifest should not find anything")
	}
	if m.Len() != 0 || m.Paths() != nil || len(m.Entries()) != 0 {
		t.Error("nil manifest should be empty")
	}
}

func TestNewCopies(t *testing.T) {
	src := map[string]string{"a": "h1"}
	m := New(src)
	src["a"] = "changed"

	if id, _ := m.Lookup("a"); id != "h1" {
		t.Errorf("manifest aliased caller map: got %q", id)
	}

	entries := m.Entries()
	entries["a"] = "changed"
	if id, _ := m.Lookup("a"); id != "h1" {
		t.Errorf("Entries aliased internal map: got %q", id)
	}
}

func TestPathsAndJSON(t *testing.T) {
	m := New(map[string]string{"b": "2", "a": "1", "a b": "3"})

	if diff := cmp.Diff([]string{"a", "a b", "b"}, m.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]string
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(m.Entries(), back); diff != "" {
		t.Errorf("JSON mismatch:\n%s", diff)
	}
}
