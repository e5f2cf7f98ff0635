package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcherReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(`{"a": "h1"}`), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	initial, err := src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(initial)

	reloaded := make(chan *Manifest, 4)
	store.Subscribe(func(m *Manifest) {
		select {
		case reloaded <- m:
		default:
		}
	})

	failures := make(chan error, 4)
	w, err := NewWatcher(src, store,
		WithDebounce(10*time.Millisecond),
		WithErrorHandler(func(err error) {
			select {
			case failures <- err:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	replaceFile(t, path, `{"a": "h2"}`)

	select {
	case m := <-reloaded:
		if id, _ := m.Lookup("a"); id != "h2" {
			t.Errorf("reloaded a = %q, want h2", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("manifest was not reloaded")
	}

	t.Run("bad content keeps previous manifest", func(t *testing.T) {
		replaceFile(t, path, `{"a": 1}`)
		select {
		case <-failures:
		case <-time.After(5 * time.Second):
			t.Fatal("reload failure not reported")
		}
		if id, _ := store.Load().Lookup("a"); id != "h2" {
			t.Errorf("a = %q, want h2 kept", id)
		}
	})
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(NewFileSource(filepath.Join(t.TempDir(), "m.json")), NewStore(nil))
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
}

// replaceFile swaps content in by rename, the way build tools publish.
func replaceFile(t *testing.T, path, content string) {
	t.Helper()
	tmp := filepath.Join(filepath.Dir(path), ".next")
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}
