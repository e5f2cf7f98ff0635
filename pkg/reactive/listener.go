package reactive

// Listener is notified when a signal it read changes.
// *Effect is the listener the runtime creates; custom listeners can be
// subscribed with Signal.Subscribe.
type Listener interface {
	// MarkDirty is called synchronously from the writing goroutine.
	MarkDirty()

	// ID identifies the listener for deduplication.
	ID() uint64
}

// ListenerFunc adapts a function to Listener with a fresh id.
func ListenerFunc(fn func()) Listener {
	return &funcListener{id: nextID(), fn: fn}
}

type funcListener struct {
	id uint64
	fn func()
}

func (l *funcListener) MarkDirty() { l.fn() }
func (l *funcListener) ID() uint64 { return l.id }
