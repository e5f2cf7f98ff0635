package reactive

import "reflect"

// signalBase is the type-erased half of a signal: its subscriber edges.
type signalBase struct {
	id   uint64
	rt   *Runtime
	subs []Listener
}

// subscribe adds l unless a listener with the same id is present.
func (s *signalBase) subscribe(l Listener) bool {
	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return false
		}
	}
	s.subs = append(s.subs, l)
	return true
}

// unsubscribe removes l, keeping the order of the others.
func (s *signalBase) unsubscribe(l Listener) {
	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notifySubscribers runs the subscribers captured at call time.
func (s *signalBase) notifySubscribers() {
	if len(s.subs) == 0 {
		return
	}
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.rt.notify(s.id, subs)
}

// track subscribes the runtime's running effect, if any.
func (s *signalBase) track() {
	e := s.rt.active
	if e == nil {
		return
	}
	if s.subscribe(e) {
		e.addSource(s)
	}
}

// Signal is a reactive value cell.
type Signal[T any] struct {
	base  signalBase
	value T
	equal func(a, b T) bool
}

// NewSignal creates a signal owned by rt.
func NewSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{
		base:  signalBase{id: nextID(), rt: rt},
		value: initial,
	}
}

// CreateSignal returns a read and a write function for a new signal.
func CreateSignal[T any](rt *Runtime, initial T) (func() T, func(T)) {
	s := NewSignal(rt, initial)
	return s.Get, s.Set
}

// Get returns the value and subscribes the running effect.
func (s *Signal[T]) Get() T {
	s.base.track()
	return s.value
}

// Peek returns the value without subscribing.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Set stores value and, if it differs from the current value, re-runs
// every subscriber before returning.
func (s *Signal[T]) Set(value T) {
	if s.equals(s.value, value) {
		return
	}
	s.value = value
	s.base.notifySubscribers()
}

// Update sets the result of fn applied to the current value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// WithEquals replaces the equality used to detect changes.
func (s *Signal[T]) WithEquals(fn func(a, b T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// Subscribe attaches a custom listener. The returned function detaches it.
func (s *Signal[T]) Subscribe(l Listener) func() {
	s.base.subscribe(l)
	return func() { s.base.unsubscribe(l) }
}

// SubscriberCount returns the number of attached listeners.
func (s *Signal[T]) SubscriberCount() int {
	return len(s.base.subs)
}

// ID returns the signal id.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return StrictEqual(a, b)
}

// StrictEqual is the default change test. Comparable values use ==.
// Slices, maps, pointers and channels compare by identity, the way
// references do; two slices are identical when they share a backing array
// start and length. Functions are never equal to each other, so writing a
// func always notifies. Other non-comparable values fall back to
// reflect.DeepEqual.
func StrictEqual[T any](a, b T) bool {
	va, vb := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}

	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(va.Interface(), vb.Interface())
}
