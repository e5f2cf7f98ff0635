package reactive

import "sync/atomic"

var globalIDCounter uint64

// nextID returns a process-unique id for a signal or effect.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}
