// Package store implements the client-side resource stores: each store
// owns the last-known snapshot of one remote resource plus its
// loading/error status, and mutates it only when a request it issued
// completes. Views read snapshots and dispatch intents; they never
// write store state themselves.
package store

import "sync"

type Status string

const (
	Idle    Status = "idle"
	Loading Status = "loading"
	Ready   Status = "ready"
	Failed  Status = "failed"
)

// View is a point-in-time read of a store: the snapshot, the store
// status and the retained error message (empty unless Failed).
type View[T any] struct {
	Data   T
	Status Status
	Err    string
}

// resource is the shared state machine: Idle -> Loading -> {Ready |
// Failed}, re-entering Loading on every fetch. Every intent gets a
// monotonic sequence number and a settling response is discarded when a
// newer response has already been applied, so out-of-order completions
// cannot roll the snapshot back.
type resource[T any] struct {
	mu      sync.Mutex
	status  Status
	data    T
	err     string
	seq     uint64 // newest issued intent
	applied uint64 // intent whose response currently holds the snapshot
	changed chan struct{}
}

func newResource[T any]() *resource[T] {
	return &resource[T]{status: Idle, changed: make(chan struct{})}
}

func (r *resource[T]) view() View[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return View[T]{Data: r.data, Status: r.status, Err: r.err}
}

// changedCh returns a channel closed on the next state change. Callers
// re-arm by calling again, like a context Done.
func (r *resource[T]) changedCh() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.changed
}

func (r *resource[T]) notifyLocked() {
	close(r.changed)
	r.changed = make(chan struct{})
}

// beginFetch enters Loading and hands out the intent's sequence number.
// clear drops the previous snapshot immediately (product-by-id only).
func (r *resource[T]) beginFetch(clear bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.status = Loading
	r.err = ""
	if clear {
		var zero T
		r.data = zero
	}
	r.notifyLocked()
	return r.seq
}

// beginMutate issues a sequence number without touching the status:
// cart edits and the like keep showing the current snapshot while the
// request is in flight.
func (r *resource[T]) beginMutate() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// succeed replaces the snapshot wholesale with the server's response,
// unless a newer response already landed.
func (r *resource[T]) succeed(seq uint64, data T) {
	r.succeedWith(seq, func(T) T { return data })
}

// succeedWith derives the replacement snapshot from the one currently
// applied (order creation prepends to the existing list).
func (r *resource[T]) succeedWith(seq uint64, fn func(old T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.applied {
		return // stale response, a newer one already applied
	}
	r.data = fn(r.data)
	r.applied = seq
	r.err = ""
	if seq == r.seq {
		r.status = Ready
	}
	r.notifyLocked()
}

// fail retains the prior snapshot and records the error. Failures of
// superseded intents are dropped.
func (r *resource[T]) fail(seq uint64, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq <= r.applied || seq != r.seq {
		return
	}
	r.status = Failed
	r.err = msg
	r.notifyLocked()
}

// seed installs a snapshot that arrived outside the request cycle
// (session state restored from disk at startup).
func (r *resource[T]) seed(data T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	r.status = Ready
}

// reset returns the resource to Idle with an empty snapshot (logout).
func (r *resource[T]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.data = zero
	r.status = Idle
	r.err = ""
	r.seq++
	r.applied = r.seq
	r.notifyLocked()
}
