package series

import "sync"

// RingBuffer holds the most recent points of a live-streaming series with a
// fixed retention capacity. Appends beyond capacity evict the oldest points,
// which is how live charts trim history: the interaction layer then clamps
// any viewport query that references evicted X values to the oldest retained
// point instead of erroring.
//
// RingBuffer is safe for one writer (the feed) and concurrent readers; the
// interaction engine itself only ever touches it from the event-dispatch
// goroutine.
type RingBuffer struct {
	mu    sync.RWMutex
	buf   []DataPoint
	head  int // index of oldest element
	count int
}

// NewRingBuffer creates a buffer retaining at most capacity points.
// Capacity must be positive.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{buf: make([]DataPoint, capacity)}
}

// Append adds a point, evicting the oldest when full.
func (r *RingBuffer) Append(p DataPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count < len(r.buf) {
		r.buf[(r.head+r.count)%len(r.buf)] = p
		r.count++
		return
	}
	r.buf[r.head] = p
	r.head = (r.head + 1) % len(r.buf)
}

// Len returns the number of retained points.
func (r *RingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Snapshot returns the retained points oldest-first as a freshly allocated
// slice. The interaction engine rebuilds its spatial index from snapshots, so
// later appends never alias an index under a reader.
func (r *RingBuffer) Snapshot() []DataPoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return nil
	}
	out := make([]DataPoint, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Oldest returns the oldest retained point. ok is false when empty.
func (r *RingBuffer) Oldest() (DataPoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return DataPoint{}, false
	}
	return r.buf[r.head], true
}

// Latest returns the most recently appended point. ok is false when empty.
func (r *RingBuffer) Latest() (DataPoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return DataPoint{}, false
	}
	return r.buf[(r.head+r.count-1)%len(r.buf)], true
}

// ClampX limits x to the retained X range. Viewport queries that reference
// data evicted by retention are pulled back to the nearest surviving bound.
func (r *RingBuffer) ClampX(x float64) float64 {
	oldest, ok := r.Oldest()
	if !ok {
		return x
	}
	latest, _ := r.Latest()
	if x < oldest.X {
		return oldest.X
	}
	if x > latest.X {
		return latest.X
	}
	return x
}
