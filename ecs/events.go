package ecs

// Events is a broadcast queue. Writers call Send, any number of Readers keep
// their own cursor, and Update rotates the buffers once per tick. An event
// stays readable for two Update calls; a reader that falls further behind
// loses the oldest events and can see how many via Dropped.
type Events[T any] struct {
	prev      []T
	curr      []T
	prevStart uint64
	currStart uint64
	sent      uint64
}

// Send appends an event.
func (q *Events[T]) Send(evt T) {
	if q == nil {
		return
	}
	q.curr = append(q.curr, evt)
	q.sent++
}

// Update drops the older buffer and starts a new one.
func (q *Events[T]) Update() {
	if q == nil {
		return
	}
	q.prev = q.curr
	q.prevStart = q.currStart
	q.curr = nil
	q.currStart = q.sent
}

// Len returns the number of events still buffered.
func (q *Events[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.prev) + len(q.curr)
}

// NewReader returns a reader positioned at the oldest buffered event.
func (q *Events[T]) NewReader() *Reader[T] {
	if q == nil {
		return nil
	}
	return &Reader[T]{events: q, next: q.prevStart}
}

// Reader is an independent cursor into an Events queue.
type Reader[T any] struct {
	events  *Events[T]
	next    uint64
	dropped uint64
}

// Read returns every event this reader has not yet seen.
func (r *Reader[T]) Read() []T {
	if r == nil || r.events == nil {
		return nil
	}
	q := r.events
	if r.next < q.prevStart {
		r.dropped += q.prevStart - r.next
		r.next = q.prevStart
	}
	if r.next >= q.sent {
		return nil
	}

	out := make([]T, 0, q.sent-r.next)
	if r.next < q.currStart {
		out = append(out, q.prev[r.next-q.prevStart:]...)
	}
	start := max(r.next, q.currStart)
	out = append(out, q.curr[start-q.currStart:]...)
	r.next = q.sent
	return out
}

// Dropped returns how many events expired before this reader got to them.
func (r *Reader[T]) Dropped() uint64 {
	if r == nil {
		return 0
	}
	return r.dropped
}
