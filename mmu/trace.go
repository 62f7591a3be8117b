package mmu

// TraceBuffer keeps the most recent fault service events as a bounded
// FIFO: once full, every new event pushes the oldest one out.
type TraceBuffer struct {
	items   []string
	maxSize int
}

// NewTraceBuffer returns an empty buffer holding up to maxSize events.
func NewTraceBuffer(maxSize int) *TraceBuffer {
	return &TraceBuffer{maxSize: maxSize}
}

// Append adds an event to the rear of the buffer.
func (q *TraceBuffer) Append(item string) {
	if len(q.items) == q.maxSize {
		q.items = q.items[1:]
	}
	q.items = append(q.items, item)
}

// Lines returns the buffered events, oldest first.
func (q *TraceBuffer) Lines() []string {
	return append([]string(nil), q.items...)
}

// Len returns the number of buffered events.
func (q *TraceBuffer) Len() int {
	return len(q.items)
}
