package engine

import "sync/atomic"

// Clock is the monotonic logical clock that orders key presses.
//
// Every recorded press is stamped with a strictly increasing seq number.
// Tapes are ordered by seq, never by wall-clock time, so a replay sees the
// presses in exactly the order they happened.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// although a Session only advances it from one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used to resume numbering after the last press already on a tape.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
