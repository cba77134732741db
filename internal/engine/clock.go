package engine

import "sync/atomic"

// Clock is the logical clock that stamps commands in execution order.
//
// Sequence numbers start at 1 and never repeat. Wall-clock time is never
// used for ordering.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock at start, so that the next command gets
// start+1. Used when a run resumes after a persisted snapshot.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
