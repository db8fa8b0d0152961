package engine

import "sync/atomic"

// Clock stamps recorded messages with a logical sequence number.
//
// Reports and controls are numbered in the order the engine loop handles
// them, starting at 1. Only the loop calls Next; Current may be read from
// any goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next advances the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out, or 0.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
