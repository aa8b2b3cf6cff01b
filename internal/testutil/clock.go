package testutil

import (
	"fmt"
	"time"
)

// FixedClock always returns the same instant, optionally advanced by tests.
type FixedClock struct {
	Time time.Time
}

// NewFixedClock creates a clock pinned to t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{Time: t}
}

func (c *FixedClock) Now() time.Time { return c.Time }

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) { c.Time = c.Time.Add(d) }

// SeqIDGenerator produces "id-1", "id-2", ... so records are addressable in
// assertions.
type SeqIDGenerator struct {
	n int
}

func (g *SeqIDGenerator) New() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}
