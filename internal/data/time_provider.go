package data

import "time"

// TimeProvider supplies the current time to repositories so tests can pin it.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock.
type RealTimeProvider struct{}

// Now returns the current system time.
func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always reports the same instant until moved.
type FixedTimeProvider struct {
	t time.Time
}

// NewFixedTimeProvider creates a FixedTimeProvider pinned to t.
func NewFixedTimeProvider(t time.Time) *FixedTimeProvider {
	return &FixedTimeProvider{t: t}
}

// Now returns the pinned time.
func (f *FixedTimeProvider) Now() time.Time { return f.t }

// Advance moves the pinned time forward by d.
func (f *FixedTimeProvider) Advance(d time.Duration) { f.t = f.t.Add(d) }
