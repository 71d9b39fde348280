// Package clock abstracts the wall clock so receipt timestamps are
// deterministic in tests. Production code injects Real(); tests inject
// Fixed().
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Real returns the system clock. Times are in the local zone.
func Real() Clock { return realClock{} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }
