package cache

import "time"

// Clock reports the current time. Stores take a Clock so staleness rules
// can be tested without waiting a day.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by time.Now.
func RealClock() Clock { return realClock{} }
