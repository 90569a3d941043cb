package main

import "time"

// Clock returns the current time as whole seconds since the epoch. It is
// injected into Server so tests can drive liveness timers deterministically
// instead of depending on wall-clock time, per spec.md §6 ("the system
// clock... treated as an interface only").
type Clock func() int64

// systemClock is the production Clock.
func systemClock() int64 {
	return time.Now().Unix()
}
