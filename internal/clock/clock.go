// Package clock abstracts wall-clock time so move deadlines and
// your_turn.auto_play_after timestamps can be driven deterministically
// in tests, the way tickergen.go wraps time.NewTicker for the lobby.
package clock

import "time"

// Timer is a cancellable handle returned by AfterFunc. Stop is safe to
// call more than once and after the function has already fired.
type Timer interface {
	Stop() bool
}

// Clock produces the current instant and schedules one-shot callbacks.
// Arming a new deadline always goes through AfterFunc so the caller
// holds a single Timer handle to cancel before replacing it.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the production Clock, backed by the standard library.
type Real struct{}

func NewReal() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
