package clock

import (
	"sort"
	"sync"
	"time"
)

// Virtual is a manually-advanced Clock for deterministic tests: no
// real goroutine ever sleeps, callbacks fire only when Advance crosses
// their deadline.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	pending []*virtualTimer
	seq     int
}

type virtualTimer struct {
	fireAt  time.Time
	seq     int
	f       func()
	stopped bool
}

func (t *virtualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// NewVirtual creates a Virtual clock starting at the given instant.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) AfterFunc(d time.Duration, f func()) Timer {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &virtualTimer{fireAt: v.now.Add(d), seq: v.seq, f: f}
	v.pending = append(v.pending, t)
	return t
}

// Advance moves the clock forward by d, firing (synchronously, in
// fire-time then registration order) every timer whose deadline was
// crossed. Callbacks that themselves arm new timers during Advance are
// picked up in the same pass if their deadline also falls at or before
// the new now.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		sort.Slice(v.pending, func(i, j int) bool {
			if v.pending[i].fireAt.Equal(v.pending[j].fireAt) {
				return v.pending[i].seq < v.pending[j].seq
			}
			return v.pending[i].fireAt.Before(v.pending[j].fireAt)
		})

		var due *virtualTimer
		remaining := v.pending[:0]
		for _, t := range v.pending {
			if due == nil && !t.stopped && !t.fireAt.After(target) {
				due = t
				continue
			}
			remaining = append(remaining, t)
		}
		v.pending = remaining

		if due == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = due.fireAt
		v.mu.Unlock()
		due.f()
	}
}
