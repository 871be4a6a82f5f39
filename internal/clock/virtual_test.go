package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtual_AdvanceFiresDueTimers(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := NewVirtual(start)

	var fired []string
	v.AfterFunc(5*time.Second, func() { fired = append(fired, "a") })
	v.AfterFunc(10*time.Second, func() { fired = append(fired, "b") })

	v.Advance(7 * time.Second)
	assert.Equal(t, []string{"a"}, fired)
	assert.Equal(t, start.Add(7*time.Second), v.Now())

	v.Advance(3 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
}

func TestVirtual_StopPreventsFire(t *testing.T) {
	t.Parallel()
	v := NewVirtual(time.Now())

	fired := false
	timer := v.AfterFunc(time.Second, func() { fired = true })
	ok := timer.Stop()

	assert.True(t, ok)
	v.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestVirtual_RearmedTimerFiresOnce(t *testing.T) {
	t.Parallel()
	v := NewVirtual(time.Now())

	var count int
	var rearm func()
	rearm = func() {
		count++
		if count < 3 {
			v.AfterFunc(time.Second, rearm)
		}
	}
	v.AfterFunc(time.Second, rearm)

	v.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}
