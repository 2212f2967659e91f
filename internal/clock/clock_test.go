package clock

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC)

func TestManual_AfterFunc(t *testing.T) {
	t.Parallel()

	m := NewManual(epoch)
	fired := 0
	m.AfterFunc(500*time.Millisecond, func() { fired++ })

	m.Advance(499 * time.Millisecond)
	assert.Equal(t, 0, fired)

	m.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)

	m.Advance(time.Hour)
	assert.Equal(t, 1, fired, "one-shot fires once")
	assert.Equal(t, 0, m.Active())
}

func TestManual_Every(t *testing.T) {
	t.Parallel()

	m := NewManual(epoch)
	var ticks []time.Time
	timer := m.Every(100*time.Millisecond, func() { ticks = append(ticks, m.Now()) })

	m.Advance(350 * time.Millisecond)
	require.Len(t, ticks, 3)
	assert.Equal(t, epoch.Add(300*time.Millisecond), ticks[2])

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop is a no-op")
	m.Advance(time.Second)
	assert.Len(t, ticks, 3)
}

func TestManual_StopFromCallback(t *testing.T) {
	t.Parallel()

	m := NewManual(epoch)
	count := 0
	var timer Timer
	timer = m.Every(10*time.Millisecond, func() {
		count++
		if count == 2 {
			timer.Stop()
		}
	})

	m.Advance(time.Second)
	assert.Equal(t, 2, count)
}

func TestManual_Order(t *testing.T) {
	t.Parallel()

	m := NewManual(epoch)
	var order []string
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "c") })

	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestReal_EveryStops(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	timer := Real().Every(time.Millisecond, func() { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() >= 2 }, time.Second, time.Millisecond)
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	// Allow an in-flight callback to finish, then confirm ticks have ceased.
	time.Sleep(10 * time.Millisecond)
	settled := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, settled, n.Load())
}

func TestReal_AfterFunc(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	Real().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}
