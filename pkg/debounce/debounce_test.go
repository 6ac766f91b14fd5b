package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTriggerFiresOnceAfterQuiet(t *testing.T) {
	clock := NewManual()
	d := New(150*time.Millisecond, clock)

	var calls []int
	d.Trigger(func() { calls = append(calls, 1) })
	clock.Advance(100 * time.Millisecond)
	d.Trigger(func() { calls = append(calls, 2) })
	clock.Advance(100 * time.Millisecond)
	assert.Empty(t, calls, "second trigger should reset the delay")

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{2}, calls)
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []int{2}, calls)
}

func TestFlushRunsPendingImmediately(t *testing.T) {
	clock := NewManual()
	d := New(500*time.Millisecond, clock)

	var n int
	assert.False(t, d.Flush())

	d.Trigger(func() { n++ })
	assert.True(t, d.Flush())
	assert.Equal(t, 1, n)

	clock.Advance(time.Second)
	assert.Equal(t, 1, n, "flushed action must not fire again")
	assert.Equal(t, 0, clock.Waiting())
}

func TestStopCancels(t *testing.T) {
	clock := NewManual()
	d := New(10*time.Millisecond, clock)

	var n int
	d.Trigger(func() { n++ })
	d.Stop()
	clock.Advance(time.Second)
	assert.Zero(t, n)
	assert.False(t, d.Pending())
}

func TestRealSchedulerFires(t *testing.T) {
	d := New(5*time.Millisecond, nil)

	var n atomic.Int32
	done := make(chan struct{})
	d.Trigger(func() { n.Add(1) })
	d.Trigger(func() {
		n.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced action did not run")
	}
	assert.Equal(t, int32(1), n.Load())
}

func TestRealSchedulerStopLeavesNoGoroutines(t *testing.T) {
	d := New(time.Hour, RealScheduler{})
	d.Trigger(func() {})
	d.Stop()
	assert.False(t, d.Pending())
}
