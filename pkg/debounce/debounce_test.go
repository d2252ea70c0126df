package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestDebouncer_OnlyLastCallRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New(40 * time.Millisecond)

	var mu sync.Mutex
	var got []string
	record := func(v string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, v)
		}
	}

	for _, v := range []string{"m", "mi", "mil", "milk"} {
		d.Do(record(v))
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	// No late firing of earlier calls.
	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"milk"}, got)
	mu.Unlock()
	assert.True(t, d.StopAndWait(time.Second))
}

func TestDebouncer_SeparateBurstsBothRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New(10 * time.Millisecond)
	var calls atomic.Int32

	d.Do(func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.Do(func() { calls.Add(1) })
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, d.StopAndWait(time.Second))
}

func TestDebouncer_Flush(t *testing.T) {
	d := New(time.Hour)
	var calls atomic.Int32

	d.Do(func() { calls.Add(1) })
	assert.True(t, d.Pending())

	d.Flush()
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())

	// Flush with nothing pending is a no-op.
	d.Flush()
	assert.Equal(t, int32(1), calls.Load())
	d.Stop()
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := New(10 * time.Millisecond)
	var calls atomic.Int32

	d.Do(func() { calls.Add(1) })
	d.Stop()
	d.Do(func() { calls.Add(1) })

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_SetDelay(t *testing.T) {
	d := New(time.Hour)
	d.SetDelay(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, d.Delay())

	fired := make(chan struct{})
	d.Do(func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced call did not fire after delay change")
	}
	d.Stop()
}
