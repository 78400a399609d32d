package flock

import (
	"testing"
	"time"
)

func TestFpsCounter_Smoothing(t *testing.T) {
	c := NewFpsCounter()
	if c.Fps() != 0 {
		t.Errorf("fresh counter reports %g fps; want 0", c.Fps())
	}

	for i := 0; i < 5; i++ {
		c.Tick()
		time.Sleep(5 * time.Millisecond)
	}

	fps := c.Fps()
	if fps <= 0 {
		t.Errorf("after ticking, Fps() = %g; want > 0", fps)
	}
	// 5ms frames are 200 fps nominal; smoothing and sleep jitter leave a
	// wide but still meaningful band.
	if fps > 1000 {
		t.Errorf("Fps() = %g; implausibly high for 5ms frames", fps)
	}
}

func TestFpsCache_Poll(t *testing.T) {
	cache := NewFpsCache(time.Hour)
	counter := NewFpsCounter()
	counter.smoothed = 60

	calls := 0
	got := 0
	fn := func(fps int) {
		calls++
		got = fps
	}

	// First poll is always due and the value differs from the sentinel.
	cache.Poll(counter, fn)
	if calls != 1 || got != 60 {
		t.Fatalf("first Poll: calls=%d fps=%d; want 1 call with 60", calls, got)
	}

	// Within the interval nothing fires, even if the value changed.
	counter.smoothed = 120
	cache.Poll(counter, fn)
	if calls != 1 {
		t.Errorf("Poll fired inside the interval (calls=%d)", calls)
	}

	// Due again but value unchanged: stays quiet.
	cache.lastPoll = time.Now().Add(-2 * time.Hour)
	counter.smoothed = 60
	cache.Poll(counter, fn)
	if calls != 1 {
		t.Errorf("Poll fired on an unchanged value (calls=%d)", calls)
	}

	// Due and changed: fires with the new rounded value.
	cache.lastPoll = time.Now().Add(-2 * time.Hour)
	counter.smoothed = 119.7
	cache.Poll(counter, fn)
	if calls != 2 || got != 120 {
		t.Errorf("after change: calls=%d fps=%d; want 2 calls with 120", calls, got)
	}
}
