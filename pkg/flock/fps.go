package flock

import "time"

// FpsCounter turns per-frame elapsed-time samples into a smoothed
// frames-per-second value. Diagnostics only: the result is never fed back
// into simulation timing.
type FpsCounter struct {
	last     time.Time
	started  bool
	smoothed float64
}

// NewFpsCounter returns a counter ready for its first Tick.
func NewFpsCounter() *FpsCounter {
	return &FpsCounter{}
}

// Tick records one frame boundary. Call it once per rendered frame.
func (c *FpsCounter) Tick() {
	now := time.Now()
	if !c.started {
		c.last = now
		c.started = true
		return
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt <= 0 {
		return
	}
	instant := 1 / dt
	if c.smoothed == 0 {
		c.smoothed = instant
		return
	}
	// Exponential moving average; one slow frame nudges the value instead
	// of making it jump.
	c.smoothed = c.smoothed*0.95 + instant*0.05
}

// Fps returns the smoothed frames-per-second value.
func (c *FpsCounter) Fps() float64 {
	return c.smoothed
}

// FpsCache rate-limits consumption of an FpsCounter: Poll invokes the
// callback only when the interval has elapsed and the rounded value
// actually changed. Made for window-title updates, which are too expensive
// to run every frame.
type FpsCache struct {
	interval time.Duration
	lastPoll time.Time
	lastFps  int
}

// NewFpsCache builds a cache that refreshes at most every interval.
func NewFpsCache(interval time.Duration) *FpsCache {
	return &FpsCache{interval: interval, lastFps: -1}
}

// Poll reads the counter and calls fn with the rounded FPS when it is due
// and different from the previous push.
func (c *FpsCache) Poll(counter *FpsCounter, fn func(fps int)) {
	now := time.Now()
	if !c.lastPoll.IsZero() && now.Sub(c.lastPoll) < c.interval {
		return
	}
	c.lastPoll = now
	fps := int(counter.Fps() + 0.5)
	if fps == c.lastFps {
		return
	}
	c.lastFps = fps
	fn(fps)
}
