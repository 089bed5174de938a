package viewer

import "time"

// maxFrameDelta caps the step after a stall (window drag, breakpoint) so
// the camera does not jump.
const maxFrameDelta = 0.25

// FrameTimer measures the time between frames and counts frames per second.
type FrameTimer struct {
	now func() time.Time

	last     time.Time
	started  bool
	frames   int
	fpsStart time.Time
}

// NewFrameTimer creates a timer on the wall clock.
func NewFrameTimer() *FrameTimer {
	return &FrameTimer{now: time.Now}
}

// Tick returns the seconds since the previous tick. The first tick
// returns 0.
func (t *FrameTimer) Tick() float32 {
	now := t.now()
	if !t.started {
		t.started = true
		t.last = now
		t.fpsStart = now
		return 0
	}

	dt := float32(now.Sub(t.last).Seconds())
	t.last = now
	t.frames++
	if dt < 0 {
		return 0
	}
	if dt > maxFrameDelta {
		return maxFrameDelta
	}
	return dt
}

// FPS reports the frame count of the last second once a second has passed
// since the previous report.
func (t *FrameTimer) FPS() (int, bool) {
	if !t.started || t.last.Sub(t.fpsStart) < time.Second {
		return 0, false
	}
	n := t.frames
	t.frames = 0
	t.fpsStart = t.last
	return n, true
}
