// Package clock provides the frame-scheduling capability that drives
// animations. The Scheduler interface stands in for the host environment's
// "call me back before the next repaint" primitive, so tweens can run on
// deterministic simulated time in tests.
package clock

import "time"

// Scheduler provides frame timing.
type Scheduler interface {
	// Now returns the current time.
	Now() time.Time

	// ScheduleNext invokes f once with the frame timestamp, shortly after
	// the call. The returned Handle cancels the callback while it is still
	// pending.
	ScheduleNext(f func(now time.Time)) Handle
}

// Handle refers to a scheduled callback that can be stopped.
type Handle interface {
	// Stop cancels the callback. It reports whether the callback had not
	// yet fired.
	Stop() bool
}

// DefaultFrameInterval approximates a 60 fps display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameScheduler implements Scheduler on real time. Callbacks fire on their
// own goroutine, one Interval after scheduling.
type FrameScheduler struct {
	// Interval between frames. Zero means DefaultFrameInterval.
	Interval time.Duration
}

func (s *FrameScheduler) Now() time.Time {
	return time.Now()
}

func (s *FrameScheduler) ScheduleNext(f func(now time.Time)) Handle {
	d := s.Interval
	if d == 0 {
		d = DefaultFrameInterval
	}
	return timerHandle{time.AfterFunc(d, func() { f(time.Now()) })}
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Stop() bool {
	return h.t.Stop()
}

var defaultScheduler = &FrameScheduler{}

// Default returns the shared real-time scheduler.
func Default() Scheduler {
	return defaultScheduler
}
