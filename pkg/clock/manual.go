package clock

import "time"

// ManualScheduler implements Scheduler on simulated time, for deterministic
// tests. Advance moves the clock and fires the callbacks that were pending
// when it was called; a callback scheduled during a tick fires on the next
// Advance. ManualScheduler is not safe for concurrent use.
type ManualScheduler struct {
	now     time.Time
	pending []*manualHandle
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) Now() time.Time {
	return s.now
}

func (s *ManualScheduler) ScheduleNext(f func(now time.Time)) Handle {
	h := &manualHandle{f: f}
	s.pending = append(s.pending, h)
	return h
}

// Advance moves simulated time forward by d and fires the callbacks that
// were pending before the call, in scheduling order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now = s.now.Add(d)
	due := s.pending
	s.pending = nil
	for _, h := range due {
		if h.stopped {
			continue
		}
		h.fired = true
		h.f(s.now)
	}
}

// Pending reports how many callbacks are waiting for the next Advance.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, h := range s.pending {
		if !h.stopped {
			n++
		}
	}
	return n
}

type manualHandle struct {
	f       func(time.Time)
	stopped bool
	fired   bool
}

func (h *manualHandle) Stop() bool {
	if h.fired || h.stopped {
		return false
	}
	h.stopped = true
	return true
}
