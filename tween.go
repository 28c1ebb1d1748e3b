// Package gotween animates numeric dashboard counters. A Tween interpolates
// between two values over a fixed duration, delivering rounded intermediate
// values to a caller-supplied sink once per frame until progress reaches 1.
// The engine holds no global state and performs no I/O; writing to a display
// surface is the caller's responsibility via the update sink.
package gotween

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/aircast-one/gotween/pkg/clock"
	"github.com/aircast-one/gotween/pkg/easing"
)

// ErrInvalidInput is returned by Initialize when a tween cannot produce
// finite values.
var ErrInvalidInput = errors.New("invalid input")

// Tween interpolates from Start to End over Duration, easing the progress
// with the selected curve. A Tween must not be reused after it completes or
// is stopped.
//
// Example:
//
//	tw := &gotween.Tween{
//	    Start:    0,
//	    End:      128934,
//	    Duration: 800 * time.Millisecond,
//	    Easing:   easing.OutCubic,
//	    OnUpdate: func(value int64, progress float64) {
//	        fmt.Println(value)
//	    },
//	}
//	err := tw.Initialize()
//	if err != nil {
//	    // ...
//	}
//	tw.Run()
type Tween struct {
	// Start and End are the interpolation endpoints. Both must be finite.
	Start float64
	End   float64

	// Duration of the animation. Zero or negative durations complete
	// immediately at End; this is defined behavior, not an error.
	Duration time.Duration

	// Easing selects the curve applied to linear progress (default Linear).
	Easing easing.Kind

	// Scheduler provides frame timing (default clock.Default()).
	Scheduler clock.Scheduler

	// OnUpdate receives the rounded current value and the raw linear
	// progress in [0,1], once per frame. Required.
	OnUpdate func(value int64, progress float64)

	// OnComplete, if set, is invoked exactly once after the final update.
	OnComplete func()

	fn easing.Func

	mu        sync.Mutex
	handle    clock.Handle
	started   bool
	stopped   bool
	completed bool
	origin    time.Time
}

// Initialize validates the configuration and resolves the easing curve.
func (t *Tween) Initialize() error {
	if !isFinite(t.Start) {
		return fmt.Errorf("%w: non-finite start value %v", ErrInvalidInput, t.Start)
	}
	if !isFinite(t.End) {
		return fmt.Errorf("%w: non-finite end value %v", ErrInvalidInput, t.End)
	}
	if t.OnUpdate == nil {
		return fmt.Errorf("%w: OnUpdate is required", ErrInvalidInput)
	}

	fn, err := t.Easing.Func()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	t.fn = fn

	if t.Scheduler == nil {
		t.Scheduler = clock.Default()
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	return nil
}

// Run schedules the first frame and returns immediately; updates are
// delivered from the scheduler's callbacks. The timestamp of the first
// frame becomes the tween origin.
func (t *Tween) Run() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started || t.stopped {
		return
	}
	t.started = true
	t.handle = t.Scheduler.ScheduleNext(t.frame)
}

// Stop cancels the tween. No further sink calls are made; the display is
// left at its last written value. Stopping a completed tween is a no-op.
func (t *Tween) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
}

func (t *Tween) frame(now time.Time) {
	t.mu.Lock()
	if t.stopped || t.completed {
		t.mu.Unlock()
		return
	}
	if t.origin.IsZero() {
		t.origin = now
	}

	p := 1.0
	if t.Duration > 0 {
		p = clamp(float64(now.Sub(t.origin)) / float64(t.Duration))
	}
	value := Round(t.Start + (t.End-t.Start)*t.fn(p))

	done := p >= 1
	if done {
		t.completed = true
		t.handle = nil
	} else {
		t.handle = t.Scheduler.ScheduleNext(t.frame)
	}
	onUpdate := t.OnUpdate
	onComplete := t.OnComplete
	t.mu.Unlock()

	// Sinks run outside the lock. A sink panic is not recovered; it
	// propagates to the scheduler's fault boundary.
	onUpdate(value, p)
	if done && onComplete != nil {
		onComplete()
	}
}

// Run animates from start to end over duration on the default scheduler. It
// is a convenience wrapper around Tween for callers that do not need
// cancellation; onComplete may be nil.
func Run(start, end float64, duration time.Duration, kind easing.Kind,
	onUpdate func(value int64, progress float64), onComplete func(),
) error {
	t := &Tween{
		Start:      start,
		End:        end,
		Duration:   duration,
		Easing:     kind,
		OnUpdate:   onUpdate,
		OnComplete: onComplete,
	}
	if err := t.Initialize(); err != nil {
		return err
	}
	t.Run()
	return nil
}

// Round rounds half away from zero, the rounding the engine applies to
// every emitted value so repeated runs are deterministic.
func Round(v float64) int64 {
	return int64(math.Round(v))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
