package gotween

import (
	"fmt"
	"sync"
	"time"

	"github.com/aircast-one/gotween/pkg/clock"
	"github.com/aircast-one/gotween/pkg/easing"
)

// Batch runs a group of counters sharing one duration and easing curve,
// each entry starting after its own delay. Delays are measured from the
// batch origin, never from the previous entry's completion: with a 1 s
// duration and delays of 0 and 500 ms, at batch time 600 ms the entries are
// at progress 0.6 and 0.1. A single frame loop drives all entries.
type Batch struct {
	// Duration shared by every entry. Zero or negative durations complete
	// each entry on the first frame past its delay.
	Duration time.Duration

	// Easing selects the curve shared by every entry (default Linear).
	Easing easing.Kind

	// Scheduler provides frame timing (default clock.Default()).
	Scheduler clock.Scheduler

	// Entries, in display order.
	Entries []BatchEntry

	// OnComplete, if set, is invoked exactly once after every entry has
	// completed.
	OnComplete func()

	fn easing.Func

	mu        sync.Mutex
	handle    clock.Handle
	started   bool
	stopped   bool
	remaining int
	origin    time.Time
}

// BatchEntry is one counter in a Batch.
type BatchEntry struct {
	// Start and End are the entry's interpolation endpoints. Both must be
	// finite.
	Start float64
	End   float64

	// Delay before the entry starts, measured from the batch origin. The
	// entry emits nothing until its delay has elapsed. Negative delays are
	// treated as zero.
	Delay time.Duration

	// OnUpdate receives the entry's rounded value and linear progress.
	// Required.
	OnUpdate func(value int64, progress float64)

	// OnComplete, if set, is invoked exactly once when the entry finishes.
	OnComplete func()

	done bool
}

// Initialize validates every entry and resolves the shared easing curve.
func (b *Batch) Initialize() error {
	for i := range b.Entries {
		e := &b.Entries[i]
		if !isFinite(e.Start) {
			return fmt.Errorf("%w: entry %d: non-finite start value %v", ErrInvalidInput, i, e.Start)
		}
		if !isFinite(e.End) {
			return fmt.Errorf("%w: entry %d: non-finite end value %v", ErrInvalidInput, i, e.End)
		}
		if e.OnUpdate == nil {
			return fmt.Errorf("%w: entry %d: OnUpdate is required", ErrInvalidInput, i)
		}
		if e.Delay < 0 {
			e.Delay = 0
		}
	}

	fn, err := b.Easing.Func()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	b.fn = fn

	if b.Scheduler == nil {
		b.Scheduler = clock.Default()
	}
	if b.Duration < 0 {
		b.Duration = 0
	}
	b.remaining = len(b.Entries)
	return nil
}

// Run schedules the first frame. The timestamp of the first frame becomes
// the batch origin that every entry's delay is measured from.
func (b *Batch) Run() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.stopped {
		return
	}
	b.started = true
	b.handle = b.Scheduler.ScheduleNext(b.frame)
}

// Stop cancels the batch. Entries keep their last written values.
func (b *Batch) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.handle != nil {
		b.handle.Stop()
		b.handle = nil
	}
}

type batchEmit struct {
	update   func(value int64, progress float64)
	complete func()
	value    int64
	progress float64
	final    bool
}

func (b *Batch) frame(now time.Time) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	if b.origin.IsZero() {
		b.origin = now
	}
	elapsed := now.Sub(b.origin)

	var emits []batchEmit
	for i := range b.Entries {
		e := &b.Entries[i]
		if e.done || elapsed < e.Delay {
			continue
		}

		p := 1.0
		if b.Duration > 0 {
			p = clamp(float64(elapsed-e.Delay) / float64(b.Duration))
		}
		value := Round(e.Start + (e.End-e.Start)*b.fn(p))

		final := p >= 1
		if final {
			e.done = true
			b.remaining--
		}
		emits = append(emits, batchEmit{e.OnUpdate, e.OnComplete, value, p, final})
	}

	allDone := b.remaining == 0
	if allDone {
		b.handle = nil
	} else {
		b.handle = b.Scheduler.ScheduleNext(b.frame)
	}
	onComplete := b.OnComplete
	b.mu.Unlock()

	for _, em := range emits {
		em.update(em.value, em.progress)
		if em.final && em.complete != nil {
			em.complete()
		}
	}
	if allDone && onComplete != nil {
		onComplete()
	}
}
