package gotween

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aircast-one/gotween/pkg/clock"
	"github.com/aircast-one/gotween/pkg/easing"
)

func newManual() *clock.ManualScheduler {
	return clock.NewManualScheduler(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
}

type recordedUpdate struct {
	value    int64
	progress float64
}

// runToCompletion advances the scheduler in fixed steps until the tween
// stops requesting frames.
func runToCompletion(t *testing.T, sched *clock.ManualScheduler, step time.Duration) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if sched.Pending() == 0 {
			return
		}
		sched.Advance(step)
	}
	t.Fatal("tween did not complete")
}

func TestTweenZeroDurationSingleUpdate(t *testing.T) {
	sched := newManual()

	var updates []recordedUpdate
	completed := 0
	tw := &Tween{
		Start:     0,
		End:       100,
		Duration:  0,
		Scheduler: sched,
		OnUpdate: func(value int64, progress float64) {
			updates = append(updates, recordedUpdate{value, progress})
		},
		OnComplete: func() { completed++ },
	}
	require.NoError(t, tw.Initialize())
	tw.Run()

	runToCompletion(t, sched, 16*time.Millisecond)

	require.Equal(t, []recordedUpdate{{100, 1}}, updates)
	require.Equal(t, 1, completed)
}

func TestTweenNegativeDurationTreatedAsZero(t *testing.T) {
	sched := newManual()

	var updates []recordedUpdate
	tw := &Tween{
		Start:     50,
		End:       200,
		Duration:  -time.Second,
		Scheduler: sched,
		OnUpdate: func(value int64, progress float64) {
			updates = append(updates, recordedUpdate{value, progress})
		},
	}
	require.NoError(t, tw.Initialize())
	tw.Run()

	runToCompletion(t, sched, 16*time.Millisecond)

	require.Equal(t, []recordedUpdate{{200, 1}}, updates)
}

func TestTweenMonotonicConvergence(t *testing.T) {
	cases := []struct {
		name       string
		kind       easing.Kind
		start, end float64
	}{
		{"linear up", easing.Linear, 0, 100},
		{"linear down", easing.Linear, 100, 0},
		{"out-cubic up", easing.OutCubic, 0, 100},
		{"out-cubic down", easing.OutCubic, 100, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sched := newManual()

			var values []int64
			tw := &Tween{
				Start:     tc.start,
				End:       tc.end,
				Duration:  time.Second,
				Easing:    tc.kind,
				Scheduler: sched,
				OnUpdate: func(value int64, _ float64) {
					values = append(values, value)
				},
			}
			require.NoError(t, tw.Initialize())
			tw.Run()

			runToCompletion(t, sched, 16*time.Millisecond)
			require.NotEmpty(t, values)

			up := tc.end > tc.start
			for i := 1; i < len(values); i++ {
				if up {
					require.GreaterOrEqual(t, values[i], values[i-1])
				} else {
					require.LessOrEqual(t, values[i], values[i-1])
				}
			}
			require.Equal(t, Round(tc.end), values[len(values)-1])
		})
	}
}

func TestTweenEndpointExactness(t *testing.T) {
	kinds := []easing.Kind{easing.Linear, easing.OutCubic, easing.InOutCubic, easing.OutBounce}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			sched := newManual()

			var last recordedUpdate
			tw := &Tween{
				Start:     3,
				End:       249.6,
				Duration:  700 * time.Millisecond,
				Easing:    kind,
				Scheduler: sched,
				OnUpdate: func(value int64, progress float64) {
					last = recordedUpdate{value, progress}
				},
			}
			require.NoError(t, tw.Initialize())
			tw.Run()

			runToCompletion(t, sched, 16*time.Millisecond)

			require.Equal(t, Round(249.6), last.value)
			require.Equal(t, 1.0, last.progress)
		})
	}
}

func TestTweenDeterminism(t *testing.T) {
	run := func() []recordedUpdate {
		sched := newManual()

		var updates []recordedUpdate
		tw := &Tween{
			Start:     12,
			End:       98765,
			Duration:  1200 * time.Millisecond,
			Easing:    easing.OutBounce,
			Scheduler: sched,
			OnUpdate: func(value int64, progress float64) {
				updates = append(updates, recordedUpdate{value, progress})
			},
		}
		require.NoError(t, tw.Initialize())
		tw.Run()
		runToCompletion(t, sched, 16*time.Millisecond)
		return updates
	}

	require.Equal(t, run(), run())
}

func TestTweenConstantValueRunsFullDuration(t *testing.T) {
	sched := newManual()

	var updates []recordedUpdate
	completed := 0
	tw := &Tween{
		Start:     42,
		End:       42,
		Duration:  500 * time.Millisecond,
		Scheduler: sched,
		OnUpdate: func(value int64, progress float64) {
			updates = append(updates, recordedUpdate{value, progress})
		},
		OnComplete: func() { completed++ },
	}
	require.NoError(t, tw.Initialize())
	tw.Run()

	// First frame: origin recorded, progress 0.
	sched.Advance(100 * time.Millisecond)
	require.Equal(t, []recordedUpdate{{42, 0}}, updates)
	require.Equal(t, 0, completed)

	runToCompletion(t, sched, 100*time.Millisecond)

	// Multiple frames, all at the same value, completing only once the
	// full duration elapsed.
	require.Greater(t, len(updates), 1)
	for _, u := range updates {
		require.Equal(t, int64(42), u.value)
	}
	require.Equal(t, 1.0, updates[len(updates)-1].progress)
	require.Equal(t, 1, completed)
}

func TestTweenStopSuppressesFurtherUpdates(t *testing.T) {
	sched := newManual()

	var updates []recordedUpdate
	completed := 0
	tw := &Tween{
		Start:     0,
		End:       100,
		Duration:  time.Second,
		Scheduler: sched,
		OnUpdate: func(value int64, progress float64) {
			updates = append(updates, recordedUpdate{value, progress})
		},
		OnComplete: func() { completed++ },
	}
	require.NoError(t, tw.Initialize())
	tw.Run()

	sched.Advance(100 * time.Millisecond)
	sched.Advance(100 * time.Millisecond)
	seen := len(updates)
	require.Equal(t, 2, seen)

	tw.Stop()
	require.Equal(t, 0, sched.Pending())

	sched.Advance(100 * time.Millisecond)
	sched.Advance(time.Second)
	require.Len(t, updates, seen)
	require.Equal(t, 0, completed)
}

func TestTweenProgressClampedToUnitInterval(t *testing.T) {
	sched := newManual()

	var updates []recordedUpdate
	tw := &Tween{
		Start:     0,
		End:       10,
		Duration:  50 * time.Millisecond,
		Scheduler: sched,
		OnUpdate: func(value int64, progress float64) {
			updates = append(updates, recordedUpdate{value, progress})
		},
	}
	require.NoError(t, tw.Initialize())
	tw.Run()

	// Overshoot the deadline by a wide margin in one step.
	sched.Advance(time.Millisecond)
	sched.Advance(time.Minute)

	require.Equal(t, []recordedUpdate{{0, 0}, {10, 1}}, updates)
	require.Equal(t, 0, sched.Pending())
}

func TestTweenInvalidInput(t *testing.T) {
	onUpdate := func(int64, float64) {}

	cases := []struct {
		name  string
		tween *Tween
	}{
		{"nan start", &Tween{Start: math.NaN(), End: 1, OnUpdate: onUpdate}},
		{"inf end", &Tween{Start: 0, End: math.Inf(1), OnUpdate: onUpdate}},
		{"negative inf start", &Tween{Start: math.Inf(-1), End: 1, OnUpdate: onUpdate}},
		{"nil sink", &Tween{Start: 0, End: 1}},
		{"unknown easing", &Tween{Start: 0, End: 1, Easing: easing.Kind(99), OnUpdate: onUpdate}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tween.Initialize()
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRunConvenienceValidates(t *testing.T) {
	err := Run(math.NaN(), 1, time.Second, easing.Linear, func(int64, float64) {}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	require.Equal(t, int64(3), Round(2.5))
	require.Equal(t, int64(-3), Round(-2.5))
	require.Equal(t, int64(1), Round(0.5))
	require.Equal(t, int64(-1), Round(-0.5))
	require.Equal(t, int64(2), Round(2.4))
	require.Equal(t, int64(0), Round(0))
}
