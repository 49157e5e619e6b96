package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func newClock(t *testing.T, tickMs uint64) *Clock {
	t.Helper()
	c, err := NewClock(tickMs)
	if err != nil {
		t.Fatalf("NewClock(%d): %v", tickMs, err)
	}
	return c
}

func TestClockFixedTickScenario(t *testing.T) {
	c := newClock(t, DefaultTickMs)

	steps := []struct {
		delta      uint64
		emitted    uint64
		totalTicks uint64
		pending    uint64
	}{
		{10, 0, 0, 10},
		{40, 1, 1, 0},
		{150, 3, 4, 0},
		{49, 0, 4, 49},
		{1, 1, 5, 0},
	}
	for i, s := range steps {
		if got := c.Advance(s.delta); got != s.emitted {
			t.Errorf("step %d: Advance(%d) = %d, want %d", i, s.delta, got, s.emitted)
		}
		if c.Ticks() != s.totalTicks {
			t.Errorf("step %d: Ticks() = %d, want %d", i, c.Ticks(), s.totalTicks)
		}
		if c.Pending() != s.pending {
			t.Errorf("step %d: Pending() = %d, want %d", i, c.Pending(), s.pending)
		}
	}
}

func TestClockChunkingIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		tickMs := uint64(rng.Intn(100) + 1)
		c := newClock(t, tickMs)

		var total uint64
		for i := rng.Intn(50); i > 0; i-- {
			d := uint64(rng.Intn(300))
			total += d
			c.Advance(d)
			if c.Pending() >= tickMs {
				t.Fatalf("pending %d not below tick %d", c.Pending(), tickMs)
			}
		}

		if want := total / tickMs; c.Ticks() != want {
			t.Fatalf("tick %dms, total %dms: Ticks() = %d, want %d", tickMs, total, c.Ticks(), want)
		}
		if want := total % tickMs; c.Pending() != want {
			t.Fatalf("tick %dms, total %dms: Pending() = %d, want %d", tickMs, total, c.Pending(), want)
		}

		single := newClock(t, tickMs)
		single.Advance(total)
		if single.Ticks() != c.Ticks() {
			t.Fatalf("one call gave %d ticks, chunked gave %d", single.Ticks(), c.Ticks())
		}
	}
}

func TestClockStepOrder(t *testing.T) {
	c := newClock(t, 50)
	var seen []uint64
	record := func(tick uint64) { seen = append(seen, tick) }

	c.Step(120, record)
	c.Step(0, record)
	c.Step(30, record)

	want := []uint64{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("ticks = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("ticks = %v, want %v", seen, want)
		}
	}
}

func TestClockLargeDelta(t *testing.T) {
	c := newClock(t, 50)
	c.Advance(49)
	n := c.Advance(math.MaxUint64)
	if want := uint64(math.MaxUint64/50) + 1; n != want {
		// 49 + (MaxUint64 % 50 = 15) carries one more tick.
		t.Errorf("Advance(MaxUint64) = %d, want %d", n, want)
	}
	if c.Pending() != (49+math.MaxUint64%50)%50 {
		t.Errorf("Pending() = %d", c.Pending())
	}
}

func TestClockIndependentSessions(t *testing.T) {
	fast, slow := newClock(t, 10), newClock(t, 100)
	fast.Advance(250)
	slow.Advance(250)
	if fast.Ticks() != 25 || slow.Ticks() != 2 {
		t.Errorf("ticks = %d and %d, want 25 and 2", fast.Ticks(), slow.Ticks())
	}
	if fast.TickMs() != 10 || slow.TickMs() != 100 {
		t.Error("tick durations mixed up")
	}
}

func TestNewClockZeroTick(t *testing.T) {
	if _, err := NewClock(0); !errors.Is(err, ErrZeroTick) {
		t.Errorf("NewClock(0) error = %v, want ErrZeroTick", err)
	}
}
