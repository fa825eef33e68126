package quiz_test

import (
	"errors"
	"testing"

	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/quiz"
)

func TestClockFullPeriodRollsOverOnce(t *testing.T) {
	clock := quiz.NewClock()
	if err := clock.Start(86400); err != nil {
		t.Fatalf("start: %v", err)
	}

	rollovers := 0
	for i := 0; i < 86400; i++ {
		if clock.Tick() {
			rollovers++
		}
		if r := clock.Remaining(); r <= 0 || r > 86400 {
			t.Fatalf("tick %d: remaining out of range: %d", i, r)
		}
	}
	if rollovers != 1 {
		t.Fatalf("expected one rollover, got %d", rollovers)
	}
	if clock.Remaining() != 86400 {
		t.Fatalf("expected remaining reset to period, got %d", clock.Remaining())
	}
	if got := quiz.FormatHMS(clock.Remaining()); got != "24:00:00" {
		t.Fatalf("expected 24:00:00, got %s", got)
	}
	if clock.Rollovers() != 1 {
		t.Fatalf("expected rollover counter 1, got %d", clock.Rollovers())
	}
}

func TestClockSmallPeriod(t *testing.T) {
	clock := quiz.NewClock()
	_ = clock.Start(3)

	want := []struct {
		remaining int
		rolled    bool
	}{{2, false}, {1, false}, {3, true}, {2, false}, {1, false}, {3, true}}
	for i, w := range want {
		rolled := clock.Tick()
		if rolled != w.rolled || clock.Remaining() != w.remaining {
			t.Fatalf("tick %d: got remaining=%d rolled=%v, want %d %v", i, clock.Remaining(), rolled, w.remaining, w.rolled)
		}
	}
}

func TestClockPeriodOfOneRollsEveryTick(t *testing.T) {
	clock := quiz.NewClock()
	_ = clock.Start(1)
	for i := 0; i < 5; i++ {
		if !clock.Tick() {
			t.Fatalf("tick %d: expected rollover", i)
		}
		if clock.Remaining() != 1 {
			t.Fatalf("tick %d: expected remaining 1, got %d", i, clock.Remaining())
		}
	}
}

func TestClockStopIsIdempotentAndFreezes(t *testing.T) {
	clock := quiz.NewClock()
	_ = clock.Start(10)
	clock.Tick()

	clock.Stop()
	clock.Stop()
	if clock.Running() {
		t.Fatalf("expected clock stopped")
	}
	for i := 0; i < 20; i++ {
		if clock.Tick() {
			t.Fatalf("stopped clock must not roll over")
		}
	}
	if clock.Remaining() != 9 {
		t.Fatalf("expected remaining frozen at 9, got %d", clock.Remaining())
	}
}

func TestClockRejectsNonPositivePeriod(t *testing.T) {
	clock := quiz.NewClock()
	for _, p := range []int{0, -5} {
		if err := clock.Start(p); !errors.Is(err, domain.ErrInvalidPeriod) {
			t.Fatalf("period %d: expected ErrInvalidPeriod, got %v", p, err)
		}
	}
	if clock.Running() {
		t.Fatalf("clock must stay stopped after rejected start")
	}
}

func TestFormatHMS(t *testing.T) {
	cases := map[int]string{
		0:      "00:00:00",
		59:     "00:00:59",
		61:     "00:01:01",
		3599:   "00:59:59",
		3600:   "01:00:00",
		45296:  "12:34:56",
		86399:  "23:59:59",
		86400:  "24:00:00",
		360000: "100:00:00",
	}
	for in, want := range cases {
		if got := quiz.FormatHMS(in); got != want {
			t.Fatalf("FormatHMS(%d) = %s, want %s", in, got, want)
		}
	}
}
