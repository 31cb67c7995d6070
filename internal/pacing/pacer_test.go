package pacing

import (
	"context"
	"testing"
	"time"
)

func TestPauseDisabledInterval(t *testing.T) {
	t.Parallel()

	pacer := NewFixedDelay(0)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if err := pacer.Pause(context.Background()); err != nil {
			t.Fatalf("Pause error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("disabled pacing should not block, took %v", elapsed)
	}
}

func TestPauseSpacesCalls(t *testing.T) {
	t.Parallel()

	pacer := NewFixedDelay(50 * time.Millisecond)

	if err := pacer.Pause(context.Background()); err != nil {
		t.Fatalf("first Pause error: %v", err)
	}

	start := time.Now()
	if err := pacer.Pause(context.Background()); err != nil {
		t.Fatalf("second Pause error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("second call should wait for the interval, took %v", elapsed)
	}
}

func TestPauseHonorsContext(t *testing.T) {
	t.Parallel()

	pacer := NewFixedDelay(time.Hour)

	if err := pacer.Pause(context.Background()); err != nil {
		t.Fatalf("first Pause error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pacer.Pause(ctx); err == nil {
		t.Fatal("a cancelled context should abort the wait")
	}
}
