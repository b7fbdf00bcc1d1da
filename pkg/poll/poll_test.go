package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUntilSucceeds(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Until(context.Background(), Options{Interval: time.Millisecond}, func(ctx context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	if err != nil {
		t.Fatalf("Until error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 polls, got %d", calls)
	}
}

func TestUntilPropagatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := Until(context.Background(), Options{Interval: time.Millisecond}, func(ctx context.Context) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped poll error, got %v", err)
	}
}

func TestUntilExhaustsAttempts(t *testing.T) {
	t.Parallel()

	err := Until(context.Background(), Options{Interval: time.Millisecond, MaxAttempts: 4}, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
}

func TestUntilHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := Until(ctx, Options{Interval: time.Hour}, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
