package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	attempts := 0
	targetAttempts := 3

	err := Retry(context.Background(), 5, 0, func() error {
		attempts++
		if attempts < targetAttempts {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry returned unexpected error: %v", err)
	}
	if attempts != targetAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, targetAttempts)
	}
}

func TestRetryAllFail(t *testing.T) {
	attempts := 0
	maxAttempts := 3

	err := Retry(context.Background(), maxAttempts, 0, func() error {
		attempts++
		return errors.New("persistent error")
	})

	if err == nil {
		t.Fatal("Retry should return error when all attempts fail")
	}
	if attempts != maxAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, maxAttempts)
	}
}

func TestRateLimiterNew(t *testing.T) {
	rl := NewRateLimiter(60)
	if rl == nil {
		t.Fatal("NewRateLimiter returned nil")
	}
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait should be immediate: %v", err)
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait should be immediate: %v", err)
	}

	// Bucket is empty and refills at one token per minute; a cancelled
	// context must unblock the second Wait.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait on cancelled context = %v, want context.Canceled", err)
	}
}

func TestThirdFriday(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2026, time.September, 18},
		{2026, time.October, 16},
		{2026, time.November, 20},
		{2027, time.January, 15},
	}
	for _, c := range cases {
		got := ThirdFriday(c.year, c.month)
		want := time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("ThirdFriday(%d, %s) = %v, want %v", c.year, c.month, got, want)
		}
		if got.Weekday() != time.Friday {
			t.Errorf("ThirdFriday(%d, %s) is a %s", c.year, c.month, got.Weekday())
		}
	}
}

func TestMonthlyExpirations(t *testing.T) {
	// Asking just after the September 2026 expiration must skip to October.
	after := time.Date(2026, 9, 18, 12, 0, 0, 0, time.UTC)
	got := MonthlyExpirations(after, 3)
	want := []time.Time{
		time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 18, 0, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d expirations, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("expiration[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
