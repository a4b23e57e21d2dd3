package worker

import (
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5, time.Minute)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1, 0)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1, time.Minute)
	key := "10.0.0.1"

	if !limiter.Allow(key) {
		t.Errorf("first request should pass")
	}

	if limiter.Allow(key) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("10.0.0.2") {
		t.Errorf("expected allow for other client")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1, time.Minute)

	for i := 0; i < 100; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected with limiting disabled", i)
		}
	}
}

func TestLimiter_SetKeyRate(t *testing.T) {
	limiter := NewLimiter(10, 10, time.Minute)
	key := "slow-client"

	limiter.SetKeyRate(key, 0.1, 1)

	if !limiter.Allow(key) {
		t.Errorf("first request should pass")
	}

	if limiter.Allow(key) {
		t.Errorf("second request should fail")
	}

	if !limiter.Allow("fast-client") {
		t.Errorf("other client should pass")
	}

	limiter.SetKeyRate("exempt-client", 0, 1)
	for i := 0; i < 50; i++ {
		if !limiter.Allow("exempt-client") {
			t.Fatalf("exempt client rejected on request %d", i)
		}
	}
}

func TestLimiter_IdleBucketsExpire(t *testing.T) {
	limiter := NewLimiter(0.01, 1, 20*time.Millisecond)
	key := "10.0.0.1"

	if !limiter.Allow(key) {
		t.Fatal("first request should pass")
	}
	if limiter.Allow(key) {
		t.Fatal("second request should fail")
	}

	time.Sleep(50 * time.Millisecond)

	// the exhausted bucket was dropped, so the client starts fresh
	if !limiter.Allow(key) {
		t.Error("expected a fresh bucket after the idle timeout")
	}
}
