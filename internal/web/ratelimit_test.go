package web

import (
	"testing"
	"time"
)

func TestRateLimiterBudget(t *testing.T) {
	rl := newRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1:1234") {
			t.Fatalf("request %d denied within budget", i+1)
		}
	}
	if rl.allow("10.0.0.1:1234") {
		t.Error("request over budget allowed")
	}

	// Other clients have their own budget.
	if !rl.allow("10.0.0.2:1234") {
		t.Error("distinct client denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(1, time.Hour)

	if !rl.allow("10.0.0.1:1234") {
		t.Fatal("first request denied")
	}
	if rl.allow("10.0.0.1:1234") {
		t.Fatal("second request in window allowed")
	}

	// Age the window out instead of sleeping.
	rl.mu.Lock()
	rl.visitors["10.0.0.1:1234"].lastReset = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()

	if !rl.allow("10.0.0.1:1234") {
		t.Error("request after window reset denied")
	}
}
