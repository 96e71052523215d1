package ratelimiter

import (
	"testing"
	"time"
)

func TestAllow_firstActionPasses(t *testing.T) {
	l := New(time.Hour)

	allowed, wait := l.Allow()
	if !allowed {
		t.Error("first action should be allowed")
	}
	if wait != 0 {
		t.Errorf("wait = %v, want 0", wait)
	}
}

func TestAllow_rateLimitsWithinInterval(t *testing.T) {
	l := New(time.Hour)

	l.Allow()
	allowed, wait := l.Allow()
	if allowed {
		t.Error("second action within the interval should be rejected")
	}
	if wait <= 0 || wait > time.Hour {
		t.Errorf("wait = %v, want within (0, 1h]", wait)
	}
}

func TestAllow_passesAfterInterval(t *testing.T) {
	l := New(10 * time.Millisecond)

	l.Allow()
	time.Sleep(15 * time.Millisecond)
	if allowed, _ := l.Allow(); !allowed {
		t.Error("action after the interval should be allowed")
	}
}

func TestReset(t *testing.T) {
	l := New(time.Hour)

	l.Allow()
	l.Reset()
	if allowed, _ := l.Allow(); !allowed {
		t.Error("action after Reset should be allowed")
	}
}
