package app

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerWarningThenExpiry(t *testing.T) {
	timer := NewSessionTimerWithLead(30 * time.Millisecond)
	warned := make(chan time.Duration, 1)
	expired := make(chan struct{}, 1)

	timer.Arm(80*time.Millisecond,
		func(remaining time.Duration) { warned <- remaining },
		func() { close(expired) },
	)

	select {
	case remaining := <-warned:
		if remaining != 30*time.Millisecond {
			t.Fatalf("expected remaining=30ms, got %v", remaining)
		}
	case <-time.After(time.Second):
		t.Fatalf("warning never fired")
	}
	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatalf("expiry never fired")
	}
}

func TestTimerSkipsWarningForShortDurations(t *testing.T) {
	timer := NewSessionTimerWithLead(time.Minute)
	warned := make(chan struct{}, 1)
	expired := make(chan struct{}, 1)

	timer.Arm(40*time.Millisecond,
		func(time.Duration) { warned <- struct{}{} },
		func() { close(expired) },
	)

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatalf("expiry never fired")
	}
	select {
	case <-warned:
		t.Fatalf("warning must be skipped when duration <= lead")
	default:
	}
}

func TestTimerCancelSuppressesFiring(t *testing.T) {
	timer := NewSessionTimer()
	var fired atomic.Int32

	timer.Arm(30*time.Millisecond, nil, func() { fired.Add(1) })
	timer.Cancel()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("cancelled timer must not fire")
	}

	// Cancel after the fact is a harmless no-op.
	timer.Cancel()
}

func TestTimerRearmCancelsPreviousSchedule(t *testing.T) {
	timer := NewSessionTimer()
	var first, second atomic.Int32

	timer.Arm(30*time.Millisecond, nil, func() { first.Add(1) })
	timer.Arm(60*time.Millisecond, nil, func() { second.Add(1) })

	time.Sleep(150 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("superseded schedule must not fire")
	}
	if second.Load() != 1 {
		t.Fatalf("expected exactly one firing, got %d", second.Load())
	}
}

func TestTimerFiresExactlyOncePerArmCycle(t *testing.T) {
	timer := NewSessionTimer()
	var fired atomic.Int32

	// Racing Cancel against the firing must never double-fire, and the
	// epoch token discards a callback already in flight when it loses.
	for i := 0; i < 50; i++ {
		fired.Store(0)
		timer.Arm(time.Millisecond, nil, func() { fired.Add(1) })
		time.Sleep(time.Duration(i%3) * time.Millisecond)
		timer.Cancel()
		time.Sleep(5 * time.Millisecond)
		if n := fired.Load(); n > 1 {
			t.Fatalf("iteration %d: fired %d times", i, n)
		}
	}
}
