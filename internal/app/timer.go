package app

import (
	"sync"
	"time"
)

// WarningLead is how long before expiry the timeWarning fires. Sessions
// shorter than the lead get no warning at all.
const WarningLead = 5 * time.Minute

// SessionTimer is a one-shot countdown with an optional warning callback.
// Each Arm bumps an epoch token; a delayed callback from a cancelled or
// superseded schedule observes the stale epoch and is discarded, so expiry
// fires exactly once per arm cycle even when Cancel races the firing.
type SessionTimer struct {
	mu          sync.Mutex
	epoch       uint64
	fired       bool
	warningLead time.Duration
	warn        *time.Timer
	expire      *time.Timer
}

func NewSessionTimer() *SessionTimer {
	return &SessionTimer{warningLead: WarningLead}
}

// NewSessionTimerWithLead is for tests that want sub-second warning leads.
func NewSessionTimerWithLead(lead time.Duration) *SessionTimer {
	return &SessionTimer{warningLead: lead}
}

// Arm schedules onWarning at duration-lead (skipped when duration <= lead)
// and onExpiry at duration. Re-arming while armed cancels the previous
// schedule, which supports admin-adjusted time limits.
func (t *SessionTimer) Arm(duration time.Duration, onWarning func(remaining time.Duration), onExpiry func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.epoch++
	t.fired = false
	epoch := t.epoch

	if duration > t.warningLead && onWarning != nil {
		lead := t.warningLead
		t.warn = time.AfterFunc(duration-lead, func() {
			if t.stillCurrent(epoch) {
				onWarning(lead)
			}
		})
	}
	t.expire = time.AfterFunc(duration, func() {
		if t.claimFire(epoch) {
			onExpiry()
		}
	})
}

// Cancel invalidates any pending schedule. Safe from any state, including
// after firing, where it is a no-op.
func (t *SessionTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.epoch++
	t.stopLocked()
}

func (t *SessionTimer) stopLocked() {
	if t.warn != nil {
		t.warn.Stop()
		t.warn = nil
	}
	if t.expire != nil {
		t.expire.Stop()
		t.expire = nil
	}
}

func (t *SessionTimer) stillCurrent(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch == epoch
}

// claimFire atomically checks the epoch and marks the cycle fired, so an
// in-flight callback that lost a race with Cancel or a re-arm does nothing.
func (t *SessionTimer) claimFire(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.epoch != epoch || t.fired {
		return false
	}
	t.fired = true
	return true
}
