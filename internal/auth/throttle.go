package auth

import (
	"math"
	"sync"
	"time"
)

// ThrottleCooldownCapSeconds bounds the wait imposed after repeated failures
const ThrottleCooldownCapSeconds = 30

// ThrottleForgetAfter is how long after its cooldown ends an idle key is dropped
const ThrottleForgetAfter = 15 * time.Minute

type throttleEntry struct {
	failCount     int
	cooldownUntil time.Time
}

// LoginThrottle slows down password guessing per client key (usually the IP).
// After the n-th consecutive failure the key waits min(30, 2^n) seconds.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	now     func() time.Time
}

// NewLoginThrottle creates an empty throttle
func NewLoginThrottle() *LoginThrottle {
	return &LoginThrottle{
		entries: make(map[string]*throttleEntry),
		now:     time.Now,
	}
}

// WaitSeconds returns how many seconds key must wait before trying again (0 if no cooldown)
func (t *LoginThrottle) WaitSeconds(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[key]
	if !ok {
		return 0
	}
	now := t.now()
	if !now.Before(entry.cooldownUntil) {
		return 0
	}
	return int(math.Ceil(entry.cooldownUntil.Sub(now).Seconds()))
}

// RecordFailure increments the failure count and starts a new cooldown
func (t *LoginThrottle) RecordFailure(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.pruneLocked(now)

	entry, ok := t.entries[key]
	if !ok {
		entry = &throttleEntry{}
		t.entries[key] = entry
	}
	entry.failCount++
	entry.cooldownUntil = now.Add(time.Duration(CooldownSecondsForFailCount(entry.failCount)) * time.Second)
}

// pruneLocked drops keys whose cooldown ended more than ThrottleForgetAfter ago.
// The caller holds t.mu.
func (t *LoginThrottle) pruneLocked(now time.Time) {
	for key, entry := range t.entries {
		if now.Sub(entry.cooldownUntil) > ThrottleForgetAfter {
			delete(t.entries, key)
		}
	}
}

// Len returns the number of keys currently tracked
func (t *LoginThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// RecordSuccess forgets the failures of key
func (t *LoginThrottle) RecordSuccess(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// CooldownSecondsForFailCount returns min(30, 2^failCount)
func CooldownSecondsForFailCount(failCount int) int {
	if failCount >= 5 {
		return ThrottleCooldownCapSeconds
	}
	s := int(math.Pow(2, float64(failCount)))
	if s > ThrottleCooldownCapSeconds {
		return ThrottleCooldownCapSeconds
	}
	return s
}
