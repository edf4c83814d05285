package cooldown

import (
	"strings"
	"sync"
	"time"
)

// GlobalPolicy is the fallback policy key used when a command has no
// specific cooldown registered.
const GlobalPolicy = "global"

// policy holds the sliding-window parameters for a single command.
type policy struct {
	rate int
	per  time.Duration
}

// Limiter rate-limits command invocations per (user, command) pair using a
// sliding window of recent timestamps. State is memory-only; windows reset
// on restart.
type Limiter struct {
	mu       sync.Mutex
	policies map[string]policy
	history  map[int64]map[string][]time.Time // userID -> command -> timestamps
	now      func() time.Time
}

// New creates a Limiter with the given global fallback policy.
func New(defaultRate int, defaultPer time.Duration) *Limiter {
	return &Limiter{
		policies: map[string]policy{
			GlobalPolicy: {rate: defaultRate, per: defaultPer},
		},
		history: make(map[int64]map[string][]time.Time),
		now:     time.Now,
	}
}

// SetCommandCooldown registers or overwrites the cooldown policy for a
// command. Command names are case-insensitive. rate must be >= 1 and per
// must be positive; the caller is responsible for sane values.
func (l *Limiter) SetCommandCooldown(command string, rate int, per time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policies[strings.ToLower(command)] = policy{rate: rate, per: per}
}

// Policy returns the (rate, per) policy applied to a command, falling back
// to the global policy for unregistered commands.
func (l *Limiter) Policy(command string) (int, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p := l.lookup(command)
	return p.rate, p.per
}

func (l *Limiter) lookup(command string) policy {
	if p, ok := l.policies[strings.ToLower(command)]; ok {
		return p
	}
	return l.policies[GlobalPolicy]
}

// Acquire attempts to consume a slot for the given user and command.
// It returns 0 if the call is permitted (and records it), otherwise the
// time remaining until the oldest timestamp in the window expires.
func (l *Limiter) Acquire(userID int64, command string) time.Duration {
	command = strings.ToLower(command)

	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.lookup(command)
	now := l.now()

	userRec, ok := l.history[userID]
	if !ok {
		userRec = make(map[string][]time.Time)
		l.history[userID] = userRec
	}

	timestamps := prune(userRec[command], now.Add(-p.per))

	if len(timestamps) < p.rate {
		userRec[command] = append(timestamps, now)
		return 0
	}

	userRec[command] = timestamps
	retryAfter := p.per - now.Sub(timestamps[0])
	if retryAfter < 0 {
		retryAfter = 0
	}
	return retryAfter
}

// Remaining reports how long the user must wait before the command is
// allowed again, without recording an invocation. 0 means the command is
// free to use.
func (l *Limiter) Remaining(userID int64, command string) time.Duration {
	command = strings.ToLower(command)

	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.lookup(command)
	now := l.now()

	userRec, ok := l.history[userID]
	if !ok {
		return 0
	}

	timestamps := prune(userRec[command], now.Add(-p.per))
	userRec[command] = timestamps

	if len(timestamps) < p.rate {
		return 0
	}

	remaining := p.per - now.Sub(timestamps[0])
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// prune drops timestamps at or before the cutoff, keeping order.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	kept := timestamps[:0]
	for _, t := range timestamps {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
