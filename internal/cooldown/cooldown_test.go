package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(rate int, per time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := New(rate, per)
	l.now = clock.now
	return l, clock
}

func TestAcquireWithinRate(t *testing.T) {
	l, _ := newTestLimiter(3, 10*time.Second)

	for i := 0; i < 3; i++ {
		assert.Zero(t, l.Acquire(1, "ping"), "call %d should be allowed", i+1)
	}

	retry := l.Acquire(1, "ping")
	require.Greater(t, retry, time.Duration(0), "4th call inside window must be denied")
	assert.LessOrEqual(t, retry, 10*time.Second)
}

func TestWindowExpiry(t *testing.T) {
	l, clock := newTestLimiter(1, 5*time.Second)

	assert.Zero(t, l.Acquire(42, "daily"))
	assert.Greater(t, l.Acquire(42, "daily"), time.Duration(0))

	clock.advance(5*time.Second + time.Millisecond)
	assert.Zero(t, l.Acquire(42, "daily"), "window fully expired, call must be allowed")
}

func TestRetryAfterShrinksAsWindowSlides(t *testing.T) {
	l, clock := newTestLimiter(1, 10*time.Second)

	require.Zero(t, l.Acquire(7, "rank"))

	clock.advance(4 * time.Second)
	retry := l.Acquire(7, "rank")
	assert.Equal(t, 6*time.Second, retry)

	clock.advance(3 * time.Second)
	retry = l.Acquire(7, "rank")
	assert.Equal(t, 3*time.Second, retry)
}

func TestPerCommandOverride(t *testing.T) {
	l, _ := newTestLimiter(5, time.Second)
	l.SetCommandCooldown("g-start", 1, time.Minute)

	rate, per := l.Policy("g-start")
	assert.Equal(t, 1, rate)
	assert.Equal(t, time.Minute, per)

	// Unregistered command falls back to global.
	rate, per = l.Policy("unknown-command")
	assert.Equal(t, 5, rate)
	assert.Equal(t, time.Second, per)
}

func TestCaseInsensitiveCommandNames(t *testing.T) {
	l, _ := newTestLimiter(5, time.Second)
	l.SetCommandCooldown("Daily", 1, time.Hour)

	require.Zero(t, l.Acquire(9, "DAILY"))
	assert.Greater(t, l.Acquire(9, "daily"), time.Duration(0))
}

func TestRemainingDoesNotAdvanceState(t *testing.T) {
	l, _ := newTestLimiter(2, 10*time.Second)

	assert.Zero(t, l.Remaining(3, "ping"), "fresh user has no cooldown")

	require.Zero(t, l.Acquire(3, "ping"))
	assert.Zero(t, l.Remaining(3, "ping"), "one slot left, still free")

	require.Zero(t, l.Acquire(3, "ping"))
	first := l.Remaining(3, "ping")
	second := l.Remaining(3, "ping")
	assert.Greater(t, first, time.Duration(0))
	assert.Equal(t, first, second, "peeking must not record invocations")
}

func TestUsersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	require.Zero(t, l.Acquire(1, "pay"))
	assert.Greater(t, l.Acquire(1, "pay"), time.Duration(0))
	assert.Zero(t, l.Acquire(2, "pay"), "other users are unaffected")
}
