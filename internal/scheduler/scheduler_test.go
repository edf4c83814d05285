package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxybot/internal/config"
)

func TestRegisterFuncRuns(t *testing.T) {
	s := NewScheduler(config.NewMockConfig(nil))

	var runs atomic.Int32
	require.NoError(t, s.RegisterFunc("@every 1s", "tick", func() error {
		runs.Add(1)
		return nil
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestRegisterFuncRejectsBadSpec(t *testing.T) {
	s := NewScheduler(config.NewMockConfig(nil))
	assert.Error(t, s.RegisterFunc("not a cron spec", "bad", func() error { return nil }))
}

func TestJobErrorsAndPanicsAreContained(t *testing.T) {
	s := NewScheduler(config.NewMockConfig(nil))

	var panicked atomic.Bool
	var recovered atomic.Bool
	require.NoError(t, s.RegisterFunc("@every 1s", "fails", func() error {
		return errors.New("boom")
	}))
	require.NoError(t, s.RegisterFunc("@every 1s", "panics", func() error {
		if panicked.CompareAndSwap(false, true) {
			panic("boom")
		}
		recovered.Store(true)
		return nil
	}))

	s.Start()
	defer s.Stop()

	// The panicking job must not take the scheduler down; it runs again.
	assert.Eventually(t, func() bool {
		return recovered.Load()
	}, 4*time.Second, 50*time.Millisecond)
}
