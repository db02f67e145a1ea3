package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/infrastructure/adapter/logger"
)

func TestScheduler_Every(t *testing.T) {
	s, err := New(logger.NewNoopLogger())
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, s.Every("counter", 20*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))

	var failures atomic.Int32
	require.NoError(t, s.Every("failing", 20*time.Millisecond, func(ctx context.Context) error {
		failures.Add(1)
		return errors.New("boom")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 && failures.Load() >= 2 },
		2*time.Second, 10*time.Millisecond, "failing jobs keep their schedule")
	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())
}

func TestScheduler_ShutdownCancelsRunningTask(t *testing.T) {
	s, err := New(logger.NewNoopLogger())
	require.NoError(t, err)

	started := make(chan struct{})
	var cancelled atomic.Bool
	require.NoError(t, s.Every("long", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))

	s.Start()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not start")
	}
	require.NoError(t, s.Shutdown())
	assert.True(t, cancelled.Load())
}

func TestScheduler_Validation(t *testing.T) {
	s, err := New(logger.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown() })

	assert.Error(t, s.Every("bad", 0, func(context.Context) error { return nil }))
	assert.Error(t, s.Cron("bad", "not a cron", func(context.Context) error { return nil }))
	assert.NoError(t, s.Cron("hourly", "0 * * * *", func(context.Context) error { return nil }))
}

func TestFields(t *testing.T) {
	assert.Nil(t, fields(nil))
	assert.Equal(t, map[string]any{"job": "sweep", "n": 2}, fields([]any{"job", "sweep", "n", 2, "dangling"}))
}
