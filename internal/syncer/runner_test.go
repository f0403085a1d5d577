package syncer_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/syncer"
)

func TestRunner_RecordsSuccessAndFailure(t *testing.T) {
	fail := errors.New("back office down")
	var calls int
	r := syncer.NewRunner(func(context.Context) error {
		calls++
		if calls == 2 {
			return fail
		}
		return nil
	}, syncer.Options{}, zaptest.NewLogger(t))

	require.NoError(t, r.RunOnce(context.Background()))
	st := r.State()
	assert.Equal(t, 1, st.Runs)
	assert.False(t, st.LastSuccess.IsZero())
	assert.NoError(t, st.LastError)

	require.ErrorIs(t, r.RunOnce(context.Background()), fail)
	require.NoError(t, r.RunOnce(context.Background()))
	st = r.State()
	assert.Equal(t, 3, st.Runs)
	assert.Zero(t, st.Failures, "success resets the failure streak")
}

func TestRunner_TimeoutSurfacesAsSyncTimeout(t *testing.T) {
	r := syncer.NewRunner(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, syncer.Options{Timeout: 10 * time.Millisecond}, zaptest.NewLogger(t))

	err := r.RunOnce(context.Background())
	require.ErrorIs(t, err, errs.ErrSyncTimeout)

	st := r.State()
	assert.ErrorIs(t, st.LastError, errs.ErrSyncTimeout)
	assert.Equal(t, 1, st.Failures)
}

func TestRunner_RunsDoNotOverlap(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	r := syncer.NewRunner(func(context.Context) error {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return nil
	}, syncer.Options{}, zaptest.NewLogger(t))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, r.RunOnce(context.Background()))
	}()
	<-started
	go func() {
		defer wg.Done()
		assert.NoError(t, r.RunOnce(context.Background()))
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestRunner_TriggerIsRateLimited(t *testing.T) {
	r := syncer.NewRunner(func(context.Context) error { return nil },
		syncer.Options{RetryPerMinute: 1}, zaptest.NewLogger(t))

	require.NoError(t, r.Trigger(context.Background()))
	require.ErrorIs(t, r.Trigger(context.Background()), errs.ErrRateLimited)
	assert.Equal(t, 1, r.State().Runs)
}

func TestRunner_StartStopRestart(t *testing.T) {
	var calls atomic.Int32
	r := syncer.NewRunner(func(context.Context) error {
		calls.Add(1)
		return nil
	}, syncer.Options{Interval: 5 * time.Millisecond}, zaptest.NewLogger(t))

	ctx := context.Background()
	r.Start(ctx)
	r.Start(ctx)
	assert.True(t, r.State().Running)
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	r.Stop()
	assert.False(t, r.State().Running)
	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load(), "no runs after Stop")
	r.Stop()

	r.Restart(ctx)
	assert.Eventually(t, func() bool { return calls.Load() > stopped }, time.Second, time.Millisecond)
	r.Stop()
}
