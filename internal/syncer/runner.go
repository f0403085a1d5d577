// Package syncer runs the recurring back-office synchronization.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Tiliavir/cafe-core/internal/errs"
	"github.com/Tiliavir/cafe-core/internal/logging"
)

// Action is one synchronization attempt. It must honour ctx cancellation.
type Action func(ctx context.Context) error

// Options tune a Runner. Zero values fall back to the defaults.
type Options struct {
	Interval       time.Duration
	Timeout        time.Duration
	RetryPerMinute int
}

// Defaults applied by NewRunner.
const (
	DefaultInterval       = 5 * time.Minute
	DefaultTimeout        = 30 * time.Second
	DefaultRetryPerMinute = 3
)

// State is the observable outcome of past runs.
type State struct {
	Running     bool
	Runs        int
	Failures    int // consecutive
	LastRun     time.Time
	LastSuccess time.Time
	LastError   error
}

// Runner repeats an Action on a fixed interval. Runs never overlap: a run
// requested while one is in flight joins it.
type Runner struct {
	action   Action
	interval time.Duration
	timeout  time.Duration
	limiter  *rate.Limiter
	group    singleflight.Group
	now      func() time.Time
	log      *zap.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner returns a stopped Runner for action.
func NewRunner(action Action, opts Options, log *zap.Logger) *Runner {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryPerMinute <= 0 {
		opts.RetryPerMinute = DefaultRetryPerMinute
	}
	return &Runner{
		action:   action,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RetryPerMinute)), opts.RetryPerMinute),
		now:      time.Now,
		log:      logging.OrNop(log),
	}
}

// Start launches the periodic loop. Starting a running Runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.state.Running = true

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = r.RunOnce(ctx)
			}
		}
	}()
	r.log.Info("sync runner started", zap.Duration("interval", r.interval))
}

// Stop cancels the loop and any run it started, and waits for it to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.state.Running = false
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.log.Info("sync runner stopped")
}

// Restart stops and starts the loop.
func (r *Runner) Restart(ctx context.Context) {
	r.Stop()
	r.Start(ctx)
}

// Trigger is the manual retry. It is rate limited and returns ErrRateLimited
// when retries come too fast.
func (r *Runner) Trigger(ctx context.Context) error {
	if !r.limiter.Allow() {
		return errs.ErrRateLimited
	}
	return r.RunOnce(ctx)
}

// RunOnce runs the action now, or joins the run already in flight.
func (r *Runner) RunOnce(ctx context.Context) error {
	_, err, shared := r.group.Do("sync", func() (any, error) {
		return nil, r.run(ctx)
	})
	if shared {
		r.log.Debug("sync run joined in-flight run")
	}
	return err
}

func (r *Runner) run(ctx context.Context) error {
	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	err := r.action(tctx)
	if err != nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %v", errs.ErrSyncTimeout, r.timeout, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Runs++
	r.state.LastRun = start
	r.state.LastError = err
	if err != nil {
		r.state.Failures++
		r.log.Warn("sync failed", zap.Int("failures", r.state.Failures), zap.Error(err))
		return err
	}
	r.state.Failures = 0
	r.state.LastSuccess = start
	return nil
}

// State returns a copy of the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}
