package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/cafe-core/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push configuration and new entries to the back office",
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync once now",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSyncRun),
}

var syncStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Sync on the configured interval until interrupted",
	Args:  cobra.NoArgs,
	RunE:  withApp(runSyncStart),
}

func init() {
	syncCmd.AddCommand(syncRunCmd)
	syncCmd.AddCommand(syncStartCmd)
}

func newSyncJob(ctx context.Context, a *app) (*syncer.Job, error) {
	if !a.cfg.SyncEnabled() {
		return nil, fmt.Errorf("sync is not configured; set sync.endpoint in %s/config.json", a.cfg.Home())
	}
	target := syncer.NewHTTPTarget(ctx, syncer.TargetConfig{
		Endpoint:     a.cfg.Sync.Endpoint,
		TokenURL:     a.cfg.Sync.TokenURL,
		ClientID:     a.cfg.Sync.ClientID,
		ClientSecret: a.cfg.Sync.ClientSecret,
	})
	return &syncer.Job{
		KV:     a.kv,
		Events: a.events,
		Global: a.global,
		POS:    a.pos,
		Target: target,
		Log:    a.log,
	}, nil
}

func newRunner(a *app, action syncer.Action) *syncer.Runner {
	return syncer.NewRunner(action, syncer.Options{
		Interval:       a.cfg.Sync.Interval.Duration,
		Timeout:        a.cfg.Sync.Timeout.Duration,
		RetryPerMinute: a.cfg.Sync.RetryPerMinute,
	}, a.log)
}

func runSyncRun(cmd *cobra.Command, _ []string, a *app) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	job, err := newSyncJob(ctx, a)
	if err != nil {
		return err
	}
	var res syncer.Result
	runner := newRunner(a, func(ctx context.Context) error {
		var err error
		res, err = job.Run(ctx)
		return err
	})
	if err := runner.Trigger(ctx); err != nil {
		return fmt.Errorf("sync failed: %w\nRetry with: cafe sync run", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d configurations and %d new entries (%d already sent).\n",
		res.Configs, res.Entries, res.Skipped)
	return nil
}

func runSyncStart(cmd *cobra.Command, _ []string, a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job, err := newSyncJob(ctx, a)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	runner := newRunner(a, func(ctx context.Context) error {
		res, err := job.Run(ctx)
		if err == nil {
			fmt.Fprintf(out, "synced %d new entries\n", res.Entries)
		}
		return err
	})

	runner.Start(ctx)
	fmt.Fprintf(out, "Syncing every %s. Press Ctrl+C to stop.\n", a.cfg.Sync.Interval.Duration)
	<-ctx.Done()
	runner.Stop()

	st := runner.State()
	fmt.Fprintf(out, "Stopped after %d runs.\n", st.Runs)
	if st.LastError != nil {
		fmt.Fprintf(out, "Last error: %v\n", st.LastError)
	}
	return nil
}
