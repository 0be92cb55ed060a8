package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/dequeuesync/internal/client/network"
	"github.com/iudanet/dequeuesync/internal/client/sync"
)

// NewPushCommand creates the push command.
func NewPushCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Send pending local events to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				pushed, err := app.syncer.PushPending(ctx)
				if pushed > 0 {
					app.io.Printf("Pushed %d event(s)\n", pushed)
				}
				if err != nil {
					return err
				}
				if pushed == 0 {
					app.io.Println("Nothing to push")
				}
				return nil
			})
		},
	}
}

// NewPullCommand creates the pull command.
func NewPullCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch and apply remote events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				res, err := app.syncer.Pull(ctx)
				if err != nil {
					return err
				}
				app.printPull(res)
				return nil
			})
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push pending events, then pull remote ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, runSync)
		},
	}
}

func runSync(ctx context.Context, app *App) error {
	res, err := app.syncer.Sync(ctx)
	if res != nil {
		app.io.Printf("Pushed %d event(s)\n", res.Pushed)
		if res.Pull != nil {
			app.printPull(res.Pull)
		}
	}
	if err != nil {
		return err
	}

	sent, err := app.flushWiFiUploads(ctx)
	if sent > 0 {
		app.io.Printf("Uploaded %d queued attachment(s)\n", sent)
	}
	return err
}

func (a *App) printPull(res *sync.PullResult) {
	via := "http"
	if res.Streamed {
		via = "stream"
	}
	a.io.Printf("Pulled %d event(s) via %s, skipped %d, conflicts %d\n",
		res.EventsProcessed, via, res.Skipped, res.Conflicts)
	if res.HasMore {
		a.io.Println("More events are available, run pull again")
	}
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep syncing in the foreground until interrupted",
		Long: `Run periodic sync, keep the websocket stream connected and pull
whenever the server announces new events. Press Ctrl-C to stop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, runWatch)
		},
	}
}

func runWatch(parent context.Context, app *App) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			app.logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	if _, err := app.flushWiFiUploads(ctx); err != nil {
		app.logger.Warn("failed to flush wifi upload queue", slog.Any("error", err))
	}
	// старт watch равносилен появлению сети
	app.downloads.HandleNetworkChange(ctx, network.ClassNone, app.monitor.Class())

	app.io.Println("Watching for changes. Press Ctrl-C to stop.")
	if err := app.syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	app.io.Println("Stopped")
	return nil
}

// NewConflictsCommand creates the conflicts command.
func NewConflictsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "Show remote changes that lost to local ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				list, err := app.conflicts.ListConflicts(ctx)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					app.io.Println("No conflicts")
					return nil
				}
				for _, c := range list {
					app.io.Printf("%s  %s %s  %s  event %s  remote %s < local %s  fields %v\n",
						formatTime(c.DetectedAt), c.EntityType, c.EntityID, c.ConflictType, c.EventID,
						formatTime(c.RemoteTimestamp), formatTime(c.LocalTimestamp), c.Fields)
				}
				return nil
			})
		},
	}
}

// NewRetryCommand creates the retry command.
func NewRetryCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Retry a failed push now",
		Long:  "Reset the push backoff and push pending events immediately when the network is available.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if err := app.syncer.RetryPush(ctx); err != nil {
					return err
				}
				app.io.Println("Push retried")
				return nil
			})
		},
	}
}
