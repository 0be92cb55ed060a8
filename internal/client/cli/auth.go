package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var deviceName string

	cmd := &cobra.Command{
		Use:   "login [token]",
		Short: "Store an access token issued by the server",
		Long: `Store an access token and announce this device to the other devices of the user.

Without the argument the token is read from the terminal without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				token, err := readToken(app, args)
				if err != nil {
					return err
				}
				return runLogin(ctx, app, token, deviceName)
			})
		},
	}
	cmd.Flags().StringVar(&deviceName, "device-name", "", "human readable name of this device")

	return cmd
}

func readToken(app *App, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	if !app.io.IsInteractive() {
		return "", errors.New("token argument is required when input is not a terminal")
	}
	token, err := app.io.ReadSecret("Access token: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func runLogin(ctx context.Context, app *App, token, deviceName string) error {
	session, err := app.auth.Login(ctx, token)
	if err != nil {
		return err
	}
	app.data.SetUserID(session.UserID)

	if _, err := app.data.DiscoverDevice(ctx, deviceName); err != nil {
		return err
	}

	app.io.Printf("Logged in as %s (device %s)\n", session.UserID, app.deviceID)
	return nil
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, app *App) error {
				if err := app.auth.Logout(ctx); err != nil {
					return err
				}
				app.io.Println("Logged out. Local data is kept.")
				return nil
			})
		},
	}
}

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, pending changes and transfer state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, runStatus)
		},
	}
}

func runStatus(ctx context.Context, app *App) error {
	session, err := app.auth.Session(ctx)
	switch {
	case err == nil:
		app.io.Printf("User:        %s\n", session.UserID)
	case errors.Is(err, syncerr.ErrUnauthorized):
		app.io.Println("User:        not logged in")
	default:
		return err
	}
	app.io.Printf("Device:      %s\n", app.deviceID)
	app.io.Printf("Network:     %s\n", app.monitor.Class())

	status, err := app.syncer.Status(ctx)
	if err != nil {
		return err
	}
	checkpoint := status.Checkpoint
	if checkpoint == "" {
		checkpoint = "(never synced)"
	}
	app.io.Printf("Pending:     %d\n", status.Pending)
	app.io.Printf("Checkpoint:  %s\n", checkpoint)
	app.io.Printf("Streaming:   enabled=%t connected=%t\n", status.StreamEnabled, status.StreamConnected)
	if r := status.PushRetry; r != nil {
		app.io.Printf("Push retry:  attempt %d, next at %s\n", r.AttemptCount, formatTime(r.NextRetryAt))
	}

	for _, st := range app.uploader.Failed() {
		app.io.Printf("Upload %s failed %d time(s), next at %s\n", st.Key, st.AttemptCount, formatTime(st.NextRetryAt))
	}
	if queued := app.gate.WiFiQueue(); len(queued) > 0 {
		app.io.Printf("Uploads waiting for WiFi: %d\n", len(queued))
	}
	progress := app.downloads.Progress()
	if progress.TotalQueued > 0 {
		app.io.Printf("Downloads:   %d/%d (%.0f%%)\n", progress.CompletedCount, progress.TotalQueued, progress.OverallProgress*100)
	}
	return nil
}
