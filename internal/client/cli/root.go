package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/iudanet/dequeuesync/internal/client/iocli"
	"github.com/iudanet/dequeuesync/internal/config"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// Opener builds an App from configuration. Tests replace it.
type Opener func(ctx context.Context, cfg config.Client, io iocli.IO, logger *slog.Logger) (*App, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	IO         iocli.IO
	Open       Opener
	LogOutput  io.Writer
	ConfigPath string
	ServerURL  string
	DBPath     string
	Network    string
	LogLevel   string
}

// NewRootCommand creates the root command of the client.
func NewRootCommand(version string, console iocli.IO) *cobra.Command {
	return newRootCommand(version, &RootOptions{IO: console, Open: Open, LogOutput: os.Stderr})
}

func newRootCommand(version string, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dequeuesync",
		Short:         "Offline-first task sync client",
		Long:          "Records changes locally as events and synchronizes them with the server in the background.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "dequeuesync.yaml", "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", "", "server URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to local database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Network, "network", "", "network class: none, wifi or cellular (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (overrides config)")

	cmd.AddCommand(
		NewLoginCommand(opts),
		NewLogoutCommand(opts),
		NewStatusCommand(opts),
		NewAddCommand(opts),
		NewUpdateCommand(opts),
		NewMoveCommand(opts),
		NewDeleteCommand(opts),
		NewRestoreCommand(opts),
		NewCompleteCommand(opts),
		NewActivateCommand(opts),
		NewListCommand(opts),
		NewGetCommand(opts),
		NewPushCommand(opts),
		NewPullCommand(opts),
		NewSyncCommand(opts),
		NewWatchCommand(opts),
		NewConflictsCommand(opts),
		NewRetryCommand(opts),
		NewUploadCommand(opts),
		NewDownloadCommand(opts),
	)

	return cmd
}

// config loads the file and applies flag overrides
func (o *RootOptions) config() (config.Client, error) {
	cfg, err := config.LoadClient(o.ConfigPath)
	if err != nil {
		return config.Client{}, err
	}
	if o.ServerURL != "" {
		cfg.ServerURL = o.ServerURL
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Network != "" {
		cfg.Network = o.Network
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	return cfg, cfg.Validate()
}

// withApp opens the client for a single command and closes it afterwards.
func (o *RootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, app *App) error) error {
	cfg, err := o.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := config.NewLogger(cfg.Log, o.LogOutput)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := o.Open(ctx, cfg, o.IO, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("failed to close client", slog.Any("error", closeErr))
		}
	}()

	return fn(ctx, app)
}

// Explain converts an error into the text shown to the user.
// Sync failures get a friendly message, everything else is shown as is.
func Explain(err error) string {
	var serverErr *syncerr.ServerError
	switch {
	case errors.Is(err, syncerr.ErrUnauthorized), errors.Is(err, syncerr.ErrTokenExpired),
		syncerr.IsRetryable(err), errors.As(err, &serverErr):
		return syncerr.UserMessage(err)
	default:
		return err.Error()
	}
}
