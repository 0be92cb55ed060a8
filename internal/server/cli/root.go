// Package cli команды reference сервера
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/dequeuesync/internal/config"
	"github.com/iudanet/dequeuesync/internal/server"
	"github.com/iudanet/dequeuesync/internal/server/handlers"
	"github.com/iudanet/dequeuesync/internal/validation"
)

// SecretEnv переменная окружения с секретом подписи токенов, имеет приоритет над файлом
const SecretEnv = "DEQUEUESYNC_JWT_SECRET"

// Options global flags of the server
type Options struct {
	Out        io.Writer
	LogOutput  io.Writer
	Getenv     func(string) string
	ConfigPath string
	Addr       string
	DBPath     string
	LogLevel   string
}

// NewRootCommand creates the server command; without a subcommand it serves
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version, &Options{Out: os.Stdout, LogOutput: os.Stderr, Getenv: os.Getenv})
}

func newRootCommand(version string, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dequeuesync-server",
		Short:         "Reference sync server",
		Long:          "Stores the per-user event log and attachments, serves HTTP pull/push and the websocket stream.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (overrides config)")

	cmd.AddCommand(newTokenCommand(opts))
	return cmd
}

// config читает файл и применяет флаги и окружение
func (o *Options) config() (config.Server, error) {
	cfg, err := config.LoadServer(o.ConfigPath)
	if err != nil {
		return config.Server{}, err
	}
	if o.Addr != "" {
		cfg.Addr = o.Addr
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.Getenv != nil {
		if secret := o.Getenv(SecretEnv); secret != "" {
			cfg.JWTSecret = secret
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Server{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts *Options) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Log, opts.LogOutput)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("failed to close server", "error", err)
		}
	}()

	return srv.Run(ctx)
}

func newTokenCommand(opts *Options) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id> <device-id>",
		Short: "Issue an access token for a device",
		Long:  "Signs a token with the configured secret. Pass it to 'dequeuesync login' on the device.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if err := validation.ValidateIdentifier("user id", args[0]); err != nil {
				return err
			}
			if err := validation.ValidateIdentifier("device id", args[1]); err != nil {
				return err
			}

			jwtCfg := server.JWTConfig(cfg)
			if ttl > 0 {
				jwtCfg.AccessTokenTTL = ttl
			}

			token, expiresAt, err := handlers.GenerateAccessToken(jwtCfg, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(opts.Out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default from config)")
	return cmd
}
