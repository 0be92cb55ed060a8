// Package cli implements the dequeuesync client commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/dequeuesync/internal/client/attachments"
	"github.com/iudanet/dequeuesync/internal/client/auth"
	"github.com/iudanet/dequeuesync/internal/client/data"
	"github.com/iudanet/dequeuesync/internal/client/iocli"
	"github.com/iudanet/dequeuesync/internal/client/network"
	"github.com/iudanet/dequeuesync/internal/client/projector"
	"github.com/iudanet/dequeuesync/internal/client/retry"
	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/client/storage/boltdb"
	"github.com/iudanet/dequeuesync/internal/client/sync"
	"github.com/iudanet/dequeuesync/internal/client/transport"
	"github.com/iudanet/dequeuesync/internal/config"
	"github.com/iudanet/dequeuesync/internal/crdt"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

//go:generate moq -out syncer_mock.go . Syncer

// Syncer операции синхронизации, которые использует CLI
type Syncer interface {
	PushPending(ctx context.Context) (int, error)
	Pull(ctx context.Context) (*sync.PullResult, error)
	Sync(ctx context.Context) (*sync.SyncResult, error)
	Status(ctx context.Context) (*sync.Status, error)
	RetryPush(ctx context.Context) error
	Run(ctx context.Context) error
}

var _ Syncer = (*sync.Manager)(nil)

// Session сохраненная авторизация
type Session interface {
	Login(ctx context.Context, token string) (*storage.AuthData, error)
	Session(ctx context.Context) (*storage.AuthData, error)
	Logout(ctx context.Context) error
}

var _ Session = (*auth.Service)(nil)

// App собранный клиент: хранилище, сервисы и политики вложений
type App struct {
	io        iocli.IO
	logger    *slog.Logger
	auth      Session
	data      *data.Service
	syncer    Syncer
	conflicts storage.ConflictLog
	monitor   *network.StaticMonitor
	gate      *attachments.CellularGate
	uploader  *attachments.Uploader
	downloads *attachments.Coordinator
	closers   []func() error
	deviceID  string
	cfg       config.Client
}

// Open opens the local store and wires every client component
func Open(ctx context.Context, cfg config.Client, io iocli.IO, logger *slog.Logger) (*App, error) {
	class, err := network.ParseClass(cfg.Network)
	if err != nil {
		return nil, err
	}
	behavior, err := attachments.ParseDownloadBehavior(cfg.Downloads.Behavior)
	if err != nil {
		return nil, err
	}

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app := &App{cfg: cfg, io: io, logger: logger}
	app.closers = append(app.closers, store.Close)

	deviceID, err := store.GetDeviceID(ctx)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to load device id: %w", err)
	}
	app.deviceID = deviceID

	authSvc := auth.NewService(store)
	userID := ""
	if session, err := authSvc.Session(ctx); err == nil {
		userID = session.UserID
	} else if !errors.Is(err, syncerr.ErrUnauthorized) {
		_ = app.Close()
		return nil, err
	}

	clock := crdt.NewClock()
	proj := projector.New(store, store, clock, deviceID, logger)
	identity := data.Identity{UserID: userID, DeviceID: deviceID, AppID: cfg.AppID}

	monitor := network.NewStaticMonitor(class)

	httpClient := transport.NewHTTPClient(transport.HTTPConfig{
		BaseURL:        cfg.ServerURL,
		RequestTimeout: cfg.Sync.RequestTimeout,
		MaxRetries:     cfg.Sync.MaxRetries,
	}, authSvc, logger)

	streamClient := transport.NewStreamClient(transport.StreamConfig{
		URL:          cfg.WebSocketURL(),
		Enabled:      cfg.Streaming.Enabled,
		DialTimeout:  cfg.Streaming.DialTimeout,
		WriteTimeout: cfg.Streaming.WriteTimeout,
		IdleTimeout:  cfg.Streaming.IdleTimeout,
	}, authSvc, logger)
	app.closers = append(app.closers, streamClient.Close)

	manager := sync.NewManager(sync.Config{
		BatchSize:      cfg.Sync.BatchSize,
		PageSize:       cfg.Sync.PageSize,
		Interval:       cfg.Sync.Interval,
		RequestTimeout: cfg.Sync.RequestTimeout,
		StreamTimeout:  cfg.Sync.StreamTimeout,
		StreamPull:     cfg.Streaming.Pull,
	}, store, store, proj, httpClient, streamClient,
		retry.NewManager(cfg.Retry, logger.With(slog.String("retry", "push")), retry.WithMonitor(monitor)),
		logger)
	app.closers = append(app.closers, func() error { manager.Close(); return nil })

	gate := attachments.NewCellularGate(monitor, logger)
	uploadRetries := retry.NewManager(cfg.Uploads.Retry, logger.With(slog.String("retry", "upload")), retry.WithMonitor(monitor))
	uploader := attachments.NewUploader(gate, httpClient, uploadRetries, cfg.Uploads.MaxSize, logger)
	app.closers = append(app.closers, func() error { uploadRetries.Close(); return nil })

	downloadRetries := retry.NewManager(cfg.Retry, logger.With(slog.String("retry", "download")), retry.WithMonitor(monitor))
	downloads := attachments.NewCoordinator(behavior, monitor, downloadRetries, logger)
	downloads.SetHandler(attachments.BlobHandler(httpClient, cfg.Downloads.Dir))
	app.closers = append(app.closers, func() error { downloads.CancelAutoDownloads(); downloads.Wait(); downloadRetries.Close(); return nil })

	monitor.Subscribe(func(from, to network.Class) {
		downloads.HandleNetworkChange(context.Background(), from, to)
	})

	app.auth = authSvc
	app.data = data.NewService(store, store, proj, clock, identity, logger)
	app.syncer = manager
	app.conflicts = store
	app.monitor = monitor
	app.gate = gate
	app.uploader = uploader
	app.downloads = downloads

	downloads.SetProvider(attachments.MissingLocally(cfg.Downloads.Dir, app.listAttachments))

	if err := app.restoreWiFiQueue(ctx); err != nil {
		logger.Warn("failed to restore wifi upload queue", slog.Any("error", err))
	}

	return app, nil
}

// Close releases resources in reverse order
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// listAttachments возвращает метаданные живых вложений
func (a *App) listAttachments(ctx context.Context) ([]models.Attachment, error) {
	list, err := a.data.List(ctx, models.KindAttachment)
	if err != nil {
		return nil, err
	}
	out := make([]models.Attachment, 0, len(list))
	for _, state := range list {
		out = append(out, attachmentFromState(state))
	}
	return out, nil
}

func attachmentFromState(state *models.EntityState) models.Attachment {
	att := models.Attachment{
		ID:       state.ID,
		Filename: state.String("filename"),
		MimeType: state.String("mimeType"),
	}
	if parent, ok := state.Parent(); ok {
		att.Parent = parent
	}
	if reg, ok := state.Fields["size"]; ok {
		_ = json.Unmarshal(reg.Value, &att.Size)
	}
	return att
}
