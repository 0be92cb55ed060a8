// Package server собирает reference сервер синхронизации: журнал событий в SQLite,
// хранилище вложений и websocket hub поверх общей цепочки middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/dequeuesync/internal/config"
	"github.com/iudanet/dequeuesync/internal/server/handlers"
	"github.com/iudanet/dequeuesync/internal/server/middleware"
	"github.com/iudanet/dequeuesync/internal/server/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Server HTTP сервер синхронизации
type Server struct {
	logger  *slog.Logger
	store   *sqlite.Storage
	hub     *handlers.Hub
	limiter *middleware.RateLimiter
	handler http.Handler
	cfg     config.Server
}

// New открывает базу и собирает маршруты
func New(ctx context.Context, cfg config.Server, logger *slog.Logger) (*Server, error) {
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	s := &Server{
		logger:  logger,
		store:   store,
		cfg:     cfg,
		limiter: middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger),
		hub: handlers.NewHub(logger, store, handlers.HubConfig{
			BatchSize: cfg.StreamBatchSize,
		}),
	}
	s.handler = s.routes()
	return s, nil
}

// JWTConfig returns token settings derived from configuration
func (s *Server) JWTConfig() handlers.JWTConfig {
	return JWTConfig(s.cfg)
}

// JWTConfig returns token settings of cfg
func JWTConfig(cfg config.Server) handlers.JWTConfig {
	return handlers.JWTConfig{
		Secret:         []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *Server) routes() http.Handler {
	events := handlers.NewEventsHandler(s.logger, s.store, s.hub, s.cfg.PageLimit)
	attachments := handlers.NewAttachmentsHandler(s.logger, s.store, s.cfg.MaxAttachmentSize)
	health := handlers.NewHealthHandler(s.logger, s.store)

	protected := middleware.Protected(s.logger, s.JWTConfig(), s.limiter)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/health", health.Health)
	mux.Handle("POST /api/v1/events", protected(http.HandlerFunc(events.Push)))
	mux.Handle("GET /api/v1/events", protected(http.HandlerFunc(events.Pull)))
	mux.Handle("PUT /api/v1/attachments/{id}", protected(http.HandlerFunc(attachments.Put)))
	mux.Handle("GET /api/v1/attachments/{id}", protected(http.HandlerFunc(attachments.Get)))
	mux.Handle("GET /api/v1/stream", protected(s.hub))

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger, "/api/v1/health"),
	)
}

// Handler returns the root handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run обслуживает запросы до отмены ctx, затем выполняет graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// websocket соединения hijacked, Shutdown их не закрывает
	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close освобождает ресурсы сервера
func (s *Server) Close() error {
	s.hub.Close()
	s.limiter.Stop()
	return s.store.Close()
}
