package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/server/storage"
	"github.com/iudanet/dequeuesync/pkg/api"
)

var (
	// errUserMismatch событие принадлежит другому пользователю
	errUserMismatch = errors.New("event belongs to another user")
	// errInvalidEvent событие не прошло валидацию
	errInvalidEvent = errors.New("invalid event")
)

//go:generate moq -out notifier_mock.go . Notifier

// Notifier оповещает другие устройства пользователя о новых событиях
type Notifier interface {
	NotifyUser(userID, originDeviceID string, count int)
}

// acceptEvents проверяет входящие события и проставляет владельца.
// Пустые user_id/device_id берутся из токена.
func acceptEvents(userID, deviceID string, in []api.Event) ([]*models.Event, error) {
	events := make([]*models.Event, 0, len(in))
	for i, e := range in {
		event := e.ToModel()
		if event.UserID == "" {
			event.UserID = userID
		}
		if event.UserID != userID {
			return nil, fmt.Errorf("event %d (%s): %w", i, event.ID, errUserMismatch)
		}
		if event.DeviceID == "" {
			event.DeviceID = deviceID
		}
		if err := event.Validate(); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w: %w", i, event.ID, errInvalidEvent, err)
		}
		events = append(events, event)
	}
	return events, nil
}

// storeEvents сохраняет события и будит остальные устройства пользователя
func storeEvents(ctx context.Context, events storage.EventStorage, notifier Notifier, userID, deviceID string, batch []*models.Event) (int, error) {
	accepted, err := events.AppendEvents(ctx, userID, batch)
	if err != nil {
		return 0, err
	}
	if accepted > 0 && notifier != nil {
		notifier.NotifyUser(userID, deviceID, accepted)
	}
	return accepted, nil
}

// EventsHandler обрабатывает push и pull журнала событий
type EventsHandler struct {
	logger    *slog.Logger
	storage   storage.EventStorage
	notifier  Notifier
	pageLimit int
}

// NewEventsHandler creates a new events handler.
// pageLimit is both the default and the maximum page size.
func NewEventsHandler(logger *slog.Logger, storage storage.EventStorage, notifier Notifier, pageLimit int) *EventsHandler {
	return &EventsHandler{
		logger:    logger,
		storage:   storage,
		notifier:  notifier,
		pageLimit: pageLimit,
	}
}

// Push обрабатывает POST /api/v1/events
// Повторная отправка тех же событий не создает дубликатов
func (h *EventsHandler) Push(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Получаем user_id из контекста (установлен AuthMiddleware)
	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		SendError(h.logger, w, "missing user", http.StatusUnauthorized)
		return
	}
	deviceID, _ := GetDeviceID(ctx)

	var req api.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Failed to decode push request", slog.Any("error", err))
		SendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	batch, err := acceptEvents(userID, deviceID, req.Events)
	if err != nil {
		h.logger.Warn("Rejected push", slog.String("user_id", userID), slog.Any("error", err))
		status := http.StatusBadRequest
		if errors.Is(err, errUserMismatch) {
			status = http.StatusForbidden
		}
		SendError(h.logger, w, err.Error(), status)
		return
	}

	accepted, err := storeEvents(ctx, h.storage, h.notifier, userID, deviceID, batch)
	if err != nil {
		h.logger.Error("Failed to store events", slog.String("user_id", userID), slog.Any("error", err))
		SendError(h.logger, w, "failed to store events", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Events pushed",
		slog.String("user_id", userID),
		slog.String("device_id", deviceID),
		slog.Int("received", len(batch)),
		slog.Int("accepted", accepted))

	sendJSON(h.logger, w, api.PushResponse{
		Accepted:   accepted,
		Duplicates: len(batch) - accepted,
	}, http.StatusOK)
}

// Pull обрабатывает GET /api/v1/events?cursor=&limit=
// Возвращает события пользователя после cursor в порядке записи
func (h *EventsHandler) Pull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		SendError(h.logger, w, "missing user", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	cursor := query.Get("cursor")
	after, err := storage.ParseCursor(cursor)
	if err != nil {
		SendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := h.pageLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			SendError(h.logger, w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, h.pageLimit)
	}

	// Читаем на одно событие больше, чтобы узнать есть ли следующая страница
	stored, err := h.storage.EventsAfter(ctx, userID, after, limit+1)
	if err != nil {
		h.logger.Error("Failed to read events", slog.String("user_id", userID), slog.Any("error", err))
		SendError(h.logger, w, "failed to read events", http.StatusInternalServerError)
		return
	}

	hasMore := len(stored) > limit
	if hasMore {
		stored = stored[:limit]
	}

	page := api.PullPage{
		Data: make([]api.Event, 0, len(stored)),
		Pagination: &api.Pagination{
			NextCursor: cursor,
			HasMore:    hasMore,
			Limit:      limit,
		},
	}
	for _, s := range stored {
		page.Data = append(page.Data, api.FromModel(s.Event))
	}
	if len(stored) > 0 {
		page.Pagination.NextCursor = storage.FormatCursor(stored[len(stored)-1].Seq)
	}

	h.logger.Debug("Events pulled",
		slog.String("user_id", userID),
		slog.String("cursor", cursor),
		slog.Int("count", len(page.Data)),
		slog.Bool("has_more", hasMore))

	sendJSON(h.logger, w, page, http.StatusOK)
}
