package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/dequeuesync/internal/server/storage"
	"github.com/iudanet/dequeuesync/pkg/api"
)

const (
	sendBuffer     = 64
	maxMessageSize = 8 << 20

	codeInvalidCursor = api.ErrCodeInvalidCursor
	codeInvalidEvents = api.ErrCodeInvalidEvents
	codeInternal      = api.ErrCodeInternal
	codeUnsupported   = api.ErrCodeUnsupported
)

var errClientGone = errors.New("stream client disconnected")

// HubConfig параметры websocket соединений
type HubConfig struct {
	BatchSize    int
	WriteTimeout time.Duration
	PingInterval time.Duration
}

// streamClient одно websocket соединение устройства
type streamClient struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	userID   string
	deviceID string
	once     sync.Once
}

func (c *streamClient) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub держит websocket соединения устройств, сгруппированные по пользователю
type Hub struct {
	logger   *slog.Logger
	events   storage.EventStorage
	clients  map[string]map[*streamClient]struct{}
	upgrader websocket.Upgrader
	cfg      HubConfig
	wg       sync.WaitGroup
	mu       sync.Mutex
}

var _ Notifier = (*Hub)(nil)

// NewHub creates a hub serving sync.* messages over websocket
func NewHub(logger *slog.Logger, events storage.EventStorage, cfg HubConfig) *Hub {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	return &Hub{
		logger:  logger,
		events:  events,
		cfg:     cfg,
		clients: make(map[string]map[*streamClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Браузеров нет, клиенты аутентифицируются токеном
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP обрабатывает GET /api/v1/stream
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		SendError(h.logger, w, "missing user", http.StatusUnauthorized)
		return
	}
	deviceID, _ := GetDeviceID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &streamClient{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		userID:   userID,
		deviceID: deviceID,
	}
	h.register(c)
	defer h.unregister(c)

	h.wg.Add(1)
	go h.writeLoop(c)

	h.logger.Info("stream connected", slog.String("user_id", userID), slog.String("device_id", deviceID))
	h.readLoop(r.Context(), c)
	h.logger.Info("stream disconnected", slog.String("user_id", userID), slog.String("device_id", deviceID))
}

func (h *Hub) register(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	devices, ok := h.clients[c.userID]
	if !ok {
		devices = make(map[*streamClient]struct{})
		h.clients[c.userID] = devices
	}
	devices[c] = struct{}{}
}

func (h *Hub) unregister(c *streamClient) {
	h.mu.Lock()
	if devices, ok := h.clients[c.userID]; ok {
		delete(devices, c)
		if len(devices) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()

	c.close()
	_ = c.conn.Close()
}

// Connections returns number of open connections of the user
func (h *Hub) Connections(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// NotifyUser отправляет sync.notify всем соединениям пользователя, кроме устройства-источника.
// Если очередь соединения полна, уведомление пропускается: клиент все равно заберет события при pull.
func (h *Hub) NotifyUser(userID, originDeviceID string, count int) {
	data, err := json.Marshal(api.Notify{Type: api.MsgNotify, DeviceID: originDeviceID, Count: count})
	if err != nil {
		h.logger.Error("failed to encode notify", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[userID] {
		if originDeviceID != "" && c.deviceID == originDeviceID {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Debug("notify dropped, send queue is full", slog.String("device_id", c.deviceID))
		}
	}
}

// Close закрывает все соединения и ждет завершения writer goroutines
func (h *Hub) Close() {
	h.mu.Lock()
	for _, devices := range h.clients {
		for c := range devices {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(time.Second))
			c.close()
			_ = c.conn.Close()
		}
	}
	h.mu.Unlock()

	h.wg.Wait()
}

// writeLoop единственный писатель в соединение
func (h *Hub) writeLoop(c *streamClient) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout)); err != nil {
				c.close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("stream write failed", slog.Any("error", err))
				c.close()
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.cfg.WriteTimeout)); err != nil {
				c.close()
				_ = c.conn.Close()
				return
			}
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, c *streamClient) {
	c.conn.SetReadLimit(maxMessageSize)
	pongWait := 2 * h.cfg.PingInterval
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("stream read failed", slog.String("device_id", c.deviceID), slog.Any("error", err))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := api.DecodeStreamMessage(data)
		if err != nil {
			h.logger.Warn("failed to decode stream message", slog.Any("error", err))
			if h.sendError(c, codeUnsupported, err) != nil {
				return
			}
			continue
		}

		switch m := msg.(type) {
		case *api.EventsMessage:
			err = h.handleEvents(ctx, c, m)
		case *api.StreamRequest:
			since := ""
			if m.Since != nil {
				since = *m.Since
			}
			err = h.streamEvents(ctx, c, since)
		default:
			err = h.sendError(c, codeUnsupported, fmt.Errorf("unexpected message %T", msg))
		}
		if errors.Is(err, errClientGone) {
			return
		}
	}
}

// handleEvents сохраняет события, присланные через sync.events.
// Подтверждения нет: клиент узнает о записи при следующем pull.
func (h *Hub) handleEvents(ctx context.Context, c *streamClient, m *api.EventsMessage) error {
	batch, err := acceptEvents(c.userID, c.deviceID, m.Events)
	if err != nil {
		h.logger.Warn("rejected stream events", slog.String("user_id", c.userID), slog.Any("error", err))
		return h.sendError(c, codeInvalidEvents, err)
	}

	accepted, err := storeEvents(ctx, h.events, h, c.userID, c.deviceID, batch)
	if err != nil {
		h.logger.Error("failed to store stream events", slog.String("user_id", c.userID), slog.Any("error", err))
		return h.sendError(c, codeInternal, errors.New("failed to store events"))
	}

	h.logger.Info("events received over stream",
		slog.String("user_id", c.userID),
		slog.String("device_id", c.deviceID),
		slog.Int("received", len(batch)),
		slog.Int("accepted", accepted))
	return nil
}

// streamEvents отвечает на sync.stream.request: start, пачки с индексами от 0, complete.
func (h *Hub) streamEvents(ctx context.Context, c *streamClient, since string) error {
	after, err := storage.ParseCursor(since)
	if err != nil {
		return h.sendError(c, codeInvalidCursor, err)
	}

	total, err := h.events.CountEventsAfter(ctx, c.userID, after)
	if err != nil {
		h.logger.Error("failed to count events", slog.Any("error", err))
		return h.sendError(c, codeInternal, errors.New("failed to read events"))
	}
	if err := h.send(c, api.StreamStart{Type: api.MsgStreamStart, TotalEvents: total}); err != nil {
		return err
	}

	processed := 0
	checkpoint := since
	for index := 0; ; index++ {
		stored, err := h.events.EventsAfter(ctx, c.userID, after, h.cfg.BatchSize+1)
		if err != nil {
			h.logger.Error("failed to read events", slog.Any("error", err))
			return h.sendError(c, codeInternal, errors.New("failed to read events"))
		}

		isLast := len(stored) <= h.cfg.BatchSize
		if !isLast {
			stored = stored[:h.cfg.BatchSize]
		}
		if len(stored) == 0 && index > 0 {
			break
		}

		batch := api.StreamBatch{
			Type:       api.MsgStreamBatch,
			Events:     make([]api.Event, 0, len(stored)),
			BatchIndex: index,
			IsLast:     isLast,
		}
		for _, s := range stored {
			batch.Events = append(batch.Events, api.FromModel(s.Event))
		}
		if len(stored) > 0 {
			after = stored[len(stored)-1].Seq
			checkpoint = storage.FormatCursor(after)
		}
		if err := h.send(c, batch); err != nil {
			return err
		}
		processed += len(stored)

		if isLast {
			break
		}
	}

	h.logger.Debug("stream pull served",
		slog.String("user_id", c.userID),
		slog.String("since", since),
		slog.Int("events", processed))

	return h.send(c, api.StreamComplete{
		Type:            api.MsgStreamComplete,
		NewCheckpoint:   checkpoint,
		ProcessedEvents: processed,
	})
}

func (h *Hub) sendError(c *streamClient, code string, err error) error {
	return h.send(c, api.StreamError{Type: api.MsgStreamError, Code: &code, Error: err.Error()})
}

// send ставит сообщение в очередь соединения, ожидая место
func (h *Hub) send(c *streamClient, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode stream message: %w", err)
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errClientGone
	}
}
