package transport

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

	"github.com/iudanet/dequeuesync/internal/client/auth"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
	"github.com/iudanet/dequeuesync/pkg/api"
)

// StreamConfig параметры websocket канала
type StreamConfig struct {
	URL          string
	Enabled      bool
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	// Максимальное ожидание следующего сообщения во время pull
	IdleTimeout time.Duration
}

// StreamFailure sync.stream.error от сервера
type StreamFailure struct {
	Message string
	Code    string
}

func (e *StreamFailure) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("stream error %s: %s", e.Code, e.Message)
	}
	return "stream error: " + e.Message
}

// connection одно открытое соединение; done закрывается, когда readLoop завершился
type connection struct {
	ws   *websocket.Conn
	done chan struct{}
}

// pullState активный потоковый pull; одновременно может быть только один
type pullState struct {
	messages chan any
	done     chan struct{}
}

// StreamClient websocket клиент
type StreamClient struct {
	auth    auth.Provider
	logger  *slog.Logger
	dialer  *websocket.Dialer
	conn    *connection
	pull    *pullState
	notify  chan struct{}
	cfg     StreamConfig
	mu      sync.Mutex
	writeMu sync.Mutex
	pullMu  sync.Mutex
}

var _ StreamChannel = (*StreamClient)(nil)

// NewStreamClient создает websocket клиент; соединение открывается в Connect
func NewStreamClient(cfg StreamConfig, provider auth.Provider, logger *slog.Logger) *StreamClient {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Second
	}

	return &StreamClient{
		cfg:    cfg,
		auth:   provider,
		logger: logger,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.DialTimeout,
		},
		notify: make(chan struct{}, 1),
	}
}

func (s *StreamClient) IsEnabled() bool {
	return s.cfg.Enabled && s.cfg.URL != ""
}

func (s *StreamClient) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

func (s *StreamClient) Notifications() <-chan struct{} {
	return s.notify
}

// Connect открывает соединение, если оно еще не открыто
func (s *StreamClient) Connect(ctx context.Context) error {
	if !s.IsEnabled() {
		return syncerr.ErrNotConnected
	}
	if s.IsConnected() {
		return nil
	}

	header, err := s.auth.AuthHeader(ctx)
	if err != nil {
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.DialTimeout)
	defer cancel()

	ws, resp, err := s.dialer.DialContext(dialCtx, s.cfg.URL, http.Header{"Authorization": {header}})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return syncerr.Server(syncerr.OpPull, resp.StatusCode, "stream handshake rejected")
		}
		return syncerr.Transport(syncerr.OpPull, fmt.Errorf("failed to dial stream: %w", err))
	}

	conn := &connection{ws: ws, done: make(chan struct{})}

	s.mu.Lock()
	if s.conn != nil {
		// параллельный Connect успел раньше
		s.mu.Unlock()
		_ = ws.Close()
		return nil
	}
	s.conn = conn
	s.mu.Unlock()

	go s.readLoop(conn)

	s.logger.Info("stream connected", slog.String("url", s.cfg.URL))
	return nil
}

// readLoop читает сообщения до ошибки соединения
func (s *StreamClient) readLoop(conn *connection) {
	defer func() {
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
		close(conn.done)
		_ = conn.ws.Close()
	}()

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("stream disconnected", slog.Any("error", err))
			}
			return
		}

		msg, err := api.DecodeStreamMessage(data)
		if err != nil {
			s.logger.Warn("failed to decode stream message", slog.Any("error", err))
			continue
		}

		if _, ok := msg.(*api.Notify); ok {
			// сигнал схлопывается, если предыдущий еще не прочитан
			select {
			case s.notify <- struct{}{}:
			default:
			}
			continue
		}

		s.mu.Lock()
		p := s.pull
		s.mu.Unlock()
		if p == nil {
			s.logger.Debug("stream message without active pull dropped")
			continue
		}

		select {
		case p.messages <- msg:
		case <-p.done:
		}
	}
}

func (s *StreamClient) current() (*connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, syncerr.ErrNotConnected
	}
	return s.conn, nil
}

func (s *StreamClient) write(conn *connection, op syncerr.Operation, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return syncerr.Validation(op, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := conn.ws.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return syncerr.Transport(op, err)
	}
	if err := conn.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return syncerr.Transport(op, err)
	}
	return nil
}

// SendEvents отправляет события без ожидания подтверждения
func (s *StreamClient) SendEvents(ctx context.Context, events []*models.Event) error {
	conn, err := s.current()
	if err != nil {
		return err
	}
	return s.write(conn, syncerr.OpPush, api.EventsMessage{
		Type:   api.MsgEvents,
		Events: api.FromModels(events),
	})
}

// PullStream запрашивает события после since и передает пачки в fn по порядку.
// Сообщения до sync.stream.start относятся к чужому запросу и пропускаются.
// Любой выход кроме complete закрывает соединение: хвост прерванного ответа
// не должен достаться следующему pull.
func (s *StreamClient) PullStream(ctx context.Context, since string, fn BatchFunc) (*StreamResult, error) {
	s.pullMu.Lock()
	defer s.pullMu.Unlock()

	conn, err := s.current()
	if err != nil {
		return nil, err
	}

	completed := false
	defer func() {
		if !completed {
			s.drop(conn)
		}
	}()

	p := &pullState{messages: make(chan any, 4), done: make(chan struct{})}
	s.mu.Lock()
	s.pull = p
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.pull = nil
		s.mu.Unlock()
		close(p.done)
	}()

	req := api.StreamRequest{Type: api.MsgStreamRequest}
	if since != "" {
		req.Since = &since
	}
	if err := s.write(conn, syncerr.OpPull, req); err != nil {
		return nil, err
	}

	result := &StreamResult{}
	started := false
	idle := time.NewTimer(s.cfg.IdleTimeout)
	defer idle.Stop()

	for {
		var msg any
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-conn.done:
			return nil, syncerr.Transport(syncerr.OpPull, errors.New("stream closed during pull"))
		case <-idle.C:
			return nil, syncerr.Transport(syncerr.OpPull, context.DeadlineExceeded)
		case msg = <-p.messages:
		}

		switch m := msg.(type) {
		case *api.StreamStart:
			started = true
			result.TotalEvents = m.TotalEvents
		case *api.StreamBatch:
			if !started {
				s.logger.Debug("stream batch before start dropped", slog.Int("batch_index", m.BatchIndex))
				continue
			}
			if m.BatchIndex != result.Batches {
				return nil, syncerr.Transport(syncerr.OpPull,
					fmt.Errorf("unexpected batch index %d, want %d", m.BatchIndex, result.Batches))
			}
			if err := fn(ctx, m.BatchIndex, api.ToModels(m.Events)); err != nil {
				return nil, err
			}
			result.Batches++
			result.ProcessedEvents += len(m.Events)
		case *api.StreamComplete:
			if !started {
				s.logger.Debug("stream complete before start dropped", slog.String("checkpoint", m.NewCheckpoint))
				continue
			}
			if m.ProcessedEvents != result.ProcessedEvents {
				return nil, syncerr.Transport(syncerr.OpPull,
					fmt.Errorf("stream completed with %d events, received %d", m.ProcessedEvents, result.ProcessedEvents))
			}
			result.NewCheckpoint = m.NewCheckpoint
			completed = true
			return result, nil
		case *api.StreamError:
			failure := &StreamFailure{Message: m.Error}
			if m.Code != nil {
				failure.Code = *m.Code
			}
			if failure.Code == api.ErrCodeInvalidEvents {
				// отказ по fire-and-forget push, pull продолжается
				s.logger.Warn("stream push rejected", slog.String("error", m.Error))
				continue
			}
			// до start сервер отвечает ошибкой на сам запрос (например, invalid_cursor)
			return nil, syncerr.Transport(syncerr.OpPull, failure)
		default:
			s.logger.Debug("unexpected stream message", slog.String("type", fmt.Sprintf("%T", msg)))
		}

		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(s.cfg.IdleTimeout)
	}
}

// drop закрывает соединение без close handshake; readLoop завершится сам
func (s *StreamClient) drop(conn *connection) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.ws.Close()
}

// Close закрывает соединение
func (s *StreamClient) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	s.writeMu.Lock()
	_ = conn.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()

	err := conn.ws.Close()
	<-conn.done
	return err
}
