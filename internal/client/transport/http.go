package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/dequeuesync/internal/client/auth"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
	"github.com/iudanet/dequeuesync/pkg/api"
)

// HTTPConfig параметры HTTP канала
type HTTPConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	// Повторы внутри одного запроса на временных ошибках
	MaxRetries uint64
	RetryBase  time.Duration
	RetryCap   time.Duration
}

// HTTPClient представляет HTTP клиент для взаимодействия с сервером
type HTTPClient struct {
	httpClient *http.Client
	auth       auth.Provider
	logger     *slog.Logger
	cfg        HTTPConfig
}

var (
	_ RequestChannel = (*HTTPClient)(nil)
	_ BlobChannel    = (*HTTPClient)(nil)
)

// NewHTTPClient создает новый API клиент
func NewHTTPClient(cfg HTTPConfig, provider auth.Provider, logger *slog.Logger) *HTTPClient {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = 5 * time.Second
	}

	return &HTTPClient{
		cfg:    cfg,
		auth:   provider,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// PushEvents отправляет пачку событий (POST /api/v1/events)
func (c *HTTPClient) PushEvents(ctx context.Context, events []*models.Event) error {
	req := api.PushRequest{Events: api.FromModels(events)}

	var resp api.PushResponse
	if err := c.do(ctx, syncerr.OpPush, http.MethodPost, "/api/v1/events", jsonBody(req), "application/json", &resp); err != nil {
		return err
	}

	c.logger.Debug("events pushed",
		slog.Int("count", len(events)),
		slog.Int("accepted", resp.Accepted),
		slog.Int("duplicates", resp.Duplicates))

	return nil
}

// PullPage получает страницу событий после cursor (GET /api/v1/events)
func (c *HTTPClient) PullPage(ctx context.Context, cursor string, limit int) (*Page, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/events"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp api.PullPage
	if err := c.do(ctx, syncerr.OpPull, http.MethodGet, path, nil, "", &resp); err != nil {
		return nil, err
	}

	page := &Page{Events: api.ToModels(resp.Data)}
	if resp.Pagination != nil {
		page.NextCursor = resp.Pagination.NextCursor
		page.HasMore = resp.Pagination.HasMore
	}
	// без пагинации курсор не двигается
	if page.NextCursor == "" {
		page.NextCursor = cursor
	}

	return page, nil
}

// UploadAttachment загружает содержимое вложения (PUT /api/v1/attachments/{id})
func (c *HTTPClient) UploadAttachment(ctx context.Context, id, mimeType string, data []byte) error {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return c.do(ctx, syncerr.OpUpload, http.MethodPut, "/api/v1/attachments/"+url.PathEscape(id), rawBody(data), mimeType, nil)
}

// DownloadAttachment скачивает содержимое вложения (GET /api/v1/attachments/{id})
func (c *HTTPClient) DownloadAttachment(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := c.do(ctx, syncerr.OpDownload, http.MethodGet, "/api/v1/attachments/"+url.PathEscape(id), nil, "", &data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// bodyFunc создает тело заново для каждой попытки
type bodyFunc func() (io.Reader, error)

func jsonBody(v any) bodyFunc {
	return func() (io.Reader, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		return bytes.NewReader(data), nil
	}
}

func rawBody(data []byte) bodyFunc {
	return func() (io.Reader, error) {
		return bytes.NewReader(data), nil
	}
}

// do выполняет запрос с повтором на временных ошибках
func (c *HTTPClient) do(
	ctx context.Context,
	op syncerr.Operation,
	method, path string,
	body bodyFunc,
	contentType string,
	result any,
) error {
	backoff := retry.WithMaxRetries(c.cfg.MaxRetries,
		retry.WithCappedDuration(c.cfg.RetryCap, retry.NewExponential(c.cfg.RetryBase)))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.doRequest(ctx, op, method, path, body, contentType, result)
		if err != nil && syncerr.IsRetryable(err) {
			c.logger.Debug("request failed, retrying",
				slog.String("op", string(op)),
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return retry.RetryableError(err)
		}
		return err
	})
}

// doRequest выполняет один HTTP запрос
func (c *HTTPClient) doRequest(
	ctx context.Context,
	op syncerr.Operation,
	method, path string,
	body bodyFunc,
	contentType string,
	result any,
) error {
	var bodyReader io.Reader
	if body != nil {
		r, err := body()
		if err != nil {
			return syncerr.Validation(op, err)
		}
		bodyReader = r
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	header, err := c.auth.AuthHeader(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", header)
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// отмена вызывающим не является временной ошибкой
		if errors.Is(err, context.Canceled) {
			return err
		}
		return syncerr.Transport(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return syncerr.Transport(op, fmt.Errorf("failed to read response body: %w", err))
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			msg := errResp.Error
			if errResp.Message != "" {
				msg += ": " + errResp.Message
			}
			return syncerr.Server(op, resp.StatusCode, msg)
		}
		return syncerr.Server(op, resp.StatusCode, string(bytes.TrimSpace(respBody)))
	}

	switch dst := result.(type) {
	case nil:
	case *[]byte:
		*dst = respBody
	default:
		if err := json.Unmarshal(respBody, result); err != nil {
			return syncerr.Validation(op, fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}
