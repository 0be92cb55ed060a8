package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/server/storage/sqlite"
	"github.com/iudanet/dequeuesync/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// withIdentity эмулирует AuthMiddleware
func withIdentity(userID, deviceID string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(WithIdentity(r.Context(), userID, deviceID)))
	})
}

func wireEvent(id string, ts time.Time) api.Event {
	return api.Event{
		ID:             id,
		Type:           string(models.NewEventType(models.KindTask, models.ActionCreated)),
		AppID:          "dequeue",
		Timestamp:      ts,
		Payload:        json.RawMessage(`{"id":"t-` + id + `","title":"Task ` + id + `"}`),
		PayloadVersion: models.CurrentPayloadVersion,
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
