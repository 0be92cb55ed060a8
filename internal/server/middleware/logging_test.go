package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/server/handlers"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "level=INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := LoggingMiddleware(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("hello"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/events?cursor=42", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "path=/api/v1/events")
			assert.NotContains(t, out, "cursor=42")
			assert.Contains(t, out, "bytes_written=5")
		})
	}
}

func TestLoggingMiddleware_SkipPaths(t *testing.T) {
	var buf bytes.Buffer
	handler := LoggingMiddleware(bufferLogger(&buf), "/api/v1/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Empty(t, buf.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	assert.Contains(t, buf.String(), "HTTP request")
}

func TestLoggingMiddleware_LogsIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)
	limiter := NewRateLimiter(10, time.Minute, logger)
	defer limiter.Stop()

	token, _, err := handlers.GenerateAccessToken(testJWT, "alice", "laptop")
	require.NoError(t, err)

	handler := Chain(http.HandlerFunc(identityHandler),
		LoggingMiddleware(logger),
		Protected(logger, testJWT, limiter),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "alice/laptop", w.Body.String())
	assert.Contains(t, buf.String(), "user_id=alice")
	assert.Contains(t, buf.String(), "device_id=laptop")
	assert.NotContains(t, buf.String(), token)
}

func TestResponseWriter_Captures(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	_, err := rw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = rw.Write([]byte("de"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, int64(5), rw.written)
	assert.Equal(t, rec, rw.Unwrap())

	// httptest.ResponseRecorder не поддерживает hijack
	_, _, err = rw.Hijack()
	assert.Error(t, err)
	assert.False(t, rw.hijacked)
}
