package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/server/handlers"
	"github.com/iudanet/dequeuesync/pkg/api"
)

var testJWT = handlers.JWTConfig{
	Secret:         []byte("0123456789abcdef0123456789abcdef"),
	AccessTokenTTL: 15 * time.Minute,
}

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// identityHandler отвечает user_id/device_id из контекста
func identityHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := handlers.GetUserID(r.Context())
	deviceID, _ := handlers.GetDeviceID(r.Context())
	_, _ = w.Write([]byte(userID + "/" + deviceID))
}

func TestAuthMiddleware(t *testing.T) {
	valid, _, err := handlers.GenerateAccessToken(testJWT, "user123", "phone")
	require.NoError(t, err)

	expired, _, err := handlers.GenerateAccessToken(handlers.JWTConfig{
		Secret:         testJWT.Secret,
		AccessTokenTTL: -time.Minute,
	}, "user123", "phone")
	require.NoError(t, err)

	wrongSecret, _, err := handlers.GenerateAccessToken(handlers.JWTConfig{
		Secret:         []byte("another-secret-another-secret-00"),
		AccessTokenTTL: time.Minute,
	}, "user123", "phone")
	require.NoError(t, err)

	// без issuer: токен не выпущен этим сервером
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, api.TokenClaims{
		UserID: "user123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testJWT.Secret)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantBody   string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantBody: "user123/phone"},
		{name: "scheme is case insensitive", header: "bearer " + valid, wantStatus: http.StatusOK, wantBody: "user123/phone"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + wrongSecret, wantStatus: http.StatusUnauthorized},
		{name: "foreign issuer", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(setupTestLogger(), testJWT)(http.HandlerFunc(identityHandler))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
				return
			}

			var errResp api.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
			assert.Equal(t, "Unauthorized", errResp.Error)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}
