package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/dequeuesync/internal/server/handlers"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// В контекст кладутся user_id и device_id из claims.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Missing Authorization header", "path", r.URL.Path)
				handlers.SendError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.Warn("Invalid Authorization header format")
				handlers.SendError(logger, w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := handlers.ValidateAccessToken(jwtConfig, tokenString)
			if err != nil {
				logger.Warn("Invalid access token", "error", err)
				handlers.SendError(logger, w, "invalid token", http.StatusUnauthorized)
				return
			}

			logger.Debug("Device authenticated", "user_id", claims.UserID, "device_id", claims.DeviceID)

			ctx := handlers.WithIdentity(r.Context(), claims.UserID, claims.DeviceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
