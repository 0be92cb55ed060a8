package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/dequeuesync/internal/server/handlers"
)

type identityHolderKey struct{}

// identityHolder заполняется внутри цепочки и читается LoggingMiddleware после ответа
type identityHolder struct {
	userID   string
	deviceID string
}

func withIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, identityHolderKey{}, h)
}

// Chain применяет middleware так, что первый в списке выполняется первым
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// Protected собирает цепочку для эндпоинтов, требующих токен:
// auth, запись пользователя для логов, rate limit по пользователю.
func Protected(logger *slog.Logger, jwtConfig handlers.JWTConfig, limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Chain(next,
			AuthMiddleware(logger, jwtConfig),
			identityRecorder,
			RateLimitMiddleware(limiter, logger),
		)
	}
}
