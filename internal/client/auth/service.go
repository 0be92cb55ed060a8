package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/syncerr"
	"github.com/iudanet/dequeuesync/pkg/api"
)

// expirySkew токен считается просроченным чуть раньше, чтобы запрос не умер в пути
const expirySkew = 30 * time.Second

// Service stores an externally issued access token and serves it to the transport.
type Service struct {
	storage storage.AuthStorage
	now     func() time.Time
}

var _ Provider = (*Service)(nil)

// NewService создает сервис авторизации поверх хранилища
func NewService(authStorage storage.AuthStorage) *Service {
	return &Service{
		storage: authStorage,
		now:     time.Now,
	}
}

// Login сохраняет выданный сервером токен.
// Подпись не проверяется: это делает сервер на каждом запросе.
func (s *Service) Login(ctx context.Context, token string) (*storage.AuthData, error) {
	claims := &api.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.UserID == "" {
		return nil, errors.New("access token has no user_id claim")
	}

	auth := &storage.AuthData{
		UserID:      claims.UserID,
		AccessToken: token,
	}
	if claims.ExpiresAt != nil {
		auth.ExpiresAt = claims.ExpiresAt.Unix()
	}

	if auth.ExpiresAt != 0 && s.now().Unix() >= auth.ExpiresAt {
		return nil, syncerr.ErrTokenExpired
	}

	if err := s.storage.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save auth: %w", err)
	}

	return auth, nil
}

// Session возвращает сохраненные данные авторизации
func (s *Service) Session(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, syncerr.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load auth: %w", err)
	}
	return auth, nil
}

// AuthHeader implements Provider
func (s *Service) AuthHeader(ctx context.Context) (string, error) {
	auth, err := s.Session(ctx)
	if err != nil {
		return "", err
	}

	if auth.ExpiresAt != 0 && s.now().Add(expirySkew).Unix() >= auth.ExpiresAt {
		return "", syncerr.ErrTokenExpired
	}

	return "Bearer " + auth.AccessToken, nil
}

// Logout удаляет локальные данные авторизации
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.DeleteAuth(ctx); err != nil && !errors.Is(err, storage.ErrAuthNotFound) {
		return fmt.Errorf("failed to delete auth: %w", err)
	}
	return nil
}
