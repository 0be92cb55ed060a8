package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/syncerr"
	"github.com/iudanet/dequeuesync/pkg/api"
)

// memoryAuthStorage хранит данные в памяти через мок хранилища
func memoryAuthStorage() *storage.AuthStorageMock {
	var data *storage.AuthData
	return &storage.AuthStorageMock{
		SaveAuthFunc: func(ctx context.Context, auth *storage.AuthData) error {
			copied := *auth
			data = &copied
			return nil
		},
		GetAuthFunc: func(ctx context.Context) (*storage.AuthData, error) {
			if data == nil {
				return nil, storage.ErrAuthNotFound
			}
			copied := *data
			return &copied, nil
		},
		DeleteAuthFunc: func(ctx context.Context) error {
			if data == nil {
				return storage.ErrAuthNotFound
			}
			data = nil
			return nil
		},
	}
}

func signToken(t *testing.T, userID string, expiresAt time.Time) string {
	t.Helper()
	claims := api.TokenClaims{
		UserID:   userID,
		DeviceID: "device-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestService_LoginAndAuthHeader(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memoryAuthStorage())

	// До логина заголовка нет
	_, err := svc.AuthHeader(ctx)
	assert.ErrorIs(t, err, syncerr.ErrUnauthorized)

	token := signToken(t, "user-1", time.Now().Add(time.Hour))
	auth, err := svc.Login(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", auth.UserID)

	header, err := svc.AuthHeader(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, header)

	require.NoError(t, svc.Logout(ctx))
	require.NoError(t, svc.Logout(ctx))
	_, err = svc.AuthHeader(ctx)
	assert.ErrorIs(t, err, syncerr.ErrUnauthorized)
}

func TestService_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memoryAuthStorage())

	token := signToken(t, "user-1", time.Now().Add(time.Hour))
	_, err := svc.Login(ctx, token)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.AuthHeader(ctx)
	assert.ErrorIs(t, err, syncerr.ErrTokenExpired)

	_, err = svc.Login(ctx, signToken(t, "user-1", time.Now().Add(time.Minute)))
	assert.ErrorIs(t, err, syncerr.ErrTokenExpired)
}

func TestService_LoginRejectsGarbage(t *testing.T) {
	svc := NewService(memoryAuthStorage())

	_, err := svc.Login(context.Background(), "not-a-jwt")
	assert.Error(t, err)

	// Токен без user_id
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), token)
	assert.Error(t, err)
}

func TestService_StorageFailure(t *testing.T) {
	mock := &storage.AuthStorageMock{
		GetAuthFunc: func(ctx context.Context) (*storage.AuthData, error) {
			return nil, errors.New("disk full")
		},
	}
	svc := NewService(mock)

	_, err := svc.AuthHeader(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, syncerr.ErrUnauthorized)
	assert.Len(t, mock.GetAuthCalls(), 1)
}
