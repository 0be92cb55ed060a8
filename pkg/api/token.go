package api

import "github.com/golang-jwt/jwt/v5"

// TokenClaims JWT claims выдаваемые сервером.
// Клиент читает их без проверки подписи, только чтобы узнать user id и срок действия.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}
