package services

import (
	"errors"
	"time"

	"walkydoggy/internal/auth/domain/entities"
)

// Ошибки JWT.
var (
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
	ErrEmptySecret        = errors.New("empty signing secret")
)

// TokenTypeRefresh значение claim type у refresh токена.
const TokenTypeRefresh = "refresh"

// JWTConfig настройки выпуска токенов.
type JWTConfig struct {
	AccessSecret    []byte
	RefreshSecret   []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AccessClaims содержимое access токена.
type AccessClaims struct {
	AccountID  string
	Email      string
	Role       entities.Role
	BusinessID string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// RefreshClaims содержимое refresh токена.
type RefreshClaims struct {
	AccountID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
