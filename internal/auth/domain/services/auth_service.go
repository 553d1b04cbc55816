// Package services содержит доменные типы протокола сессий.
package services

import (
	"errors"
	"time"

	"walkydoggy/internal/auth/domain/entities"
)

// Ошибки протокола сессий. Сообщения отдаются клиенту как есть.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrAccountSuspended      = errors.New("account is suspended or deleted")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenMismatch         = errors.New("refresh token does not match")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification code")
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("access denied")
	ErrEmailAlreadyVerified  = errors.New("email is already verified")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication tokens")
)

// Время жизни одноразовых кодов.
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = time.Hour
)

// TokenPair пара токенов, выданная учетной записи.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthResult результат регистрации или входа.
type AuthResult struct {
	Account entities.PublicProfile
	Tokens  TokenPair
}

// RegisterInput данные для регистрации.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	Role        entities.Role
}

// Identity личность, установленная по access токену.
type Identity struct {
	AccountID  string
	Email      string
	Role       entities.Role
	BusinessID string
}

// IsAdmin сообщает, обходит ли личность проверки владения.
func (i Identity) IsAdmin() bool {
	return i.Role == entities.RoleAdmin
}

// HasRole сообщает, входит ли роль личности в список.
func (i Identity) HasRole(roles ...entities.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// Owns сообщает, совпадает ли ownerID с личностью либо личность администратор.
func (i Identity) Owns(ownerID string) bool {
	return i.IsAdmin() || (ownerID != "" && i.AccountID == ownerID)
}
