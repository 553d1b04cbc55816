// Package api описывает входные порты сервиса учетных записей.
package api

import (
	"context"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
)

// SessionUseCase протокол сессий: регистрация, вход, ротация токенов и одноразовые коды.
type SessionUseCase interface {
	Register(ctx context.Context, input services.RegisterInput) (*services.AuthResult, error)

	Login(ctx context.Context, email, password string) (*services.AuthResult, error)

	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)

	Logout(ctx context.Context, accountID string) error

	ForgotPassword(ctx context.Context, email string) error

	ResetPassword(ctx context.Context, secret, newPassword string) error

	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error

	VerifyEmail(ctx context.Context, secret string) error

	ResendVerification(ctx context.Context, accountID string) error

	Authenticate(ctx context.Context, accessToken string) (*services.Identity, error)

	CurrentAccount(ctx context.Context, accountID string) (*entities.PublicProfile, error)
}
