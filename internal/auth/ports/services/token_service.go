// Package services описывает порты криптографических и почтовых сервисов.
package services

import (
	"context"
	"time"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
)

// TokenService выпуск и проверка JWT.
type TokenService interface {
	IssueAccessToken(ctx context.Context, account *entities.Account) (string, time.Time, error)

	IssueRefreshToken(ctx context.Context, accountID string) (string, time.Time, error)

	VerifyAccessToken(ctx context.Context, token string) (*services.AccessClaims, error)

	VerifyRefreshToken(ctx context.Context, token string) (*services.RefreshClaims, error)
}
