// Package repositories описывает выходные порты хранилища учетных записей.
package repositories

import (
	"context"
	"time"

	"walkydoggy/internal/auth/domain/entities"
)

// AccountRepository хранилище учетных данных.
// Все методы поиска возвращают entities.ErrAccountNotFound при отсутствии записи.
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) (*entities.Account, error)

	FindByID(ctx context.Context, id string) (*entities.Account, error)

	FindByEmail(ctx context.Context, email string) (*entities.Account, error)

	// FindByVerificationHash ищет запись с этим хэшем кода подтверждения, срок которого позже now.
	FindByVerificationHash(ctx context.Context, hash string, now time.Time) (*entities.Account, error)

	// FindByResetHash ищет запись с этим хэшем кода сброса, срок которого позже now.
	FindByResetHash(ctx context.Context, hash string, now time.Time) (*entities.Account, error)

	Update(ctx context.Context, account *entities.Account) (*entities.Account, error)

	// SetRefreshToken перезаписывает текущий refresh токен, пустая строка очищает его.
	SetRefreshToken(ctx context.Context, id, token string) error

	// RotateRefreshToken заменяет expected на next только если сохранен именно expected.
	// Иначе возвращает services.ErrTokenMismatch.
	RotateRefreshToken(ctx context.Context, id, expected, next string) error

	SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error

	SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error

	// MarkEmailVerified выставляет флаг и очищает поля кода подтверждения.
	MarkEmailVerified(ctx context.Context, id string) error

	// UpdatePassword меняет хэш, очищает код сброса и refresh токен.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	SetBusinessID(ctx context.Context, id, businessID string) error

	// SoftDelete переводит запись в статус deleted и очищает refresh токен.
	SoftDelete(ctx context.Context, id string) error
}
