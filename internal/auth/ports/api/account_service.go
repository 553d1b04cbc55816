package api

import (
	"context"

	"walkydoggy/internal/auth/domain/entities"
)

// ProfileUpdate изменяемые поля профиля. Пустые строки не меняют значение.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Avatar    string
}

// AccountUseCase управление профилем учетной записи.
type AccountUseCase interface {
	GetPublicProfile(ctx context.Context, accountID string) (*entities.PublicProfile, error)

	UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*entities.PublicProfile, error)

	UpdateAvatar(ctx context.Context, accountID, avatarURL string) (*entities.PublicProfile, error)

	UpdatePhone(ctx context.Context, accountID, phone string) (*entities.PublicProfile, error)

	UpdateAddress(ctx context.Context, accountID string, address entities.Address) (*entities.PublicProfile, error)

	DeleteAccount(ctx context.Context, accountID, password string) error
}
