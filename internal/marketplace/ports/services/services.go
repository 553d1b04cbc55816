// Package services описывает внешние зависимости маркетплейса.
package services

import (
	"context"
	"errors"
	"time"

	authentities "walkydoggy/internal/auth/domain/entities"
)

// PresignedUpload ссылка для прямой загрузки файла в хранилище.
type PresignedUpload struct {
	Key       string
	UploadURL string
	PublicURL string
	ExpiresAt time.Time
}

// ErrStorageDisabled возвращается, когда хранилище фотографий не настроено.
var ErrStorageDisabled = errors.New("photo storage is disabled")

// PhotoStorage хранилище фотографий.
type PhotoStorage interface {
	// PresignUpload выдает подписанную PUT ссылку на объект key.
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)

	// Delete удаляет объект по публичной ссылке. Чужие ссылки игнорируются.
	Delete(ctx context.Context, publicURL string) error
}

// AccountRef сведения об учетной записи, нужные маркетплейсу.
type AccountRef struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Avatar    string
	Role      authentities.Role
}

// AccountDirectory доступ маркетплейса к учетным записям.
// Отсутствующая или удаленная запись возвращает authentities.ErrAccountNotFound.
type AccountDirectory interface {
	FindByEmail(ctx context.Context, email string) (*AccountRef, error)

	FindByID(ctx context.Context, id string) (*AccountRef, error)

	// LinkBusiness записывает идентификатор бизнеса в учетную запись владельца.
	LinkBusiness(ctx context.Context, accountID, businessID string) error
}
