// Package accounts открывает маркетплейсу доступ к учетным записям.
package accounts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/marketplace/ports/services"
	"walkydoggy/pkg/logger"
)

// AccountStore часть хранилища учетных записей, нужная маркетплейсу.
type AccountStore interface {
	FindByID(ctx context.Context, id string) (*entities.Account, error)

	FindByEmail(ctx context.Context, email string) (*entities.Account, error)

	SetBusinessID(ctx context.Context, id, businessID string) error
}

// Directory реализует services.AccountDirectory поверх хранилища учетных записей.
type Directory struct {
	store AccountStore
}

// NewDirectory создает справочник учетных записей.
func NewDirectory(store AccountStore) services.AccountDirectory {
	return &Directory{store: store}
}

// FindByEmail ищет учетную запись по email без учета регистра.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*services.AccountRef, error) {
	account, err := d.store.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	return ref(account, err)
}

// FindByID ищет учетную запись по идентификатору.
func (d *Directory) FindByID(ctx context.Context, id string) (*services.AccountRef, error) {
	account, err := d.store.FindByID(ctx, id)
	return ref(account, err)
}

// LinkBusiness связывает учетную запись владельца с бизнесом.
func (d *Directory) LinkBusiness(ctx context.Context, accountID, businessID string) error {
	if err := d.store.SetBusinessID(ctx, accountID, businessID); err != nil {
		logger.Log(ctx).Error(ctx, "failed to link business",
			zap.String("account_id", accountID),
			zap.String("business_id", businessID),
			zap.Error(err))
		return fmt.Errorf("error linking business: %w", err)
	}
	return nil
}

func ref(account *entities.Account, err error) (*services.AccountRef, error) {
	if err != nil {
		return nil, err
	}
	if account.Status == entities.StatusDeleted {
		return nil, entities.ErrAccountNotFound
	}
	return &services.AccountRef{
		ID:        account.ID,
		Email:     account.Email,
		FirstName: account.Profile.FirstName,
		LastName:  account.Profile.LastName,
		Phone:     account.Profile.PhoneNumber,
		Avatar:    account.Profile.Avatar,
		Role:      account.Role,
	}, nil
}
