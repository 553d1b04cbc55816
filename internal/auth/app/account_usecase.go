package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/auth/ports/api"
	"walkydoggy/internal/auth/ports/repositories"
	svc "walkydoggy/internal/auth/ports/services"
	"walkydoggy/pkg/logger"
)

const (
	methodGetPublicProfile = "GetPublicProfile"
	methodUpdateProfile    = "UpdateProfile"
	methodUpdateAvatar     = "UpdateAvatar"
	methodUpdatePhone      = "UpdatePhone"
	methodUpdateAddress    = "UpdateAddress"
	methodDeleteAccount    = "DeleteAccount"

	msgProfileUpdated  = "profile updated"
	msgAccountDeleted  = "account deleted"
	msgDeleteRejected  = "account deletion rejected: wrong password"
	msgErrUpdate       = "failed to update account"
	msgErrSoftDelete   = "failed to delete account"
	msgInvalidLocation = "invalid address coordinates"

	errCtxLoadingAccount  = "loading account"
	errCtxUpdatingAccount = "updating account"
	errCtxDeletingAccount = "deleting account"
	errCtxValidatingAddr  = "validating address"
)

// AccountUseCaseImpl реализует api.AccountUseCase.
type AccountUseCaseImpl struct {
	accounts  repositories.AccountRepository
	passwords svc.PasswordService
}

// NewAccountUseCase создает сервис профиля.
func NewAccountUseCase(accounts repositories.AccountRepository, passwords svc.PasswordService) api.AccountUseCase {
	return &AccountUseCaseImpl{
		accounts:  accounts,
		passwords: passwords,
	}
}

// GetPublicProfile возвращает профиль. Удаленные записи не видны.
func (u *AccountUseCaseImpl) GetPublicProfile(ctx context.Context, accountID string) (*entities.PublicProfile, error) {
	account, err := u.load(ctx, methodGetPublicProfile, accountID)
	if err != nil {
		return nil, err
	}
	profile := account.Public()
	return &profile, nil
}

// UpdateProfile меняет имя и аватар. Пустые поля не меняются.
func (u *AccountUseCaseImpl) UpdateProfile(ctx context.Context, accountID string, update api.ProfileUpdate) (*entities.PublicProfile, error) {
	return u.modify(ctx, methodUpdateProfile, accountID, func(a *entities.Account) error {
		if v := strings.TrimSpace(update.FirstName); v != "" {
			a.Profile.FirstName = v
		}
		if v := strings.TrimSpace(update.LastName); v != "" {
			a.Profile.LastName = v
		}
		if v := strings.TrimSpace(update.Avatar); v != "" {
			a.Profile.Avatar = v
		}
		return nil
	})
}

// UpdateAvatar заменяет ссылку на аватар.
func (u *AccountUseCaseImpl) UpdateAvatar(ctx context.Context, accountID, avatarURL string) (*entities.PublicProfile, error) {
	return u.modify(ctx, methodUpdateAvatar, accountID, func(a *entities.Account) error {
		a.Profile.Avatar = strings.TrimSpace(avatarURL)
		return nil
	})
}

// UpdatePhone меняет телефон и сбрасывает его подтверждение.
func (u *AccountUseCaseImpl) UpdatePhone(ctx context.Context, accountID, phone string) (*entities.PublicProfile, error) {
	return u.modify(ctx, methodUpdatePhone, accountID, func(a *entities.Account) error {
		phone = strings.TrimSpace(phone)
		if phone != a.Profile.PhoneNumber {
			a.IsPhoneVerified = false
		}
		a.Profile.PhoneNumber = phone
		return nil
	})
}

// UpdateAddress заменяет адрес целиком.
func (u *AccountUseCaseImpl) UpdateAddress(ctx context.Context, accountID string, address entities.Address) (*entities.PublicProfile, error) {
	return u.modify(ctx, methodUpdateAddress, accountID, func(a *entities.Account) error {
		if address.Coordinates != nil {
			if err := address.Coordinates.Validate(); err != nil {
				logger.Log(ctx).Debug(ctx, msgInvalidLocation, zap.Error(err))
				return fmt.Errorf("%s: %w", errCtxValidatingAddr, err)
			}
		}
		a.Profile.Address = &address
		return nil
	})
}

// DeleteAccount мягко удаляет запись после проверки пароля.
func (u *AccountUseCaseImpl) DeleteAccount(ctx context.Context, accountID, password string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteAccount), zap.String("account_id", accountID))

	account, err := u.load(ctx, methodDeleteAccount, accountID)
	if err != nil {
		return err
	}

	ok, err := u.passwords.Verify(ctx, password, account.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgDeleteRejected)
		return fmt.Errorf("%s: %w", errCtxCredentials, services.ErrInvalidCredentials)
	}

	if err := u.accounts.SoftDelete(ctx, account.ID); err != nil {
		log.Error(ctx, msgErrSoftDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeletingAccount, err)
	}

	log.Info(ctx, msgAccountDeleted)
	return nil
}

func (u *AccountUseCaseImpl) load(ctx context.Context, method, accountID string) (*entities.Account, error) {
	account, err := u.accounts.FindByID(ctx, accountID)
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgErrLookup, zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxLoadingAccount, err)
	}
	if account.Status == entities.StatusDeleted {
		return nil, fmt.Errorf("%s: %w", errCtxLoadingAccount, entities.ErrAccountNotFound)
	}
	return account, nil
}

func (u *AccountUseCaseImpl) modify(ctx context.Context, method, accountID string, apply func(*entities.Account) error) (*entities.PublicProfile, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("account_id", accountID))

	account, err := u.load(ctx, method, accountID)
	if err != nil {
		return nil, err
	}
	if err := apply(account); err != nil {
		return nil, err
	}

	updated, err := u.accounts.Update(ctx, account)
	if err != nil {
		log.Error(ctx, msgErrUpdate, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingAccount, err)
	}

	log.Info(ctx, msgProfileUpdated)
	profile := updated.Public()
	return &profile, nil
}
