// Package users содержит HTTP обработчики профилей пользователей.
package users

import (
	"github.com/gofiber/fiber/v3"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/ports/api"
	"walkydoggy/internal/gateway/app/dto"
	"walkydoggy/internal/gateway/app/http/middleware"
	"walkydoggy/internal/gateway/app/http/response"
)

// Сообщения ответов.
const (
	MsgUserRetrieved   = "User retrieved successfully"
	MsgProfileUpdated  = "Profile updated successfully"
	MsgAvatarUpdated   = "Avatar updated successfully"
	MsgPhoneUpdated    = "Phone number updated successfully"
	MsgAddressUpdated  = "Address updated successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgAccountDeleted  = "Account deleted successfully"
)

// Handler содержит HTTP обработчики профилей.
type Handler struct {
	accounts api.AccountUseCase
	sessions api.SessionUseCase
}

// NewHandler создает обработчик профилей.
func NewHandler(accounts api.AccountUseCase, sessions api.SessionUseCase) *Handler {
	return &Handler{accounts: accounts, sessions: sessions}
}

// GetByID публичный профиль пользователя.
func (h *Handler) GetByID(c fiber.Ctx) error {
	profile, err := h.accounts.GetPublicProfile(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return h.user(c, profile, MsgUserRetrieved)
}

// MyProfile профиль текущего пользователя.
func (h *Handler) MyProfile(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	profile, err := h.accounts.GetPublicProfile(c.Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return h.user(c, profile, MsgUserRetrieved)
}

// UpdateProfile меняет имя и аватар.
func (h *Handler) UpdateProfile(c fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	profile, err := h.accounts.UpdateProfile(c.Context(), identity.AccountID, req.Update())
	if err != nil {
		return err
	}
	return h.user(c, profile, MsgProfileUpdated)
}

// UpdateAvatar меняет аватар.
func (h *Handler) UpdateAvatar(c fiber.Ctx) error {
	var req dto.UpdateAvatarRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	profile, err := h.accounts.UpdateAvatar(c.Context(), identity.AccountID, req.Avatar)
	if err != nil {
		return err
	}
	return h.user(c, profile, MsgAvatarUpdated)
}

// UpdatePhone меняет телефон, подтверждение телефона сбрасывается.
func (h *Handler) UpdatePhone(c fiber.Ctx) error {
	var req dto.UpdatePhoneRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	profile, err := h.accounts.UpdatePhone(c.Context(), identity.AccountID, req.PhoneNumber)
	if err != nil {
		return err
	}
	return h.user(c, profile, MsgPhoneUpdated)
}

// UpdateAddress меняет адрес.
func (h *Handler) UpdateAddress(c fiber.Ctx) error {
	var req dto.UpdateAddressRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	profile, err := h.accounts.UpdateAddress(c.Context(), identity.AccountID, req.Address.Entity())
	if err != nil {
		return err
	}
	return h.user(c, profile, MsgAddressUpdated)
}

// ChangePassword меняет пароль из раздела профиля.
func (h *Handler) ChangePassword(c fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	if err := h.sessions.ChangePassword(c.Context(), identity.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return response.Message(c, MsgPasswordChanged)
}

// DeleteAccount удаляет учетную запись после проверки пароля.
func (h *Handler) DeleteAccount(c fiber.Ctx) error {
	var req dto.DeleteAccountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	if err := h.accounts.DeleteAccount(c.Context(), identity.AccountID, req.Password); err != nil {
		return err
	}
	return response.Message(c, MsgAccountDeleted)
}

func (h *Handler) user(c fiber.Ctx, profile *entities.PublicProfile, msg string) error {
	return response.OK(c, fiber.StatusOK, dto.UserEnvelope{User: dto.NewUserResponse(profile)}, msg)
}
