// Package dto содержит объекты передачи данных для Gateway.
package dto

import (
	"time"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
)

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	PhoneNumber     string `json:"phoneNumber" validate:"omitempty,max=30"`
	UserType        string `json:"userType" validate:"omitempty,oneof=pet_owner business"`
}

// Input переводит запрос во входные данные регистрации.
func (r RegisterRequest) Input() services.RegisterInput {
	role := entities.RolePetOwner
	if r.UserType != "" {
		role = entities.Role(r.UserType)
	}
	return services.RegisterInput{
		Email:       r.Email,
		Password:    r.Password,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
		Role:        role,
	}
}

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest refresh токен в теле, если его нет в cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyEmailRequest код подтверждения email.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordRequest запрос на сброс пароля.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest новый пароль по коду сброса.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ChangePasswordRequest смена пароля текущим пользователем.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// AuthResponse пользователь и access токен. Refresh токен уходит в cookie.
type AuthResponse struct {
	User        *UserResponse `json:"user,omitempty"`
	AccessToken string        `json:"accessToken"`
	ExpiresAt   time.Time     `json:"expiresAt"`
}

// NewAuthResponse собирает ответ входа или регистрации.
func NewAuthResponse(result *services.AuthResult) AuthResponse {
	return AuthResponse{
		User:        NewUserResponse(&result.Account),
		AccessToken: result.Tokens.AccessToken,
		ExpiresAt:   result.Tokens.AccessExpiresAt,
	}
}

// NewTokenResponse ответ обновления токенов.
func NewTokenResponse(tokens *services.TokenPair) AuthResponse {
	return AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresAt:   tokens.AccessExpiresAt,
	}
}

// UserEnvelope пользователь под ключом user.
type UserEnvelope struct {
	User *UserResponse `json:"user"`
}
