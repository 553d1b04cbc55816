// Package auth содержит HTTP обработчики протокола сессий.
package auth

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"walkydoggy/internal/auth/ports/api"
	"walkydoggy/internal/gateway/app/dto"
	"walkydoggy/internal/gateway/app/http/middleware"
	"walkydoggy/internal/gateway/app/http/response"
	"walkydoggy/pkg/logger"
)

// Константы для логирования и ответов.
const (
	LogHandlerRegister       = "auth handler: register"
	LogHandlerLogin          = "auth handler: login"
	LogHandlerRefreshTokens  = "auth handler: refresh tokens" // #nosec G101 - not a credential
	LogHandlerLogout         = "auth handler: logout"
	LogHandlerChangePassword = "auth handler: change password"

	// RefreshCookie имя cookie с refresh токеном.
	RefreshCookie = "refreshToken"

	MsgRegistered          = "User registered successfully. Please check your email to verify your account."
	MsgLoggedIn            = "Login successful"
	MsgRefreshed           = "Token refreshed successfully"
	MsgLoggedOut           = "Logout successful"
	MsgEmailVerified       = "Email verified successfully"
	MsgResetSent           = "If an account exists with this email, a password reset link has been sent"
	MsgPasswordReset       = "Password reset successful. You can now login with your new password."
	MsgPasswordChanged     = "Password changed successfully. Please login again with your new password."
	MsgVerificationSent    = "Verification email sent"
	MsgUserRetrieved       = "User retrieved successfully"
	MsgRefreshTokenMissing = "Refresh token required"
)

// CookieConfig параметры cookie с refresh токеном.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// Handler содержит HTTP обработчики авторизации.
type Handler struct {
	sessions api.SessionUseCase
	cookie   CookieConfig
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(sessions api.SessionUseCase, cookie CookieConfig) *Handler {
	if cookie.TTL <= 0 {
		cookie.TTL = 7 * 24 * time.Hour
	}
	return &Handler{sessions: sessions, cookie: cookie}
}

// Register регистрирует пользователя и сразу выдает токены.
func (h *Handler) Register(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	result, err := h.sessions.Register(ctx, req.Input())
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return response.OK(c, fiber.StatusCreated, dto.NewAuthResponse(result), MsgRegistered)
}

// Login проверяет учетные данные и выдает токены.
func (h *Handler) Login(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	result, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return response.OK(c, fiber.StatusOK, dto.NewAuthResponse(result), MsgLoggedIn)
}

// RefreshToken обменивает refresh токен из cookie или тела на новую пару.
func (h *Handler) RefreshToken(c fiber.Ctx) error {
	ctx := c.Context()
	log := logger.Log(ctx)
	log.Debug(ctx, LogHandlerRefreshTokens)

	token := c.Cookies(RefreshCookie)
	if token == "" && len(c.Body()) > 0 {
		var req dto.RefreshRequest
		if err := c.Bind().JSON(&req); err != nil {
			return response.BindError(err)
		}
		token = req.RefreshToken
	}
	if token == "" {
		return response.Fail(c, fiber.StatusUnauthorized, MsgRefreshTokenMissing)
	}

	tokens, err := h.sessions.RefreshToken(ctx, token)
	if err != nil {
		log.Debug(ctx, "refresh rejected", zap.Error(err))
		return err
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	return response.OK(c, fiber.StatusOK, dto.NewTokenResponse(tokens), MsgRefreshed)
}

// Logout отзывает refresh токен и очищает cookie.
func (h *Handler) Logout(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerLogout)

	identity, _ := middleware.IdentityFrom(c)
	if err := h.sessions.Logout(ctx, identity.AccountID); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.Message(c, MsgLoggedOut)
}

// VerifyEmail подтверждает email по коду из письма.
func (h *Handler) VerifyEmail(c fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}
	if err := h.sessions.VerifyEmail(c.Context(), req.Token); err != nil {
		return err
	}
	return response.Message(c, MsgEmailVerified)
}

// ForgotPassword отправляет письмо со ссылкой сброса. Ответ не раскрывает, есть ли такой аккаунт.
func (h *Handler) ForgotPassword(c fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}
	if err := h.sessions.ForgotPassword(c.Context(), req.Email); err != nil {
		return err
	}
	return response.Message(c, MsgResetSent)
}

// ResetPassword задает новый пароль по коду сброса.
func (h *Handler) ResetPassword(c fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}
	if err := h.sessions.ResetPassword(c.Context(), req.Token, req.Password); err != nil {
		return err
	}
	return response.Message(c, MsgPasswordReset)
}

// ChangePassword меняет пароль и завершает текущую сессию.
func (h *Handler) ChangePassword(c fiber.Ctx) error {
	ctx := c.Context()
	logger.Log(ctx).Debug(ctx, LogHandlerChangePassword)

	var req dto.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	if err := h.sessions.ChangePassword(ctx, identity.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return response.Message(c, MsgPasswordChanged)
}

// ResendVerification повторно отправляет письмо подтверждения.
func (h *Handler) ResendVerification(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.sessions.ResendVerification(c.Context(), identity.AccountID); err != nil {
		return err
	}
	return response.Message(c, MsgVerificationSent)
}

// Me возвращает профиль текущего пользователя.
func (h *Handler) Me(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	profile, err := h.sessions.CurrentAccount(c.Context(), identity.AccountID)
	if err != nil {
		return err
	}
	return response.OK(c, fiber.StatusOK, dto.UserEnvelope{User: dto.NewUserResponse(profile)}, MsgUserRetrieved)
}

func (h *Handler) setRefreshCookie(c fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		Expires:  time.Now().Add(h.cookie.TTL),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
