// Package app содержит сценарии протокола сессий и управления профилем.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/auth/ports/api"
	"walkydoggy/internal/auth/ports/repositories"
	svc "walkydoggy/internal/auth/ports/services"
	"walkydoggy/pkg/logger"
	"walkydoggy/pkg/metrics"
)

const (
	methodRegister           = "Register"
	methodLogin              = "Login"
	methodRefreshToken       = "RefreshToken"
	methodLogout             = "Logout"
	methodForgotPassword     = "ForgotPassword"
	methodResetPassword      = "ResetPassword"
	methodChangePassword     = "ChangePassword"
	methodVerifyEmail        = "VerifyEmail"
	methodResendVerification = "ResendVerification"
	methodAuthenticate       = "Authenticate"
	methodCurrentAccount     = "CurrentAccount"

	eventRegister           = "register"
	eventLogin              = "login"
	eventRefresh            = "refresh"
	eventLogout             = "logout"
	eventForgotPassword     = "forgot_password"
	eventResetPassword      = "reset_password"
	eventChangePassword     = "change_password"
	eventVerifyEmail        = "verify_email"
	eventResendVerification = "resend_verification"

	msgStartRegistration     = "starting account registration"
	msgInvalidRegistration   = "invalid registration input"
	msgEmailExists           = "account with this email already exists"
	msgAccountRegistered     = "account registered successfully"
	msgLoginAttempt          = "login attempt"
	msgLoginUnknownEmail     = "login attempt with non-existent email"
	msgLoginWrongPassword    = "invalid password provided"
	msgLoginInactive         = "login attempt on inactive account"
	msgLoggedIn              = "account logged in successfully"
	msgRefreshingTokens      = "refreshing tokens"
	msgRefreshReplay         = "refresh token does not match stored token"
	msgTokensRefreshed       = "tokens refreshed successfully"
	msgLoggedOut             = "account logged out successfully"
	msgResetUnknownEmail     = "password reset requested for unknown email"
	msgResetInactive         = "password reset requested for inactive account"
	msgResetRequested        = "password reset code issued"
	msgResetCodeRejected     = "password reset code rejected"
	msgPasswordReset         = "password reset successfully"
	msgPasswordChanged       = "password changed successfully"
	msgVerificationRejected  = "email verification code rejected"
	msgEmailVerified         = "email verified successfully"
	msgVerificationReissued  = "email verification code reissued"
	msgAuthenticationFailed  = "access token rejected"
	msgEmailDeliveryFailed   = "failed to deliver email, continuing"
	msgLastLoginUpdateFailed = "failed to update last login timestamp"

	msgErrLookup         = "failed to look up account"
	msgErrHashPassword   = "failed to hash password"
	msgErrCreateAccount  = "failed to create account"
	msgErrIssueTokens    = "failed to issue token pair"
	msgErrVerifyPassword = "error verifying password"
	msgErrStoreToken     = "failed to store refresh token"
	msgErrStoreCode      = "failed to store one-time code"
	msgErrUpdatePassword = "failed to update password"
	msgErrMarkVerified   = "failed to mark email verified"
	msgErrGenerateSecret = "failed to generate one-time code"
	msgErrRotateToken    = "failed to rotate refresh token"
	msgErrClearToken     = "failed to clear refresh token"
	msgErrAuthLookup     = "failed to load account for access token"

	errCtxValidatingInput   = "validating registration"
	errCtxCheckingAccount   = "checking existing account"
	errCtxEmailRegistered   = "email already registered"
	errCtxHashingPassword   = "hashing password"
	errCtxCreatingAccount   = "creating account"
	errCtxIssuingTokens     = "issuing tokens"
	errCtxFindingAccount    = "finding account"
	errCtxVerifyingPassword = "verifying password"
	errCtxCredentials       = "checking credentials"
	errCtxAccountStatus     = "checking account status"
	errCtxVerifyingToken    = "verifying refresh token"
	errCtxComparingToken    = "comparing refresh token"
	errCtxRotatingToken     = "rotating refresh token"
	errCtxStoringToken      = "storing refresh token"
	errCtxClearingToken     = "clearing refresh token"
	errCtxGeneratingSecret  = "generating one-time code"
	errCtxStoringCode       = "storing one-time code"
	errCtxCheckingCode      = "checking one-time code"
	errCtxUpdatingPassword  = "updating password"
	errCtxMarkingVerified   = "marking email verified"
	errCtxAlreadyVerified   = "resending verification"
	errCtxAuthenticating    = "authenticating"
)

// SessionUseCaseImpl реализует api.SessionUseCase.
type SessionUseCaseImpl struct {
	accounts  repositories.AccountRepository
	passwords svc.PasswordService
	tokens    svc.TokenService
	secrets   svc.SecretService
	notifier  svc.Notifier
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string
}

// SessionOption настраивает SessionUseCaseImpl.
type SessionOption func(*SessionUseCaseImpl)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionUseCaseImpl) {
		s.now = now
	}
}

// WithMetrics включает учет событий протокола.
func WithMetrics(m *metrics.Metrics) SessionOption {
	return func(s *SessionUseCaseImpl) {
		s.metrics = m
	}
}

// WithIDGenerator подменяет генератор идентификаторов учетных записей.
func WithIDGenerator(newID func() string) SessionOption {
	return func(s *SessionUseCaseImpl) {
		s.newID = newID
	}
}

// NewSessionUseCase создает сервис протокола сессий.
func NewSessionUseCase(
	accounts repositories.AccountRepository,
	passwords svc.PasswordService,
	tokens svc.TokenService,
	secrets svc.SecretService,
	notifier svc.Notifier,
	opts ...SessionOption,
) api.SessionUseCase {
	s := &SessionUseCaseImpl{
		accounts:  accounts,
		passwords: passwords,
		tokens:    tokens,
		secrets:   secrets,
		notifier:  notifier,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register создает учетную запись, выдает код подтверждения email и пару токенов.
func (s *SessionUseCaseImpl) Register(ctx context.Context, input services.RegisterInput) (res *services.AuthResult, err error) {
	defer func() { s.metrics.AuthEvent(eventRegister, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodRegister))
	log.Debug(ctx, msgStartRegistration)

	if err := validateRegistration(&input); err != nil {
		log.Debug(ctx, msgInvalidRegistration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingInput, err)
	}

	existing, err := s.accounts.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, entities.ErrAccountNotFound) {
		log.Error(ctx, msgErrLookup, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingAccount, err)
	}
	if existing != nil {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailRegistered, services.ErrEmailAlreadyExists)
	}

	hash, err := s.passwords.Hash(ctx, input.Password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	secret, err := s.secrets.Generate()
	if err != nil {
		log.Error(ctx, msgErrGenerateSecret, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxGeneratingSecret, err)
	}
	expires := s.now().Add(services.VerificationTokenTTL)

	account, err := s.accounts.Create(ctx, &entities.Account{
		ID:           s.newID(),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Profile: entities.Profile{
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			PhoneNumber: input.PhoneNumber,
		},
		VerificationTokenHash: s.secrets.Hash(secret),
		VerificationExpiresAt: &expires,
		Status:                entities.StatusActive,
	})
	if err != nil {
		log.Error(ctx, msgErrCreateAccount, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingAccount, err)
	}

	pair, err := s.startSession(ctx, account)
	if err != nil {
		return nil, err
	}

	s.deliver(ctx, func(ctx context.Context) error {
		return s.notifier.SendVerificationEmail(ctx, account.Email, account.Profile.FirstName, secret)
	})

	log.Info(ctx, msgAccountRegistered, zap.String("account_id", account.ID))
	return &services.AuthResult{Account: account.Public(), Tokens: *pair}, nil
}

// Login проверяет учетные данные. Неизвестный email и неверный пароль дают одну и ту же ошибку.
func (s *SessionUseCaseImpl) Login(ctx context.Context, email, password string) (res *services.AuthResult, err error) {
	defer func() { s.metrics.AuthEvent(eventLogin, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodLogin))
	log.Debug(ctx, msgLoginAttempt)

	account, err := s.accounts.FindByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgLoginUnknownEmail)
			return nil, fmt.Errorf("%s: %w", errCtxCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrLookup, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}

	ok, err := s.passwords.Verify(ctx, password, account.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		log.Debug(ctx, msgLoginWrongPassword, zap.String("account_id", account.ID))
		return nil, fmt.Errorf("%s: %w", errCtxCredentials, services.ErrInvalidCredentials)
	}

	if !account.IsActive() {
		log.Info(ctx, msgLoginInactive, zap.String("account_id", account.ID), zap.String("status", string(account.Status)))
		return nil, fmt.Errorf("%s: %w", errCtxAccountStatus, services.ErrAccountSuspended)
	}

	pair, err := s.startSession(ctx, account)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.accounts.TouchLastLogin(ctx, account.ID, now); err != nil {
		log.Warn(ctx, msgLastLoginUpdateFailed, zap.Error(err))
	} else {
		account.LastLoginAt = &now
	}

	log.Info(ctx, msgLoggedIn, zap.String("account_id", account.ID))
	return &services.AuthResult{Account: account.Public(), Tokens: *pair}, nil
}

// RefreshToken обменивает текущий refresh токен на новую пару.
// Токен, уже замененный ротацией, отклоняется с ErrTokenMismatch.
func (s *SessionUseCaseImpl) RefreshToken(ctx context.Context, refreshToken string) (pair *services.TokenPair, err error) {
	defer func() { s.metrics.AuthEvent(eventRefresh, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodRefreshToken))
	log.Debug(ctx, msgRefreshingTokens)

	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug(ctx, msgAuthenticationFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, err)
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if !errors.Is(err, entities.ErrAccountNotFound) {
			log.Error(ctx, msgErrLookup, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}

	if account.RefreshToken == "" || account.RefreshToken != refreshToken {
		log.Warn(ctx, msgRefreshReplay, zap.String("account_id", account.ID))
		return nil, fmt.Errorf("%s: %w", errCtxComparingToken, services.ErrTokenMismatch)
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%s: %w", errCtxAccountStatus, services.ErrAccountSuspended)
	}

	pair, err = s.issuePair(ctx, account)
	if err != nil {
		log.Error(ctx, msgErrIssueTokens, zap.Error(err))
		return nil, err
	}

	if err := s.accounts.RotateRefreshToken(ctx, account.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, services.ErrTokenMismatch) {
			log.Warn(ctx, msgRefreshReplay, zap.String("account_id", account.ID))
		} else {
			log.Error(ctx, msgErrRotateToken, zap.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", errCtxRotatingToken, err)
	}

	log.Info(ctx, msgTokensRefreshed, zap.String("account_id", account.ID))
	return pair, nil
}

// Logout очищает сохраненный refresh токен. Повторный вызов не является ошибкой.
func (s *SessionUseCaseImpl) Logout(ctx context.Context, accountID string) (err error) {
	defer func() { s.metrics.AuthEvent(eventLogout, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodLogout), zap.String("account_id", accountID))

	if err := s.accounts.SetRefreshToken(ctx, accountID, ""); err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			return nil
		}
		log.Error(ctx, msgErrClearToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxClearingToken, err)
	}

	log.Info(ctx, msgLoggedOut)
	return nil
}

// ForgotPassword выдает код сброса пароля. Результат не зависит от существования email.
func (s *SessionUseCaseImpl) ForgotPassword(ctx context.Context, email string) (err error) {
	defer func() { s.metrics.AuthEvent(eventForgotPassword, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodForgotPassword))

	account, err := s.accounts.FindByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgResetUnknownEmail)
			return nil
		}
		log.Error(ctx, msgErrLookup, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}
	if !account.IsActive() {
		log.Info(ctx, msgResetInactive, zap.String("account_id", account.ID))
		return nil
	}

	secret, err := s.secrets.Generate()
	if err != nil {
		log.Error(ctx, msgErrGenerateSecret, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxGeneratingSecret, err)
	}

	if err := s.accounts.SetResetToken(ctx, account.ID, s.secrets.Hash(secret), s.now().Add(services.ResetTokenTTL)); err != nil {
		log.Error(ctx, msgErrStoreCode, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxStoringCode, err)
	}

	s.deliver(ctx, func(ctx context.Context) error {
		return s.notifier.SendPasswordResetEmail(ctx, account.Email, account.Profile.FirstName, secret)
	})

	log.Info(ctx, msgResetRequested, zap.String("account_id", account.ID))
	return nil
}

// ResetPassword устанавливает новый пароль по коду сброса и завершает все сессии.
func (s *SessionUseCaseImpl) ResetPassword(ctx context.Context, secret, newPassword string) (err error) {
	defer func() { s.metrics.AuthEvent(eventResetPassword, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodResetPassword))

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", errCtxUpdatingPassword, err)
	}

	now := s.now()
	account, err := s.accounts.FindByResetHash(ctx, s.secrets.Hash(secret), now)
	if err != nil {
		return s.codeLookupError(ctx, log, msgResetCodeRejected, err)
	}
	if !codeActive(account.ResetTokenHash, account.ResetExpiresAt, now) {
		log.Debug(ctx, msgResetCodeRejected, zap.String("account_id", account.ID))
		return fmt.Errorf("%s: %w", errCtxCheckingCode, services.ErrInvalidOrExpiredToken)
	}

	if err := s.setPassword(ctx, log, account.ID, newPassword); err != nil {
		return err
	}

	log.Info(ctx, msgPasswordReset, zap.String("account_id", account.ID))
	return nil
}

// ChangePassword меняет пароль после проверки текущего и завершает все сессии.
func (s *SessionUseCaseImpl) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) (err error) {
	defer func() { s.metrics.AuthEvent(eventChangePassword, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodChangePassword), zap.String("account_id", accountID))

	if err := validatePassword(newPassword); err != nil {
		return fmt.Errorf("%s: %w", errCtxUpdatingPassword, err)
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		log.Error(ctx, msgErrLookup, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}

	ok, err := s.passwords.Verify(ctx, currentPassword, account.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", errCtxCredentials, services.ErrInvalidCredentials)
	}

	if err := s.setPassword(ctx, log, account.ID, newPassword); err != nil {
		return err
	}

	log.Info(ctx, msgPasswordChanged)
	return nil
}

// VerifyEmail подтверждает email по одноразовому коду.
func (s *SessionUseCaseImpl) VerifyEmail(ctx context.Context, secret string) (err error) {
	defer func() { s.metrics.AuthEvent(eventVerifyEmail, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodVerifyEmail))

	now := s.now()
	account, err := s.accounts.FindByVerificationHash(ctx, s.secrets.Hash(secret), now)
	if err != nil {
		return s.codeLookupError(ctx, log, msgVerificationRejected, err)
	}
	if !codeActive(account.VerificationTokenHash, account.VerificationExpiresAt, now) {
		log.Debug(ctx, msgVerificationRejected, zap.String("account_id", account.ID))
		return fmt.Errorf("%s: %w", errCtxCheckingCode, services.ErrInvalidOrExpiredToken)
	}

	if err := s.accounts.MarkEmailVerified(ctx, account.ID); err != nil {
		log.Error(ctx, msgErrMarkVerified, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxMarkingVerified, err)
	}

	log.Info(ctx, msgEmailVerified, zap.String("account_id", account.ID))
	return nil
}

// ResendVerification заменяет действующий код подтверждения новым и отправляет его.
func (s *SessionUseCaseImpl) ResendVerification(ctx context.Context, accountID string) (err error) {
	defer func() { s.metrics.AuthEvent(eventResendVerification, err) }()

	log := logger.Log(ctx).With(zap.String("method", methodResendVerification), zap.String("account_id", accountID))

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		log.Error(ctx, msgErrLookup, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}
	if account.IsEmailVerified {
		return fmt.Errorf("%s: %w", errCtxAlreadyVerified, services.ErrEmailAlreadyVerified)
	}

	secret, err := s.secrets.Generate()
	if err != nil {
		log.Error(ctx, msgErrGenerateSecret, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxGeneratingSecret, err)
	}
	if err := s.accounts.SetVerificationToken(ctx, account.ID, s.secrets.Hash(secret), s.now().Add(services.VerificationTokenTTL)); err != nil {
		log.Error(ctx, msgErrStoreCode, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxStoringCode, err)
	}

	s.deliver(ctx, func(ctx context.Context) error {
		return s.notifier.SendVerificationEmail(ctx, account.Email, account.Profile.FirstName, secret)
	})

	log.Info(ctx, msgVerificationReissued)
	return nil
}

// Authenticate устанавливает личность по access токену.
// Любая причина отказа сводится к ErrUnauthenticated, кроме сбоев хранилища.
func (s *SessionUseCaseImpl) Authenticate(ctx context.Context, accessToken string) (*services.Identity, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAuthenticate))

	if accessToken == "" {
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, services.ErrUnauthenticated)
	}

	claims, err := s.tokens.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		log.Debug(ctx, msgAuthenticationFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, services.ErrUnauthenticated)
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, entities.ErrAccountNotFound) {
			log.Debug(ctx, msgAuthenticationFailed, zap.String("account_id", claims.AccountID))
			return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, services.ErrUnauthenticated)
		}
		log.Error(ctx, msgErrAuthLookup, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}
	if !account.IsActive() {
		log.Debug(ctx, msgAuthenticationFailed, zap.String("status", string(account.Status)))
		return nil, fmt.Errorf("%s: %w", errCtxAuthenticating, services.ErrUnauthenticated)
	}

	return &services.Identity{
		AccountID:  account.ID,
		Email:      account.Email,
		Role:       account.Role,
		BusinessID: account.BusinessID,
	}, nil
}

// CurrentAccount возвращает профиль аутентифицированной учетной записи.
func (s *SessionUseCaseImpl) CurrentAccount(ctx context.Context, accountID string) (*entities.PublicProfile, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgErrLookup, zap.String("method", methodCurrentAccount), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingAccount, err)
	}
	profile := account.Public()
	return &profile, nil
}

// startSession выпускает пару токенов и делает refresh токен единственным действующим.
func (s *SessionUseCaseImpl) startSession(ctx context.Context, account *entities.Account) (*services.TokenPair, error) {
	log := logger.Log(ctx).With(zap.String("account_id", account.ID))

	pair, err := s.issuePair(ctx, account)
	if err != nil {
		log.Error(ctx, msgErrIssueTokens, zap.Error(err))
		return nil, err
	}

	if err := s.accounts.SetRefreshToken(ctx, account.ID, pair.RefreshToken); err != nil {
		log.Error(ctx, msgErrStoreToken, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxStoringToken, err)
	}
	account.RefreshToken = pair.RefreshToken
	return pair, nil
}

func (s *SessionUseCaseImpl) issuePair(ctx context.Context, account *entities.Account) (*services.TokenPair, error) {
	access, accessExp, err := s.tokens.IssueAccessToken(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssuingTokens, services.ErrTokenGenerationFailed, err)
	}
	refresh, refreshExp, err := s.tokens.IssueRefreshToken(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtxIssuingTokens, services.ErrTokenGenerationFailed, err)
	}
	return &services.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *SessionUseCaseImpl) setPassword(ctx context.Context, log *logger.Logger, accountID, password string) error {
	hash, err := s.passwords.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		log.Error(ctx, msgErrUpdatePassword, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxUpdatingPassword, err)
	}
	return nil
}

func (s *SessionUseCaseImpl) codeLookupError(ctx context.Context, log *logger.Logger, msg string, err error) error {
	if errors.Is(err, entities.ErrAccountNotFound) {
		log.Debug(ctx, msg)
		return fmt.Errorf("%s: %w", errCtxCheckingCode, services.ErrInvalidOrExpiredToken)
	}
	log.Error(ctx, msgErrLookup, zap.Error(err))
	return fmt.Errorf("%s: %w", errCtxFindingAccount, err)
}

// deliver отправляет письмо. Ошибка доставки только логируется.
func (s *SessionUseCaseImpl) deliver(ctx context.Context, send func(context.Context) error) {
	if s.notifier == nil {
		return
	}
	if err := send(ctx); err != nil {
		logger.Log(ctx).Warn(ctx, msgEmailDeliveryFailed, zap.Error(err))
	}
}

func codeActive(hash string, expiresAt *time.Time, now time.Time) bool {
	return hash != "" && expiresAt != nil && now.Before(*expiresAt)
}
