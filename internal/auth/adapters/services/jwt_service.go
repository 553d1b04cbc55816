package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	svc "walkydoggy/internal/auth/ports/services"
	"walkydoggy/pkg/logger"
)

const (
	methodIssueAccessToken   = "IssueAccessToken"
	methodIssueRefreshToken  = "IssueRefreshToken"
	methodVerifyAccessToken  = "VerifyAccessToken"
	methodVerifyRefreshToken = "VerifyRefreshToken"

	msgIssuingToken   = "issuing token"
	msgTokenIssued    = "token issued"
	msgTokenRejected  = "token rejected"
	msgTokenVerified  = "token verified"
	msgEmptySecretKey = "empty secret key provided"

	errCtxIssuingToken   = "issuing token"
	errCtxVerifyingToken = "verifying token"
	//nolint:gosec
	errSigningToken = "error signing token"
)

// ErrInvalidAlgorithm неожиданный алгоритм подписи.
var ErrInvalidAlgorithm = errors.New("invalid signing algorithm")

// AccessClaims формат access токена.
type AccessClaims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	BusinessID string `json:"businessId,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims формат refresh токена.
type RefreshClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// ServiceJWT выпускает токены HS256 с раздельными секретами для access и refresh.
type ServiceJWT struct {
	config services.JWTConfig
	now    func() time.Time
}

// NewJWT создает сервис токенов.
func NewJWT(cfg services.JWTConfig) svc.TokenService {
	return &ServiceJWT{config: cfg, now: time.Now}
}

// NewJWTWithClock создает сервис с заданным источником времени.
func NewJWTWithClock(cfg services.JWTConfig, now func() time.Time) *ServiceJWT {
	return &ServiceJWT{config: cfg, now: now}
}

// IssueAccessToken подписывает {sub, email, role, businessId}.
func (s *ServiceJWT) IssueAccessToken(ctx context.Context, account *entities.Account) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssueAccessToken),
		zap.String("accountID", account.ID),
	)
	log.Debug(ctx, msgIssuingToken)

	if len(s.config.AccessSecret) == 0 {
		log.Error(ctx, msgEmptySecretKey)
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, services.ErrEmptySecret)
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := AccessClaims{
		Email:      account.Email,
		Role:       string(account.Role),
		BusinessID: account.BusinessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.AccessSecret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenIssued, zap.Time("expiresAt", expiresAt))
	return token, expiresAt, nil
}

// IssueRefreshToken подписывает {sub, type=refresh, jti} секретом refresh токенов.
func (s *ServiceJWT) IssueRefreshToken(ctx context.Context, accountID string) (string, time.Time, error) {
	log := logger.Log(ctx).With(
		zap.String("method", methodIssueRefreshToken),
		zap.String("accountID", accountID),
	)
	log.Debug(ctx, msgIssuingToken)

	if len(s.config.RefreshSecret) == 0 {
		log.Error(ctx, msgEmptySecretKey)
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, services.ErrEmptySecret)
	}

	now := s.now()
	expiresAt := now.Add(s.config.RefreshTokenTTL)

	claims := RefreshClaims{
		Type: services.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.RefreshSecret)
	if err != nil {
		log.Error(ctx, errSigningToken, zap.Error(err))
		return "", time.Time{}, fmt.Errorf("%s: %w: %w", errCtxIssuingToken, services.ErrGeneratingJWTToken, err)
	}

	log.Debug(ctx, msgTokenIssued, zap.Time("expiresAt", expiresAt))
	return token, expiresAt, nil
}

// VerifyAccessToken проверяет подпись и срок access токена.
func (s *ServiceJWT) VerifyAccessToken(ctx context.Context, tokenString string) (*services.AccessClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerifyAccessToken))

	var claims AccessClaims
	if err := s.parse(tokenString, &claims, s.config.AccessSecret); err != nil {
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}
	if claims.Subject == "" {
		log.Debug(ctx, msgTokenRejected, zap.String("reason", "empty subject"))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}

	log.Debug(ctx, msgTokenVerified, zap.String("accountID", claims.Subject))
	return &services.AccessClaims{
		AccountID:  claims.Subject,
		Email:      claims.Email,
		Role:       entities.Role(claims.Role),
		BusinessID: claims.BusinessID,
		IssuedAt:   numericTime(claims.IssuedAt),
		ExpiresAt:  numericTime(claims.ExpiresAt),
	}, nil
}

// VerifyRefreshToken проверяет подпись, срок и тип refresh токена.
func (s *ServiceJWT) VerifyRefreshToken(ctx context.Context, tokenString string) (*services.RefreshClaims, error) {
	log := logger.Log(ctx).With(zap.String("method", methodVerifyRefreshToken))

	var claims RefreshClaims
	if err := s.parse(tokenString, &claims, s.config.RefreshSecret); err != nil {
		log.Debug(ctx, msgTokenRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}
	if claims.Subject == "" || claims.Type != services.TokenTypeRefresh {
		log.Debug(ctx, msgTokenRejected, zap.String("type", claims.Type))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingToken, services.ErrInvalidToken)
	}

	log.Debug(ctx, msgTokenVerified, zap.String("accountID", claims.Subject))
	return &services.RefreshClaims{
		AccountID: claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
	}, nil
}

func (s *ServiceJWT) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	if len(secret) == 0 {
		return services.ErrEmptySecret
	}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
