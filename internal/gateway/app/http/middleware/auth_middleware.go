package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorAuthFailed         = "authentication failed"
	ErrorIdentityLookup     = "failed to resolve identity"
	ErrorRoleDenied         = "role is not allowed"
	ErrorNotOwner           = "identity does not own the resource"
)

type identityKey struct{}

// Authenticator проверяет access токен и возвращает личность.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*services.Identity, error)
}

// OwnerResolver возвращает идентификатор ожидаемого владельца ресурса.
type OwnerResolver func(c fiber.Ctx) (string, error)

// Guard проверяет личность и права доступа.
type Guard struct {
	auth Authenticator
}

// NewGuard создает проверку доступа.
func NewGuard(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// RequireAuthentication пропускает только запросы с действующим Bearer токеном.
// Сбой хранилища при проверке не выдается за 401 и уходит в обработчик ошибок.
func (g *Guard) RequireAuthentication() fiber.Handler {
	return func(c fiber.Ctx) error {
		requestCtx := c.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		token, reason := bearerToken(c)
		if token == "" {
			log.Debug(requestCtx, reason)
			return services.ErrUnauthenticated
		}

		identity, err := g.auth.Authenticate(requestCtx, token)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				log.Error(requestCtx, ErrorIdentityLookup, zap.Error(err))
				return err
			}
			log.Debug(requestCtx, ErrorAuthFailed, zap.Error(err))
			return services.ErrUnauthenticated
		}

		setIdentity(c, identity)
		return c.Next()
	}
}

// OptionalAuthentication прикрепляет личность, если токен действителен, и никогда не прерывает запрос.
func (g *Guard) OptionalAuthentication() fiber.Handler {
	return func(c fiber.Ctx) error {
		if token, _ := bearerToken(c); token != "" {
			if identity, err := g.auth.Authenticate(c.Context(), token); err == nil {
				setIdentity(c, identity)
			}
		}
		return c.Next()
	}
}

// RequireRole пропускает только перечисленные роли. Ставится после RequireAuthentication.
func (g *Guard) RequireRole(roles ...entities.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return services.ErrUnauthenticated
		}
		if !identity.HasRole(roles...) {
			requestCtx := c.Context()
			logger.Log(requestCtx).Debug(requestCtx, ErrorRoleDenied, zap.String("role", string(identity.Role)))
			return services.ErrForbidden
		}
		return c.Next()
	}
}

// RequireOwnership пропускает владельца ресурса, которого возвращает resolver. Администратор проходит всегда.
func (g *Guard) RequireOwnership(resolve OwnerResolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return services.ErrUnauthenticated
		}
		if identity.IsAdmin() {
			return c.Next()
		}

		ownerID, err := resolve(c)
		if err != nil {
			return err
		}
		if !identity.Owns(ownerID) {
			requestCtx := c.Context()
			logger.Log(requestCtx).Debug(requestCtx, ErrorNotOwner, zap.String("account_id", identity.AccountID))
			return services.ErrForbidden
		}
		return c.Next()
	}
}

// IdentityFrom личность, прикрепленная к запросу.
func IdentityFrom(c fiber.Ctx) (services.Identity, bool) {
	identity, ok := c.Locals(identityKey{}).(*services.Identity)
	if !ok || identity == nil {
		return services.Identity{}, false
	}
	return *identity, true
}

// OptionalIdentityFrom личность запроса или nil для анонимного.
func OptionalIdentityFrom(c fiber.Ctx) *services.Identity {
	identity, ok := c.Locals(identityKey{}).(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}

// ParamOwner resolver, для которого владелец задан параметром пути.
func ParamOwner(name string) OwnerResolver {
	return func(c fiber.Ctx) (string, error) {
		return c.Params(name), nil
	}
}

func setIdentity(c fiber.Ctx, identity *services.Identity) {
	c.Locals(identityKey{}, identity)
}

func bearerToken(c fiber.Ctx) (string, string) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ErrorNoAuthHeader
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", ErrorInvalidTokenFormat
	}
	return token, ""
}
