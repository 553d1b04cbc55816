// Package response формирует ответы API в едином конверте.
package response

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authentities "walkydoggy/internal/auth/domain/entities"
	authservices "walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/gateway/app/validation"
	"walkydoggy/internal/marketplace/domain/entities"
	mpservices "walkydoggy/internal/marketplace/ports/services"
	"walkydoggy/pkg/logger"
)

// Сообщения ответов.
const (
	MsgValidationFailed = "Validation failed"
	MsgInternalError    = "Internal server error"
	MsgRouteNotFound    = "Route not found"
	MsgInvalidRequest   = "Invalid request body"

	logUnhandledError = "unhandled error"
)

// Envelope общий вид ответа.
type Envelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Data    any                     `json:"data,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// OK отправляет успешный ответ.
func OK(c fiber.Ctx, status int, data any, message ...string) error {
	env := Envelope{Success: true, Data: data}
	if len(message) > 0 {
		env.Message = message[0]
	}
	return c.Status(status).JSON(env)
}

// Message отправляет успешный ответ без данных.
func Message(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message})
}

// Fail отправляет ответ с ошибкой.
func Fail(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

var mapping = []struct {
	err    error
	status int
}{
	{authservices.ErrEmailAlreadyExists, fiber.StatusConflict},
	{authservices.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{authservices.ErrAccountSuspended, fiber.StatusForbidden},
	{authservices.ErrInvalidToken, fiber.StatusUnauthorized},
	{authservices.ErrTokenMismatch, fiber.StatusUnauthorized},
	{authservices.ErrUnauthenticated, fiber.StatusUnauthorized},
	{authservices.ErrInvalidOrExpiredToken, fiber.StatusBadRequest},
	{authservices.ErrEmailAlreadyVerified, fiber.StatusBadRequest},
	{authservices.ErrInvalidPassword, fiber.StatusBadRequest},
	{authservices.ErrForbidden, fiber.StatusForbidden},
	{authentities.ErrAccountNotFound, fiber.StatusNotFound},
	{authentities.ErrInvalidEmail, fiber.StatusBadRequest},
	{authentities.ErrInvalidRole, fiber.StatusBadRequest},
	{authentities.ErrEmptyName, fiber.StatusBadRequest},
	{authentities.ErrInvalidLocation, fiber.StatusBadRequest},
	{entities.ErrNotFound, fiber.StatusNotFound},
	{entities.ErrConflict, fiber.StatusConflict},
	{entities.ErrInvalidInput, fiber.StatusBadRequest},
	{mpservices.ErrStorageDisabled, fiber.StatusServiceUnavailable},
}

// Status код ответа для ошибки. Неизвестные ошибки дают 500.
func Status(err error) int {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

// Error переводит ошибку в ответ. Внутренние ошибки логируются, клиент видит общее сообщение.
func Error(c fiber.Ctx, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(Envelope{
			Success: false,
			Message: MsgValidationFailed,
			Errors:  verrs,
		})
	}

	status := Status(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
		ctx := c.Context()
		logger.Log(ctx).Error(ctx, logUnhandledError,
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(err))
		return Fail(c, status, MsgInternalError)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && !isDomain(err) {
		return Fail(c, status, fe.Message)
	}
	return Fail(c, status, publicMessage(err))
}

func isDomain(err error) bool {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return true
		}
	}
	return false
}

// publicMessage сообщение для клиента без контекста обертки use case.
func publicMessage(err error) string {
	for _, m := range mapping {
		if !errors.Is(err, m.err) {
			continue
		}
		if !isClass(m.err) {
			return m.err.Error()
		}
		prev := err
		for cur := err; cur != nil; cur = errors.Unwrap(cur) {
			if cur == m.err {
				return prev.Error()
			}
			prev = cur
		}
		return m.err.Error()
	}
	return err.Error()
}

// isClass классы ошибок маркетплейса, конкретная ошибка оборачивает класс.
func isClass(err error) bool {
	return err == entities.ErrNotFound || err == entities.ErrConflict || err == entities.ErrInvalidInput
}

// BindError ошибка разбора запроса: ошибки валидации остаются как есть, остальное дает 400.
func BindError(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs
	}
	return fiber.NewError(fiber.StatusBadRequest, MsgInvalidRequest)
}

// ErrorHandler обработчик fiber для ошибок, не обработанных в хендлерах.
func ErrorHandler(c fiber.Ctx, err error) error {
	return Error(c, err)
}
