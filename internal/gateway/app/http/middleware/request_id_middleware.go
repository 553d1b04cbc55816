// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"walkydoggy/pkg/logger"
)

// NewRequestIDMiddleware присваивает запросу идентификатор и возвращает его в X-Request-ID.
func NewRequestIDMiddleware() fiber.Handler {
	return requestid.New(requestid.Config{Generator: logger.GenerateRequestID})
}

// NewRequestContextMiddleware кладет идентификатор запроса в контекст, из которого его берет логгер.
func NewRequestContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.SetContext(logger.NewRequestIDContext(c.Context(), requestid.FromContext(c)))
		return c.Next()
	}
}
