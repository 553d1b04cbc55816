package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"walkydoggy/pkg/metrics"
)

// NewMetricsMiddleware учитывает запросы по шаблону маршрута.
func NewMetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()
		err := handled(ctx, ctx.Next())

		route := ctx.Route().Path
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(ctx.Method(), route, ctx.Response().StatusCode(), time.Since(start))
		return err
	}
}
