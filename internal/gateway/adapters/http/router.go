// Package http содержит компоненты для HTTP сервера.
package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/config"
	"walkydoggy/internal/gateway/adapters/http/auth"
	"walkydoggy/internal/gateway/adapters/http/businesses"
	"walkydoggy/internal/gateway/adapters/http/catalog"
	"walkydoggy/internal/gateway/adapters/http/pets"
	"walkydoggy/internal/gateway/adapters/http/users"
	"walkydoggy/internal/gateway/adapters/http/workers"
	"walkydoggy/internal/gateway/app/http/middleware"
	"walkydoggy/internal/gateway/app/http/response"
	"walkydoggy/internal/gateway/app/validation"
	"walkydoggy/pkg/metrics"
)

// MsgTooManyRequests ответ ограничителя частоты.
const MsgTooManyRequests = "Too many requests, please try again later"

// Handlers обработчики всех ресурсов API.
type Handlers struct {
	Auth       *auth.Handler
	Users      *users.Handler
	Pets       *pets.Handler
	Businesses *businesses.Handler
	Catalog    *catalog.Handler
	Workers    *workers.Handler
}

// RouterConfig зависимости маршрутизации.
type RouterConfig struct {
	Guard          *middleware.Guard
	Metrics        *metrics.Metrics
	CORSOrigins    []string
	RateLimit      config.RateLimitConfig
	LimiterStorage fiber.Storage
	Environment    string
}

// NewApp создает fiber приложение с валидатором и обработчиком ошибок в формате API.
func NewApp(cfg config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:         "walkydoggy",
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		BodyLimit:       cfg.BodyLimit,
		StructValidator: validation.New(),
		ErrorHandler:    response.ErrorHandler,
	})
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, h Handlers, cfg RouterConfig) {
	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware(), middleware.NewRequestContextMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewMetricsMiddleware(cfg.Metrics))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	app.Get("/health", health(cfg.Environment))
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	// API версии 1.
	apiV1 := app.Group("/api/v1")
	guard := cfg.Guard
	authenticated := guard.RequireAuthentication()
	optional := guard.OptionalAuthentication()

	// Auth.
	authRoutes := apiV1.Group("/auth")
	if cfg.RateLimit.Enabled {
		authRoutes.Use(newLimiter(cfg))
	}
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh-token", h.Auth.RefreshToken)
	authRoutes.Post("/verify-email", h.Auth.VerifyEmail)
	authRoutes.Post("/forgot-password", h.Auth.ForgotPassword)
	authRoutes.Post("/reset-password", h.Auth.ResetPassword)
	authRoutes.Post("/logout", h.Auth.Logout, authenticated)
	authRoutes.Get("/me", h.Auth.Me, authenticated)
	authRoutes.Put("/change-password", h.Auth.ChangePassword, authenticated)
	authRoutes.Post("/resend-verification", h.Auth.ResendVerification, authenticated)

	// Users.
	userRoutes := apiV1.Group("/users")
	userRoutes.Get("/me/profile", h.Users.MyProfile, authenticated)
	userRoutes.Put("/me/profile", h.Users.UpdateProfile, authenticated)
	userRoutes.Put("/me/avatar", h.Users.UpdateAvatar, authenticated)
	userRoutes.Put("/me/password", h.Users.ChangePassword, authenticated)
	userRoutes.Put("/me/phone", h.Users.UpdatePhone, authenticated)
	userRoutes.Put("/me/address", h.Users.UpdateAddress, authenticated)
	userRoutes.Delete("/me", h.Users.DeleteAccount, authenticated)
	userRoutes.Get("/:id", h.Users.GetByID)

	// Pets, все маршруты защищены.
	petRoutes := apiV1.Group("/pets", authenticated)
	petRoutes.Get("/", h.Pets.List)
	petRoutes.Post("/", h.Pets.Create)
	petRoutes.Get("/:id", h.Pets.Get)
	petRoutes.Put("/:id", h.Pets.Update)
	petRoutes.Delete("/:id", h.Pets.Delete)
	petRoutes.Post("/:id/co-owners", h.Pets.AddCoOwner)
	petRoutes.Delete("/:id/co-owners/:coOwnerId", h.Pets.RemoveCoOwner)
	petRoutes.Post("/:id/photos", h.Pets.AddPhoto)
	petRoutes.Delete("/:id/photos", h.Pets.DeletePhoto)
	petRoutes.Post("/:id/vaccinations", h.Pets.AddVaccination)
	petRoutes.Put("/:id/medical", h.Pets.UpdateMedicalInfo)

	// Businesses.
	bizRoutes := apiV1.Group("/businesses")
	ownsBusiness := guard.RequireOwnership(h.Businesses.Owner("id"))
	bizRoutes.Get("/search", h.Businesses.Search)
	bizRoutes.Get("/nearby", h.Businesses.Nearby)
	bizRoutes.Get("/featured", h.Businesses.Featured)
	bizRoutes.Get("/my/profile", h.Businesses.Mine, authenticated)
	bizRoutes.Get("/:id", h.Businesses.Get)
	bizRoutes.Post("/", h.Businesses.Create, authenticated, guard.RequireRole(authentities.RoleBusiness, authentities.RoleAdmin))
	bizRoutes.Put("/:id", h.Businesses.Update, authenticated, ownsBusiness)
	bizRoutes.Delete("/:id", h.Businesses.Delete, authenticated, ownsBusiness)
	bizRoutes.Post("/:id/certifications", h.Businesses.AddCertification, authenticated, ownsBusiness)
	bizRoutes.Put("/:id/operating-hours", h.Businesses.UpdateOperatingHours, authenticated, ownsBusiness)
	bizRoutes.Put("/:id/stripe", h.Businesses.UpdatePaymentAccount, authenticated, ownsBusiness)

	// Услуги и исполнители бизнеса.
	managesBusiness := guard.RequireOwnership(h.Businesses.Owner("businessId"))

	bizServices := bizRoutes.Group("/:businessId/services")
	bizServices.Get("/", h.Catalog.ListByBusiness, optional)
	bizServices.Post("/", h.Catalog.Create, authenticated, managesBusiness)
	bizServices.Put("/:id", h.Catalog.Update, authenticated, managesBusiness)
	bizServices.Delete("/:id", h.Catalog.Delete, authenticated, managesBusiness)
	bizServices.Patch("/:id/toggle", h.Catalog.Toggle, authenticated, managesBusiness)

	bizWorkers := bizRoutes.Group("/:businessId/workers", authenticated, managesBusiness)
	bizWorkers.Get("/", h.Workers.List)
	bizWorkers.Post("/", h.Workers.Create)
	bizWorkers.Put("/:id", h.Workers.Update)
	bizWorkers.Delete("/:id", h.Workers.Delete)
	bizWorkers.Patch("/:id/toggle", h.Workers.Toggle)
	bizWorkers.Put("/:id/location", h.Workers.UpdateLocation)
	bizWorkers.Put("/:id/status", h.Workers.SetOnline)
	bizWorkers.Put("/:id/services", h.Workers.AssignServices)
	bizWorkers.Post("/:id/certifications", h.Workers.AddCertification)
	bizWorkers.Put("/:id/availability", h.Workers.UpdateAvailability)

	// Публичный каталог.
	serviceRoutes := apiV1.Group("/services")
	serviceRoutes.Get("/search", h.Catalog.Search)
	serviceRoutes.Get("/category/:category", h.Catalog.ListByCategory)
	serviceRoutes.Get("/:id", h.Catalog.Get)

	workerRoutes := apiV1.Group("/workers")
	workerRoutes.Get("/nearby", h.Workers.Nearby)
	workerRoutes.Get("/:id", h.Workers.Get)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return response.Fail(c, fiber.StatusNotFound, response.MsgRouteNotFound)
	})
}

func newLimiter(cfg RouterConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Storage:    cfg.LimiterStorage,
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Expiration,
		KeyGenerator: func(c fiber.Ctx) string {
			return "auth:" + c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, MsgTooManyRequests)
		},
	})
}

// HealthStatus ответ проверки живости.
type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

func health(env string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return response.OK(c, fiber.StatusOK, HealthStatus{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Environment: env,
		}, "Server is running")
	}
}
