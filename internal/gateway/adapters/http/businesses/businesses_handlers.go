// Package businesses содержит HTTP обработчики профилей бизнеса.
package businesses

import (
	"github.com/gofiber/fiber/v3"

	"walkydoggy/internal/gateway/app/dto"
	"walkydoggy/internal/gateway/app/http/middleware"
	"walkydoggy/internal/gateway/app/http/response"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/ports/api"
)

// Сообщения ответов.
const (
	MsgBusinessesRetrieved = "Businesses retrieved successfully"
	MsgBusinessRetrieved   = "Business retrieved successfully"
	MsgBusinessCreated     = "Business created successfully"
	MsgBusinessUpdated     = "Business updated successfully"
	MsgBusinessDeleted     = "Business deleted successfully"
	MsgCertificationAdded  = "Certification added successfully"
	MsgHoursUpdated        = "Operating hours updated successfully"
	MsgPaymentUpdated      = "Payment account updated successfully"
)

// Handler содержит HTTP обработчики бизнеса.
type Handler struct {
	businesses api.BusinessUseCase
}

// NewHandler создает обработчик бизнеса.
func NewHandler(businesses api.BusinessUseCase) *Handler {
	return &Handler{businesses: businesses}
}

// BusinessEnvelope бизнес под ключом business.
type BusinessEnvelope struct {
	Business dto.BusinessResponse `json:"business"`
}

// BusinessesEnvelope список бизнесов.
type BusinessesEnvelope struct {
	Businesses []dto.BusinessResponse `json:"businesses"`
	Count      int                    `json:"count"`
}

// Search ищет бизнесы по тексту, типу и расстоянию.
func (h *Handler) Search(c fiber.Ctx) error {
	var q dto.BusinessSearchQuery
	if err := c.Bind().Query(&q); err != nil {
		return response.BindError(err)
	}

	page, err := h.businesses.Search(c.Context(), q.Search())
	if err != nil {
		return err
	}
	return response.OK(c, fiber.StatusOK, dto.BusinessPageResponse{
		Businesses: dto.NewBusinessResponses(page.Items),
		Pagination: dto.NewPageMeta(page.Page),
	}, MsgBusinessesRetrieved)
}

// Nearby активные бизнесы рядом с точкой.
func (h *Handler) Nearby(c fiber.Ctx) error {
	var q dto.GeoQuery
	if err := c.Bind().Query(&q); err != nil {
		return response.BindError(err)
	}

	items, err := h.businesses.Nearby(c.Context(), q.Point(), q.RadiusOr(entities.DefaultSearchRadiusKm))
	if err != nil {
		return err
	}
	return list(c, items)
}

// Featured избранные бизнесы.
func (h *Handler) Featured(c fiber.Ctx) error {
	var q dto.FeaturedQuery
	if err := c.Bind().Query(&q); err != nil {
		return response.BindError(err)
	}

	items, err := h.businesses.Featured(c.Context(), q.Limit)
	if err != nil {
		return err
	}
	return list(c, items)
}

// Get публичный профиль бизнеса.
func (h *Handler) Get(c fiber.Ctx) error {
	business, err := h.businesses.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, business, MsgBusinessRetrieved)
}

// Mine бизнес текущего пользователя.
func (h *Handler) Mine(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	business, err := h.businesses.Mine(c.Context(), identity)
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, business, MsgBusinessRetrieved)
}

// Create создает бизнес текущего пользователя.
func (h *Handler) Create(c fiber.Ctx) error {
	var req dto.BusinessRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	business, err := h.businesses.Create(c.Context(), identity, req.Entity())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusCreated, business, MsgBusinessCreated)
}

// Update меняет профиль бизнеса.
func (h *Handler) Update(c fiber.Ctx) error {
	var req dto.BusinessPatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	business, err := h.businesses.Update(c.Context(), identity, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, business, MsgBusinessUpdated)
}

// Delete закрывает бизнес.
func (h *Handler) Delete(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.businesses.Delete(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return response.Message(c, MsgBusinessDeleted)
}

// AddCertification добавляет сертификат.
func (h *Handler) AddCertification(c fiber.Ctx) error {
	var req dto.CertificationJSON
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	business, err := h.businesses.AddCertification(c.Context(), identity, c.Params("id"), req.Entity())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, business, MsgCertificationAdded)
}

// UpdateOperatingHours заменяет расписание.
func (h *Handler) UpdateOperatingHours(c fiber.Ctx) error {
	var req dto.OperatingHoursRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	business, err := h.businesses.UpdateOperatingHours(c.Context(), identity, c.Params("id"), dto.Hours(req.OperatingHours))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, business, MsgHoursUpdated)
}

// UpdatePaymentAccount привязывает аккаунт Stripe.
func (h *Handler) UpdatePaymentAccount(c fiber.Ctx) error {
	var req dto.PaymentAccountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	business, err := h.businesses.UpdatePaymentAccount(c.Context(), identity, c.Params("id"),
		req.StripeAccountID, entities.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, business, MsgPaymentUpdated)
}

// Owner resolver владельца бизнеса из параметра пути.
func (h *Handler) Owner(param string) middleware.OwnerResolver {
	return func(c fiber.Ctx) (string, error) {
		return h.businesses.Owner(c.Context(), c.Params(param))
	}
}

func one(c fiber.Ctx, status int, business *entities.Business, msg string) error {
	return response.OK(c, status, BusinessEnvelope{Business: dto.NewBusinessResponse(business)}, msg)
}

func list(c fiber.Ctx, items []*entities.Business) error {
	return response.OK(c, fiber.StatusOK, BusinessesEnvelope{
		Businesses: dto.NewBusinessResponses(items),
		Count:      len(items),
	}, MsgBusinessesRetrieved)
}
