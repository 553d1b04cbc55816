// Package catalog содержит HTTP обработчики услуг бизнеса.
package catalog

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
	MsgServicesRetrieved = "Services retrieved successfully"
	MsgServiceRetrieved  = "Service retrieved successfully"
	MsgServiceCreated    = "Service created successfully"
	MsgServiceUpdated    = "Service updated successfully"
	MsgServiceDeleted    = "Service deleted successfully"
	MsgServiceToggled    = "Service status updated successfully"
)

// Handler содержит HTTP обработчики каталога.
type Handler struct {
	catalog api.CatalogUseCase
}

// NewHandler создает обработчик каталога.
func NewHandler(catalog api.CatalogUseCase) *Handler {
	return &Handler{catalog: catalog}
}

// ServiceEnvelope услуга под ключом service.
type ServiceEnvelope struct {
	Service dto.ServiceResponse `json:"service"`
}

// ServicesEnvelope список услуг бизнеса.
type ServicesEnvelope struct {
	Services []dto.ServiceResponse `json:"services"`
	Count    int                   `json:"count"`
}

// ListByBusiness услуги бизнеса. Владелец видит и выключенные.
func (h *Handler) ListByBusiness(c fiber.Ctx) error {
	items, err := h.catalog.ListByBusiness(c.Context(), middleware.OptionalIdentityFrom(c), c.Params("businessId"))
	if err != nil {
		return err
	}
	return response.OK(c, fiber.StatusOK, ServicesEnvelope{
		Services: dto.NewServiceResponses(items),
		Count:    len(items),
	}, MsgServicesRetrieved)
}

// Search ищет активные услуги.
func (h *Handler) Search(c fiber.Ctx) error {
	var q dto.ServiceSearchQuery
	if err := c.Bind().Query(&q); err != nil {
		return response.BindError(err)
	}

	page, err := h.catalog.Search(c.Context(), q.Search())
	if err != nil {
		return err
	}
	return servicePage(c, page)
}

// ListByCategory активные услуги категории.
func (h *Handler) ListByCategory(c fiber.Ctx) error {
	var q dto.PageQuery
	if err := c.Bind().Query(&q); err != nil {
		return response.BindError(err)
	}

	page, err := h.catalog.ListByCategory(c.Context(), entities.Category(c.Params("category")), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return servicePage(c, page)
}

// Get услуга по идентификатору.
func (h *Handler) Get(c fiber.Ctx) error {
	service, err := h.catalog.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, service, MsgServiceRetrieved)
}

// Create добавляет услугу бизнесу.
func (h *Handler) Create(c fiber.Ctx) error {
	var req dto.ServiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	service, err := h.catalog.Create(c.Context(), identity, c.Params("businessId"), req.Entity())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusCreated, service, MsgServiceCreated)
}

// Update меняет услугу.
func (h *Handler) Update(c fiber.Ctx) error {
	var req dto.ServicePatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	service, err := h.catalog.Update(c.Context(), identity, c.Params("businessId"), c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, service, MsgServiceUpdated)
}

// Delete удаляет услугу.
func (h *Handler) Delete(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.catalog.Delete(c.Context(), identity, c.Params("businessId"), c.Params("id")); err != nil {
		return err
	}
	return response.Message(c, MsgServiceDeleted)
}

// Toggle включает или выключает услугу.
func (h *Handler) Toggle(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	service, err := h.catalog.Toggle(c.Context(), identity, c.Params("businessId"), c.Params("id"))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, service, MsgServiceToggled)
}

func one(c fiber.Ctx, status int, service *entities.Service, msg string) error {
	return response.OK(c, status, ServiceEnvelope{Service: dto.NewServiceResponse(service)}, msg)
}

func servicePage(c fiber.Ctx, page *api.ServicePage) error {
	return response.OK(c, fiber.StatusOK, dto.ServicePageResponse{
		Services:   dto.NewServiceResponses(page.Items),
		Pagination: dto.NewPageMeta(page.Page),
	}, MsgServicesRetrieved)
}
