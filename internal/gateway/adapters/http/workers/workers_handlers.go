// Package workers содержит HTTP обработчики исполнителей.
package workers

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
	MsgWorkersRetrieved    = "Workers retrieved successfully"
	MsgWorkerRetrieved     = "Worker retrieved successfully"
	MsgWorkerCreated       = "Worker created successfully"
	MsgWorkerUpdated       = "Worker updated successfully"
	MsgWorkerDeleted       = "Worker deleted successfully"
	MsgWorkerToggled       = "Worker status updated successfully"
	MsgLocationUpdated     = "Worker location updated successfully"
	MsgOnlineUpdated       = "Worker online status updated successfully"
	MsgServicesAssigned    = "Services assigned successfully"
	MsgCertificationAdded  = "Certification added successfully"
	MsgAvailabilityUpdated = "Availability updated successfully"
)

// Handler содержит HTTP обработчики исполнителей.
type Handler struct {
	workers api.WorkerUseCase
}

// NewHandler создает обработчик исполнителей.
func NewHandler(workers api.WorkerUseCase) *Handler {
	return &Handler{workers: workers}
}

// WorkerEnvelope исполнитель под ключом worker.
type WorkerEnvelope struct {
	Worker dto.WorkerResponse `json:"worker"`
}

// WorkersEnvelope список исполнителей.
type WorkersEnvelope struct {
	Workers []dto.WorkerResponse `json:"workers"`
	Count   int                  `json:"count"`
}

// Nearby исполнители в сети рядом с точкой.
func (h *Handler) Nearby(c fiber.Ctx) error {
	var q dto.GeoQuery
	if err := c.Bind().Query(&q); err != nil {
		return response.BindError(err)
	}

	items, err := h.workers.Nearby(c.Context(), q.Point(), q.RadiusOr(entities.DefaultNearbyWorkersKm))
	if err != nil {
		return err
	}
	return list(c, items)
}

// Get исполнитель по идентификатору.
func (h *Handler) Get(c fiber.Ctx) error {
	worker, err := h.workers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgWorkerRetrieved)
}

// List исполнители бизнеса.
func (h *Handler) List(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	items, err := h.workers.List(c.Context(), identity, c.Params("businessId"))
	if err != nil {
		return err
	}
	return list(c, items)
}

// Create добавляет исполнителя бизнесу.
func (h *Handler) Create(c fiber.Ctx) error {
	var req dto.WorkerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.Create(c.Context(), identity, c.Params("businessId"), req.Input())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusCreated, worker, MsgWorkerCreated)
}

// Update меняет профиль исполнителя.
func (h *Handler) Update(c fiber.Ctx) error {
	var req dto.WorkerPatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.Update(c.Context(), identity, c.Params("businessId"), c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgWorkerUpdated)
}

// Delete удаляет исполнителя.
func (h *Handler) Delete(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.workers.Delete(c.Context(), identity, c.Params("businessId"), c.Params("id")); err != nil {
		return err
	}
	return response.Message(c, MsgWorkerDeleted)
}

// Toggle включает или выключает исполнителя.
func (h *Handler) Toggle(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.Toggle(c.Context(), identity, c.Params("businessId"), c.Params("id"))
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgWorkerToggled)
}

// UpdateLocation обновляет текущую точку исполнителя.
func (h *Handler) UpdateLocation(c fiber.Ctx) error {
	var req dto.LocationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.UpdateLocation(c.Context(), identity, c.Params("businessId"), c.Params("id"), req.Point())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgLocationUpdated)
}

// SetOnline переключает статус в сети.
func (h *Handler) SetOnline(c fiber.Ctx) error {
	var req dto.OnlineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.SetOnline(c.Context(), identity, c.Params("businessId"), c.Params("id"), *req.IsOnline)
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgOnlineUpdated)
}

// AssignServices задает услуги исполнителя.
func (h *Handler) AssignServices(c fiber.Ctx) error {
	var req dto.AssignServicesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.AssignServices(c.Context(), identity, c.Params("businessId"), c.Params("id"), req.ServiceIDs)
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgServicesAssigned)
}

// AddCertification добавляет сертификат исполнителю.
func (h *Handler) AddCertification(c fiber.Ctx) error {
	var req dto.CertificationJSON
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.AddCertification(c.Context(), identity, c.Params("businessId"), c.Params("id"), req.Entity())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgCertificationAdded)
}

// UpdateAvailability меняет расписание исполнителя.
func (h *Handler) UpdateAvailability(c fiber.Ctx) error {
	var req dto.AvailabilityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	worker, err := h.workers.UpdateAvailability(c.Context(), identity, c.Params("businessId"), c.Params("id"), req.Update())
	if err != nil {
		return err
	}
	return one(c, fiber.StatusOK, worker, MsgAvailabilityUpdated)
}

func one(c fiber.Ctx, status int, worker *entities.Worker, msg string) error {
	return response.OK(c, status, WorkerEnvelope{Worker: dto.NewWorkerResponse(worker)}, msg)
}

func list(c fiber.Ctx, items []*entities.Worker) error {
	return response.OK(c, fiber.StatusOK, WorkersEnvelope{
		Workers: dto.NewWorkerResponses(items),
		Count:   len(items),
	}, MsgWorkersRetrieved)
}
