// Package pets содержит HTTP обработчики питомцев.
package pets

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
	MsgPetsRetrieved    = "Pets retrieved successfully"
	MsgPetRetrieved     = "Pet retrieved successfully"
	MsgPetCreated       = "Pet created successfully"
	MsgPetUpdated       = "Pet updated successfully"
	MsgPetDeleted       = "Pet deleted successfully"
	MsgCoOwnerAdded     = "Co-owner added successfully"
	MsgCoOwnerRemoved   = "Co-owner removed successfully"
	MsgPhotoAdded       = "Photo upload prepared successfully"
	MsgPhotoDeleted     = "Photo deleted successfully"
	MsgVaccinationAdded = "Vaccination added successfully"
	MsgMedicalUpdated   = "Medical info updated successfully"
)

// Handler содержит HTTP обработчики питомцев. Все маршруты требуют аутентификации.
type Handler struct {
	pets api.PetUseCase
}

// NewHandler создает обработчик питомцев.
func NewHandler(pets api.PetUseCase) *Handler {
	return &Handler{pets: pets}
}

// PetEnvelope питомец под ключом pet.
type PetEnvelope struct {
	Pet dto.PetResponse `json:"pet"`
}

// PetsEnvelope список питомцев.
type PetsEnvelope struct {
	Pets  []dto.PetResponse `json:"pets"`
	Count int               `json:"count"`
}

// List питомцы, которыми пользователь владеет или совладеет.
func (h *Handler) List(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	items, err := h.pets.List(c.Context(), identity)
	if err != nil {
		return err
	}
	return response.OK(c, fiber.StatusOK, PetsEnvelope{Pets: dto.NewPetResponses(items), Count: len(items)}, MsgPetsRetrieved)
}

// Get питомец по идентификатору.
func (h *Handler) Get(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.Get(c.Context(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgPetRetrieved)
}

// Create создает питомца текущего пользователя.
func (h *Handler) Create(c fiber.Ctx) error {
	var req dto.PetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.Create(c.Context(), identity, req.Entity())
	if err != nil {
		return err
	}
	return response.OK(c, fiber.StatusCreated, PetEnvelope{Pet: dto.NewPetResponse(pet)}, MsgPetCreated)
}

// Update меняет данные питомца.
func (h *Handler) Update(c fiber.Ctx) error {
	var req dto.PetPatchRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.Update(c.Context(), identity, c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgPetUpdated)
}

// Delete удаляет питомца.
func (h *Handler) Delete(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	if err := h.pets.Delete(c.Context(), identity, c.Params("id")); err != nil {
		return err
	}
	return response.Message(c, MsgPetDeleted)
}

// AddCoOwner добавляет совладельца по email.
func (h *Handler) AddCoOwner(c fiber.Ctx) error {
	var req dto.CoOwnerRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.AddCoOwner(c.Context(), identity, c.Params("id"), req.Email)
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgCoOwnerAdded)
}

// RemoveCoOwner удаляет совладельца.
func (h *Handler) RemoveCoOwner(c fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.RemoveCoOwner(c.Context(), identity, c.Params("id"), c.Params("coOwnerId"))
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgCoOwnerRemoved)
}

// AddPhoto выдает подписанную ссылку для загрузки фотографии.
func (h *Handler) AddPhoto(c fiber.Ctx) error {
	var req dto.PhotoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	upload, err := h.pets.AddPhoto(c.Context(), identity, c.Params("id"), req.ContentType)
	if err != nil {
		return err
	}
	return response.OK(c, fiber.StatusCreated, dto.PhotoUploadResponse{
		Pet:       dto.NewPetResponse(upload.Pet),
		UploadURL: upload.Upload.UploadURL,
		PhotoURL:  upload.Upload.PublicURL,
		ExpiresAt: upload.Upload.ExpiresAt,
	}, MsgPhotoAdded)
}

// DeletePhoto удаляет фотографию.
func (h *Handler) DeletePhoto(c fiber.Ctx) error {
	var req dto.DeletePhotoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.DeletePhoto(c.Context(), identity, c.Params("id"), req.PhotoURL)
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgPhotoDeleted)
}

// AddVaccination добавляет прививку.
func (h *Handler) AddVaccination(c fiber.Ctx) error {
	var req dto.VaccinationJSON
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.AddVaccination(c.Context(), identity, c.Params("id"), req.Entity())
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgVaccinationAdded)
}

// UpdateMedicalInfo меняет медицинскую карту.
func (h *Handler) UpdateMedicalInfo(c fiber.Ctx) error {
	var req dto.MedicalUpdateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return response.BindError(err)
	}

	identity, _ := middleware.IdentityFrom(c)
	pet, err := h.pets.UpdateMedicalInfo(c.Context(), identity, c.Params("id"), req.Update())
	if err != nil {
		return err
	}
	return pet200(c, pet, MsgMedicalUpdated)
}

func pet200(c fiber.Ctx, pet *entities.Pet, msg string) error {
	return response.OK(c, fiber.StatusOK, PetEnvelope{Pet: dto.NewPetResponse(pet)}, msg)
}
