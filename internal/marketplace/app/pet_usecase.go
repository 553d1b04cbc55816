package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/domain/policy"
	"walkydoggy/internal/marketplace/ports/api"
	"walkydoggy/internal/marketplace/ports/repositories"
	svc "walkydoggy/internal/marketplace/ports/services"
	"walkydoggy/pkg/logger"
)

const (
	methodListPets          = "ListPets"
	methodGetPet            = "GetPet"
	methodCreatePet         = "CreatePet"
	methodUpdatePet         = "UpdatePet"
	methodDeletePet         = "DeletePet"
	methodAddCoOwner        = "AddCoOwner"
	methodRemoveCoOwner     = "RemoveCoOwner"
	methodAddPetPhoto       = "AddPetPhoto"
	methodDeletePetPhoto    = "DeletePetPhoto"
	methodAddVaccination    = "AddVaccination"
	methodUpdateMedicalInfo = "UpdateMedicalInfo"

	msgPetCreated       = "pet created"
	msgPetUpdated       = "pet updated"
	msgPetDeleted       = "pet deleted"
	msgPetDenied        = "pet access denied"
	msgPetMissing       = "pet not found"
	msgCoOwnerMissing   = "co-owner account not found"
	msgCoOwnerRejected  = "co-owner rejected"
	msgPhotoPresigned   = "pet photo upload presigned"
	msgPhotoCleanupFail = "failed to delete photo object, continuing"
	msgInvalidPet       = "invalid pet data"
	msgErrListPets      = "failed to list pets"
	msgErrLoadPet       = "failed to load pet"
	msgErrSavePet       = "failed to save pet"
	msgErrDeletePet     = "failed to delete pet"
	msgErrLookupCoOwner = "failed to look up co-owner"
	msgErrPresignPhoto  = "failed to presign photo upload"

	errCtxListingPets     = "listing pets"
	errCtxLoadingPet      = "loading pet"
	errCtxCheckingPet     = "checking pet access"
	errCtxValidatingPet   = "validating pet"
	errCtxSavingPet       = "saving pet"
	errCtxDeletingPet     = "deleting pet"
	errCtxFindingCoOwner  = "finding co-owner"
	errCtxAddingCoOwner   = "adding co-owner"
	errCtxPresigningPhoto = "presigning photo upload"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PetUseCaseImpl реализует api.PetUseCase.
type PetUseCaseImpl struct {
	pets     repositories.PetRepository
	accounts svc.AccountDirectory
	photos   svc.PhotoStorage
	opts     options
}

// NewPetUseCase создает сценарии питомцев.
func NewPetUseCase(pets repositories.PetRepository, accounts svc.AccountDirectory, photos svc.PhotoStorage, opts ...Option) api.PetUseCase {
	return &PetUseCaseImpl{
		pets:     pets,
		accounts: accounts,
		photos:   photos,
		opts:     newOptions(opts),
	}
}

// List питомцы личности, включая совместные.
func (u *PetUseCaseImpl) List(ctx context.Context, id services.Identity) ([]*entities.Pet, error) {
	log := logger.Log(ctx).With(zap.String("method", methodListPets), zap.String("account_id", id.AccountID))

	pets, err := u.pets.ListAccessible(ctx, id.AccountID)
	if err != nil {
		return nil, fail(ctx, log, msgErrListPets, errCtxListingPets, err)
	}
	return pets, nil
}

// Get питомец, если личность владеет или совладеет им.
func (u *PetUseCaseImpl) Get(ctx context.Context, id services.Identity, petID string) (*entities.Pet, error) {
	return u.load(ctx, methodGetPet, id, petID, policy.CanViewPet)
}

// Create регистрирует питомца за личностью.
func (u *PetUseCaseImpl) Create(ctx context.Context, id services.Identity, pet *entities.Pet) (*entities.Pet, error) {
	log := logger.Log(ctx).With(zap.String("method", methodCreatePet), zap.String("account_id", id.AccountID))

	pet.ID = ""
	pet.OwnerID = id.AccountID
	pet.CoOwners = nil
	if err := pet.Validate(); err != nil {
		log.Debug(ctx, msgInvalidPet, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPet, err)
	}

	created, err := u.pets.Create(ctx, pet)
	if err != nil {
		return nil, fail(ctx, log, msgErrSavePet, errCtxSavingPet, err)
	}

	log.Info(ctx, msgPetCreated, zap.String("pet_id", created.ID))
	return created, nil
}

// Update меняет данные питомца, только владелец.
func (u *PetUseCaseImpl) Update(ctx context.Context, id services.Identity, petID string, patch entities.PetPatch) (*entities.Pet, error) {
	return u.modify(ctx, methodUpdatePet, id, petID, policy.CanManagePet, func(p *entities.Pet) error {
		p.Apply(patch)
		return p.Validate()
	})
}

// Delete удаляет питомца, только владелец.
func (u *PetUseCaseImpl) Delete(ctx context.Context, id services.Identity, petID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeletePet), zap.String("pet_id", petID))

	pet, err := u.load(ctx, methodDeletePet, id, petID, policy.CanManagePet)
	if err != nil {
		return err
	}
	if err := u.pets.Delete(ctx, pet.ID); err != nil {
		return fail(ctx, log, msgErrDeletePet, errCtxDeletingPet, err)
	}

	log.Info(ctx, msgPetDeleted)
	return nil
}

// AddCoOwner добавляет совладельца по email, только владелец.
func (u *PetUseCaseImpl) AddCoOwner(ctx context.Context, id services.Identity, petID, email string) (*entities.Pet, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAddCoOwner), zap.String("pet_id", petID))

	pet, err := u.load(ctx, methodAddCoOwner, id, petID, policy.CanManagePet)
	if err != nil {
		return nil, err
	}

	target, err := u.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authentities.ErrAccountNotFound) {
			log.Debug(ctx, msgCoOwnerMissing)
			return nil, fmt.Errorf("%s: %w", errCtxFindingCoOwner, err)
		}
		return nil, fail(ctx, log, msgErrLookupCoOwner, errCtxFindingCoOwner, err)
	}

	if err := pet.AddCoOwner(target.ID); err != nil {
		log.Debug(ctx, msgCoOwnerRejected, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxAddingCoOwner, err)
	}

	return u.save(ctx, log, pet)
}

// RemoveCoOwner убирает совладельца, только владелец.
func (u *PetUseCaseImpl) RemoveCoOwner(ctx context.Context, id services.Identity, petID, coOwnerID string) (*entities.Pet, error) {
	return u.modify(ctx, methodRemoveCoOwner, id, petID, policy.CanManagePet, func(p *entities.Pet) error {
		p.RemoveCoOwner(coOwnerID)
		return nil
	})
}

// AddPhoto резервирует ссылку на новое фото и выдает подписанную ссылку для загрузки.
func (u *PetUseCaseImpl) AddPhoto(ctx context.Context, id services.Identity, petID, contentType string) (*api.PhotoUpload, error) {
	log := logger.Log(ctx).With(zap.String("method", methodAddPetPhoto), zap.String("pet_id", petID))

	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%s: %w", errCtxPresigningPhoto, entities.ErrUnsupportedPhoto)
	}

	pet, err := u.load(ctx, methodAddPetPhoto, id, petID, policy.CanContributeToPet)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("pets/%s/%s%s", pet.ID, u.opts.newID(), ext)
	upload, err := u.photos.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fail(ctx, log, msgErrPresignPhoto, errCtxPresigningPhoto, err)
	}

	pet.Photos = append(pet.Photos, upload.PublicURL)
	saved, err := u.save(ctx, log, pet)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, msgPhotoPresigned, zap.String("key", upload.Key))
	return &api.PhotoUpload{Pet: saved, Upload: upload}, nil
}

// DeletePhoto убирает фото из профиля и удаляет объект, только владелец.
func (u *PetUseCaseImpl) DeletePhoto(ctx context.Context, id services.Identity, petID, photoURL string) (*entities.Pet, error) {
	log := logger.Log(ctx).With(zap.String("method", methodDeletePetPhoto), zap.String("pet_id", petID))

	pet, err := u.load(ctx, methodDeletePetPhoto, id, petID, policy.CanManagePet)
	if err != nil {
		return nil, err
	}
	if !pet.RemovePhoto(photoURL) {
		return pet, nil
	}

	saved, err := u.save(ctx, log, pet)
	if err != nil {
		return nil, err
	}

	if err := u.photos.Delete(ctx, photoURL); err != nil {
		log.Warn(ctx, msgPhotoCleanupFail, zap.Error(err))
	}
	return saved, nil
}

// AddVaccination добавляет прививку, владелец или совладелец.
func (u *PetUseCaseImpl) AddVaccination(ctx context.Context, id services.Identity, petID string, v entities.Vaccination) (*entities.Pet, error) {
	return u.modify(ctx, methodAddVaccination, id, petID, policy.CanContributeToPet, func(p *entities.Pet) error {
		if v.Name == "" {
			return entities.ErrNameRequired
		}
		p.Medical.Vaccinations = append(p.Medical.Vaccinations, v)
		return nil
	})
}

// UpdateMedicalInfo обновляет медкарту, владелец или совладелец.
func (u *PetUseCaseImpl) UpdateMedicalInfo(ctx context.Context, id services.Identity, petID string, update entities.MedicalUpdate) (*entities.Pet, error) {
	return u.modify(ctx, methodUpdateMedicalInfo, id, petID, policy.CanContributeToPet, func(p *entities.Pet) error {
		p.Medical.Apply(update)
		return nil
	})
}

type petRule func(services.Identity, *entities.Pet) error

func (u *PetUseCaseImpl) load(ctx context.Context, method string, id services.Identity, petID string, rule petRule) (*entities.Pet, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("pet_id", petID))

	pet, err := u.pets.FindByID(ctx, petID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			log.Debug(ctx, msgPetMissing)
			return nil, fmt.Errorf("%s: %w", errCtxLoadingPet, err)
		}
		return nil, fail(ctx, log, msgErrLoadPet, errCtxLoadingPet, err)
	}

	if err := rule(id, pet); err != nil {
		log.Debug(ctx, msgPetDenied, zap.String("account_id", id.AccountID))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingPet, err)
	}
	return pet, nil
}

func (u *PetUseCaseImpl) modify(ctx context.Context, method string, id services.Identity, petID string, rule petRule, apply func(*entities.Pet) error) (*entities.Pet, error) {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("pet_id", petID))

	pet, err := u.load(ctx, method, id, petID, rule)
	if err != nil {
		return nil, err
	}
	if err := apply(pet); err != nil {
		log.Debug(ctx, msgInvalidPet, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPet, err)
	}
	return u.save(ctx, log, pet)
}

func (u *PetUseCaseImpl) save(ctx context.Context, log *logger.Logger, pet *entities.Pet) (*entities.Pet, error) {
	saved, err := u.pets.Update(ctx, pet)
	if err != nil {
		return nil, fail(ctx, log, msgErrSavePet, errCtxSavingPet, err)
	}
	log.Info(ctx, msgPetUpdated)
	return saved, nil
}
