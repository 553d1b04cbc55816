// Package policy решает, что личность может делать с ресурсами маркетплейса.
// Администратор проходит любую проверку. Нарушение возвращает services.ErrForbidden.
package policy

import (
	"fmt"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
)

// Сообщения отказов.
const (
	denyManagePet      = "only the pet owner can do this"
	denyContributePet  = "you do not have permission to modify this pet"
	denyViewPet        = "you do not have permission to access this pet"
	denyManageBusiness = "only the business owner can do this"
	denyCreateBusiness = "only business accounts can create business profiles"
)

func deny(reason string) error {
	return fmt.Errorf("%w: %s", services.ErrForbidden, reason)
}

// CanManagePet изменение, удаление, совладельцы и удаление фото: только владелец.
func CanManagePet(id services.Identity, pet *entities.Pet) error {
	if id.IsAdmin() || pet.IsOwner(id.AccountID) {
		return nil
	}
	return deny(denyManagePet)
}

// CanContributeToPet фото, прививки и медкарта: владелец или совладелец.
func CanContributeToPet(id services.Identity, pet *entities.Pet) error {
	if id.IsAdmin() || pet.HasAccess(id.AccountID) {
		return nil
	}
	return deny(denyContributePet)
}

// CanViewPet просмотр: владелец или совладелец.
func CanViewPet(id services.Identity, pet *entities.Pet) error {
	if id.IsAdmin() || pet.HasAccess(id.AccountID) {
		return nil
	}
	return deny(denyViewPet)
}

// CanCreateBusiness создавать профиль бизнеса может только учетная запись с ролью business.
func CanCreateBusiness(id services.Identity) error {
	if id.HasRole(authentities.RoleBusiness, authentities.RoleAdmin) {
		return nil
	}
	return deny(denyCreateBusiness)
}

// CanManageBusiness изменение профиля бизнеса: только владелец.
func CanManageBusiness(id services.Identity, business *entities.Business) error {
	if id.IsAdmin() || business.IsOwner(id.AccountID) {
		return nil
	}
	return deny(denyManageBusiness)
}

// CanManageBusinessResource услуги и исполнители: только владелец бизнеса, которому они принадлежат.
func CanManageBusinessResource(id services.Identity, owner *entities.Business) error {
	return CanManageBusiness(id, owner)
}
