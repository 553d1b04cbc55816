package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/domain/policy"
)

var (
	owner    = services.Identity{AccountID: "owner", Role: authentities.RolePetOwner}
	coOwner  = services.Identity{AccountID: "co", Role: authentities.RolePetOwner}
	stranger = services.Identity{AccountID: "stranger", Role: authentities.RolePetOwner}
	admin    = services.Identity{AccountID: "root", Role: authentities.RoleAdmin}
	bizOwner = services.Identity{AccountID: "biz", Role: authentities.RoleBusiness, BusinessID: "b1"}
)

func TestPetPolicies(t *testing.T) {
	pet := &entities.Pet{OwnerID: "owner", CoOwners: []string{"co"}}

	tests := []struct {
		name       string
		identity   services.Identity
		manage     bool
		contribute bool
		view       bool
	}{
		{name: "owner", identity: owner, manage: true, contribute: true, view: true},
		{name: "co-owner", identity: coOwner, manage: false, contribute: true, view: true},
		{name: "stranger", identity: stranger, manage: false, contribute: false, view: false},
		{name: "admin", identity: admin, manage: true, contribute: true, view: true},
		{name: "anonymous", identity: services.Identity{}, manage: false, contribute: false, view: false},
	}

	check := func(t *testing.T, allowed bool, err error) {
		t.Helper()
		if allowed {
			assert.NoError(t, err)
			return
		}
		assert.ErrorIs(t, err, services.ErrForbidden)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, tt.manage, policy.CanManagePet(tt.identity, pet))
			check(t, tt.contribute, policy.CanContributeToPet(tt.identity, pet))
			check(t, tt.view, policy.CanViewPet(tt.identity, pet))
		})
	}
}

func TestBusinessPolicies(t *testing.T) {
	business := &entities.Business{ID: "b1", OwnerID: "biz"}

	assert.NoError(t, policy.CanManageBusiness(bizOwner, business))
	assert.NoError(t, policy.CanManageBusiness(admin, business))
	assert.ErrorIs(t, policy.CanManageBusiness(stranger, business), services.ErrForbidden)

	other := services.Identity{AccountID: "biz2", Role: authentities.RoleBusiness}
	assert.ErrorIs(t, policy.CanManageBusinessResource(other, business), services.ErrForbidden)
	assert.NoError(t, policy.CanManageBusinessResource(bizOwner, business))
}

func TestCanCreateBusiness(t *testing.T) {
	assert.NoError(t, policy.CanCreateBusiness(bizOwner))
	assert.NoError(t, policy.CanCreateBusiness(admin))
	assert.ErrorIs(t, policy.CanCreateBusiness(owner), services.ErrForbidden)
}
