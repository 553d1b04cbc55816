package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"walkydoggy/internal/auth/app"
	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/auth/ports/api"
)

func newAccounts(f *fixture) api.AccountUseCase {
	return app.NewAccountUseCase(f.repo, f.pass)
}

func TestGetPublicProfile(t *testing.T) {
	t.Run("active account", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)

		p, err := newAccounts(f).GetPublicProfile(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "A", p.Profile.FirstName)
	})

	t.Run("deleted account is hidden", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		acc.Status = entities.StatusDeleted
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)

		_, err := newAccounts(f).GetPublicProfile(context.Background(), "acc-1")
		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
	})
}

func TestUpdateProfile_KeepsBlankFields(t *testing.T) {
	f := newFixture()
	f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool {
		return a.Profile.FirstName == "Alice" && a.Profile.LastName == "B"
	})).Return(activeAccount(), nil)

	_, err := newAccounts(f).UpdateProfile(context.Background(), "acc-1", api.ProfileUpdate{FirstName: " Alice "})
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestUpdatePhone_ResetsVerification(t *testing.T) {
	f := newFixture()
	acc := activeAccount()
	acc.Profile.PhoneNumber = "+15550100"
	acc.IsPhoneVerified = true
	f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)
	updated := activeAccount()
	updated.Profile.PhoneNumber = "+15550199"
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool {
		return a.Profile.PhoneNumber == "+15550199" && !a.IsPhoneVerified
	})).Return(updated, nil)

	p, err := newAccounts(f).UpdatePhone(context.Background(), "acc-1", "+15550199")
	require.NoError(t, err)
	assert.Equal(t, "+15550199", p.Profile.PhoneNumber)
	assert.False(t, p.IsPhoneVerified)
	f.assertExpectations(t)
}

func TestUpdateAvatar(t *testing.T) {
	f := newFixture()
	f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
	f.repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool {
		return a.Profile.Avatar == "https://cdn.example.com/a.png"
	})).Return(activeAccount(), nil)

	_, err := newAccounts(f).UpdateAvatar(context.Background(), "acc-1", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestUpdateAddress(t *testing.T) {
	t.Run("with coordinates", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
		f.repo.On("Update", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool {
			return a.Profile.Address != nil && a.Profile.Address.City == "Portland" &&
				a.Profile.Address.Coordinates.Longitude == -122.67
		})).Return(activeAccount(), nil)

		_, err := newAccounts(f).UpdateAddress(context.Background(), "acc-1", entities.Address{
			City:        "Portland",
			Coordinates: &entities.Coordinates{Longitude: -122.67, Latitude: 45.52},
		})
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)

		_, err := newAccounts(f).UpdateAddress(context.Background(), "acc-1", entities.Address{
			Coordinates: &entities.Coordinates{Longitude: 200, Latitude: 45},
		})
		assert.ErrorIs(t, err, entities.ErrInvalidLocation)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("requires password", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "wrong12", "hashed").Return(false, nil)

		err := newAccounts(f).DeleteAccount(context.Background(), "acc-1", "wrong12")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		f.repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})

	t.Run("soft deletes", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "secret1", "hashed").Return(true, nil)
		f.repo.On("SoftDelete", mock.Anything, "acc-1").Return(nil)

		assert.NoError(t, newAccounts(f).DeleteAccount(context.Background(), "acc-1", "secret1"))
		f.assertExpectations(t)
	})
}
