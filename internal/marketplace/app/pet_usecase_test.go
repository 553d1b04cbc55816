package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authentities "walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/marketplace/app"
	"walkydoggy/internal/marketplace/domain/entities"
	"walkydoggy/internal/marketplace/ports/api"
	svc "walkydoggy/internal/marketplace/ports/services"
)

var errStore = errors.New("store unavailable")

func newPets(f *fixture) api.PetUseCase {
	return app.NewPetUseCase(f.pets, f.accounts, f.photos, app.WithIDGenerator(func() string { return "photo-1" }))
}

func samplePet() *entities.Pet {
	return &entities.Pet{
		ID:       "pet-1",
		Name:     "Rex",
		Species:  entities.SpeciesDog,
		OwnerID:  owner.AccountID,
		CoOwners: []string{coOwner.AccountID},
		Status:   entities.PetActive,
	}
}

func TestPetCreate(t *testing.T) {
	f := newFixture()
	f.pets.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
		return p.ID == "" && p.OwnerID == owner.AccountID && len(p.CoOwners) == 0 && p.Status == entities.PetActive
	})).Return(samplePet(), nil)

	created, err := newPets(f).Create(context.Background(), owner, &entities.Pet{
		ID:       "forged",
		Name:     " Rex ",
		Species:  entities.SpeciesDog,
		OwnerID:  "someone-else",
		CoOwners: []string{"intruder"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pet-1", created.ID)
	f.assertExpectations(t)
}

func TestPetCreate_InvalidSpecies(t *testing.T) {
	f := newFixture()

	_, err := newPets(f).Create(context.Background(), owner, &entities.Pet{Name: "Rex", Species: "dragon"})
	assert.ErrorIs(t, err, entities.ErrInvalidSpecies)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	f.pets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPetGet(t *testing.T) {
	tests := []struct {
		name    string
		id      services.Identity
		repoErr error
		wantErr error
	}{
		{name: "owner", id: owner},
		{name: "co-owner", id: coOwner},
		{name: "admin", id: admin},
		{name: "stranger", id: stranger, wantErr: services.ErrForbidden},
		{name: "missing", id: owner, repoErr: entities.ErrPetNotFound, wantErr: entities.ErrNotFound},
		{name: "store failure", id: owner, repoErr: errStore, wantErr: errStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.repoErr != nil {
				f.pets.On("FindByID", mock.Anything, "pet-1").Return(nil, tt.repoErr)
			} else {
				f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
			}

			pet, err := newPets(f).Get(context.Background(), tt.id, "pet-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, pet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Rex", pet.Name)
		})
	}
}

func TestPetUpdateAndDelete_CoOwnerForbidden(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
	name := "Max"

	_, err := newPets(f).Update(context.Background(), coOwner, "pet-1", entities.PetPatch{Name: &name})
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = newPets(f).Delete(context.Background(), coOwner, "pet-1")
	assert.ErrorIs(t, err, services.ErrForbidden)

	f.pets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.pets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPetUpdate_Owner(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
	f.pets.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
		return p.Name == "Max" && p.OwnerID == owner.AccountID
	})).Return(&entities.Pet{ID: "pet-1", Name: "Max"}, nil)
	name := "Max"

	pet, err := newPets(f).Update(context.Background(), owner, "pet-1", entities.PetPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Max", pet.Name)
	f.assertExpectations(t)
}

func TestPetDelete_Owner(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
	f.pets.On("Delete", mock.Anything, "pet-1").Return(nil)

	require.NoError(t, newPets(f).Delete(context.Background(), owner, "pet-1"))
	f.assertExpectations(t)
}

func TestPetAddVaccination_CoOwnerAllowed(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
	f.pets.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
		return len(p.Medical.Vaccinations) == 1 && p.Medical.Vaccinations[0].Name == "Rabies"
	})).Return(samplePet(), nil)

	_, err := newPets(f).AddVaccination(context.Background(), coOwner, "pet-1", entities.Vaccination{Name: "Rabies"})
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestPetAddVaccination_NameRequired(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)

	_, err := newPets(f).AddVaccination(context.Background(), owner, "pet-1", entities.Vaccination{})
	assert.ErrorIs(t, err, entities.ErrNameRequired)
	f.pets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPetUpdateMedicalInfo_StrangerForbidden(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)

	_, err := newPets(f).UpdateMedicalInfo(context.Background(), stranger, "pet-1", entities.MedicalUpdate{})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPetAddCoOwner(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(f *fixture)
		wantErr    error
	}{
		{
			name: "added",
			setupMocks: func(f *fixture) {
				f.accounts.On("FindByEmail", mock.Anything, "new@example.com").Return(&svc.AccountRef{ID: "acc-new"}, nil)
				f.pets.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
					return p.IsCoOwner("acc-new")
				})).Return(samplePet(), nil)
			},
		},
		{
			name: "unknown email",
			setupMocks: func(f *fixture) {
				f.accounts.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, authentities.ErrAccountNotFound)
			},
			wantErr: authentities.ErrAccountNotFound,
		},
		{
			name: "owner cannot co-own",
			setupMocks: func(f *fixture) {
				f.accounts.On("FindByEmail", mock.Anything, "new@example.com").Return(&svc.AccountRef{ID: owner.AccountID}, nil)
			},
			wantErr: entities.ErrCannotCoOwnSelf,
		},
		{
			name: "already co-owner",
			setupMocks: func(f *fixture) {
				f.accounts.On("FindByEmail", mock.Anything, "new@example.com").Return(&svc.AccountRef{ID: coOwner.AccountID}, nil)
			},
			wantErr: entities.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
			tt.setupMocks(f)

			_, err := newPets(f).AddCoOwner(context.Background(), owner, "pet-1", "new@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.pets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			f.assertExpectations(t)
		})
	}
}

func TestPetAddCoOwner_CoOwnerForbidden(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)

	_, err := newPets(f).AddCoOwner(context.Background(), coOwner, "pet-1", "new@example.com")
	assert.ErrorIs(t, err, services.ErrForbidden)
	f.accounts.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestPetRemoveCoOwner(t *testing.T) {
	f := newFixture()
	f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
	f.pets.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
		return len(p.CoOwners) == 0
	})).Return(samplePet(), nil)

	_, err := newPets(f).RemoveCoOwner(context.Background(), owner, "pet-1", coOwner.AccountID)
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestPetAddPhoto(t *testing.T) {
	upload := &svc.PresignedUpload{
		Key:       "pets/pet-1/photo-1.jpg",
		UploadURL: "https://s3.example.com/put",
		PublicURL: "https://cdn.example.com/pets/pet-1/photo-1.jpg",
	}

	t.Run("co-owner gets presigned url", func(t *testing.T) {
		f := newFixture()
		f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
		f.photos.On("PresignUpload", mock.Anything, "pets/pet-1/photo-1.jpg", "image/jpeg").Return(upload, nil)
		saved := samplePet()
		saved.Photos = []string{upload.PublicURL}
		f.pets.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
			return len(p.Photos) == 1 && p.Photos[0] == upload.PublicURL
		})).Return(saved, nil)

		res, err := newPets(f).AddPhoto(context.Background(), coOwner, "pet-1", "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, upload.UploadURL, res.Upload.UploadURL)
		assert.Equal(t, []string{upload.PublicURL}, res.Pet.Photos)
		f.assertExpectations(t)
	})

	t.Run("unsupported type", func(t *testing.T) {
		f := newFixture()

		_, err := newPets(f).AddPhoto(context.Background(), owner, "pet-1", "application/pdf")
		assert.ErrorIs(t, err, entities.ErrUnsupportedPhoto)
		f.pets.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("storage failure leaves pet unchanged", func(t *testing.T) {
		f := newFixture()
		f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)
		f.photos.On("PresignUpload", mock.Anything, mock.Anything, "image/png").Return(nil, errStore)

		_, err := newPets(f).AddPhoto(context.Background(), owner, "pet-1", "image/png")
		assert.ErrorIs(t, err, errStore)
		f.pets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestPetDeletePhoto(t *testing.T) {
	const url = "https://cdn.example.com/pets/pet-1/a.jpg"

	t.Run("owner removes and cleans up", func(t *testing.T) {
		f := newFixture()
		pet := samplePet()
		pet.Photos = []string{url}
		f.pets.On("FindByID", mock.Anything, "pet-1").Return(pet, nil)
		f.pets.On("Update", mock.Anything, mock.MatchedBy(func(p *entities.Pet) bool {
			return len(p.Photos) == 0
		})).Return(samplePet(), nil)
		f.photos.On("Delete", mock.Anything, url).Return(errStore)

		_, err := newPets(f).DeletePhoto(context.Background(), owner, "pet-1", url)
		require.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("co-owner forbidden", func(t *testing.T) {
		f := newFixture()
		f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)

		_, err := newPets(f).DeletePhoto(context.Background(), coOwner, "pet-1", url)
		assert.ErrorIs(t, err, services.ErrForbidden)
	})

	t.Run("unknown url is a no-op", func(t *testing.T) {
		f := newFixture()
		f.pets.On("FindByID", mock.Anything, "pet-1").Return(samplePet(), nil)

		_, err := newPets(f).DeletePhoto(context.Background(), owner, "pet-1", url)
		require.NoError(t, err)
		f.pets.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.photos.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestPetList(t *testing.T) {
	f := newFixture()
	f.pets.On("ListAccessible", mock.Anything, coOwner.AccountID).Return([]*entities.Pet{samplePet()}, nil)

	pets, err := newPets(f).List(context.Background(), coOwner)
	require.NoError(t, err)
	assert.Len(t, pets, 1)
}
