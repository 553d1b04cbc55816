package accounts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/marketplace/adapters/accounts"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) account(args mock.Arguments) (*entities.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockStore) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	return m.account(m.Called(ctx, id))
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (*entities.Account, error) {
	return m.account(m.Called(ctx, email))
}

func (m *mockStore) SetBusinessID(ctx context.Context, id, businessID string) error {
	return m.Called(ctx, id, businessID).Error(0)
}

func account(status entities.Status) *entities.Account {
	return &entities.Account{
		ID:     "acc-1",
		Email:  "jane@example.com",
		Role:   entities.RoleBusiness,
		Status: status,
		Profile: entities.Profile{
			FirstName:   "Jane",
			LastName:    "Doe",
			PhoneNumber: "+34600000000",
		},
	}
}

func TestFindByEmail(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(s *mockStore)
		wantErr    error
	}{
		{
			name: "active account",
			setupMocks: func(s *mockStore) {
				s.On("FindByEmail", mock.Anything, "jane@example.com").Return(account(entities.StatusActive), nil)
			},
		},
		{
			name: "suspended account is still visible",
			setupMocks: func(s *mockStore) {
				s.On("FindByEmail", mock.Anything, "jane@example.com").Return(account(entities.StatusSuspended), nil)
			},
		},
		{
			name: "deleted account is hidden",
			setupMocks: func(s *mockStore) {
				s.On("FindByEmail", mock.Anything, "jane@example.com").Return(account(entities.StatusDeleted), nil)
			},
			wantErr: entities.ErrAccountNotFound,
		},
		{
			name: "missing account",
			setupMocks: func(s *mockStore) {
				s.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, entities.ErrAccountNotFound)
			},
			wantErr: entities.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockStore{}
			tt.setupMocks(s)

			ref, err := accounts.NewDirectory(s).FindByEmail(context.Background(), "  Jane@Example.com ")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "acc-1", ref.ID)
			assert.Equal(t, "+34600000000", ref.Phone)
			assert.Equal(t, entities.RoleBusiness, ref.Role)
			s.AssertExpectations(t)
		})
	}
}

func TestFindByID(t *testing.T) {
	s := &mockStore{}
	s.On("FindByID", mock.Anything, "acc-1").Return(account(entities.StatusActive), nil)

	ref, err := accounts.NewDirectory(s).FindByID(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", ref.FirstName)
}

func TestLinkBusiness(t *testing.T) {
	s := &mockStore{}
	s.On("SetBusinessID", mock.Anything, "acc-1", "biz-1").Return(nil).Once()
	s.On("SetBusinessID", mock.Anything, "acc-2", "biz-1").Return(errors.New("db down")).Once()

	d := accounts.NewDirectory(s)
	require.NoError(t, d.LinkBusiness(context.Background(), "acc-1", "biz-1"))
	assert.Error(t, d.LinkBusiness(context.Background(), "acc-2", "biz-1"))
	s.AssertExpectations(t)
}
