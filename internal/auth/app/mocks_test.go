package app_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) account(args mock.Arguments) (*entities.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccountRepository) Create(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	return m.account(m.Called(ctx, account))
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id string) (*entities.Account, error) {
	return m.account(m.Called(ctx, id))
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string) (*entities.Account, error) {
	return m.account(m.Called(ctx, email))
}

func (m *mockAccountRepository) FindByVerificationHash(ctx context.Context, hash string, now time.Time) (*entities.Account, error) {
	return m.account(m.Called(ctx, hash, now))
}

func (m *mockAccountRepository) FindByResetHash(ctx context.Context, hash string, now time.Time) (*entities.Account, error) {
	return m.account(m.Called(ctx, hash, now))
}

func (m *mockAccountRepository) Update(ctx context.Context, account *entities.Account) (*entities.Account, error) {
	return m.account(m.Called(ctx, account))
}

func (m *mockAccountRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	return m.Called(ctx, id, token).Error(0)
}

func (m *mockAccountRepository) RotateRefreshToken(ctx context.Context, id, expected, next string) error {
	return m.Called(ctx, id, expected, next).Error(0)
}

func (m *mockAccountRepository) SetVerificationToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return m.Called(ctx, id, hash, expiresAt).Error(0)
}

func (m *mockAccountRepository) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return m.Called(ctx, id, hash, expiresAt).Error(0)
}

func (m *mockAccountRepository) MarkEmailVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockAccountRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockAccountRepository) SetBusinessID(ctx context.Context, id, businessID string) error {
	return m.Called(ctx, id, businessID).Error(0)
}

func (m *mockAccountRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) IssueAccessToken(ctx context.Context, account *entities.Account) (string, time.Time, error) {
	args := m.Called(ctx, account)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) IssueRefreshToken(ctx context.Context, accountID string) (string, time.Time, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) VerifyAccessToken(ctx context.Context, token string) (*services.AccessClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AccessClaims), args.Error(1)
}

func (m *mockTokenService) VerifyRefreshToken(ctx context.Context, token string) (*services.RefreshClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RefreshClaims), args.Error(1)
}

type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) Hash(secret string) string {
	return m.Called(secret).String(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendVerificationEmail(ctx context.Context, to, name, secret string) error {
	return m.Called(ctx, to, name, secret).Error(0)
}

func (m *mockNotifier) SendPasswordResetEmail(ctx context.Context, to, name, secret string) error {
	return m.Called(ctx, to, name, secret).Error(0)
}

type fixture struct {
	repo     *mockAccountRepository
	pass     *mockPasswordService
	tokens   *mockTokenService
	secrets  *mockSecretService
	notifier *mockNotifier
}

func newFixture() *fixture {
	return &fixture{
		repo:     new(mockAccountRepository),
		pass:     new(mockPasswordService),
		tokens:   new(mockTokenService),
		secrets:  new(mockSecretService),
		notifier: new(mockNotifier),
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.repo.AssertExpectations(t)
	f.pass.AssertExpectations(t)
	f.tokens.AssertExpectations(t)
	f.secrets.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}
