package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"walkydoggy/internal/auth/app"
	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
	"walkydoggy/internal/auth/ports/api"
	"walkydoggy/pkg/metrics"
)

var (
	errDatabase = errors.New("database connection error")
	errSMTP     = errors.New("smtp: connection refused")
)

var (
	now        = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	accessExp  = now.Add(15 * time.Minute)
	refreshExp = now.Add(7 * 24 * time.Hour)
)

func newSession(f *fixture, opts ...app.SessionOption) api.SessionUseCase {
	opts = append([]app.SessionOption{
		app.WithClock(func() time.Time { return now }),
		app.WithIDGenerator(func() string { return "acc-1" }),
	}, opts...)
	return app.NewSessionUseCase(f.repo, f.pass, f.tokens, f.secrets, f.notifier, opts...)
}

func activeAccount() *entities.Account {
	return &entities.Account{
		ID:           "acc-1",
		Email:        "a@b.com",
		PasswordHash: "hashed",
		Role:         entities.RolePetOwner,
		Profile:      entities.Profile{FirstName: "A", LastName: "B"},
		RefreshToken: "refresh-current",
		Status:       entities.StatusActive,
		CreatedAt:    now.Add(-48 * time.Hour),
	}
}

func expectPair(f *fixture, accountID, access, refresh string) {
	f.tokens.On("IssueAccessToken", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool { return a.ID == accountID })).
		Return(access, accessExp, nil).Once()
	f.tokens.On("IssueRefreshToken", mock.Anything, accountID).Return(refresh, refreshExp, nil).Once()
}

func TestRegister(t *testing.T) {
	input := services.RegisterInput{
		Email:     " A@B.com ",
		Password:  "secret1",
		FirstName: "A",
		LastName:  "B",
		Role:      entities.RolePetOwner,
	}

	tests := []struct {
		name        string
		input       services.RegisterInput
		setupMocks  func(f *fixture)
		expectedErr error
	}{
		{
			name:  "success",
			input: input,
			setupMocks: func(f *fixture) {
				f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, entities.ErrAccountNotFound)
				f.pass.On("Hash", mock.Anything, "secret1").Return("hashed", nil)
				f.secrets.On("Generate").Return("raw-code", nil)
				f.secrets.On("Hash", "raw-code").Return("code-hash")
				f.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool {
					return a.ID == "acc-1" &&
						a.Email == "a@b.com" &&
						a.PasswordHash == "hashed" &&
						a.VerificationTokenHash == "code-hash" &&
						a.VerificationExpiresAt != nil &&
						a.VerificationExpiresAt.Equal(now.Add(24*time.Hour)) &&
						a.Status == entities.StatusActive
				})).Return(activeAccount(), nil)
				expectPair(f, "acc-1", "access-1", "refresh-1")
				f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "refresh-1").Return(nil)
				f.notifier.On("SendVerificationEmail", mock.Anything, "a@b.com", "A", "raw-code").Return(nil)
			},
		},
		{
			name:  "email delivery failure does not fail registration",
			input: input,
			setupMocks: func(f *fixture) {
				f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, entities.ErrAccountNotFound)
				f.pass.On("Hash", mock.Anything, "secret1").Return("hashed", nil)
				f.secrets.On("Generate").Return("raw-code", nil)
				f.secrets.On("Hash", "raw-code").Return("code-hash")
				f.repo.On("Create", mock.Anything, mock.Anything).Return(activeAccount(), nil)
				expectPair(f, "acc-1", "access-1", "refresh-1")
				f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "refresh-1").Return(nil)
				f.notifier.On("SendVerificationEmail", mock.Anything, "a@b.com", "A", "raw-code").Return(errSMTP)
			},
		},
		{
			name:  "duplicate email",
			input: input,
			setupMocks: func(f *fixture) {
				f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(activeAccount(), nil)
			},
			expectedErr: services.ErrEmailAlreadyExists,
		},
		{
			name:  "duplicate email detected on insert",
			input: input,
			setupMocks: func(f *fixture) {
				f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, entities.ErrAccountNotFound)
				f.pass.On("Hash", mock.Anything, "secret1").Return("hashed", nil)
				f.secrets.On("Generate").Return("raw-code", nil)
				f.secrets.On("Hash", "raw-code").Return("code-hash")
				f.repo.On("Create", mock.Anything, mock.Anything).Return(nil, services.ErrEmailAlreadyExists)
			},
			expectedErr: services.ErrEmailAlreadyExists,
		},
		{
			name: "admin cannot self register",
			input: services.RegisterInput{
				Email: "a@b.com", Password: "secret1", FirstName: "A", LastName: "B", Role: entities.RoleAdmin,
			},
			setupMocks:  func(*fixture) {},
			expectedErr: entities.ErrInvalidRole,
		},
		{
			name: "short password",
			input: services.RegisterInput{
				Email: "a@b.com", Password: "12345", FirstName: "A", LastName: "B",
			},
			setupMocks:  func(*fixture) {},
			expectedErr: services.ErrInvalidPassword,
		},
		{
			name: "malformed email",
			input: services.RegisterInput{
				Email: "not-an-email", Password: "secret1", FirstName: "A", LastName: "B",
			},
			setupMocks:  func(*fixture) {},
			expectedErr: entities.ErrInvalidEmail,
		},
		{
			name:  "token issuance failure",
			input: input,
			setupMocks: func(f *fixture) {
				f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, entities.ErrAccountNotFound)
				f.pass.On("Hash", mock.Anything, "secret1").Return("hashed", nil)
				f.secrets.On("Generate").Return("raw-code", nil)
				f.secrets.On("Hash", "raw-code").Return("code-hash")
				f.repo.On("Create", mock.Anything, mock.Anything).Return(activeAccount(), nil)
				f.tokens.On("IssueAccessToken", mock.Anything, mock.Anything).Return("", time.Time{}, errors.New("signing failed"))
			},
			expectedErr: services.ErrTokenGenerationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			res, err := newSession(f).Register(context.Background(), tt.input)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, res)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "acc-1", res.Account.ID)
				assert.Equal(t, "access-1", res.Tokens.AccessToken)
				assert.Equal(t, "refresh-1", res.Tokens.RefreshToken)
				assert.Equal(t, accessExp, res.Tokens.AccessExpiresAt)
			}
			f.assertExpectations(t)
		})
	}
}

func TestRegister_DefaultsRoleToPetOwner(t *testing.T) {
	f := newFixture()
	f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, entities.ErrAccountNotFound)
	f.pass.On("Hash", mock.Anything, "secret1").Return("hashed", nil)
	f.secrets.On("Generate").Return("raw-code", nil)
	f.secrets.On("Hash", "raw-code").Return("code-hash")
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Account) bool {
		return a.Role == entities.RolePetOwner
	})).Return(activeAccount(), nil)
	expectPair(f, "acc-1", "access-1", "refresh-1")
	f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "refresh-1").Return(nil)
	f.notifier.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := newSession(f).Register(context.Background(), services.RegisterInput{
		Email: "a@b.com", Password: "secret1", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	f.assertExpectations(t)
}

func TestLogin(t *testing.T) {
	t.Run("success stores refresh token and last login", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "secret1", "hashed").Return(true, nil)
		expectPair(f, "acc-1", "access-2", "refresh-2")
		f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "refresh-2").Return(nil)
		f.repo.On("TouchLastLogin", mock.Anything, "acc-1", now).Return(nil)

		res, err := newSession(f).Login(context.Background(), "A@B.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "access-2", res.Tokens.AccessToken)
		require.NotNil(t, res.Account.LastLoginAt)
		assert.Equal(t, now, *res.Account.LastLoginAt)
		f.assertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "ghost@b.com").Return(nil, entities.ErrAccountNotFound)
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "wrong-pass", "hashed").Return(false, nil)
		uc := newSession(f)

		_, errUnknown := uc.Login(context.Background(), "ghost@b.com", "wrong-pass")
		_, errWrong := uc.Login(context.Background(), "a@b.com", "wrong-pass")

		require.ErrorIs(t, errUnknown, services.ErrInvalidCredentials)
		require.ErrorIs(t, errWrong, services.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
		f.assertExpectations(t)
	})

	t.Run("suspended account", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		acc.Status = entities.StatusSuspended
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(acc, nil)
		f.pass.On("Verify", mock.Anything, "secret1", "hashed").Return(true, nil)

		_, err := newSession(f).Login(context.Background(), "a@b.com", "secret1")
		assert.ErrorIs(t, err, services.ErrAccountSuspended)
		f.assertExpectations(t)
	})

	t.Run("suspended account with wrong password reveals nothing", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		acc.Status = entities.StatusDeleted
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(acc, nil)
		f.pass.On("Verify", mock.Anything, "nope-nope", "hashed").Return(false, nil)

		_, err := newSession(f).Login(context.Background(), "a@b.com", "nope-nope")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("store failure is not reported as bad credentials", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(nil, errDatabase)

		_, err := newSession(f).Login(context.Background(), "a@b.com", "secret1")
		require.ErrorIs(t, err, errDatabase)
		assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("last login failure is tolerated", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "secret1", "hashed").Return(true, nil)
		expectPair(f, "acc-1", "access-2", "refresh-2")
		f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "refresh-2").Return(nil)
		f.repo.On("TouchLastLogin", mock.Anything, "acc-1", now).Return(errDatabase)

		res, err := newSession(f).Login(context.Background(), "a@b.com", "secret1")
		require.NoError(t, err)
		assert.Nil(t, res.Account.LastLoginAt)
	})
}

func TestRefreshToken(t *testing.T) {
	claims := &services.RefreshClaims{AccountID: "acc-1", TokenID: "jti-1"}

	tests := []struct {
		name        string
		token       string
		setupMocks  func(f *fixture)
		expectedErr error
	}{
		{
			name:  "rotates current token",
			token: "refresh-current",
			setupMocks: func(f *fixture) {
				f.tokens.On("VerifyRefreshToken", mock.Anything, "refresh-current").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
				expectPair(f, "acc-1", "access-3", "refresh-3")
				f.repo.On("RotateRefreshToken", mock.Anything, "acc-1", "refresh-current", "refresh-3").Return(nil)
			},
		},
		{
			name:  "invalid signature",
			token: "forged",
			setupMocks: func(f *fixture) {
				f.tokens.On("VerifyRefreshToken", mock.Anything, "forged").Return(nil, services.ErrInvalidToken)
			},
			expectedErr: services.ErrInvalidToken,
		},
		{
			name:  "account gone",
			token: "refresh-current",
			setupMocks: func(f *fixture) {
				f.tokens.On("VerifyRefreshToken", mock.Anything, "refresh-current").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(nil, entities.ErrAccountNotFound)
			},
			expectedErr: entities.ErrAccountNotFound,
		},
		{
			name:  "superseded token is a replay",
			token: "refresh-old",
			setupMocks: func(f *fixture) {
				f.tokens.On("VerifyRefreshToken", mock.Anything, "refresh-old").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
			},
			expectedErr: services.ErrTokenMismatch,
		},
		{
			name:  "token after logout",
			token: "refresh-current",
			setupMocks: func(f *fixture) {
				acc := activeAccount()
				acc.RefreshToken = ""
				f.tokens.On("VerifyRefreshToken", mock.Anything, "refresh-current").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)
			},
			expectedErr: services.ErrTokenMismatch,
		},
		{
			name:  "concurrent rotation wins first",
			token: "refresh-current",
			setupMocks: func(f *fixture) {
				f.tokens.On("VerifyRefreshToken", mock.Anything, "refresh-current").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
				expectPair(f, "acc-1", "access-3", "refresh-3")
				f.repo.On("RotateRefreshToken", mock.Anything, "acc-1", "refresh-current", "refresh-3").
					Return(services.ErrTokenMismatch)
			},
			expectedErr: services.ErrTokenMismatch,
		},
		{
			name:  "suspended account",
			token: "refresh-current",
			setupMocks: func(f *fixture) {
				acc := activeAccount()
				acc.Status = entities.StatusSuspended
				f.tokens.On("VerifyRefreshToken", mock.Anything, "refresh-current").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)
			},
			expectedErr: services.ErrAccountSuspended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setupMocks(f)

			pair, err := newSession(f).RefreshToken(context.Background(), tt.token)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, pair)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "access-3", pair.AccessToken)
				assert.Equal(t, "refresh-3", pair.RefreshToken)
				assert.Equal(t, refreshExp, pair.RefreshExpiresAt)
			}
			f.assertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	t.Run("clears token", func(t *testing.T) {
		f := newFixture()
		f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "").Return(nil)
		assert.NoError(t, newSession(f).Logout(context.Background(), "acc-1"))
		f.assertExpectations(t)
	})

	t.Run("idempotent for missing account", func(t *testing.T) {
		f := newFixture()
		f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "").Return(entities.ErrAccountNotFound)
		assert.NoError(t, newSession(f).Logout(context.Background(), "acc-1"))
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "").Return(errDatabase)
		assert.ErrorIs(t, newSession(f).Logout(context.Background(), "acc-1"), errDatabase)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("existing account gets a one hour code", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(activeAccount(), nil)
		f.secrets.On("Generate").Return("reset-code", nil)
		f.secrets.On("Hash", "reset-code").Return("reset-hash")
		f.repo.On("SetResetToken", mock.Anything, "acc-1", "reset-hash", now.Add(time.Hour)).Return(nil)
		f.notifier.On("SendPasswordResetEmail", mock.Anything, "a@b.com", "A", "reset-code").Return(nil)

		assert.NoError(t, newSession(f).ForgotPassword(context.Background(), "a@b.com"))
		f.assertExpectations(t)
	})

	t.Run("unknown email returns the same result", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "ghost@b.com").Return(nil, entities.ErrAccountNotFound)

		assert.NoError(t, newSession(f).ForgotPassword(context.Background(), "ghost@b.com"))
		f.assertExpectations(t)
	})

	t.Run("inactive account gets no email", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		acc.Status = entities.StatusSuspended
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(acc, nil)

		assert.NoError(t, newSession(f).ForgotPassword(context.Background(), "a@b.com"))
		f.assertExpectations(t)
	})

	t.Run("email failure is swallowed", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByEmail", mock.Anything, "a@b.com").Return(activeAccount(), nil)
		f.secrets.On("Generate").Return("reset-code", nil)
		f.secrets.On("Hash", "reset-code").Return("reset-hash")
		f.repo.On("SetResetToken", mock.Anything, "acc-1", "reset-hash", mock.Anything).Return(nil)
		f.notifier.On("SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errSMTP)

		assert.NoError(t, newSession(f).ForgotPassword(context.Background(), "a@b.com"))
	})
}

func TestResetPassword(t *testing.T) {
	future := now.Add(30 * time.Minute)
	past := now.Add(-time.Second)

	withReset := func(expires time.Time) *entities.Account {
		acc := activeAccount()
		acc.ResetTokenHash = "reset-hash"
		acc.ResetExpiresAt = &expires
		return acc
	}

	t.Run("success clears session", func(t *testing.T) {
		f := newFixture()
		f.secrets.On("Hash", "reset-code").Return("reset-hash")
		f.repo.On("FindByResetHash", mock.Anything, "reset-hash", now).Return(withReset(future), nil)
		f.pass.On("Hash", mock.Anything, "newpass1").Return("new-hash", nil)
		f.repo.On("UpdatePassword", mock.Anything, "acc-1", "new-hash").Return(nil)

		assert.NoError(t, newSession(f).ResetPassword(context.Background(), "reset-code", "newpass1"))
		f.assertExpectations(t)
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newFixture()
		f.secrets.On("Hash", "bogus").Return("bogus-hash")
		f.repo.On("FindByResetHash", mock.Anything, "bogus-hash", now).Return(nil, entities.ErrAccountNotFound)

		err := newSession(f).ResetPassword(context.Background(), "bogus", "newpass1")
		assert.ErrorIs(t, err, services.ErrInvalidOrExpiredToken)
	})

	t.Run("expired code with matching hash", func(t *testing.T) {
		f := newFixture()
		f.secrets.On("Hash", "reset-code").Return("reset-hash")
		f.repo.On("FindByResetHash", mock.Anything, "reset-hash", now).Return(withReset(past), nil)

		err := newSession(f).ResetPassword(context.Background(), "reset-code", "newpass1")
		assert.ErrorIs(t, err, services.ErrInvalidOrExpiredToken)
		f.repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("code expiring exactly now", func(t *testing.T) {
		f := newFixture()
		f.secrets.On("Hash", "reset-code").Return("reset-hash")
		f.repo.On("FindByResetHash", mock.Anything, "reset-hash", now).Return(withReset(now), nil)

		err := newSession(f).ResetPassword(context.Background(), "reset-code", "newpass1")
		assert.ErrorIs(t, err, services.ErrInvalidOrExpiredToken)
	})

	t.Run("short password rejected before lookup", func(t *testing.T) {
		f := newFixture()
		err := newSession(f).ResetPassword(context.Background(), "reset-code", "abc")
		assert.ErrorIs(t, err, services.ErrInvalidPassword)
		f.assertExpectations(t)
	})
}

func TestChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "secret1", "hashed").Return(true, nil)
		f.pass.On("Hash", mock.Anything, "secret2").Return("new-hash", nil)
		f.repo.On("UpdatePassword", mock.Anything, "acc-1", "new-hash").Return(nil)

		assert.NoError(t, newSession(f).ChangePassword(context.Background(), "acc-1", "secret1", "secret2"))
		f.assertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
		f.pass.On("Verify", mock.Anything, "guess12", "hashed").Return(false, nil)

		err := newSession(f).ChangePassword(context.Background(), "acc-1", "guess12", "secret2")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		f.assertExpectations(t)
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		exp := now.Add(time.Hour)
		acc.VerificationTokenHash = "code-hash"
		acc.VerificationExpiresAt = &exp
		f.secrets.On("Hash", "raw-code").Return("code-hash")
		f.repo.On("FindByVerificationHash", mock.Anything, "code-hash", now).Return(acc, nil)
		f.repo.On("MarkEmailVerified", mock.Anything, "acc-1").Return(nil)

		assert.NoError(t, newSession(f).VerifyEmail(context.Background(), "raw-code"))
		f.assertExpectations(t)
	})

	t.Run("consumed or unknown code", func(t *testing.T) {
		f := newFixture()
		f.secrets.On("Hash", "raw-code").Return("code-hash")
		f.repo.On("FindByVerificationHash", mock.Anything, "code-hash", now).Return(nil, entities.ErrAccountNotFound)

		assert.ErrorIs(t, newSession(f).VerifyEmail(context.Background(), "raw-code"), services.ErrInvalidOrExpiredToken)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.secrets.On("Hash", "raw-code").Return("code-hash")
		f.repo.On("FindByVerificationHash", mock.Anything, "code-hash", now).Return(nil, errDatabase)

		err := newSession(f).VerifyEmail(context.Background(), "raw-code")
		assert.ErrorIs(t, err, errDatabase)
		assert.NotErrorIs(t, err, services.ErrInvalidOrExpiredToken)
	})
}

func TestResendVerification(t *testing.T) {
	t.Run("supersedes outstanding code", func(t *testing.T) {
		f := newFixture()
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)
		f.secrets.On("Generate").Return("code-2", nil)
		f.secrets.On("Hash", "code-2").Return("hash-2")
		f.repo.On("SetVerificationToken", mock.Anything, "acc-1", "hash-2", now.Add(24*time.Hour)).Return(nil)
		f.notifier.On("SendVerificationEmail", mock.Anything, "a@b.com", "A", "code-2").Return(nil)

		assert.NoError(t, newSession(f).ResendVerification(context.Background(), "acc-1"))
		f.assertExpectations(t)
	})

	t.Run("already verified", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		acc.IsEmailVerified = true
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)

		err := newSession(f).ResendVerification(context.Background(), "acc-1")
		assert.ErrorIs(t, err, services.ErrEmailAlreadyVerified)
		f.assertExpectations(t)
	})
}

func TestAuthenticate(t *testing.T) {
	claims := &services.AccessClaims{AccountID: "acc-1", Email: "a@b.com", Role: entities.RolePetOwner}

	t.Run("identity reflects stored account", func(t *testing.T) {
		f := newFixture()
		acc := activeAccount()
		acc.Role = entities.RoleBusiness
		acc.BusinessID = "biz-1"
		f.tokens.On("VerifyAccessToken", mock.Anything, "access-1").Return(claims, nil)
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)

		id, err := newSession(f).Authenticate(context.Background(), "access-1")
		require.NoError(t, err)
		assert.Equal(t, services.Identity{AccountID: "acc-1", Email: "a@b.com", Role: entities.RoleBusiness, BusinessID: "biz-1"}, *id)
	})

	failures := []struct {
		name  string
		token string
		setup func(f *fixture)
	}{
		{name: "missing token", token: "", setup: func(*fixture) {}},
		{
			name:  "invalid token",
			token: "expired",
			setup: func(f *fixture) {
				f.tokens.On("VerifyAccessToken", mock.Anything, "expired").Return(nil, services.ErrInvalidToken)
			},
		},
		{
			name:  "account deleted from store",
			token: "access-1",
			setup: func(f *fixture) {
				f.tokens.On("VerifyAccessToken", mock.Anything, "access-1").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(nil, entities.ErrAccountNotFound)
			},
		},
		{
			name:  "suspended account",
			token: "access-1",
			setup: func(f *fixture) {
				acc := activeAccount()
				acc.Status = entities.StatusSuspended
				f.tokens.On("VerifyAccessToken", mock.Anything, "access-1").Return(claims, nil)
				f.repo.On("FindByID", mock.Anything, "acc-1").Return(acc, nil)
			},
		},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			id, err := newSession(f).Authenticate(context.Background(), tt.token)
			assert.Nil(t, id)
			assert.ErrorIs(t, err, services.ErrUnauthenticated)
			f.assertExpectations(t)
		})
	}

	t.Run("store failure is not an auth failure", func(t *testing.T) {
		f := newFixture()
		f.tokens.On("VerifyAccessToken", mock.Anything, "access-1").Return(claims, nil)
		f.repo.On("FindByID", mock.Anything, "acc-1").Return(nil, errDatabase)

		_, err := newSession(f).Authenticate(context.Background(), "access-1")
		assert.ErrorIs(t, err, errDatabase)
		assert.NotErrorIs(t, err, services.ErrUnauthenticated)
	})
}

func TestCurrentAccount(t *testing.T) {
	f := newFixture()
	f.repo.On("FindByID", mock.Anything, "acc-1").Return(activeAccount(), nil)

	profile, err := newSession(f).CurrentAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", profile.ID)
	assert.Equal(t, "a@b.com", profile.Email)
}

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := newFixture()
	f.repo.On("FindByEmail", mock.Anything, "ghost@b.com").Return(nil, entities.ErrAccountNotFound)
	f.repo.On("SetRefreshToken", mock.Anything, "acc-1", "").Return(nil)
	uc := newSession(f, app.WithMetrics(metrics.New(reg)))

	_, _ = uc.Login(context.Background(), "ghost@b.com", "secret1")
	_ = uc.Logout(context.Background(), "acc-1")

	expected := `
# HELP walkydoggy_auth_events_total Session protocol events by outcome.
# TYPE walkydoggy_auth_events_total counter
walkydoggy_auth_events_total{event="login",outcome="failure"} 1
walkydoggy_auth_events_total{event="logout",outcome="success"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "walkydoggy_auth_events_total"))
}
