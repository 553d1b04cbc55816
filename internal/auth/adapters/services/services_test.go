package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	adapters "walkydoggy/internal/auth/adapters/services"
	"walkydoggy/internal/auth/domain/entities"
	"walkydoggy/internal/auth/domain/services"
)

//nolint:gosec
const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func testJWTConfig() services.JWTConfig {
	return services.JWTConfig{
		AccessSecret:    []byte(testAccessSecret),
		RefreshSecret:   []byte(testRefreshSecret),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func testAccount() *entities.Account {
	return &entities.Account{
		ID:         "7f1c7d7e-2b1f-4d35-9a43-0a0c1d1e2f30",
		Email:      "a@b.com",
		Role:       entities.RoleBusiness,
		BusinessID: "biz-1",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testJWTConfig())

	before := time.Now()
	token, expiresAt, err := svc.IssueAccessToken(ctx, testAccount())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, before.Add(15*time.Minute), expiresAt, 2*time.Second)

	claims, err := svc.VerifyAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, testAccount().ID, claims.AccountID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, entities.RoleBusiness, claims.Role)
	assert.Equal(t, "biz-1", claims.BusinessID)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testJWTConfig())

	first, expiresAt, err := svc.IssueRefreshToken(ctx, "acc-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 2*time.Second)

	second, _, err := svc.IssueRefreshToken(ctx, "acc-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "tokens issued back to back must differ")

	claims, err := svc.VerifyRefreshToken(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testJWTConfig())

	access, _, err := svc.IssueAccessToken(ctx, testAccount())
	require.NoError(t, err)
	refresh, _, err := svc.IssueRefreshToken(ctx, "acc-1")
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(ctx, access)
	require.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = svc.VerifyAccessToken(ctx, refresh)
	require.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestExpiredTokensAreRejected(t *testing.T) {
	ctx := context.Background()
	past := func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	issuer := adapters.NewJWTWithClock(testJWTConfig(), past)
	verifier := adapters.NewJWT(testJWTConfig())

	access, _, err := issuer.IssueAccessToken(ctx, testAccount())
	require.NoError(t, err)
	refresh, _, err := issuer.IssueRefreshToken(ctx, "acc-1")
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(ctx, access)
	require.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = verifier.VerifyRefreshToken(ctx, refresh)
	require.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestVerifyRejectsForgedTokens(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(testJWTConfig())
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		token  func(t *testing.T) string
		verify func(string) error
	}{
		{
			name: "alg none",
			token: func(t *testing.T) string {
				claims := adapters.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1", ExpiresAt: exp}}
				s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return s
			},
			verify: func(s string) error { _, err := svc.VerifyAccessToken(ctx, s); return err },
		},
		{
			name: "foreign secret",
			token: func(t *testing.T) string {
				claims := adapters.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1", ExpiresAt: exp}}
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
				require.NoError(t, err)
				return s
			},
			verify: func(s string) error { _, err := svc.VerifyAccessToken(ctx, s); return err },
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				claims := adapters.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1"}}
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
				require.NoError(t, err)
				return s
			},
			verify: func(s string) error { _, err := svc.VerifyAccessToken(ctx, s); return err },
		},
		{
			name: "empty subject",
			token: func(t *testing.T) string {
				claims := adapters.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAccessSecret))
				require.NoError(t, err)
				return s
			},
			verify: func(s string) error { _, err := svc.VerifyAccessToken(ctx, s); return err },
		},
		{
			name: "refresh without type",
			token: func(t *testing.T) string {
				claims := adapters.RefreshClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1", ExpiresAt: exp}}
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testRefreshSecret))
				require.NoError(t, err)
				return s
			},
			verify: func(s string) error { _, err := svc.VerifyRefreshToken(ctx, s); return err },
		},
		{
			name:   "garbage",
			token:  func(*testing.T) string { return "not.a.jwt" },
			verify: func(s string) error { _, err := svc.VerifyRefreshToken(ctx, s); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.verify(tt.token(t))
			require.ErrorIs(t, err, services.ErrInvalidToken)
		})
	}
}

func TestIssueWithEmptySecret(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewJWT(services.JWTConfig{AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour})

	_, _, err := svc.IssueAccessToken(ctx, testAccount())
	require.ErrorIs(t, err, services.ErrGeneratingJWTToken)

	_, _, err = svc.IssueRefreshToken(ctx, "acc-1")
	require.ErrorIs(t, err, services.ErrEmptySecret)
}

func TestBcrypt(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewBcrypt(bcrypt.MinCost)

	hash, err := svc.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := svc.Verify(ctx, "secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify(ctx, "", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Hash(ctx, "12345")
	require.ErrorIs(t, err, services.ErrInvalidPassword)

	_, err = svc.Verify(ctx, "secret1", "not-a-bcrypt-hash")
	require.Error(t, err)
}

func TestBcryptCostFallback(t *testing.T) {
	ctx := context.Background()
	svc := adapters.NewBcrypt(1)

	hash, err := svc.Hash(ctx, "secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestSecretService(t *testing.T) {
	svc := adapters.NewSecret()

	first, err := svc.Generate()
	require.NoError(t, err)
	second, err := svc.Generate()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	hash := svc.Hash(first)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, svc.Hash(first))
	assert.NotEqual(t, first, hash)
	assert.Equal(t, "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b", svc.Hash("secret"))
}

func TestServiceFactory(t *testing.T) {
	f := adapters.NewServiceFactory(testJWTConfig(), bcrypt.MinCost)

	assert.NotNil(t, f.PasswordService())
	assert.NotNil(t, f.TokenService())
	assert.NotNil(t, f.SecretService())
}
