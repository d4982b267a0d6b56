package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/terra-do-sol/checkin-api/internal/models"
	"github.com/terra-do-sol/checkin-api/pkg/config"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
)

type fakeUserRepo struct {
	users  map[string]*models.User
	tokens map[string]*models.RefreshToken

	lastLogin     time.Time
	revokedTokens []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[string]*models.User{},
		tokens: map[string]*models.RefreshToken{},
	}
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	f.lastLogin = ts
	return nil
}

func (f *fakeUserRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	f.revokedTokens = append(f.revokedTokens, id)
	return nil
}

func (f *fakeUserRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for _, t := range f.tokens {
		if t.UserID == userID {
			t.Revoked = true
		}
	}
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Expiration:        time.Hour,
		RefreshExpiration: 24 * time.Hour,
		Issuer:            "checkin-api-test",
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, password string, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           "u-1",
		Email:        "admin@terradosol.org",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Role:         models.RoleAdmin,
		Active:       active,
	}
	repo.users[user.ID] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	result, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@terradosol.org",
		Password: "s3cret",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, int64(3600), result.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, result.User.Role)
	assert.False(t, repo.lastLogin.IsZero())

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@terradosol.org",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@terradosol.org",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", false)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "admin@terradosol.org",
		Password: "s3cret",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestLoginValidatesPayload(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTConfig(), nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@terradosol.org", Password: "s3cret",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the original token is now revoked
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRefreshExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", true)
	repo.tokens["stale"] = &models.RefreshToken{
		ID: "rt-stale", UserID: "u-1", Token: "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "stale"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", true)
	svc := NewAuthService(repo, testJWTConfig(), nil, nil)

	login, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "admin@terradosol.org", Password: "s3cret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: login.RefreshToken}))
	assert.True(t, repo.tokens[login.RefreshToken].Revoked)

	// logging out twice is harmless
	require.NoError(t, svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: login.RefreshToken}))
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTConfig(), nil, nil)

	assert.NoError(t, svc.Logout(context.Background(), models.LogoutRequest{RefreshToken: "ghost"}))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTConfig(), nil, nil)

	_, err := svc.ValidateToken("not.a.jwt")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "s3cret", true)
	issuer := NewAuthService(repo, testJWTConfig(), nil, nil)

	login, err := issuer.Login(context.Background(), models.LoginRequest{
		Email: "admin@terradosol.org", Password: "s3cret",
	})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "different"
	verifier := NewAuthService(repo, otherCfg, nil, nil)

	_, err = verifier.ValidateToken(login.AccessToken)
	require.Error(t, err)
}
