package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-do-sol/checkin-api/internal/models"
)

func newUserMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "postgres")), mock
}

var userColumns = []string{"id", "email", "password_hash", "full_name", "role", "active", "last_login", "created_at", "updated_at"}

func TestUserFindByEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("admin@terradosol.org").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "admin@terradosol.org", "hash", "Admin", string(models.RoleAdmin), true, nil, now, now))

	user, err := repo.FindByEmail(context.Background(), "admin@terradosol.org")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.Active)
}

func TestUserFindByEmailNotFound(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("missing@terradosol.org").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), "missing@terradosol.org")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserUpdateLastLogin(t *testing.T) {
	repo, mock := newUserMock(t)

	ts := time.Now().UTC()
	mock.ExpectExec(`UPDATE users SET last_login = \$2`).
		WithArgs("u-1", ts, ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), "u-1", ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndFindRefreshToken(t *testing.T) {
	repo, mock := newUserMock(t)

	now := time.Now().UTC()
	token := &models.RefreshToken{
		ID: "rt-1", UserID: "u-1", Token: "opaque",
		ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO refresh_tokens`).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.CreateRefreshToken(context.Background(), token))

	mock.ExpectQuery(`SELECT (.+) FROM refresh_tokens WHERE token = \$1`).
		WithArgs("opaque").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at", "revoked", "revoked_at", "ip_address", "user_agent"}).
			AddRow("rt-1", "u-1", "opaque", token.ExpiresAt, now, false, nil, "", ""))

	stored, err := repo.FindRefreshToken(context.Background(), "opaque")

	require.NoError(t, err)
	assert.Equal(t, "rt-1", stored.ID)
	assert.False(t, stored.Revoked)
}

func TestRevokeRefreshToken(t *testing.T) {
	repo, mock := newUserMock(t)

	revokedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = true`).
		WithArgs("rt-1", revokedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RevokeRefreshToken(context.Background(), "rt-1", revokedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
