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

func newHouseholdMock(t *testing.T) (*HouseholdRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewHouseholdRepository(sqlx.NewDb(db, "postgres")), mock
}

var householdColumnNames = []string{
	"id", "created_at",
	"pai_nome", "pai_nasc", "pai_idade", "pai_telefone", "pai_conjugal", "pai_mora", "pai_endereco", "pai_trabalha", "pai_profissao", "pai_renda",
	"mae_nome", "mae_nasc", "mae_idade", "mae_telefone", "mae_conjugal", "mae_mora", "mae_endereco", "mae_trabalha", "mae_profissao", "mae_renda",
	"rua", "numero", "complemento", "bairro", "referencia", "tipo_moradia", "filhos", "observacoes", "foto_casa_url",
}

func addHouseholdRow(rows *sqlmock.Rows, id int64, createdAt time.Time, fatherName, filhosJSON string) {
	rows.AddRow(
		id, createdAt,
		fatherName, nil, nil, "", models.MaritalMarried, true, nil, false, nil, nil,
		"Maria", nil, nil, "", models.MaritalMarried, true, nil, false, nil, nil,
		"Rua A", "10", "", "Centro", "", models.HousingOwned, []byte(filhosJSON), "", "",
	)
}

func TestHouseholdList(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	rows := sqlmock.NewRows(householdColumnNames)
	addHouseholdRow(rows, 2, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), "Carlos", `[]`)
	addHouseholdRow(rows, 1, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), "João", `[{"nome":"Ana","idade":5,"mora":true,"documento":false,"estuda":true,"serie":"1º ano"}]`)

	mock.ExpectQuery(`SELECT (.+) FROM checkin_familia ORDER BY created_at DESC`).WillReturnRows(rows)

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, "João", records[1].FatherName)
	require.Len(t, records[1].Children, 1)
	assert.Equal(t, "Ana", records[1].Children[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseholdListEmpty(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM checkin_familia ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(householdColumnNames))

	records, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHouseholdFindByID(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	rows := sqlmock.NewRows(householdColumnNames)
	addHouseholdRow(rows, 7, time.Date(2026, 4, 5, 9, 0, 0, 0, time.UTC), "Antônio", `[]`)

	mock.ExpectQuery(`SELECT (.+) FROM checkin_familia WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	rec, err := repo.FindByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, "Antônio", rec.FatherName)
}

func TestHouseholdFindByIDNotFound(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM checkin_familia WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	rec, err := repo.FindByID(context.Background(), 99)

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestHouseholdCreateAssignsIDAndTimestamp(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	createdAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO checkin_familia`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), createdAt))

	rec := &models.Household{FatherName: "José", Children: models.ChildList{}}
	err := repo.Create(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.ID)
	assert.Equal(t, createdAt, rec.CreatedAt)
}

func TestHouseholdCreateError(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	mock.ExpectQuery(`INSERT INTO checkin_familia`).WillReturnError(sql.ErrConnDone)

	err := repo.Create(context.Background(), &models.Household{})

	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestHouseholdUpdate(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	mock.ExpectExec(`UPDATE checkin_familia SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &models.Household{ID: 3, FatherName: "Pedro", Children: models.ChildList{}}
	err := repo.Update(context.Background(), rec)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHouseholdDelete(t *testing.T) {
	repo, mock := newHouseholdMock(t)

	mock.ExpectExec(`DELETE FROM checkin_familia WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 3)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
