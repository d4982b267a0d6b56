package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/terra-do-sol/checkin-api/internal/models"
)

const householdColumns = `id, created_at,
        pai_nome, pai_nasc, pai_idade, pai_telefone, pai_conjugal, pai_mora, pai_endereco, pai_trabalha, pai_profissao, pai_renda,
        mae_nome, mae_nasc, mae_idade, mae_telefone, mae_conjugal, mae_mora, mae_endereco, mae_trabalha, mae_profissao, mae_renda,
        rua, numero, complemento, bairro, referencia, tipo_moradia, filhos, observacoes, foto_casa_url`

// HouseholdRepository manages persistence for family check-in records.
type HouseholdRepository struct {
	db *sqlx.DB
}

// NewHouseholdRepository constructs a HouseholdRepository.
func NewHouseholdRepository(db *sqlx.DB) *HouseholdRepository {
	return &HouseholdRepository{db: db}
}

// List returns every record, newest first.
func (r *HouseholdRepository) List(ctx context.Context) ([]models.Household, error) {
	query := fmt.Sprintf(`SELECT %s FROM checkin_familia ORDER BY created_at DESC`, householdColumns)
	var records []models.Household
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	return records, nil
}

// FindByID fetches one record by id.
func (r *HouseholdRepository) FindByID(ctx context.Context, id int64) (*models.Household, error) {
	query := fmt.Sprintf(`SELECT %s FROM checkin_familia WHERE id = $1`, householdColumns)
	var rec models.Household
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find household: %w", err)
	}
	return &rec, nil
}

// Create inserts a new record. The store assigns id and created_at; both are
// written back into rec.
func (r *HouseholdRepository) Create(ctx context.Context, rec *models.Household) error {
	const query = `INSERT INTO checkin_familia (
        pai_nome, pai_nasc, pai_idade, pai_telefone, pai_conjugal, pai_mora, pai_endereco, pai_trabalha, pai_profissao, pai_renda,
        mae_nome, mae_nasc, mae_idade, mae_telefone, mae_conjugal, mae_mora, mae_endereco, mae_trabalha, mae_profissao, mae_renda,
        rua, numero, complemento, bairro, referencia, tipo_moradia, filhos, observacoes, foto_casa_url
    ) VALUES (
        :pai_nome, :pai_nasc, :pai_idade, :pai_telefone, :pai_conjugal, :pai_mora, :pai_endereco, :pai_trabalha, :pai_profissao, :pai_renda,
        :mae_nome, :mae_nasc, :mae_idade, :mae_telefone, :mae_conjugal, :mae_mora, :mae_endereco, :mae_trabalha, :mae_profissao, :mae_renda,
        :rua, :numero, :complemento, :bairro, :referencia, :tipo_moradia, :filhos, :observacoes, :foto_casa_url
    ) RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("create household: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if !rows.Next() {
		return fmt.Errorf("create household: no id returned")
	}
	if err := rows.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("create household: %w", err)
	}
	return nil
}

// Update replaces every mutable field of an existing record. id and
// created_at are immutable and never touched.
func (r *HouseholdRepository) Update(ctx context.Context, rec *models.Household) error {
	const query = `UPDATE checkin_familia SET
        pai_nome = :pai_nome, pai_nasc = :pai_nasc, pai_idade = :pai_idade, pai_telefone = :pai_telefone,
        pai_conjugal = :pai_conjugal, pai_mora = :pai_mora, pai_endereco = :pai_endereco,
        pai_trabalha = :pai_trabalha, pai_profissao = :pai_profissao, pai_renda = :pai_renda,
        mae_nome = :mae_nome, mae_nasc = :mae_nasc, mae_idade = :mae_idade, mae_telefone = :mae_telefone,
        mae_conjugal = :mae_conjugal, mae_mora = :mae_mora, mae_endereco = :mae_endereco,
        mae_trabalha = :mae_trabalha, mae_profissao = :mae_profissao, mae_renda = :mae_renda,
        rua = :rua, numero = :numero, complemento = :complemento, bairro = :bairro, referencia = :referencia,
        tipo_moradia = :tipo_moradia, filhos = :filhos, observacoes = :observacoes, foto_casa_url = :foto_casa_url
    WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("update household: %w", err)
	}
	return nil
}

// Delete removes a record permanently. There is no soft delete.
func (r *HouseholdRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM checkin_familia WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
