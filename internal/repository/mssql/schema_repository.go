// internal/repository/mssql/schema_repository.go
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fieldsight/survey-api/internal/domain"
)

type schemaRepository struct {
	db *DB
}

func NewSchemaRepository(db *DB) *schemaRepository {
	return &schemaRepository{db: db}
}

func (r *schemaRepository) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'BASE TABLE'
	`

	var tables []string
	err := r.db.WithQuery(ctx, func(ext sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, ext, &tables, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", errors.Join(domain.ErrExecution, err))
	}

	return tables, nil
}

func (r *schemaRepository) ListTableColumns(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @tableName
	`

	var columns []string
	err := r.db.WithQuery(ctx, func(ext sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, ext, &columns, query, sql.Named("tableName", table))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, errors.Join(domain.ErrExecution, err))
	}

	return columns, nil
}

func (r *schemaRepository) ListStoredProcedures(ctx context.Context) ([]string, error) {
	query := `
		SELECT ROUTINE_NAME
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE ROUTINE_TYPE = 'PROCEDURE' AND ROUTINE_CATALOG = 'survey'
	`

	var procedures []string
	err := r.db.WithQuery(ctx, func(ext sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, ext, &procedures, query)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stored procedures: %w", errors.Join(domain.ErrExecution, err))
	}

	return procedures, nil
}

func (r *schemaRepository) GetProcedureDetails(ctx context.Context, name string) (*domain.ProcedureDetails, error) {
	definitionQuery := `
		SELECT OBJECT_DEFINITION(OBJECT_ID(@procedureName)) AS ProcedureDefinition
	`
	parametersQuery := `
		SELECT
			PARAMETER_NAME,
			DATA_TYPE,
			CHARACTER_MAXIMUM_LENGTH,
			NUMERIC_PRECISION,
			NUMERIC_SCALE
		FROM INFORMATION_SCHEMA.PARAMETERS
		WHERE SPECIFIC_NAME = @procedureName
	`

	details := &domain.ProcedureDetails{}
	err := r.db.WithQuery(ctx, func(ext sqlx.ExtContext) error {
		var definition sql.NullString
		err := sqlx.GetContext(ctx, ext, &definition, definitionQuery, sql.Named("procedureName", name))
		if err != nil {
			return fmt.Errorf("fetch definition: %w", err)
		}
		if !definition.Valid || definition.String == "" {
			return fmt.Errorf("procedure %s: %w", name, domain.ErrNotFound)
		}
		details.Definition = definition.String

		if err := sqlx.SelectContext(ctx, ext, &details.Parameters, parametersQuery, sql.Named("procedureName", name)); err != nil {
			return fmt.Errorf("fetch parameters: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get procedure details: %w", errors.Join(domain.ErrExecution, err))
	}

	return details, nil
}
