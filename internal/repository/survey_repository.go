// internal/repository/survey_repository.go
package repository

import (
	"context"

	"github.com/fieldsight/survey-api/internal/domain"
)

// SurveyRepository executes the fixed pivot stored procedure.
type SurveyRepository interface {
	PivotSurveyData(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, error)
}

// SchemaRepository exposes INFORMATION_SCHEMA introspection used by the
// admin endpoints.
type SchemaRepository interface {
	ListTables(ctx context.Context) ([]string, error)
	ListTableColumns(ctx context.Context, table string) ([]string, error)
	ListStoredProcedures(ctx context.Context) ([]string, error)
	GetProcedureDetails(ctx context.Context, name string) (*domain.ProcedureDetails, error)
}
