// internal/repository/mssql/survey_repository.go
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	gomssql "github.com/microsoft/go-mssqldb"

	"github.com/fieldsight/survey-api/internal/domain"
)

// pivotProcQuery invokes the fixed pivot procedure. Its internal
// pivot/aggregation logic is opaque here; the contract is the 8 named
// parameters and a flat result set.
const pivotProcQuery = `
EXEC [dbo].[PivotSurveyAnswersByQuestion1]
	@OutletNameInput = @OutletNameInput,
	@FromDate = @FromDate,
	@ToDate = @ToDate,
	@Brand = @Brand,
	@Location = @Location,
	@State = @State,
	@defect_type = @defect_type,
	@BatchNumber = @BatchNumber
`

type surveyRepository struct {
	db *DB
}

func NewSurveyRepository(db *DB) *surveyRepository {
	return &surveyRepository{db: db}
}

// PivotSurveyData binds all eight filter fields and executes the pivot
// procedure. Omitted filters still bind, as NULL (dates: empty string), so
// the procedure always sees its full parameter list.
func (r *surveyRepository) PivotSurveyData(ctx context.Context, filter domain.QueryFilter) ([]domain.SurveyRecord, error) {
	var records []domain.SurveyRecord

	err := r.db.WithQuery(ctx, func(ext sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, ext, &records, pivotProcQuery, procArgs(filter)...)
	})
	if err != nil {
		return nil, fmt.Errorf("execute pivot procedure: %w", errors.Join(domain.ErrExecution, err))
	}

	return records, nil
}

// procArgs builds the full 8-parameter list. Text filters bind NULL when
// absent; the date range binds empty strings, which the procedure treats
// as "no constraint".
func procArgs(filter domain.QueryFilter) []any {
	return []any{
		namedParam("OutletNameInput", nullable(filter.OutletName)),
		namedParam("FromDate", filter.FromDate),
		namedParam("ToDate", filter.ToDate),
		namedParam("Brand", nullable(filter.Brand)),
		namedParam("Location", nullable(filter.Location)),
		namedParam("State", nullable(filter.State)),
		namedParam("defect_type", nullable(filter.DefectType)),
		namedParam("BatchNumber", nullable(filter.BatchNumber)),
	}
}

// namedParam picks the wire type from the bound value's runtime kind:
// strings go as NVARCHAR, integers as INT, bools as BIT, times as
// DATETIME; anything else degrades to the NVARCHAR of its string form.
func namedParam(name string, value any) sql.NamedArg {
	switch v := value.(type) {
	case nil:
		return sql.Named(name, nil)
	case string:
		return sql.Named(name, v)
	case int:
		return sql.Named(name, int64(v))
	case int64:
		return sql.Named(name, v)
	case bool:
		return sql.Named(name, v)
	case time.Time:
		return sql.Named(name, gomssql.DateTime1(v))
	default:
		return sql.Named(name, fmt.Sprint(v))
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
