package mssql

import (
	"database/sql"
	"testing"
	"time"

	gomssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsight/survey-api/internal/domain"
)

var procParamNames = []string{
	"OutletNameInput", "FromDate", "ToDate", "Brand",
	"Location", "State", "defect_type", "BatchNumber",
}

func TestProcArgs_EmptyFilterBindsAllEight(t *testing.T) {
	args := procArgs(domain.QueryFilter{})
	require.Len(t, args, 8, "every parameter position must bind even when omitted")

	for i, arg := range args {
		named, ok := arg.(sql.NamedArg)
		require.True(t, ok, "arg %d must be a named parameter", i)
		assert.Equal(t, procParamNames[i], named.Name)
	}

	// Text filters bind NULL; the date range binds empty strings.
	assert.Nil(t, args[0].(sql.NamedArg).Value)
	assert.Equal(t, "", args[1].(sql.NamedArg).Value)
	assert.Equal(t, "", args[2].(sql.NamedArg).Value)
	assert.Nil(t, args[3].(sql.NamedArg).Value)
	assert.Nil(t, args[4].(sql.NamedArg).Value)
	assert.Nil(t, args[5].(sql.NamedArg).Value)
	assert.Nil(t, args[6].(sql.NamedArg).Value)
	assert.Nil(t, args[7].(sql.NamedArg).Value)
}

func TestProcArgs_PopulatedFilter(t *testing.T) {
	args := procArgs(domain.QueryFilter{
		OutletName:  "Fresh Mart",
		FromDate:    "2025-01-01T00:00:00Z",
		ToDate:      "2025-01-31T00:00:00Z",
		Brand:       "X",
		Location:    "Bengaluru",
		State:       "Karnataka",
		DefectType:  "packaging",
		BatchNumber: "BN4471",
	})
	require.Len(t, args, 8)

	assert.Equal(t, "Fresh Mart", args[0].(sql.NamedArg).Value)
	assert.Equal(t, "2025-01-01T00:00:00Z", args[1].(sql.NamedArg).Value)
	assert.Equal(t, "2025-01-31T00:00:00Z", args[2].(sql.NamedArg).Value)
	assert.Equal(t, "X", args[3].(sql.NamedArg).Value)
	assert.Equal(t, "Bengaluru", args[4].(sql.NamedArg).Value)
	assert.Equal(t, "Karnataka", args[5].(sql.NamedArg).Value)
	assert.Equal(t, "packaging", args[6].(sql.NamedArg).Value)
	assert.Equal(t, "BN4471", args[7].(sql.NamedArg).Value)
}

func TestNamedParam_WireTypeByKind(t *testing.T) {
	assert.Nil(t, namedParam("p", nil).Value)
	assert.Equal(t, "text", namedParam("p", "text").Value)
	assert.Equal(t, int64(42), namedParam("p", 42).Value)
	assert.Equal(t, int64(42), namedParam("p", int64(42)).Value)
	assert.Equal(t, true, namedParam("p", true).Value)

	when := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, gomssql.DateTime1(when), namedParam("p", when).Value)

	// Unknown kinds degrade to their string form.
	assert.Equal(t, "3.14", namedParam("p", 3.14).Value)
}
