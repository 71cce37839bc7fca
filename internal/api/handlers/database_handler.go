// internal/api/handlers/database_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldsight/survey-api/internal/repository"
)

// DatabaseHandler exposes read-only INFORMATION_SCHEMA introspection.
type DatabaseHandler struct {
	schemaRepo repository.SchemaRepository
}

func NewDatabaseHandler(schemaRepo repository.SchemaRepository) *DatabaseHandler {
	return &DatabaseHandler{schemaRepo: schemaRepo}
}

func (h *DatabaseHandler) GetTables(c *gin.Context) {
	tables, err := h.schemaRepo.ListTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (h *DatabaseHandler) GetColumns(c *gin.Context) {
	table := c.DefaultQuery("table", "users")

	columns, err := h.schemaRepo.ListTableColumns(c.Request.Context(), table)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

func (h *DatabaseHandler) GetStoredProcedures(c *gin.Context) {
	procedures, err := h.schemaRepo.ListStoredProcedures(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"procedure": procedures})
}

func (h *DatabaseHandler) GetProcedureDetails(c *gin.Context) {
	name := c.Param("name")

	details, err := h.schemaRepo.GetProcedureDetails(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"procedureDetails": details})
}
