package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/finometry/ledger_backend/internal/core/domain"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// auditHandler serves the audit trail read endpoint.
type auditHandler struct {
	auditService portssvc.AuditSvc
}

func newAuditHandler(as portssvc.AuditSvc) *auditHandler {
	return &auditHandler{auditService: as}
}

// RegisterAuditRoutes registers the audit trail routes.
func RegisterAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvc) {
	h := newAuditHandler(auditService)
	rg.GET("/audit/:entityType/:entityID", h.listAuditRecords)
}

// listAuditRecords godoc
// @Summary List audit records for an entity
// @Description Returns the append-only audit trail for one account or journal entry, newest first
// @Tags audit
// @Produce  json
// @Param   entityType path string true "Entity type" Enums(accounts, entries)
// @Param   entityID path string true "Entity ID"
// @Param   limit query int false "Maximum records to return"
// @Success 200 {array} dto.AuditRecordResponse
// @Failure 400 {object} handlers.errorResponse "Unknown entity type"
// @Security BearerAuth
// @Router /audit/{entityType}/{entityID} [get]
func (h *auditHandler) listAuditRecords(c *gin.Context) {
	var entityType string
	switch strings.ToLower(c.Param("entityType")) {
	case "accounts", "account":
		entityType = domain.AuditEntityAccount
	case "entries", "entry":
		entityType = domain.AuditEntityEntry
	default:
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "entityType must be accounts or entries"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	records, err := h.auditService.ListByEntity(c.Request.Context(), entityType, c.Param("entityID"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAuditRecordResponses(records))
}
