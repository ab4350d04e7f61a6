package handlers

import (
	"net/http"

	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests for the journal entry lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvc
}

func newJournalHandler(js portssvc.JournalSvc) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers routes related to journal entries.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvc) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
		entries.DELETE("/:id", h.discardDraft)
	}

	rg.GET("/accounts/:id/lines", h.listAccountLines)
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates balance and account state, then persists a DRAFT entry
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry with lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} handlers.errorResponse "Unbalanced entry, malformed line or inactive account"
// @Security BearerAuth
// @Router /entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry with its lines
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} handlers.errorResponse "Entry not found"
// @Security BearerAuth
// @Router /entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Token-paginated list, newest first; reversal entries are hidden unless requested
// @Tags entries
// @Produce  json
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Opaque pagination token"
// @Param   includeReversals query bool false "Include reversal entries"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Atomically transitions a DRAFT entry to POSTED, making its lines visible to the ledger
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} handlers.errorResponse "Entry not found"
// @Failure 409 {object} handlers.errorResponse "Entry is not DRAFT"
// @Security BearerAuth
// @Router /entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Creates and posts a companion entry with debits and credits swapped, marking the original REVERSED
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 201 {object} dto.EntryResponse "The reversing entry"
// @Failure 404 {object} handlers.errorResponse "Entry not found"
// @Failure 409 {object} handlers.errorResponse "Entry already reversed"
// @Failure 422 {object} handlers.errorResponse "Entry is not POSTED"
// @Security BearerAuth
// @Router /entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// discardDraft godoc
// @Summary Discard a draft entry
// @Description Deletes a DRAFT entry and its lines; posted history cannot be deleted
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204 "Discarded"
// @Failure 404 {object} handlers.errorResponse "Entry not found"
// @Failure 422 {object} handlers.errorResponse "Entry is not DRAFT"
// @Security BearerAuth
// @Router /entries/{id} [delete]
func (h *journalHandler) discardDraft(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.journalService.DiscardDraft(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listAccountLines godoc
// @Summary List posted lines for an account
// @Description Token-paginated account statement, newest first
// @Tags entries
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.ListLinesResponse
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/lines [get]
func (h *journalHandler) listAccountLines(c *gin.Context) {
	var params dto.ListLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListLinesByAccount(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
