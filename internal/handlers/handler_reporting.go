package handlers

import (
	"net/http"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the financial statements.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// RegisterReportingRoutes registers the report routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
	}
}

func requireCurrency(c *gin.Context) (string, bool) {
	currency := c.Query("currency")
	if currency == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "currency query parameter is required"})
		return "", false
	}
	return currency, true
}

// getTrialBalance godoc
// @Summary Trial balance report
// @Description Lists every active account's debit or credit balance as of a date, with verified totals
// @Tags reports
// @Produce  json
// @Param   currency query string true "Currency code"
// @Param   asOf query string false "Report date, defaults to now"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} handlers.errorResponse "Invalid date parameter"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	currency, ok := requireCurrency(c)
	if !ok {
		return
	}
	asOf, err := parseTimeParam(c, "asOf", time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), asOf, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb, currency))
}

// getBalanceSheet godoc
// @Summary Balance sheet report
// @Description Assets, liabilities and equity as of a date; retained earnings are folded into equity
// @Tags reports
// @Produce  json
// @Param   currency query string true "Currency code"
// @Param   asOf query string false "Report date, defaults to now"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} handlers.errorResponse "Invalid date parameter"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	currency, ok := requireCurrency(c)
	if !ok {
		return
	}
	asOf, err := parseTimeParam(c, "asOf", time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	bs, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(bs, currency))
}

// getIncomeStatement godoc
// @Summary Income statement report
// @Description Revenue, expenses and net income over a date range
// @Tags reports
// @Produce  json
// @Param   currency query string true "Currency code"
// @Param   fromDate query string true "Period start"
// @Param   toDate query string true "Period end"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} handlers.errorResponse "Missing or inverted date range"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	currency, ok := requireCurrency(c)
	if !ok {
		return
	}
	if c.Query("fromDate") == "" || c.Query("toDate") == "" {
		respondError(c, apperrors.NewValidation(apperrors.CodeInvalidParameter,
			"fromDate and toDate query parameters are required"))
		return
	}
	from, err := parseTimeParam(c, "fromDate", time.Time{})
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseTimeParam(c, "toDate", time.Time{})
	if err != nil {
		respondError(c, err)
		return
	}

	is, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(is, currency))
}
