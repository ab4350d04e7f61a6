package handlers

import (
	"net/http"
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler serves derived balances.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvc
}

func newLedgerHandler(ls portssvc.LedgerSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers the balance routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	h := newLedgerHandler(ledgerService)
	rg.GET("/accounts/:id/balance", h.getBalance)
}

// getBalance godoc
// @Summary Get an account balance
// @Description Derives the balance from posted lines at query time; rollup=true includes all descendant accounts
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   currency query string true "Currency code"
// @Param   asOf query string false "Upper bound date, defaults to now"
// @Param   from query string false "Lower bound date, defaults to beginning of history"
// @Param   rollup query bool false "Include descendant accounts"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} handlers.errorResponse "Invalid date parameter"
// @Failure 404 {object} handlers.errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	accountID := c.Param("id")

	currency := c.Query("currency")
	if currency == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Error: "currency query parameter is required"})
		return
	}

	asOf, err := parseTimeParam(c, "asOf", time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	q := domain.BalanceQuery{To: asOf, CurrencyCode: currency}
	fromStr := ""
	if c.Query("from") != "" {
		from, err := parseTimeParam(c, "from", time.Time{})
		if err != nil {
			respondError(c, err)
			return
		}
		q.From = &from
		fromStr = from.Format("2006-01-02")
	}

	rollup := c.Query("rollup") == "true"
	balance := decimal.Zero
	if rollup {
		balance, err = h.ledgerService.RollupBalance(c.Request.Context(), accountID, q)
	} else {
		balance, err = h.ledgerService.AccountBalance(c.Request.Context(), accountID, q)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Currency:  currency,
		From:      fromStr,
		AsOf:      asOf.Format("2006-01-02"),
		Rollup:    rollup,
		Balance:   balance,
	})
}
