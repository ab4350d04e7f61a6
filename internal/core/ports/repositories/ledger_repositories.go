package repositories

import (
	"context"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// LedgerRepository defines read-only aggregation over posted journal lines.
// Balances are always derived from the lines at query time; nothing here
// mutates state.
type LedgerRepository interface {
	// AccountActivity returns the raw debit/credit totals for one account
	// over the query window. Only lines of POSTED entries whose currency
	// matches the query contribute.
	AccountActivity(ctx context.Context, accountID string, q domain.BalanceQuery) (*domain.AccountActivity, error)

	// ActivityByAccount returns raw debit/credit totals grouped by account,
	// optionally restricted to a set of account types and to active
	// accounts. A positive limit bounds the number of rows returned.
	ActivityByAccount(ctx context.Context, q domain.BalanceQuery, types []domain.AccountType, activeOnly bool, limit int) ([]domain.AccountActivity, error)
}
