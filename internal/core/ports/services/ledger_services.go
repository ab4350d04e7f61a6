package services

import (
	"context"

	"github.com/finometry/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSvc is the read-only balance aggregator. All balances are derived
// from posted lines at query time; nothing is cached or incrementally
// mutated.
type LedgerSvc interface {
	// AccountBalance computes the account's own balance over the query
	// window, signed per the account type's convention.
	AccountBalance(ctx context.Context, accountID string, q domain.BalanceQuery) (decimal.Decimal, error)

	// RollupBalance computes the account's balance plus all descendants',
	// walking the hierarchy iteratively.
	RollupBalance(ctx context.Context, accountID string, q domain.BalanceQuery) (decimal.Decimal, error)

	// BalancesByType returns the net balance of every account of the given
	// types over the query window, restricted to active accounts when
	// activeOnly is set.
	BalancesByType(ctx context.Context, q domain.BalanceQuery, types []domain.AccountType, activeOnly bool) ([]domain.AccountBalance, error)

	// TrialBalanceRows returns every active account's raw debit/credit
	// balance as of the query's To date. The row count is bounded by the
	// configured maximum.
	TrialBalanceRows(ctx context.Context, q domain.BalanceQuery) ([]domain.TrialBalanceRow, error)
}
