package services

import (
	"context"
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// ReportingSvc builds the three financial statements from aggregated
// balances. All operations are pure reads.
type ReportingSvc interface {
	// TrialBalance lists every active account's balance as of a date with
	// verified totals.
	TrialBalance(ctx context.Context, asOf time.Time, currency string) (*domain.TrialBalance, error)

	// BalanceSheet reports assets, liabilities and equity as of a date,
	// folding retained earnings into equity.
	BalanceSheet(ctx context.Context, asOf time.Time, currency string) (*domain.BalanceSheet, error)

	// IncomeStatement reports revenue and expenses over [from, to]. The
	// range must be strictly ordered; an empty range yields zero totals,
	// not an error.
	IncomeStatement(ctx context.Context, from, to time.Time, currency string) (*domain.IncomeStatement, error)
}
