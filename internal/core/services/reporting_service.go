package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/core/domain"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService composes the three financial statements on top of the
// ledger aggregator. Statements are computed fresh on every call.
type reportingService struct {
	BaseService
	ledgerSvc portssvc.LedgerSvc
}

// NewReportingService creates a new ReportingSvc.
func NewReportingService(ledgerSvc portssvc.LedgerSvc) portssvc.ReportingSvc {
	return &reportingService{ledgerSvc: ledgerSvc}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

func sumBalances(balances []domain.AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Balance)
	}
	return total
}

// TrialBalance lists every active account's balance as of a date with
// verified totals.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time, currency string) (*domain.TrialBalance, error) {
	q := domain.BalanceQuery{To: asOf, CurrencyCode: currency}
	rows, err := s.ledgerSvc.TrialBalanceRows(ctx, q)
	if err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.DebitBalance)
		totalCredit = totalCredit.Add(row.CreditBalance)
	}
	if !accounting.WithinTolerance(totalDebit, totalCredit) {
		// Posting validation should make this unreachable; a mismatch means
		// the stored lines themselves are damaged.
		err := apperrors.NewInternal(
			fmt.Sprintf("trial balance out of balance: debits %s, credits %s", totalDebit.String(), totalCredit.String()), nil)
		s.LogError(ctx, err, "Trial balance totals do not match",
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()))
		return nil, err
	}

	return &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}

// BalanceSheet reports assets, liabilities and equity as of a date.
// Retained earnings, the cumulative net income from the beginning of
// history through asOf, is folded into total equity so the accounting
// equation holds without a period-closing process.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time, currency string) (*domain.BalanceSheet, error) {
	q := domain.BalanceQuery{To: asOf, CurrencyCode: currency}

	assets, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Asset}, true)
	if err != nil {
		return nil, err
	}
	liabilities, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Liability}, true)
	if err != nil {
		return nil, err
	}
	equity, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Equity}, true)
	if err != nil {
		return nil, err
	}

	retained, err := s.retainedEarnings(ctx, q)
	if err != nil {
		return nil, err
	}

	totalAssets := sumBalances(assets)
	totalLiabilities := sumBalances(liabilities)
	totalEquity := sumBalances(equity).Add(retained)

	return &domain.BalanceSheet{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		TotalEquity:      totalEquity,
		RetainedEarnings: retained,
		IsBalanced:       accounting.WithinTolerance(totalAssets, totalLiabilities.Add(totalEquity)),
	}, nil
}

// retainedEarnings is cumulative income minus cumulative expense over the
// query window. For a balance sheet the window runs from the beginning of
// history through asOf.
func (s *reportingService) retainedEarnings(ctx context.Context, q domain.BalanceQuery) (decimal.Decimal, error) {
	income, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Income}, true)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Expense}, true)
	if err != nil {
		return decimal.Zero, err
	}
	return sumBalances(income).Sub(sumBalances(expenses)), nil
}

// IncomeStatement reports revenue and expenses over [from, to].
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time, currency string) (*domain.IncomeStatement, error) {
	if !from.Before(to) {
		return nil, apperrors.NewValidation(apperrors.CodeDateRangeInverted,
			"fromDate must be before toDate")
	}

	q := domain.BalanceQuery{From: &from, To: to, CurrencyCode: currency}

	revenue, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Income}, true)
	if err != nil {
		return nil, err
	}
	expenses, err := s.ledgerSvc.BalancesByType(ctx, q, []domain.AccountType{domain.Expense}, true)
	if err != nil {
		return nil, err
	}

	totalRevenue := sumBalances(revenue)
	totalExpenses := sumBalances(expenses)

	return &domain.IncomeStatement{
		FromDate:      from,
		ToDate:        to,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}, nil
}
