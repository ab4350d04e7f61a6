package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finometry/ledger_backend/internal/core/domain"
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ledgerService derives balances from posted journal lines at query time.
// It never stores a balance; the lines are the single source of truth and
// a recomputation after any reversal is automatically consistent.
type ledgerService struct {
	BaseService
	ledgerRepo       portsrepo.LedgerRepository
	accountRepo      portsrepo.AccountRepositoryFacade
	trialBalanceRows int
}

// NewLedgerService creates a new LedgerSvc. trialBalanceRows bounds the
// number of rows a trial balance query may return.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepository,
	accountRepo portsrepo.AccountRepositoryFacade,
	trialBalanceRows int,
) portssvc.LedgerSvc {
	return &ledgerService{
		ledgerRepo:       ledgerRepo,
		accountRepo:      accountRepo,
		trialBalanceRows: trialBalanceRows,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// AccountBalance computes the account's own balance over the query window,
// signed per the account type's convention.
func (s *ledgerService) AccountBalance(ctx context.Context, accountID string, q domain.BalanceQuery) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	activity, err := s.ledgerRepo.AccountActivity(ctx, accountID, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate account activity", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to aggregate activity for account %s: %w", accountID, err)
	}
	return activity.NetBalance(), nil
}

// RollupBalance computes the account's balance plus all descendants'. The
// subtree is collected with an explicit stack; each member contributes its
// own signed balance.
func (s *ledgerService) RollupBalance(ctx context.Context, accountID string, q domain.BalanceQuery) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, true)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list accounts for rollup: %w", err)
	}
	children := make(map[string][]string, len(accounts))
	for _, a := range accounts {
		if a.ParentAccountID != "" {
			children[a.ParentAccountID] = append(children[a.ParentAccountID], a.AccountID)
		}
	}

	subtree := make(map[string]struct{})
	stack := []string{accountID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := subtree[id]; seen {
			continue
		}
		subtree[id] = struct{}{}
		stack = append(stack, children[id]...)
	}

	activities, err := s.ledgerRepo.ActivityByAccount(ctx, q, nil, false, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate subtree activity", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to aggregate subtree activity for account %s: %w", accountID, err)
	}

	total := decimal.Zero
	for _, activity := range activities {
		if _, ok := subtree[activity.AccountID]; ok {
			total = total.Add(activity.NetBalance())
		}
	}
	return total, nil
}

// BalancesByType returns the net balance of every account of the given
// types over the query window.
func (s *ledgerService) BalancesByType(ctx context.Context, q domain.BalanceQuery, types []domain.AccountType, activeOnly bool) ([]domain.AccountBalance, error) {
	activities, err := s.ledgerRepo.ActivityByAccount(ctx, q, types, activeOnly, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate balances by type")
		return nil, fmt.Errorf("failed to aggregate balances by type: %w", err)
	}

	balances := make([]domain.AccountBalance, 0, len(activities))
	for _, activity := range activities {
		balances = append(balances, domain.AccountBalance{
			AccountID: activity.AccountID,
			Code:      activity.Code,
			Name:      activity.Name,
			Balance:   activity.NetBalance(),
		})
	}
	return balances, nil
}

// TrialBalanceRows returns every active account's raw debit or credit
// balance as of the query's To date. Accounts whose activity nets to zero,
// including accounts with no postings at all, still get a row with both
// columns zero.
func (s *ledgerService) TrialBalanceRows(ctx context.Context, q domain.BalanceQuery) ([]domain.TrialBalanceRow, error) {
	activities, err := s.ledgerRepo.ActivityByAccount(ctx, q, nil, true, s.trialBalanceRows)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate trial balance rows")
		return nil, fmt.Errorf("failed to aggregate trial balance rows: %w", err)
	}

	rows := make([]domain.TrialBalanceRow, 0, len(activities))
	for _, activity := range activities {
		row := domain.TrialBalanceRow{
			AccountID:     activity.AccountID,
			Code:          activity.Code,
			Name:          activity.Name,
			AccountType:   activity.AccountType,
			DebitBalance:  decimal.Zero,
			CreditBalance: decimal.Zero,
		}
		// The raw debit-minus-credit difference decides which column the
		// account lands in, regardless of its normal side.
		net := activity.Debit.Sub(activity.Credit)
		switch {
		case net.IsPositive():
			row.DebitBalance = net
		case net.IsNegative():
			row.CreditBalance = net.Neg()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
