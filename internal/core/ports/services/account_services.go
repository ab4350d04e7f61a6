package services

import (
	"context"

	"github.com/finometry/ledger_backend/internal/core/domain"
	"github.com/finometry/ledger_backend/internal/dto"
)

// AccountSvc is the chart-of-accounts service surface.
type AccountSvc interface {
	// CreateAccount creates a new account. Fails with ErrConflict on a
	// duplicate code and with ErrNotFound/ErrValidation when the parent is
	// missing or inactive.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// GetAccountByID fetches one account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs fetches several accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists the chart, optionally including inactive accounts.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)

	// CountChildren reports the number of direct children of an account.
	CountChildren(ctx context.Context, accountID string) (int64, error)

	// ChildCounts reports direct child counts for the whole chart, keyed by
	// parent account ID. Childless accounts are absent from the map.
	ChildCounts(ctx context.Context) (map[string]int64, error)

	// UpdateAccount applies a patch. Code changes re-check uniqueness;
	// parent changes re-validate against cycles.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-disables an account.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// DeleteAccount physically removes an account; fails with ErrState when
	// the account has children or journal lines.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}
