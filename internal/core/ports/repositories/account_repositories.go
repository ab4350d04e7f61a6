package repositories

import (
	"context"
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its chart code. Codes are
	// unique across the whole chart regardless of hierarchy depth.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves all accounts, optionally including inactive ones.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)

	// CountChildren returns the number of direct child accounts.
	CountChildren(ctx context.Context, accountID string) (int64, error)

	// CountChildrenByParent returns the number of direct children per parent
	// account ID. Accounts without children are absent from the map.
	CountChildrenByParent(ctx context.Context) (map[string]int64, error)

	// CountLinesByAccount returns the number of journal lines referencing the
	// account, regardless of entry status.
	CountLinesByAccount(ctx context.Context, accountID string) (int64, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error

	// DeleteAccount physically removes an account. The service layer only
	// calls this when the account has no children and no journal lines.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
