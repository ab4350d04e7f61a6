package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/core/domain"
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/google/uuid"
)

// maxHierarchyDepth bounds every ancestor-chain walk. A well-formed chart
// never approaches this; the bound guards against corrupt parent links.
const maxHierarchyDepth = 100

// accountService owns the chart of accounts: creation, updates, the
// activity flag, and the hierarchy invariants (unique codes, no cycles).
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	auditSvc    portssvc.AuditSvc
}

// NewAccountService creates a new AccountSvc.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, auditSvc portssvc.AuditSvc) portssvc.AccountSvc {
	return &accountService{
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.AccountSvc = (*accountService)(nil)

// ensureCodeAvailable fails with ErrConflict when another account already
// holds the code.
func (s *accountService) ensureCodeAvailable(ctx context.Context, code string, excludeAccountID string) error {
	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check account code %s: %w", code, err)
	}
	if existing.AccountID != excludeAccountID {
		return apperrors.NewConflict(apperrors.CodeAccountCodeExists,
			fmt.Sprintf("account code %s already exists", code))
	}
	return nil
}

// validateParent confirms the parent exists and is active.
func (s *accountService) validateParent(ctx context.Context, parentID string) (*domain.Account, error) {
	parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound(apperrors.CodeAccountNotFound,
				fmt.Sprintf("parent account %s not found", parentID))
		}
		return nil, fmt.Errorf("failed to find parent account %s: %w", parentID, err)
	}
	if !parent.IsActive {
		return nil, apperrors.NewValidation(apperrors.CodeAccountInactive,
			fmt.Sprintf("parent account %s is inactive", parentID))
	}
	return parent, nil
}

// ensureNoCycle walks the proposed parent's ancestor chain and rejects the
// re-parenting when accountID appears anywhere on it. The walk is bounded
// by maxHierarchyDepth and keeps a visited set so corrupt data cannot spin
// it forever.
func (s *accountService) ensureNoCycle(ctx context.Context, accountID string, proposedParentID string) error {
	if accountID == proposedParentID {
		return apperrors.NewConflict(apperrors.CodeParentCycle,
			"account cannot be its own parent")
	}

	visited := map[string]struct{}{accountID: {}}
	currentID := proposedParentID
	for depth := 0; currentID != ""; depth++ {
		if depth >= maxHierarchyDepth {
			return apperrors.NewConflict(apperrors.CodeParentCycle,
				fmt.Sprintf("account hierarchy exceeds maximum depth %d", maxHierarchyDepth))
		}
		if _, seen := visited[currentID]; seen {
			return apperrors.NewConflict(apperrors.CodeParentCycle,
				fmt.Sprintf("re-parenting account %s under %s would create a cycle", accountID, proposedParentID))
		}
		visited[currentID] = struct{}{}

		ancestor, err := s.accountRepo.FindAccountByID(ctx, currentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				// Broken chain; the re-parenting target itself was already
				// validated, so treat a missing ancestor as end of chain.
				return nil
			}
			return fmt.Errorf("failed to walk ancestor chain at %s: %w", currentID, err)
		}
		currentID = ancestor.ParentAccountID
	}
	return nil
}

// CreateAccount creates a new account in the chart.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, apperrors.NewValidation(apperrors.CodeInvalidParameter,
			fmt.Sprintf("unknown account type %q", req.AccountType))
	}

	if err := s.ensureCodeAvailable(ctx, req.Code, ""); err != nil {
		return nil, err
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parent, err := s.validateParent(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, err
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     accountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.auditSvc.Record(ctx, domain.AuditEntityAccount, account.AccountID, domain.AuditActionCreate, nil, account, userID)

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID fetches one account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByIDs fetches several accounts keyed by ID.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs")
		return nil, err
	}
	return accounts, nil
}

// ListAccounts lists the chart.
func (s *accountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// CountChildren reports the number of direct children of an account.
func (s *accountService) CountChildren(ctx context.Context, accountID string) (int64, error) {
	return s.accountRepo.CountChildren(ctx, accountID)
}

// ChildCounts reports direct child counts for the whole chart.
func (s *accountService) ChildCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.accountRepo.CountChildrenByParent(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count children by parent")
		return nil, fmt.Errorf("failed to count children by parent: %w", err)
	}
	return counts, nil
}

// UpdateAccount applies a patch to an account.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	before := *account

	updated := false
	if req.Code != nil && *req.Code != account.Code {
		if err := s.ensureCodeAvailable(ctx, *req.Code, accountID); err != nil {
			return nil, err
		}
		account.Code = *req.Code
		updated = true
	}
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		newParentID := *req.ParentAccountID
		if newParentID != "" {
			if _, err := s.validateParent(ctx, newParentID); err != nil {
				return nil, err
			}
			if err := s.ensureNoCycle(ctx, accountID, newParentID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = newParentID
		updated = true
	}

	if !updated {
		s.LogDebug(ctx, "No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.auditSvc.Record(ctx, domain.AuditEntityAccount, accountID, domain.AuditActionUpdate, before, *account, userID)

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount soft-disables an account. No physical delete happens
// here; accounts with history stay queryable forever.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return err
	}

	after := *account
	after.IsActive = false
	s.auditSvc.Record(ctx, domain.AuditEntityAccount, accountID, domain.AuditActionDeactivate, *account, after, userID)

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// DeleteAccount physically removes an account. Only allowed when the
// account has no children and no journal lines; otherwise the caller is
// told to deactivate instead.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	childCount, err := s.accountRepo.CountChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count children for account %s: %w", accountID, err)
	}
	if childCount > 0 {
		return apperrors.NewState(apperrors.CodeAccountHasChildren,
			fmt.Sprintf("account %s has %d child accounts; deactivate it instead", accountID, childCount))
	}

	lineCount, err := s.accountRepo.CountLinesByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count journal lines for account %s: %w", accountID, err)
	}
	if lineCount > 0 {
		return apperrors.NewState(apperrors.CodeAccountHasPostings,
			fmt.Sprintf("account %s has %d journal lines; deactivate it instead", accountID, lineCount))
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditEntityAccount, accountID, domain.AuditActionDelete, *account, nil, userID)

	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
