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
	"github.com/finometry/ledger_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultEntryPageLimit = 20
	maxEntryPageLimit     = 100
)

// journalService owns the entry lifecycle: DRAFT creation, the single
// DRAFT to POSTED transition, reversal of POSTED entries, and discarding
// of drafts. Posted history is never mutated or deleted here.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	auditSvc    portssvc.AuditSvc
}

// NewJournalService creates a new JournalSvc.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	auditSvc portssvc.AuditSvc,
) portssvc.JournalSvc {
	return &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.JournalSvc = (*journalService)(nil)

// validateLineAccounts confirms every referenced account exists, is active,
// and carries the entry's currency.
func (s *journalService) validateLineAccounts(ctx context.Context, lines []domain.JournalLine, currencyCode string) error {
	idSet := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := idSet[line.AccountID]; ok {
			continue
		}
		idSet[line.AccountID] = struct{}{}
		ids = append(ids, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts for entry lines: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return apperrors.NewValidation(apperrors.CodeAccountNotFound,
				fmt.Sprintf("account %s referenced by an entry line does not exist", id))
		}
		if !account.IsActive {
			return apperrors.NewValidation(apperrors.CodeAccountInactive,
				fmt.Sprintf("account %s (%s) is inactive and cannot take new postings", account.Code, id))
		}
		if account.CurrencyCode != currencyCode {
			return apperrors.NewValidation(apperrors.CodeCurrencyMismatch,
				fmt.Sprintf("account %s holds %s but the entry is in %s", account.Code, account.CurrencyCode, currencyCode))
		}
	}
	return nil
}

// CreateEntry validates and persists a new DRAFT entry with its lines.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	exchangeRate := req.ExchangeRate
	if exchangeRate.IsZero() {
		exchangeRate = decimal.NewFromInt(1)
	}
	if exchangeRate.IsNegative() {
		return nil, apperrors.NewValidation(apperrors.CodeInvalidParameter, "exchange rate must be positive")
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lr := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   lr.AccountID,
			Debit:       lr.DebitAmount,
			Credit:      lr.CreditAmount,
			Description: lr.Description,
			AuditFields: audit,
		}
	}

	if err := accounting.ValidateEntryBalance(lines); err != nil {
		return nil, err
	}
	if err := s.validateLineAccounts(ctx, lines, req.CurrencyCode); err != nil {
		return nil, err
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		EntryDate:    req.Date,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: exchangeRate,
		Status:       domain.Draft,
		Lines:        lines,
		AuditFields:  audit,
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.auditSvc.Record(ctx, domain.AuditEntityEntry, entryID, domain.AuditActionCreate, nil, entry, userID)

	s.LogInfo(ctx, "Journal entry drafted",
		slog.String("entry_id", entryID), slog.Int("lines", len(lines)))
	return &entry, nil
}

// GetEntryByID retrieves an entry together with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entry lines", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries, newest first.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageLimit
	}
	if limit > maxEntryPageLimit {
		limit = maxEntryPageLimit
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// ListLinesByAccount retrieves a paginated list of posted lines for one
// account, newest first.
func (s *journalService) ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultEntryPageLimit
	}
	if limit > maxEntryPageLimit {
		limit = maxEntryPageLimit
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account lines", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list lines for account %s: %w", accountID, err)
	}

	return &dto.ListLinesResponse{Lines: dto.ToLineResponses(lines), NextToken: nextToken}, nil
}

// PostEntry transitions a DRAFT entry to POSTED. Validation runs again
// against the stored lines so a draft that became invalid (an account was
// deactivated since drafting) can never reach the ledger.
func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.NewConflict(apperrors.CodeEntryNotDraft,
			fmt.Sprintf("entry %s is %s, only DRAFT entries can be posted", entryID, entry.Status))
	}

	if err := accounting.ValidateEntryBalance(entry.Lines); err != nil {
		return nil, err
	}
	if err := s.validateLineAccounts(ctx, entry.Lines, entry.CurrencyCode); err != nil {
		return nil, err
	}

	before := *entry
	now := time.Now().UTC()
	if err := s.journalRepo.PostEntry(ctx, entryID, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race; another caller posted first.
			return nil, apperrors.NewConflict(apperrors.CodeEntryNotDraft,
				fmt.Sprintf("entry %s was posted concurrently", entryID))
		}
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedBy = userID
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	s.auditSvc.Record(ctx, domain.AuditEntityEntry, entryID, domain.AuditActionPost, before, *entry, userID)

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entryID), slog.String("posted_by", userID))
	return entry, nil
}

// ReverseEntry creates and posts a companion entry with debit and credit
// swapped on every line, then marks the original REVERSED. The companion
// and the status flip are one atomic unit in the repository.
func (s *journalService) ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	original, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, apperrors.NewState(apperrors.CodeEntryNotPosted,
			fmt.Sprintf("entry %s is %s, only POSTED entries can be reversed", entryID, original.Status))
	}
	if original.ReversingEntryID != nil {
		return nil, apperrors.NewConflict(apperrors.CodeEntryNotPosted,
			fmt.Sprintf("entry %s is already reversed by %s", entryID, *original.ReversingEntryID))
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	lines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   l.AccountID,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
			AuditFields: audit,
		}
	}

	reversal := domain.JournalEntry{
		EntryID:      reversalID,
		EntryDate:    now,
		Description:  fmt.Sprintf("Reversal of entry %s: %s", entryID, original.Description),
		CurrencyCode: original.CurrencyCode,
		// The reversal carries the original's rate so the pair nets to zero
		// in both entry and base currency.
		ExchangeRate:    original.ExchangeRate,
		Status:          domain.Posted,
		PostedBy:        userID,
		PostedAt:        &now,
		OriginalEntryID: &original.EntryID,
		Lines:           lines,
		AuditFields:     audit,
	}

	if err := s.journalRepo.SaveReversal(ctx, reversal, lines, entryID, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict(apperrors.CodeEntryNotPosted,
				fmt.Sprintf("entry %s was reversed concurrently", entryID))
		}
		s.LogError(ctx, err, "Failed to save reversal",
			slog.String("entry_id", entryID), slog.String("reversal_id", reversalID))
		return nil, err
	}

	after := *original
	after.Status = domain.Reversed
	after.ReversingEntryID = &reversalID
	s.auditSvc.Record(ctx, domain.AuditEntityEntry, entryID, domain.AuditActionReverse, *original, after, userID)
	s.auditSvc.Record(ctx, domain.AuditEntityEntry, reversalID, domain.AuditActionCreate, nil, reversal, userID)

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID), slog.String("reversal_id", reversalID))
	return &reversal, nil
}

// DiscardDraft deletes a DRAFT entry that was never posted.
func (s *journalService) DiscardDraft(ctx context.Context, entryID string, userID string) error {
	entry, err := s.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		return apperrors.NewState(apperrors.CodeEntryNotDraft,
			fmt.Sprintf("entry %s is %s, only DRAFT entries can be discarded", entryID, entry.Status))
	}

	if err := s.journalRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to discard draft entry", slog.String("entry_id", entryID))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditEntityEntry, entryID, domain.AuditActionDiscard, *entry, nil, userID)

	s.LogInfo(ctx, "Draft entry discarded", slog.String("entry_id", entryID))
	return nil
}
