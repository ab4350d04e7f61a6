package services

import (
	"context"

	"github.com/finometry/ledger_backend/internal/core/domain"
	"github.com/finometry/ledger_backend/internal/dto"
)

// JournalSvc is the journal-entry posting state machine surface.
// Entries move DRAFT → POSTED → REVERSED; a DRAFT may also be discarded.
type JournalSvc interface {
	// CreateEntry validates and persists a new DRAFT entry with its lines.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)

	// GetEntryByID retrieves an entry together with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves a paginated list of posted lines for one
	// account.
	ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)

	// PostEntry transitions a DRAFT entry to POSTED. The transition and the
	// line visibility change are one atomic unit; posting an entry that is
	// not DRAFT fails with ErrConflict.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates and posts a companion entry with debit/credit
	// swapped per line and marks the original REVERSED. Only POSTED entries
	// can be reversed.
	ReverseEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// DiscardDraft deletes a DRAFT entry that was never posted.
	DiscardDraft(ctx context.Context, entryID string, userID string) error
}
