package repositories

import (
	"context"
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// EntryReader defines read operations for journal entry data.
type EntryReader interface {
	// FindEntryByID retrieves a specific entry by its unique identifier,
	// without lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines associated with a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves a paginated list of entries using token-based
	// pagination. It returns the entries, a token for the next page, and an
	// error.
	ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error)

	// ListLinesByAccountID retrieves a paginated list of posted lines for a
	// specific account, newest first.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// EntryWriter defines write operations for journal entry data.
type EntryWriter interface {
	// SaveEntry persists a new DRAFT entry together with its lines in one
	// database transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// PostEntry atomically transitions an entry from DRAFT to POSTED,
	// recording poster and timestamp. The update is a compare-and-set on
	// status: a concurrent second call observes the already-POSTED row and
	// gets apperrors.ErrConflict; a missing entry yields ErrNotFound.
	PostEntry(ctx context.Context, entryID string, userID string, postedAt time.Time) error

	// SaveReversal persists the reversing entry (already POSTED) with its
	// lines and flips the original entry to REVERSED, all in one database
	// transaction. The original's status must still be POSTED or the whole
	// transaction is rolled back with ErrConflict.
	SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalEntryID string, userID string, now time.Time) error

	// DeleteDraftEntry removes a DRAFT entry and its lines. Posted history is
	// never deleted; a non-DRAFT entry yields ErrState.
	DeleteDraftEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	EntryReader
	EntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction
// capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
