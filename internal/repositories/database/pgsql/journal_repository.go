package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/core/domain"
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	"github.com/finometry/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_date, description, currency_code, exchange_rate, status, posted_by, posted_at, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit_amount, credit_amount, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// scanEntry reads one journal_entries row into a domain.JournalEntry.
func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var postedBy sql.NullString
	var postedAt sql.NullTime
	var originalID, reversingID sql.NullString
	err := row.Scan(
		&e.EntryID,
		&e.EntryDate,
		&e.Description,
		&e.CurrencyCode,
		&e.ExchangeRate,
		&e.Status,
		&postedBy,
		&postedAt,
		&originalID,
		&reversingID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	e.PostedBy = postedBy.String
	if postedAt.Valid {
		t := postedAt.Time
		e.PostedAt = &t
	}
	if originalID.Valid {
		s := originalID.String
		e.OriginalEntryID = &s
	}
	if reversingID.Valid {
		s := reversingID.String
		e.ReversingEntryID = &s
	}
	return e, nil
}

func scanLine(row pgx.Row) (domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.AccountID,
		&l.Debit,
		&l.Credit,
		&l.Description,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

// insertLines bulk-inserts the lines of one entry inside tx.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query,
			l.LineID, l.EntryID, l.AccountID, l.Debit, l.Credit, l.Description,
			l.CreatedAt, l.CreatedBy, l.LastUpdatedAt, l.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert journal line: %w", err)
		}
	}
	return nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.CurrencyCode,
		entry.ExchangeRate,
		entry.Status,
		nullableString(entry.PostedBy),
		entry.PostedAt,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// SaveEntry persists a new DRAFT entry together with its lines in one
// transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry by its ID, without lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(apperrors.CodeEntryNotFound,
				fmt.Sprintf("entry %s not found", entryID))
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of one entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading journal line rows: %w", err)
	}
	return lines, nil
}

// ListEntries retrieves a paginated list of entries, newest first. The
// cursor is (entry_date, created_at, entry_id) encoded as an opaque
// token; the entry ID breaks ties between entries created in the same
// instant.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to learn whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE TRUE`
	if !includeReversals {
		baseQuery += ` AND original_entry_id IS NULL`
	}
	orderByClause := `ORDER BY entry_date DESC, created_at DESC, entry_id DESC`

	var args []any
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidation(apperrors.CodeInvalidParameter, "invalid nextToken")
		}
		baseQuery += ` AND (entry_date, created_at, entry_id) < ($1, $2, $3)`
		args = append(args, lastEntryDate, lastCreatedAt, lastEntryID)
	}
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}

// ListLinesByAccountID retrieves a paginated list of posted lines for one
// account, newest first. Draft lines never appear here; visibility flips
// atomically when the entry is posted.
func (r *PgxJournalRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit_amount, l.credit_amount, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.status IN ('POSTED', 'REVERSED')
	`
	orderByClause := `ORDER BY e.entry_date DESC, l.created_at DESC, l.line_id DESC`

	args := []any{accountID}
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, lastLineID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidation(apperrors.CodeInvalidParameter, "invalid nextToken")
		}
		baseQuery += ` AND (e.entry_date, l.created_at, l.line_id) < ($2, $3, $4)`
		args = append(args, lastEntryDate, lastCreatedAt, lastLineID)
	}
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := make([]domain.JournalLine, 0, fetchLimit)
	entryDates := make([]time.Time, 0, fetchLimit)
	for rows.Next() {
		var l domain.JournalLine
		var entryDate time.Time
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Description,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
			&entryDate,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, l)
		entryDates = append(entryDates, entryDate)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading journal line rows: %w", err)
	}

	var nextTokenVal *string
	if len(lines) > limit {
		token := pagination.EncodeToken(entryDates[limit-1], lines[limit-1].CreatedAt, lines[limit-1].LineID)
		nextTokenVal = &token
		lines = lines[:limit]
	}
	return lines, nextTokenVal, nil
}

// PostEntry atomically transitions an entry from DRAFT to POSTED. The
// status predicate makes the update a compare-and-set; a second concurrent
// poster updates zero rows and gets a conflict.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entryID string, userID string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, userID, postedAt)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the entry does not exist or its status already moved on.
		if _, findErr := r.FindEntryByID(ctx, entryID); findErr != nil {
			return findErr
		}
		return apperrors.NewConflict(apperrors.CodeEntryNotDraft,
			fmt.Sprintf("entry %s is no longer DRAFT", entryID))
	}
	return nil
}

// SaveReversal persists the reversing entry with its lines and flips the
// original to REVERSED in one transaction. The original's status update is
// a compare-and-set on POSTED; losing the race rolls everything back.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalEntryID string, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, reversal); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}

	query := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED';
	`
	tag, err := tx.Exec(ctx, query, originalEntryID, reversal.EntryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflict(apperrors.CodeEntryNotPosted,
			fmt.Sprintf("entry %s is no longer POSTED", originalEntryID))
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftEntry removes a DRAFT entry and its lines. Posted history is
// never deleted.
func (r *PgxJournalRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.FindEntryByID(ctx, entryID); findErr != nil {
			return findErr
		}
		return apperrors.NewState(apperrors.CodeEntryNotDraft,
			fmt.Sprintf("entry %s is not DRAFT and cannot be deleted", entryID))
	}
	return r.Commit(ctx, tx)
}
