package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/finometry/ledger_backend/internal/core/domain"
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository aggregates posted journal lines into raw debit and
// credit totals. Lines of DRAFT entries are invisible; REVERSED entries
// still count because their reversing companions count too.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger aggregation.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// AccountActivity returns the raw debit/credit totals for one account over
// the query window. The lines are joined to their entries before the outer
// join so that lines of out-of-window entries contribute nothing; an
// account with no matching lines yields zero totals.
func (r *PgxLedgerRepository) AccountActivity(ctx context.Context, accountID string, q domain.BalanceQuery) (*domain.AccountActivity, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM accounts a
		LEFT JOIN (journal_lines l
		    JOIN journal_entries e ON e.entry_id = l.entry_id
		        AND e.status IN ('POSTED', 'REVERSED')
		        AND e.currency_code = $2
		        AND e.entry_date <= $3
		        AND ($4::timestamptz IS NULL OR e.entry_date >= $4)
		) ON l.account_id = a.account_id
		WHERE a.account_id = $1
		GROUP BY a.account_id, a.code, a.name, a.account_type;
	`
	var activity domain.AccountActivity
	var debit, credit decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, accountID, q.CurrencyCode, q.To, q.From).Scan(
		&activity.AccountID,
		&activity.Code,
		&activity.Name,
		&activity.AccountType,
		&debit,
		&credit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity for account %s: %w", accountID, err)
	}
	activity.Debit = debit
	activity.Credit = credit
	return &activity, nil
}

// ActivityByAccount returns raw debit/credit totals grouped by account.
// Every account matching the filters produces a row, with zero totals when
// nothing was posted against it in the window.
func (r *PgxLedgerRepository) ActivityByAccount(ctx context.Context, q domain.BalanceQuery, types []domain.AccountType, activeOnly bool, limit int) ([]domain.AccountActivity, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM accounts a
		LEFT JOIN (journal_lines l
		    JOIN journal_entries e ON e.entry_id = l.entry_id
		        AND e.status IN ('POSTED', 'REVERSED')
		        AND e.currency_code = $1
		        AND e.entry_date <= $2
		        AND ($3::timestamptz IS NULL OR e.entry_date >= $3)
		) ON l.account_id = a.account_id
		WHERE TRUE
	`
	args := []any{q.CurrencyCode, q.To, q.From}

	if len(types) > 0 {
		typeNames := make([]string, len(types))
		for i, t := range types {
			typeNames[i] = string(t)
		}
		args = append(args, typeNames)
		query += ` AND a.account_type = ANY($` + strconv.Itoa(len(args)) + `)`
	}
	if activeOnly {
		query += ` AND a.is_active = TRUE`
	}

	query += ` GROUP BY a.account_id, a.code, a.name, a.account_type ORDER BY a.code`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activity by account: %w", err)
	}
	defer rows.Close()

	var activities []domain.AccountActivity
	for rows.Next() {
		var activity domain.AccountActivity
		err := rows.Scan(
			&activity.AccountID,
			&activity.Code,
			&activity.Name,
			&activity.AccountType,
			&activity.Debit,
			&activity.Credit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading activity rows: %w", err)
	}
	return activities, nil
}
