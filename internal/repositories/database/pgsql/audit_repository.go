package pgsql

import (
	"context"
	"fmt"

	"github.com/finometry/ledger_backend/internal/core/domain"
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository persists the append-only audit log. There are no
// update or delete statements in this file on purpose.
type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit log data.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// SaveAuditRecord appends one record to the audit log.
func (r *PgxAuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	query := `
		INSERT INTO audit_logs (audit_id, entity_type, entity_id, action, before_state, after_state, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		record.AuditID,
		record.EntityType,
		record.EntityID,
		record.Action,
		record.BeforeState,
		record.AfterState,
		record.UserID,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record %s: %w", record.AuditID, err)
	}
	return nil
}

// ListAuditRecords retrieves records for one entity, newest first.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	query := `
		SELECT audit_id, entity_type, entity_id, action, before_state, after_state, user_id, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records for %s/%s: %w", entityType, entityID, err)
	}
	defer rows.Close()

	var records []domain.AuditRecord
	for rows.Next() {
		var record domain.AuditRecord
		err := rows.Scan(
			&record.AuditID,
			&record.EntityType,
			&record.EntityID,
			&record.Action,
			&record.BeforeState,
			&record.AfterState,
			&record.UserID,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading audit record rows: %w", err)
	}
	return records, nil
}
