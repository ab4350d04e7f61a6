package repositories

import (
	"context"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// AuditRepository defines persistence for the append-only audit log.
// Records are inserted and read, never updated or deleted.
type AuditRepository interface {
	// SaveAuditRecord appends one record to the audit log.
	SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error

	// ListAuditRecords retrieves records for one entity, newest first.
	ListAuditRecords(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error)
}
