package services

import (
	"context"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// AuditSvc records every mutation in the append-only audit log.
type AuditSvc interface {
	// Record appends one audit record. Before/after states are marshalled
	// to JSON; nil skips the respective state. Failures are logged, never
	// propagated; audit problems must not roll back the underlying
	// operation.
	Record(ctx context.Context, entityType string, entityID string, action domain.AuditAction, before, after any, userID string)

	// ListByEntity retrieves the audit trail for one entity, newest first.
	ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error)
}
