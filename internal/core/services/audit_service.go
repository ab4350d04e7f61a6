package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
	portsrepo "github.com/finometry/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

// auditService appends mutation records to the audit log.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates a new AuditSvc.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditSvc {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// Record appends one audit record. A failure to record is logged and
// swallowed: the audited operation has already happened and must not be
// rolled back over an audit problem.
func (s *auditService) Record(ctx context.Context, entityType string, entityID string, action domain.AuditAction, before, after any, userID string) {
	record := domain.AuditRecord{
		AuditID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		CreatedAt:  time.Now().UTC(),
	}

	if before != nil {
		data, err := json.Marshal(before)
		if err != nil {
			s.LogError(ctx, err, "Failed to marshal audit before-state",
				slog.String("entity_type", entityType), slog.String("entity_id", entityID))
		} else {
			record.BeforeState = data
		}
	}
	if after != nil {
		data, err := json.Marshal(after)
		if err != nil {
			s.LogError(ctx, err, "Failed to marshal audit after-state",
				slog.String("entity_type", entityType), slog.String("entity_id", entityID))
		} else {
			record.AfterState = data
		}
	}

	if err := s.auditRepo.SaveAuditRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to append audit record",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.String("action", string(action)))
		return
	}

	s.LogDebug(ctx, "Audit record appended",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.String("action", string(action)))
}

// ListByEntity retrieves the audit trail for one entity.
func (s *auditService) ListByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	records, err := s.auditRepo.ListAuditRecords(ctx, entityType, entityID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit records",
			slog.String("entity_type", entityType), slog.String("entity_id", entityID))
		return nil, err
	}
	return records, nil
}
