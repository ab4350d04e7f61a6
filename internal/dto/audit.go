package dto

import (
	"encoding/json"
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// AuditRecordResponse defines the data returned for an audit log record.
type AuditRecordResponse struct {
	AuditID     string          `json:"auditID"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	Action      string          `json:"action"`
	BeforeState json.RawMessage `json:"beforeState,omitempty"`
	AfterState  json.RawMessage `json:"afterState,omitempty"`
	UserID      string          `json:"userID"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToAuditRecordResponses converts domain audit records to DTOs.
func ToAuditRecordResponses(records []domain.AuditRecord) []AuditRecordResponse {
	out := make([]AuditRecordResponse, len(records))
	for i, r := range records {
		out[i] = AuditRecordResponse{
			AuditID:     r.AuditID,
			EntityType:  r.EntityType,
			EntityID:    r.EntityID,
			Action:      string(r.Action),
			BeforeState: r.BeforeState,
			AfterState:  r.AfterState,
			UserID:      r.UserID,
			CreatedAt:   r.CreatedAt,
		}
	}
	return out
}
