package domain

import (
	"encoding/json"
	"time"
)

// AuditAction names a mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDeactivate AuditAction = "DEACTIVATE"
	AuditActionDelete     AuditAction = "DELETE"
	AuditActionPost       AuditAction = "POST"
	AuditActionReverse    AuditAction = "REVERSE"
	AuditActionDiscard    AuditAction = "DISCARD"
)

// Audited entity types.
const (
	AuditEntityAccount = "ACCOUNT"
	AuditEntityEntry   = "JOURNAL_ENTRY"
)

// AuditRecord is one row of the append-only audit log. Records are written
// on every account mutation and entry state transition and are never
// updated or deleted.
type AuditRecord struct {
	AuditID     string          `json:"auditID"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	Action      AuditAction     `json:"action"`
	BeforeState json.RawMessage `json:"beforeState,omitempty"`
	AfterState  json.RawMessage `json:"afterState,omitempty"`
	UserID      string          `json:"userID"`
	CreatedAt   time.Time       `json:"createdAt"`
}
