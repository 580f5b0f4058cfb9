package domain

import "time"

// AuditEntry is one immutable record of a mutating action. Entries are never
// updated or deleted and outlive the entities they reference: EntityID stays
// valid as a historical pointer after soft deletion.
type AuditEntry struct {
	AuditID    string    `json:"auditID"`
	UserID     *string   `json:"userID"` // nil for system actions
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Action     string    `json:"action"`
	OldValues  Document  `json:"oldValues,omitempty"` // changed fields only
	NewValues  Document  `json:"newValues,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Audit action labels.
const (
	AuditActionCreate     = "create"
	AuditActionUpdate     = "update"
	AuditActionApprove    = "approve"
	AuditActionReject     = "reject"
	AuditActionTransfer   = "transfer"
	AuditActionSoftDelete = "soft_delete"
	AuditActionCompliance = "compliance_check"
	AuditActionArchive    = "archive"
)

// Audit entity types.
const (
	AuditEntityInvoice    = "invoice"
	AuditEntityDepartment = "department"
	AuditEntityVendor     = "vendor"
	AuditEntityUser       = "user"
)
