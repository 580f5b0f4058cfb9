package models

import (
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// AuditLog is the database row shape of one audit entry. Rows are insert-only.
type AuditLog struct {
	AuditID    string
	UserID     *string
	EntityType string
	EntityID   string
	Action     string
	OldValues  domain.Document
	NewValues  domain.Document
	IPAddress  *string
	CreatedAt  time.Time
}
