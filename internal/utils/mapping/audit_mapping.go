package mapping

import (
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
)

// ToDomainAuditEntry converts an audit row to the domain entry.
func ToDomainAuditEntry(m models.AuditLog) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:    m.AuditID,
		UserID:     m.UserID,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		Action:     m.Action,
		OldValues:  m.OldValues,
		NewValues:  m.NewValues,
		IPAddress:  strOrEmpty(m.IPAddress),
		CreatedAt:  m.CreatedAt,
	}
}

// ToModelAuditLog converts a domain audit entry to its row.
func ToModelAuditLog(e domain.AuditEntry) models.AuditLog {
	return models.AuditLog{
		AuditID:    e.AuditID,
		UserID:     e.UserID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		OldValues:  e.OldValues,
		NewValues:  e.NewValues,
		IPAddress:  strPtrOrNil(e.IPAddress),
		CreatedAt:  e.CreatedAt,
	}
}
