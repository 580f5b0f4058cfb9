package dto

import (
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// AuditEntryResponse is the API projection of one audit log entry.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"user_id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	OldValues  domain.Document `json:"old_values,omitempty"`
	NewValues  domain.Document `json:"new_values,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToAuditEntryResponses maps audit entries to their API projection.
func ToAuditEntryResponses(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:         e.AuditID,
			UserID:     e.UserID,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     e.Action,
			OldValues:  e.OldValues,
			NewValues:  e.NewValues,
			IPAddress:  e.IPAddress,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
