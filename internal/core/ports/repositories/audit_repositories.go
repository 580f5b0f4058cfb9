package repositories

import (
	"context"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// AuditListFilter narrows audit reads. Nil/empty values mean no filter.
type AuditListFilter struct {
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// AuditWriter appends entries. There are no update or delete operations:
// the log is append-only by construction.
type AuditWriter interface {
	SaveEntry(ctx context.Context, entry domain.AuditEntry) error
}

// AuditReader supports bounded most-recent-first reads.
type AuditReader interface {
	ListEntries(ctx context.Context, filter AuditListFilter) ([]domain.AuditEntry, error)
}

// AuditRepositoryFacade combines audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditWriter
	AuditReader
}
