package services

import (
	"context"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
)

// AuditSvcFacade appends and reads the audit trail. Writes happen after the
// business transition commits; a failed audit write is escalated to the log,
// never rolled back into the business operation.
type AuditSvcFacade interface {
	// RecordAction appends one entry. It never returns an error to the
	// caller; failures are logged as degraded operation.
	RecordAction(ctx context.Context, entry domain.AuditEntry)

	// ListEntries reads most-recent-first with a bounded limit.
	ListEntries(ctx context.Context, filter portsrepo.AuditListFilter) ([]domain.AuditEntry, error)
}
