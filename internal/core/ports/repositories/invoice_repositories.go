package repositories

import (
	"context"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceListFilter narrows the invoice listing. Zero values mean no filter.
type InvoiceListFilter struct {
	Page         int
	PerPage      int
	Status       domain.InvoiceStatus
	DepartmentID *string
	VendorName   string
	DateFrom     *time.Time
	DateTo       *time.Time
	AmountMin    *decimal.Decimal
	AmountMax    *decimal.Decimal
}

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves one non-deleted invoice with its detail
	// lines and bank account.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByIDAny retrieves an invoice regardless of its soft-delete
	// flag; used by integrity verification and audit tooling.
	FindInvoiceByIDAny(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a filtered page of invoices plus the total count.
	ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]domain.Invoice, int64, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice persists a freshly uploaded invoice.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// ApplyExtraction writes extracted fields, detail lines and bank account
	// and advances uploaded -> extracted, all in one transaction. The status
	// write is conditional on the invoice still being in uploaded.
	ApplyExtraction(ctx context.Context, invoice domain.Invoice) error

	// MarkExtractionFailed records the failure payload and advances
	// uploaded -> extraction_failed.
	MarkExtractionFailed(ctx context.Context, invoiceID string, failure domain.Document, now time.Time) error

	// UpdateInvoice persists manual field edits together with replaced
	// detail lines and bank account in one transaction.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceDetails bool) error

	// MarkInvoiceDeleted soft-deletes an invoice. Audit entries referencing
	// it are retained untouched.
	MarkInvoiceDeleted(ctx context.Context, invoiceID string, deletedBy string, now time.Time) error
}

// InvoiceTransitioner owns the compare-and-swap status discipline: a status
// write only succeeds when the current status is in the allowed set, so of
// two racing transitions exactly one wins and the loser sees a state conflict.
type InvoiceTransitioner interface {
	// TransitionStatus atomically moves the invoice to target iff its
	// current status is in allowed. approvedBy, when non-nil, is written
	// together with approved_at. Returns apperrors.ErrNotFound for an
	// unknown id and apperrors.ErrStateConflict when the CAS loses.
	TransitionStatus(ctx context.Context, invoiceID string, allowed []domain.InvoiceStatus, target domain.InvoiceStatus, approvedBy *string, now time.Time) error

	// SaveComplianceResult atomically attaches a compliance snapshot and
	// registration status, advancing extracted -> compliance_checked and
	// otherwise leaving the status as-is. Fails with a state conflict when
	// the invoice is in a terminal state.
	SaveComplianceResult(ctx context.Context, invoiceID string, check domain.ComplianceCheck, registrationStatus domain.RegistrationStatus, registrationNumber string, now time.Time) error

	// WithInvoiceLock loads the invoice under a row lock inside one
	// transaction and runs fn with it. On success the returned target
	// status and result payload are written before commit; on error the
	// transaction rolls back and the invoice is left untouched. Concurrent
	// callers serialize on the row, so a second transfer attempt observes
	// the committed status of the first.
	WithInvoiceLock(ctx context.Context, invoiceID string, fn func(ctx context.Context, inv *domain.Invoice) (domain.InvoiceStatus, domain.Document, error)) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	InvoiceTransitioner
}
