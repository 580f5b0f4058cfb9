package services

import (
	"context"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
)

// InvoiceIngestionSvc covers the upload side of the pipeline.
type InvoiceIngestionSvc interface {
	// UploadInvoices runs the per-file pipeline (store bytes, hash, submit
	// for extraction, transition) for each file, parallelized across a
	// bounded worker pool. Results are returned in input order.
	UploadInvoices(ctx context.Context, files []dto.UploadedFile, actor domain.Actor) ([]domain.Invoice, error)
}

// InvoiceReaderSvc defines read operations for invoices.
type InvoiceReaderSvc interface {
	GetInvoiceByID(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter, actor domain.Actor) ([]domain.Invoice, int64, error)
}

// InvoiceReviewSvc covers manual review edits and lifecycle decisions.
type InvoiceReviewSvc interface {
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actor domain.Actor) (*domain.Invoice, error)
	ApproveInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error)
	RejectInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error)
	ArchiveInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string, actor domain.Actor) error
}

// InvoiceIntegritySvc exposes the explicit, side-effect-free hash check.
type InvoiceIntegritySvc interface {
	// VerifyInvoiceFile recomputes the digest over the stored bytes and
	// compares it to the value recorded at ingestion. A mismatch is
	// reported, never auto-corrected, and does not alter invoice status.
	VerifyInvoiceFile(ctx context.Context, invoiceID string) (valid bool, expected string, err error)
}

// InvoiceSvcFacade combines all invoice service interfaces.
type InvoiceSvcFacade interface {
	InvoiceIngestionSvc
	InvoiceReaderSvc
	InvoiceReviewSvc
	InvoiceIntegritySvc
}
