package services

import (
	"context"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// ComplianceSvcFacade evaluates invoices against the qualified-invoice
// content requirements and the external registration registry.
type ComplianceSvcFacade interface {
	// CheckInvoice recomputes the compliance snapshot for an invoice,
	// persists it and advances extracted -> compliance_checked. Re-running
	// is always allowed from non-terminal states and never regresses status.
	CheckInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.ComplianceCheck, error)

	// VerifyRegistrationNumber runs the ad-hoc format check plus registry
	// lookup, without requiring or mutating any invoice.
	VerifyRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.RegistryVerification, error)

	// Dashboard partitions invoices into registration-status buckets.
	Dashboard(ctx context.Context) (*domain.ComplianceDashboard, error)
}
