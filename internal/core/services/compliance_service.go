package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

// taxToleranceJPY is the allowed rounding slack between the stated total tax
// and the sum of the per-rate tax amounts.
var taxToleranceJPY = decimal.NewFromInt(1)

// complianceService evaluates invoices against the qualified-invoice content
// requirements and keeps the vendor registration cache warm.
type complianceService struct {
	invoiceRepo   portsrepo.InvoiceRepositoryFacade
	vendorRepo    portsrepo.VendorRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	registry      portssvc.RegistryClient
	auditSvc      portssvc.AuditSvcFacade
}

// NewComplianceService creates a new compliance service.
func NewComplianceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	vendorRepo portsrepo.VendorRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
	registry portssvc.RegistryClient,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.ComplianceSvcFacade {
	return &complianceService{
		invoiceRepo:   invoiceRepo,
		vendorRepo:    vendorRepo,
		reportingRepo: reportingRepo,
		registry:      registry,
		auditSvc:      auditSvc,
	}
}

var _ portssvc.ComplianceSvcFacade = (*complianceService)(nil)

// EvaluateInvoice runs the six content sub-checks over the invoice fields.
// It is pure: no I/O, no clock, no mutation of inv. RegistrationValid is left
// nil; the registry outcome is attached by the caller before Finalize.
func EvaluateInvoice(inv *domain.Invoice) domain.ComplianceCheck {
	check := domain.ComplianceCheck{
		HasRegistrationNumber: inv.RegistrationNumber != "",
		HasInvoiceDate:        inv.InvoiceDate != nil,
		HasDescription:        hasDescription(inv),
		HasRecipientName:      inv.RecipientName != "",
		HasTaxBreakdown:       hasTaxBreakdown(inv),
		HasTaxAmount:          inv.TaxAmount != nil,
	}
	return check
}

func hasDescription(inv *domain.Invoice) bool {
	if inv.Description != "" {
		return true
	}
	for _, d := range inv.Details {
		if d.Description != "" {
			return true
		}
	}
	return false
}

// hasTaxBreakdown requires a per-rate tax amount or a rated detail line, and
// internal consistency: per-rate line tax sums must agree with the bucketed
// totals, and the bucket sum with the stated total tax, each within 1 JPY.
func hasTaxBreakdown(inv *domain.Invoice) bool {
	var ratedLine bool
	lineSums := map[string]decimal.Decimal{}
	lineTaxed := map[string]bool{}
	for _, d := range inv.Details {
		rate := taxRateBucket(d.TaxRate)
		if rate == "" {
			continue
		}
		ratedLine = true
		if d.Tax != nil {
			lineSums[rate] = lineSums[rate].Add(*d.Tax)
			lineTaxed[rate] = true
		}
	}
	if inv.Tax8Amount == nil && inv.Tax10Amount == nil && !ratedLine {
		return false
	}

	// Lines without per-line tax amounts carry only the rate marking and
	// cannot be summed against a bucket.
	if lineTaxed["8"] && !bucketAgrees(lineSums["8"], inv.Tax8Amount) {
		return false
	}
	if lineTaxed["10"] && !bucketAgrees(lineSums["10"], inv.Tax10Amount) {
		return false
	}

	if inv.TaxAmount == nil || (inv.Tax8Amount == nil && inv.Tax10Amount == nil) {
		return true
	}
	sum := decimal.Zero
	if inv.Tax8Amount != nil {
		sum = sum.Add(*inv.Tax8Amount)
	}
	if inv.Tax10Amount != nil {
		sum = sum.Add(*inv.Tax10Amount)
	}
	return sum.Sub(*inv.TaxAmount).Abs().LessThanOrEqual(taxToleranceJPY)
}

// taxRateBucket normalizes a detail line's tax rate ("8%", "10%") onto the
// two consumption-tax buckets; anything else is unrated.
func taxRateBucket(rate string) string {
	switch strings.TrimSuffix(strings.TrimSpace(rate), "%") {
	case "8":
		return "8"
	case "10":
		return "10"
	default:
		return ""
	}
}

func bucketAgrees(lineSum decimal.Decimal, bucket *decimal.Decimal) bool {
	stated := decimal.Zero
	if bucket != nil {
		stated = *bucket
	}
	return lineSum.Sub(stated).Abs().LessThanOrEqual(taxToleranceJPY)
}

// CheckInvoice recomputes the compliance snapshot for one invoice, performs
// the registry lookup and persists the result. Legal from every non-terminal
// state; re-running replaces the previous snapshot and never regresses status.
func (s *complianceService) CheckInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.ComplianceCheck, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status.IsTerminal() {
		return nil, apperrors.NewStateConflictError("compliance check not allowed from status " + string(inv.Status))
	}

	check := EvaluateInvoice(inv)

	if check.HasRegistrationNumber {
		if !domain.IsRegistrationNumberFormat(inv.RegistrationNumber) {
			// Malformed numbers are conclusively invalid; no registry call.
			invalid := false
			check.RegistrationValid = &invalid
		} else {
			verification, err := s.registry.Verify(ctx, inv.RegistrationNumber)
			if err != nil {
				// Registry unavailability must not block the content checks:
				// the registration outcome stays unchecked for a later re-run.
				logger.Warn("registry lookup failed, leaving registration unchecked",
					slog.String("invoice_id", invoiceID),
					slog.String("registration_number", inv.RegistrationNumber),
					slog.String("error", err.Error()))
			} else {
				check.RegistrationValid = &verification.IsValid
			}
		}
	}
	check.Finalize()

	registrationStatus := domain.DeriveRegistrationStatus(check.RegistrationValid)
	now := time.Now()
	if err := s.invoiceRepo.SaveComplianceResult(ctx, invoiceID, check, registrationStatus, inv.RegistrationNumber, now); err != nil {
		logger.Error("failed to persist compliance result", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}

	if inv.VendorID != nil && check.RegistrationValid != nil {
		if err := s.vendorRepo.UpdateRegistrationCache(ctx, *inv.VendorID, inv.RegistrationNumber, registrationStatus, now); err != nil {
			logger.Warn("failed to update vendor registration cache", slog.String("vendor_id", *inv.VendorID), slog.String("error", err.Error()))
		}
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionCompliance,
		NewValues: domain.Document{
			"passed":              check.Passed,
			"missing_items":       check.MissingItems,
			"registration_status": string(registrationStatus),
		},
		IPAddress: actor.IP,
	})

	return &check, nil
}

// VerifyRegistrationNumber answers the ad-hoc lookup without touching any
// invoice. A format-invalid number short-circuits to invalid.
func (s *complianceService) VerifyRegistrationNumber(ctx context.Context, registrationNumber string) (*domain.RegistryVerification, error) {
	if !domain.IsRegistrationNumberFormat(registrationNumber) {
		return &domain.RegistryVerification{
			RegistrationNumber: registrationNumber,
			IsValid:            false,
		}, nil
	}
	verification, err := s.registry.Verify(ctx, registrationNumber)
	if err != nil {
		return nil, err
	}
	return verification, nil
}

// Dashboard partitions the non-deleted invoice set by registration status.
func (s *complianceService) Dashboard(ctx context.Context) (*domain.ComplianceDashboard, error) {
	return s.reportingRepo.ComplianceDashboard(ctx)
}

// actorUserID maps an actor onto the nullable audit user reference; system
// actions (empty user id) are recorded with a nil user.
func actorUserID(actor domain.Actor) *string {
	if actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}
