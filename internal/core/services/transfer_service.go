package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
	"github.com/hfujimori/invoice_kanri_app/internal/utils"
)

// transferService executes payment transfers against the external provider.
// The provider call happens while the invoice row is locked, so the whole
// approved -> transferred step is atomic from every other caller's view: a
// provider failure rolls back to approved and the operation is retryable.
type transferService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	provider    portssvc.TransferProvider
	auditSvc    portssvc.AuditSvcFacade
}

// NewTransferService creates a new transfer service.
func NewTransferService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	provider portssvc.TransferProvider,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.TransferSvcFacade {
	return &transferService{
		invoiceRepo: invoiceRepo,
		provider:    provider,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// ExecuteTransfer registers the payable with the provider and moves the
// invoice to transferred. Only approved invoices qualify; a retried call
// after success sees transferred and fails with a state conflict, so the
// provider is never charged twice for one invoice.
func (s *transferService) ExecuteTransfer(ctx context.Context, invoiceID string, actor domain.Actor) (domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.CanApprove() {
		return nil, apperrors.ErrForbidden
	}

	var receipt domain.Document
	err := s.invoiceRepo.WithInvoiceLock(ctx, invoiceID, func(ctx context.Context, inv *domain.Invoice) (domain.InvoiceStatus, domain.Document, error) {
		if inv.Status != domain.StatusApproved {
			return inv.Status, nil, apperrors.NewStateConflictError("transfer requires approved status, invoice is " + string(inv.Status))
		}
		order, err := buildTransferOrder(inv)
		if err != nil {
			return inv.Status, nil, err
		}
		result, err := s.provider.ExecuteTransfer(ctx, order)
		if err != nil {
			logger.Error("transfer provider call failed, invoice stays approved",
				slog.String("invoice_id", invoiceID),
				slog.String("error", err.Error()))
			return inv.Status, nil, err
		}
		receipt = result
		return domain.StatusTransferred, result, nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionTransfer,
		NewValues:  domain.Document{"status": string(domain.StatusTransferred)},
		IPAddress:  actor.IP,
	})
	return receipt, nil
}

// buildTransferOrder projects the invoice onto the provider's order shape.
// A total amount is mandatory; everything else degrades to sane defaults.
func buildTransferOrder(inv *domain.Invoice) (portssvc.TransferOrder, error) {
	if inv.TotalAmount == nil {
		return portssvc.TransferOrder{}, apperrors.NewValidationError("invoice has no total amount, cannot build transfer order")
	}
	order := portssvc.TransferOrder{
		InvoiceID:   inv.InvoiceID,
		AmountJPY:   inv.TotalAmount.IntPart(),
		PartnerName: inv.VendorName,
		Description: inv.Description,
	}
	if inv.InvoiceDate != nil {
		order.InvoiceDate = inv.InvoiceDate.Format("2006-01-02")
	} else {
		order.InvoiceDate = time.Now().Format("2006-01-02")
	}
	if inv.DueDate != nil {
		order.DueDate = inv.DueDate.Format("2006-01-02")
	} else {
		order.DueDate = order.InvoiceDate
	}
	if order.PartnerName == "" {
		order.PartnerName = inv.RecipientName
	}
	return order, nil
}

// AuthorizationURL starts the provider OAuth consent flow with a fresh
// unguessable state value.
func (s *transferService) AuthorizationURL(ctx context.Context) (string, error) {
	state, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", err
	}
	return s.provider.AuthorizationURL(state), nil
}

// CompleteAuthorization finishes the provider OAuth flow.
func (s *transferService) CompleteAuthorization(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", apperrors.NewValidationError("authorization code is required")
	}
	return s.provider.CompleteAuthorization(ctx, code)
}
