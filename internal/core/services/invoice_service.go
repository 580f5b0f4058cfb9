package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/dto"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

// invoiceService drives the upload/extraction/review lifecycle. All status
// writes go through the repository's compare-and-swap discipline so racing
// transitions resolve to exactly one winner.
type invoiceService struct {
	invoiceRepo    portsrepo.InvoiceRepositoryFacade
	vendorRepo     portsrepo.VendorRepositoryFacade
	extractor      portssvc.Extractor
	integrity      *IntegrityService
	complianceSvc  portssvc.ComplianceSvcFacade
	auditSvc       portssvc.AuditSvcFacade
	retentionYears int
	uploadWorkers  int
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	vendorRepo portsrepo.VendorRepositoryFacade,
	extractor portssvc.Extractor,
	integrity *IntegrityService,
	complianceSvc portssvc.ComplianceSvcFacade,
	auditSvc portssvc.AuditSvcFacade,
	retentionYears int,
	uploadWorkers int,
) portssvc.InvoiceSvcFacade {
	if uploadWorkers < 1 {
		uploadWorkers = 1
	}
	return &invoiceService{
		invoiceRepo:    invoiceRepo,
		vendorRepo:     vendorRepo,
		extractor:      extractor,
		integrity:      integrity,
		complianceSvc:  complianceSvc,
		auditSvc:       auditSvc,
		retentionYears: retentionYears,
		uploadWorkers:  uploadWorkers,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// UploadInvoices runs the ingestion pipeline for each file across a bounded
// worker pool. An extraction failure parks that invoice in extraction_failed
// and is not an error of the batch; storage failures abort the batch.
func (s *invoiceService) UploadInvoices(ctx context.Context, files []dto.UploadedFile, actor domain.Actor) ([]domain.Invoice, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files provided")
	}

	results := make([]domain.Invoice, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.uploadWorkers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			inv, err := s.ingestOne(gctx, file, actor)
			if err != nil {
				return err
			}
			results[i] = *inv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ingestOne stores one file, records the invoice in uploaded, then runs
// extraction and the automatic compliance check.
func (s *invoiceService) ingestOne(ctx context.Context, file dto.UploadedFile, actor domain.Actor) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	relPath, digest, err := s.integrity.Ingest(file.Content, file.Filename)
	if err != nil {
		logger.Error("failed to store uploaded file", slog.String("filename", file.Filename), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now()
	inv := domain.Invoice{
		InvoiceID:          uuid.NewString(),
		Status:             domain.StatusUploaded,
		FilePath:           relPath,
		FileHashSHA256:     digest,
		OriginalFilename:   file.Filename,
		SourceType:         domain.SourceUpload,
		RegistrationStatus: domain.RegistrationUnchecked,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.invoiceRepo.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   inv.InvoiceID,
		Action:     domain.AuditActionCreate,
		NewValues: domain.Document{
			"original_filename": file.Filename,
			"file_hash_sha256":  digest,
		},
		IPAddress: actor.IP,
	})

	doc, err := s.extractor.Extract(ctx, file.Content, file.Filename)
	if err != nil {
		logger.Warn("extraction failed", slog.String("invoice_id", inv.InvoiceID), slog.String("error", err.Error()))
		failure := domain.Document{"error": err.Error()}
		if markErr := s.invoiceRepo.MarkExtractionFailed(ctx, inv.InvoiceID, failure, time.Now()); markErr != nil {
			return nil, markErr
		}
		inv.Status = domain.StatusExtractionFailed
		inv.ExtractionResult = failure
		return &inv, nil
	}

	s.applyExtractedFields(ctx, &inv, doc, actor)
	// The retention obligation attaches at extraction, running from the
	// issuance date; the upload clock is the fallback for undated documents.
	retention := time.Now().AddDate(s.retentionYears, 0, 0)
	if inv.InvoiceDate != nil {
		retention = inv.InvoiceDate.AddDate(s.retentionYears, 0, 0)
	}
	inv.RetentionUntil = &retention
	inv.Status = domain.StatusExtracted
	inv.LastUpdatedAt = time.Now()
	if err := s.invoiceRepo.ApplyExtraction(ctx, inv); err != nil {
		return nil, err
	}

	// The automatic compliance pass is best effort; the invoice stays in
	// extracted and can be re-checked on demand when it fails here.
	if _, err := s.complianceSvc.CheckInvoice(ctx, inv.InvoiceID, actor); err != nil {
		logger.Warn("automatic compliance check failed", slog.String("invoice_id", inv.InvoiceID), slog.String("error", err.Error()))
		return &inv, nil
	}

	refreshed, err := s.invoiceRepo.FindInvoiceByID(ctx, inv.InvoiceID)
	if err != nil {
		return &inv, nil
	}
	return refreshed, nil
}

// applyExtractedFields copies the extractor payload onto the invoice. The raw
// payload is preserved verbatim in ExtractionResult; everything else is a
// normalized parse of it.
func (s *invoiceService) applyExtractedFields(ctx context.Context, inv *domain.Invoice, doc domain.Document, actor domain.Actor) {
	inv.ExtractionResult = doc

	if v, ok := doc.GetString("invoice_number"); ok {
		inv.InvoiceNumber = v
	}
	if v, ok := doc.GetString("registration_number"); ok {
		inv.RegistrationNumber = strings.TrimSpace(v)
	}
	if v, ok := doc.GetString("description"); ok {
		inv.Description = v
	}
	if v, ok := doc.GetString("recipient_name"); ok {
		inv.RecipientName = v
	}
	if v, ok := doc.GetString("invoice_date"); ok {
		inv.InvoiceDate = parseDate(v)
	}
	if v, ok := doc.GetString("due_date"); ok {
		inv.DueDate = parseDate(v)
	}
	inv.TotalAmount = parseAmount(doc["total_amount"])
	inv.SubtotalAmount = parseAmount(doc["subtotal_amount"])
	inv.TaxAmount = parseAmount(doc["tax_amount"])
	inv.Tax8Amount = parseAmount(doc["tax_8_amount"])
	inv.Tax10Amount = parseAmount(doc["tax_10_amount"])

	if details, ok := doc["details"].([]any); ok {
		for _, raw := range details {
			line, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			detail := domain.InvoiceDetail{
				DetailID:  uuid.NewString(),
				InvoiceID: inv.InvoiceID,
				Amount:    parseAmount(line["amount"]),
				Tax:       parseAmount(line["tax"]),
			}
			if v, ok := line["description"].(string); ok {
				detail.Description = v
			}
			if v, ok := line["tax_rate"].(string); ok {
				detail.TaxRate = v
			}
			inv.Details = append(inv.Details, detail)
		}
	}

	if bank, ok := doc["bank_account"].(map[string]any); ok {
		account := &domain.BankAccount{
			BankAccountID: uuid.NewString(),
			InvoiceID:     inv.InvoiceID,
		}
		if v, ok := bank["bank_name"].(string); ok {
			account.BankName = v
		}
		if v, ok := bank["branch_name"].(string); ok {
			account.BranchName = v
		}
		if v, ok := bank["account_type"].(string); ok {
			account.AccountType = v
		}
		if v, ok := bank["account_number"].(string); ok {
			account.AccountNumber = v
		}
		if v, ok := bank["account_holder"].(string); ok {
			account.AccountHolder = v
		}
		inv.BankAccount = account
	}

	if vendorName, ok := doc.GetString("vendor_name"); ok {
		s.resolveVendor(ctx, inv, vendorName, actor)
	}
}

// resolveVendor finds or creates the vendor named by the extractor and
// auto-classifies the invoice's department from the vendor's history. Both
// are best effort; an unclassified invoice is assigned during review.
func (s *invoiceService) resolveVendor(ctx context.Context, inv *domain.Invoice, vendorName string, actor domain.Actor) {
	logger := middleware.GetLoggerFromCtx(ctx)

	vendor, err := s.vendorRepo.FindVendorByName(ctx, vendorName)
	if err != nil {
		logger.Warn("vendor lookup failed", slog.String("vendor_name", vendorName), slog.String("error", err.Error()))
		return
	}
	if vendor == nil {
		now := time.Now()
		vendor = &domain.Vendor{
			VendorID:           uuid.NewString(),
			Name:               vendorName,
			RegistrationNumber: inv.RegistrationNumber,
			RegistrationStatus: domain.RegistrationUnchecked,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		if err := s.vendorRepo.SaveVendor(ctx, *vendor); err != nil {
			logger.Warn("vendor creation failed", slog.String("vendor_name", vendorName), slog.String("error", err.Error()))
			return
		}
	}
	inv.VendorID = &vendor.VendorID
	inv.VendorName = vendor.Name

	if vendor.DefaultDepartmentID != nil {
		inv.DepartmentID = vendor.DefaultDepartmentID
		return
	}
	departmentID, err := s.vendorRepo.FindLastDepartmentForVendor(ctx, vendor.VendorID)
	if err != nil {
		logger.Warn("department auto-classification failed", slog.String("vendor_id", vendor.VendorID), slog.String("error", err.Error()))
		return
	}
	inv.DepartmentID = departmentID
}

// GetInvoiceByID returns one invoice, enforcing department scoping for
// department-role callers.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleDepartment {
		if actor.DepartmentID == nil || inv.DepartmentID == nil || *inv.DepartmentID != *actor.DepartmentID {
			return nil, apperrors.ErrForbidden
		}
	}
	return inv, nil
}

// ListInvoices returns a filtered page. Department-role callers are always
// narrowed to their own department regardless of the requested filter.
func (s *invoiceService) ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter, actor domain.Actor) ([]domain.Invoice, int64, error) {
	if actor.Role == domain.RoleDepartment {
		if actor.DepartmentID == nil {
			return []domain.Invoice{}, 0, nil
		}
		filter.DepartmentID = actor.DepartmentID
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}
	invoices, total, err := s.invoiceRepo.ListInvoices(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return invoices, total, nil
}

// editableStatuses are the states in which manual field edits are accepted.
var editableStatuses = map[domain.InvoiceStatus]bool{
	domain.StatusUploaded:          true,
	domain.StatusExtracted:         true,
	domain.StatusExtractionFailed:  true,
	domain.StatusComplianceChecked: true,
	domain.StatusReviewed:          true,
}

// UpdateInvoice applies manual review edits. Only changed fields enter the
// audit diff; a non-nil Details slice replaces all line items.
func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, actor domain.Actor) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !editableStatuses[inv.Status] {
		return nil, apperrors.NewStateConflictError("invoice in status " + string(inv.Status) + " is not editable")
	}
	if actor.Role == domain.RoleViewer {
		return nil, apperrors.ErrForbidden
	}
	if actor.Role == domain.RoleDepartment {
		if actor.DepartmentID == nil || inv.DepartmentID == nil || *inv.DepartmentID != *actor.DepartmentID {
			return nil, apperrors.ErrForbidden
		}
	}

	oldValues := domain.Document{}
	newValues := domain.Document{}

	applyString(&inv.InvoiceNumber, req.InvoiceNumber, "invoice_number", oldValues, newValues)
	applyString(&inv.RegistrationNumber, req.RegistrationNumber, "registration_number", oldValues, newValues)
	applyString(&inv.Description, req.Description, "description", oldValues, newValues)
	applyString(&inv.RecipientName, req.RecipientName, "recipient_name", oldValues, newValues)
	applyStringPtr(&inv.VendorID, req.VendorID, "vendor_id", oldValues, newValues)
	applyStringPtr(&inv.DepartmentID, req.DepartmentID, "department_id", oldValues, newValues)
	applyTime(&inv.InvoiceDate, req.InvoiceDate, "invoice_date", oldValues, newValues)
	applyTime(&inv.DueDate, req.DueDate, "due_date", oldValues, newValues)
	applyDecimal(&inv.TotalAmount, req.TotalAmount, "total_amount", oldValues, newValues)
	applyDecimal(&inv.SubtotalAmount, req.SubtotalAmount, "subtotal_amount", oldValues, newValues)
	applyDecimal(&inv.TaxAmount, req.TaxAmount, "tax_amount", oldValues, newValues)
	applyDecimal(&inv.Tax8Amount, req.Tax8Amount, "tax_8_amount", oldValues, newValues)
	applyDecimal(&inv.Tax10Amount, req.Tax10Amount, "tax_10_amount", oldValues, newValues)

	replaceDetails := req.Details != nil
	if replaceDetails {
		oldValues["details_count"] = len(inv.Details)
		inv.Details = inv.Details[:0]
		for _, line := range req.Details {
			inv.Details = append(inv.Details, domain.InvoiceDetail{
				DetailID:    uuid.NewString(),
				InvoiceID:   inv.InvoiceID,
				Description: line.Description,
				Amount:      line.Amount,
				Tax:         line.Tax,
				TaxRate:     line.TaxRate,
			})
		}
		newValues["details_count"] = len(inv.Details)
	}
	if req.BankAccount != nil {
		inv.BankAccount = &domain.BankAccount{
			BankAccountID: uuid.NewString(),
			InvoiceID:     inv.InvoiceID,
			BankName:      req.BankAccount.BankName,
			BranchName:    req.BankAccount.BranchName,
			AccountType:   req.BankAccount.AccountType,
			AccountNumber: req.BankAccount.AccountNumber,
			AccountHolder: req.BankAccount.AccountHolder,
		}
		newValues["bank_account"] = req.BankAccount.AccountNumber
	}

	if len(newValues) == 0 {
		return inv, nil
	}

	inv.LastUpdatedAt = time.Now()
	inv.LastUpdatedBy = actor.UserID
	if err := s.invoiceRepo.UpdateInvoice(ctx, *inv, replaceDetails); err != nil {
		return nil, err
	}

	// A manual edit of a compliance-checked invoice records the review.
	// Losing the CAS race means another actor moved it on; the edit stands.
	if inv.Status == domain.StatusComplianceChecked {
		err := s.invoiceRepo.TransitionStatus(ctx, invoiceID, domain.AllowedSources(domain.TriggerReview), domain.StatusReviewed, nil, inv.LastUpdatedAt)
		switch {
		case err == nil:
			oldValues["status"] = string(domain.StatusComplianceChecked)
			newValues["status"] = string(domain.StatusReviewed)
			inv.Status = domain.StatusReviewed
		case !errors.Is(err, apperrors.ErrStateConflict):
			return nil, err
		}
	}

	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionUpdate,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  actor.IP,
	})
	return inv, nil
}

// ApproveInvoice moves the invoice to approved, recording who approved and
// when. The CAS write guarantees two racing approvals resolve to one winner.
func (s *invoiceService) ApproveInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	if !actor.Role.CanApprove() {
		return nil, apperrors.ErrForbidden
	}
	approvedBy := actor.UserID
	if err := s.invoiceRepo.TransitionStatus(ctx, invoiceID, domain.AllowedSources(domain.TriggerApprove), domain.StatusApproved, &approvedBy, time.Now()); err != nil {
		return nil, err
	}
	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionApprove,
		NewValues:  domain.Document{"status": string(domain.StatusApproved)},
		IPAddress:  actor.IP,
	})
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// RejectInvoice moves the invoice to rejected. Rejected is terminal; a
// corrected document enters as a fresh upload.
func (s *invoiceService) RejectInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	if !actor.Role.CanApprove() {
		return nil, apperrors.ErrForbidden
	}
	if err := s.invoiceRepo.TransitionStatus(ctx, invoiceID, domain.AllowedSources(domain.TriggerReject), domain.StatusRejected, nil, time.Now()); err != nil {
		return nil, err
	}
	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionReject,
		NewValues:  domain.Document{"status": string(domain.StatusRejected)},
		IPAddress:  actor.IP,
	})
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// ArchiveInvoice moves a transferred invoice into retention bookkeeping.
func (s *invoiceService) ArchiveInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	if !actor.Role.CanApprove() {
		return nil, apperrors.ErrForbidden
	}
	if err := s.invoiceRepo.TransitionStatus(ctx, invoiceID, domain.AllowedSources(domain.TriggerArchive), domain.StatusArchived, nil, time.Now()); err != nil {
		return nil, err
	}
	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionArchive,
		NewValues:  domain.Document{"status": string(domain.StatusArchived)},
		IPAddress:  actor.IP,
	})
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// DeleteInvoice soft-deletes an invoice. Once the retention obligation has
// attached, deletion is refused until retention_until has passed, whatever the
// status; audit entries referencing the invoice remain.
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string, actor domain.Actor) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.ErrForbidden
	}
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	now := time.Now()
	if inv.RetentionUntil != nil && now.Before(*inv.RetentionUntil) {
		return apperrors.NewStateConflictError("invoice is within its retention period until " + inv.RetentionUntil.Format("2006-01-02"))
	}
	if err := s.invoiceRepo.MarkInvoiceDeleted(ctx, invoiceID, actor.UserID, now); err != nil {
		return err
	}
	s.auditSvc.RecordAction(ctx, domain.AuditEntry{
		UserID:     actorUserID(actor),
		EntityType: domain.AuditEntityInvoice,
		EntityID:   invoiceID,
		Action:     domain.AuditActionSoftDelete,
		OldValues:  domain.Document{"status": string(inv.Status)},
		IPAddress:  actor.IP,
	})
	return nil
}

// VerifyInvoiceFile delegates the explicit hash check to the integrity ledger.
func (s *invoiceService) VerifyInvoiceFile(ctx context.Context, invoiceID string) (bool, string, error) {
	return s.integrity.VerifyInvoiceFile(ctx, invoiceID)
}

// dateLayouts are the extractor date spellings in observed frequency order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006年1月2日",
	"2006.01.02",
	time.RFC3339,
}

// parseDate parses an extracted date string; unparseable input yields nil so
// the compliance check reports the date as missing instead of wrong.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// amountReplacer strips currency decorations before numeric parsing.
var amountReplacer = strings.NewReplacer("¥", "", "￥", "", ",", "", "，", "", "円", "", " ", "", "　", "")

// parseAmount normalizes an extracted monetary value. JSON numbers arrive as
// float64; strings may carry yen signs, commas and the 円 suffix.
func parseAmount(v any) *decimal.Decimal {
	switch value := v.(type) {
	case nil:
		return nil
	case float64:
		d := decimal.NewFromFloat(value)
		return &d
	case int:
		d := decimal.NewFromInt(int64(value))
		return &d
	case int64:
		d := decimal.NewFromInt(value)
		return &d
	case string:
		cleaned := amountReplacer.Replace(strings.TrimSpace(value))
		if cleaned == "" {
			return nil
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

func applyString(dst *string, src *string, key string, oldValues, newValues domain.Document) {
	if src == nil || *src == *dst {
		return
	}
	oldValues[key] = *dst
	newValues[key] = *src
	*dst = *src
}

func applyStringPtr(dst **string, src *string, key string, oldValues, newValues domain.Document) {
	if src == nil {
		return
	}
	if *dst != nil && **dst == *src {
		return
	}
	if *dst != nil {
		oldValues[key] = **dst
	} else {
		oldValues[key] = nil
	}
	newValues[key] = *src
	value := *src
	*dst = &value
}

func applyTime(dst **time.Time, src *time.Time, key string, oldValues, newValues domain.Document) {
	if src == nil {
		return
	}
	if *dst != nil && (*dst).Equal(*src) {
		return
	}
	if *dst != nil {
		oldValues[key] = (*dst).Format("2006-01-02")
	} else {
		oldValues[key] = nil
	}
	newValues[key] = src.Format("2006-01-02")
	value := *src
	*dst = &value
}

func applyDecimal(dst **decimal.Decimal, src *decimal.Decimal, key string, oldValues, newValues domain.Document) {
	if src == nil {
		return
	}
	if *dst != nil && (*dst).Equal(*src) {
		return
	}
	if *dst != nil {
		oldValues[key] = (*dst).String()
	} else {
		oldValues[key] = nil
	}
	newValues[key] = src.String()
	value := *src
	*dst = &value
}
