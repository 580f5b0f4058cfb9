package services

import (
	"context"
	"log/slog"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
	"github.com/hfujimori/invoice_kanri_app/internal/utils"
)

// IntegrityService is the tamper-evidence ledger: it computes content digests
// at ingestion and re-verifies them on explicit request. Digests are never
// recomputed on read paths.
type IntegrityService struct {
	store       portssvc.FileStore
	invoiceRepo portsrepo.InvoiceReader
}

// NewIntegrityService creates a new IntegrityService.
func NewIntegrityService(store portssvc.FileStore, invoiceRepo portsrepo.InvoiceReader) *IntegrityService {
	return &IntegrityService{store: store, invoiceRepo: invoiceRepo}
}

// Ingest stores the raw uploaded bytes and returns the relative storage path
// together with the SHA-256 digest computed before any transformation.
func (s *IntegrityService) Ingest(content []byte, originalFilename string) (relPath string, digest string, err error) {
	relPath, err = s.store.Save(content, originalFilename)
	if err != nil {
		return "", "", err
	}
	return relPath, utils.ComputeSHA256(content), nil
}

// VerifyInvoiceFile re-reads the stored bytes, recomputes the digest and
// compares it to the value recorded at ingestion. A mismatch is a tamper
// signal surfaced to the operator; the invoice status is never altered here.
func (s *IntegrityService) VerifyInvoiceFile(ctx context.Context, invoiceID string) (bool, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inv, err := s.invoiceRepo.FindInvoiceByIDAny(ctx, invoiceID)
	if err != nil {
		return false, "", err
	}
	if inv.FilePath == "" || inv.FileHashSHA256 == "" {
		return false, "", apperrors.NewNotFoundError("invoice " + invoiceID + " has no stored file")
	}

	content, err := s.store.Read(inv.FilePath)
	if err != nil {
		return false, "", apperrors.NewNotFoundError("stored file missing for invoice " + invoiceID)
	}

	actual := utils.ComputeSHA256(content)
	if actual != inv.FileHashSHA256 {
		logger.Warn("Integrity check failed: stored file digest mismatch",
			slog.String("invoice_id", invoiceID),
			slog.String("expected", inv.FileHashSHA256),
			slog.String("actual", actual),
		)
		return false, inv.FileHashSHA256, nil
	}
	return true, inv.FileHashSHA256, nil
}
