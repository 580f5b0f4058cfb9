package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/middleware"
)

const (
	auditDefaultLimit = 100
	auditMaxLimit     = 500
)

// auditService appends to and reads the append-only audit trail. Writes
// happen after the business transition has committed; a failed write is
// logged as degraded operation and never propagated, so audit availability
// can not roll back business state.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// RecordAction appends one entry, filling in id and timestamp.
func (s *auditService) RecordAction(ctx context.Context, entry domain.AuditEntry) {
	if entry.AuditID == "" {
		entry.AuditID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.auditRepo.SaveEntry(ctx, entry); err != nil {
		logger := middleware.GetLoggerFromCtx(ctx)
		logger.Error("audit write failed, continuing in degraded mode",
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.String("action", entry.Action),
			slog.String("error", err.Error()))
	}
}

// ListEntries reads most-recent-first with the limit clamped to a sane range.
func (s *auditService) ListEntries(ctx context.Context, filter portsrepo.AuditListFilter) ([]domain.AuditEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = auditDefaultLimit
	}
	if filter.Limit > auditMaxLimit {
		filter.Limit = auditMaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	entries, err := s.auditRepo.ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}
