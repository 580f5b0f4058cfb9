package repositories

import (
	"context"
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

// ReportingRepository computes read projections over the invoice set. The
// projections are recomputed per call against "now"; nothing is cached.
type ReportingRepository interface {
	// DashboardSummary aggregates status counts, due-date buckets and
	// per-department totals. departmentID, when non-nil, scopes the counts
	// (used for role=department callers).
	DashboardSummary(ctx context.Context, departmentID *string, now time.Time) (*domain.DashboardSummary, error)

	// ComplianceDashboard partitions non-deleted invoices into
	// valid/invalid/unchecked registration buckets.
	ComplianceDashboard(ctx context.Context) (*domain.ComplianceDashboard, error)
}
