package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
)

// PgxReportingRepository computes dashboard projections with aggregate
// queries; nothing here writes.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// DashboardSummary aggregates status counts, due-date buckets against now,
// and per-department totals, optionally scoped to one department.
func (r *PgxReportingRepository) DashboardSummary(ctx context.Context, departmentID *string, now time.Time) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		ByStatus: make(map[domain.InvoiceStatus]int64),
	}

	scope := `NOT is_deleted AND ($1::text IS NULL OR department_id = $1)`

	statusQuery := `SELECT status, COUNT(*) FROM invoices WHERE ` + scope + ` GROUP BY status`
	rows, err := r.Pool.Query(ctx, statusQuery, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to count invoices by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		summary.ByStatus[domain.InvoiceStatus(status)] = count
		summary.TotalInvoices += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Due-date buckets only count invoices still moving through the
	// pipeline; transferred and archived ones are settled.
	dueQuery := `
		SELECT
			COUNT(*) FILTER (WHERE due_date >= $2 AND due_date < $3),
			COUNT(*) FILTER (WHERE due_date < $2)
		FROM invoices
		WHERE ` + scope + ` AND due_date IS NOT NULL AND NOT (status = ANY($4));
	`
	settled := []string{string(domain.StatusRejected), string(domain.StatusTransferred), string(domain.StatusArchived)}
	err = r.Pool.QueryRow(ctx, dueQuery, departmentID, now, now.AddDate(0, 0, 7), settled).
		Scan(&summary.UpcomingDue7d, &summary.Overdue)
	if err != nil {
		return nil, fmt.Errorf("failed to count due-date buckets: %w", err)
	}

	deptQuery := `
		SELECT d.name, COALESCE(SUM(i.total_amount), 0), COUNT(*)
		FROM invoices i
		JOIN departments d ON d.department_id = i.department_id
		WHERE NOT i.is_deleted AND ($1::text IS NULL OR i.department_id = $1)
		GROUP BY d.name
		ORDER BY SUM(i.total_amount) DESC NULLS LAST;
	`
	deptRows, err := r.Pool.Query(ctx, deptQuery, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate department totals: %w", err)
	}
	defer deptRows.Close()
	for deptRows.Next() {
		var t domain.DepartmentTotal
		var total decimal.Decimal
		if err := deptRows.Scan(&t.Name, &total, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan department total: %w", err)
		}
		t.TotalAmount = total
		summary.ByDepartment = append(summary.ByDepartment, t)
	}
	if err := deptRows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}

// ComplianceDashboard partitions non-deleted invoices into registration
// buckets. The three buckets always sum to the total.
func (r *PgxReportingRepository) ComplianceDashboard(ctx context.Context) (*domain.ComplianceDashboard, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE registration_status = $1),
			COUNT(*) FILTER (WHERE registration_status = $2),
			COUNT(*) FILTER (WHERE registration_status IS NULL OR registration_status NOT IN ($1, $2))
		FROM invoices WHERE NOT is_deleted;
	`
	var dash domain.ComplianceDashboard
	err := r.Pool.QueryRow(ctx, query, string(domain.RegistrationValid), string(domain.RegistrationInvalid)).
		Scan(&dash.TotalInvoices, &dash.ValidRegistration, &dash.InvalidRegistration, &dash.UncheckedRegistration)
	if err != nil {
		return nil, fmt.Errorf("failed to compute compliance dashboard: %w", err)
	}
	return &dash, nil
}
