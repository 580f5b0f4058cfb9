package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InvoiceRepo:    newPgxInvoiceRepository(dbPool),
		AuditRepo:      newPgxAuditRepository(dbPool),
		VendorRepo:     newPgxVendorRepository(dbPool),
		DepartmentRepo: newPgxDepartmentRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		ReportingRepo:  newPgxReportingRepository(dbPool),
	}
}
