package services

import (
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	portssvc "github.com/hfujimori/invoice_kanri_app/internal/core/ports/services"
	"github.com/hfujimori/invoice_kanri_app/internal/platform/config"
)

// Capabilities bundles the external collaborators injected into the service
// layer: the extraction service, the registration registry, the transfer
// provider and the file store. Tests substitute deterministic fakes here.
type Capabilities struct {
	Extractor portssvc.Extractor
	Registry  portssvc.RegistryClient
	Transfer  portssvc.TransferProvider
	FileStore portssvc.FileStore
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, caps Capabilities) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first: almost every other service records through it.
	container.Audit = NewAuditService(repos.AuditRepo)

	integrity := NewIntegrityService(caps.FileStore, repos.InvoiceRepo)

	container.Compliance = NewComplianceService(
		repos.InvoiceRepo,
		repos.VendorRepo,
		repos.ReportingRepo,
		caps.Registry,
		container.Audit,
	)
	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.VendorRepo,
		caps.Extractor,
		integrity,
		container.Compliance,
		container.Audit,
		cfg.RetentionYears,
		cfg.UploadWorkers,
	)
	container.Transfer = NewTransferService(repos.InvoiceRepo, caps.Transfer, container.Audit)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.User = NewUserService(repos.UserRepo, container.Audit)
	container.Token = NewTokenService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
	container.Department = NewDepartmentService(repos.DepartmentRepo, container.Audit)
	container.Vendor = NewVendorService(repos.VendorRepo, container.Audit)

	return container
}
