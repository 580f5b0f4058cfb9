package repositories

// RepositoryProvider bundles the repository facades handed to the service
// layer. Wiring happens once at startup.
type RepositoryProvider struct {
	InvoiceRepo    InvoiceRepositoryFacade
	AuditRepo      AuditRepositoryFacade
	VendorRepo     VendorRepositoryFacade
	DepartmentRepo DepartmentRepositoryFacade
	UserRepo       UserRepositoryFacade
	ReportingRepo  ReportingRepository
}
