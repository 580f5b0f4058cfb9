package domain

import "github.com/shopspring/decimal"

// DepartmentTotal is the per-department slice of the dashboard summary.
type DepartmentTotal struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int64           `json:"count"`
}

// DashboardSummary is a pure read projection over the invoice set, computed
// at request time. It is never cached as entity state.
type DashboardSummary struct {
	TotalInvoices int64                   `json:"total_invoices"`
	ByStatus      map[InvoiceStatus]int64 `json:"by_status"`
	UpcomingDue7d int64                   `json:"upcoming_due_7days"`
	Overdue       int64                   `json:"overdue"`
	ByDepartment  []DepartmentTotal       `json:"by_department"`
}

// ComplianceDashboard partitions invoices by registration status. The three
// buckets always sum to TotalInvoices.
type ComplianceDashboard struct {
	TotalInvoices         int64 `json:"total_invoices"`
	ValidRegistration     int64 `json:"valid_registration"`
	InvalidRegistration   int64 `json:"invalid_registration"`
	UncheckedRegistration int64 `json:"unchecked_registration"`
}
