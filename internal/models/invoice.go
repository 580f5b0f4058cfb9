package models

import (
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Invoice is the database row shape of an invoice.
type Invoice struct {
	InvoiceID      string
	InvoiceNumber  *string
	VendorID       *string
	DepartmentID   *string
	AssignedUserID *string
	ApprovedByID   *string

	Status string

	InvoiceDate *time.Time
	DueDate     *time.Time

	TotalAmount    *decimal.Decimal
	SubtotalAmount *decimal.Decimal
	TaxAmount      *decimal.Decimal
	Tax8Amount     *decimal.Decimal
	Tax10Amount    *decimal.Decimal

	FilePath         string
	FileHashSHA256   string
	OriginalFilename string
	SourceType       string

	RegistrationNumber *string
	RegistrationStatus *string

	ExtractionResult      domain.Document
	ComplianceCheckResult *domain.ComplianceCheck

	Description   *string
	RecipientName *string

	IsDeleted      bool
	RetentionUntil *time.Time
	ApprovedAt     *time.Time

	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string

	// Joined columns, populated by list/find queries.
	VendorName     *string
	DepartmentName *string
}

// InvoiceDetail is the database row shape of a line item.
type InvoiceDetail struct {
	DetailID    string
	InvoiceID   string
	Description *string
	Amount      *decimal.Decimal
	Tax         *decimal.Decimal
	TaxRate     *string
}

// BankAccount is the database row shape of a transfer destination.
type BankAccount struct {
	BankAccountID string
	InvoiceID     string
	BankName      *string
	BranchName    *string
	AccountType   *string
	AccountNumber *string
	AccountHolder *string
}
