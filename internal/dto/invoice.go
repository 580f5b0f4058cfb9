package dto

import (
	"time"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UploadedFile is one file of a multipart upload, read fully into memory
// before hashing so the digest covers the raw bytes prior to any transform.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// InvoiceDetailPayload is a line item in update requests and responses.
type InvoiceDetailPayload struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Tax         *decimal.Decimal `json:"tax"`
	TaxRate     string           `json:"tax_rate"`
}

// BankAccountPayload carries transfer destination fields.
type BankAccountPayload struct {
	BankName      string `json:"bank_name"`
	BranchName    string `json:"branch_name"`
	AccountType   string `json:"account_type"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

// UpdateInvoiceRequest edits invoice fields during manual review. Nil fields
// are left unchanged; a non-nil Details slice replaces all line items.
type UpdateInvoiceRequest struct {
	InvoiceNumber      *string                `json:"invoice_number"`
	VendorID           *string                `json:"vendor_id"`
	DepartmentID       *string                `json:"department_id"`
	InvoiceDate        *time.Time             `json:"invoice_date"`
	DueDate            *time.Time             `json:"due_date"`
	TotalAmount        *decimal.Decimal       `json:"total_amount"`
	SubtotalAmount     *decimal.Decimal       `json:"subtotal_amount"`
	TaxAmount          *decimal.Decimal       `json:"tax_amount"`
	Tax8Amount         *decimal.Decimal       `json:"tax_8_amount"`
	Tax10Amount        *decimal.Decimal       `json:"tax_10_amount"`
	RegistrationNumber *string                `json:"invoice_registration_number"`
	Description        *string                `json:"description"`
	RecipientName      *string                `json:"recipient_name"`
	BankAccount        *BankAccountPayload    `json:"bank_account"`
	Details            []InvoiceDetailPayload `json:"details"`
}

// ListInvoicesRequest is the query surface of the invoice listing.
type ListInvoicesRequest struct {
	Page         int        `form:"page,default=1" binding:"min=1"`
	PerPage      int        `form:"per_page,default=20" binding:"min=1,max=100"`
	Status       string     `form:"status"`
	DepartmentID string     `form:"department_id"`
	VendorName   string     `form:"vendor_name"`
	DateFrom     *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"date_to" time_format:"2006-01-02"`
	AmountMin    *int64     `form:"amount_min"`
	AmountMax    *int64     `form:"amount_max"`
}

// InvoiceResponse is the API projection of an invoice.
type InvoiceResponse struct {
	ID                 string                  `json:"id"`
	InvoiceNumber      string                  `json:"invoice_number"`
	VendorID           *string                 `json:"vendor_id"`
	VendorName         string                  `json:"vendor_name,omitempty"`
	DepartmentID       *string                 `json:"department_id"`
	DepartmentName     string                  `json:"department_name,omitempty"`
	Status             string                  `json:"status"`
	InvoiceDate        *time.Time              `json:"invoice_date"`
	DueDate            *time.Time              `json:"due_date"`
	TotalAmount        *decimal.Decimal        `json:"total_amount"`
	SubtotalAmount     *decimal.Decimal        `json:"subtotal_amount"`
	TaxAmount          *decimal.Decimal        `json:"tax_amount"`
	Tax8Amount         *decimal.Decimal        `json:"tax_8_amount"`
	Tax10Amount        *decimal.Decimal        `json:"tax_10_amount"`
	FilePath           string                  `json:"file_path"`
	FileHashSHA256     string                  `json:"file_hash_sha256"`
	OriginalFilename   string                  `json:"original_filename"`
	SourceType         string                  `json:"source_type"`
	RegistrationNumber string                  `json:"invoice_registration_number"`
	RegistrationStatus string                  `json:"invoice_registration_status"`
	ComplianceResult   *domain.ComplianceCheck `json:"compliance_check_result,omitempty"`
	Description        string                  `json:"description"`
	RecipientName      string                  `json:"recipient_name"`
	RetentionUntil     *time.Time              `json:"retention_until"`
	ApprovedAt         *time.Time              `json:"approved_at"`
	CreatedAt          time.Time               `json:"created_at"`
	Details            []InvoiceDetailPayload  `json:"details"`
	BankAccount        *BankAccountPayload     `json:"bank_account,omitempty"`
}

// ListInvoicesResponse is the paged invoice listing.
type ListInvoicesResponse struct {
	Items   []InvoiceResponse `json:"items"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// VerifyHashResponse reports the integrity check outcome.
type VerifyHashResponse struct {
	Valid    bool   `json:"valid"`
	Expected string `json:"expected"`
}

// ToInvoiceResponse maps a domain invoice to its API projection.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                 inv.InvoiceID,
		InvoiceNumber:      inv.InvoiceNumber,
		VendorID:           inv.VendorID,
		VendorName:         inv.VendorName,
		DepartmentID:       inv.DepartmentID,
		DepartmentName:     inv.DepartmentName,
		Status:             string(inv.Status),
		InvoiceDate:        inv.InvoiceDate,
		DueDate:            inv.DueDate,
		TotalAmount:        inv.TotalAmount,
		SubtotalAmount:     inv.SubtotalAmount,
		TaxAmount:          inv.TaxAmount,
		Tax8Amount:         inv.Tax8Amount,
		Tax10Amount:        inv.Tax10Amount,
		FilePath:           inv.FilePath,
		FileHashSHA256:     inv.FileHashSHA256,
		OriginalFilename:   inv.OriginalFilename,
		SourceType:         string(inv.SourceType),
		RegistrationNumber: inv.RegistrationNumber,
		RegistrationStatus: string(inv.RegistrationStatus),
		ComplianceResult:   inv.ComplianceResult,
		Description:        inv.Description,
		RecipientName:      inv.RecipientName,
		RetentionUntil:     inv.RetentionUntil,
		ApprovedAt:         inv.ApprovedAt,
		CreatedAt:          inv.CreatedAt,
		Details:            make([]InvoiceDetailPayload, 0, len(inv.Details)),
	}
	for _, d := range inv.Details {
		resp.Details = append(resp.Details, InvoiceDetailPayload{
			Description: d.Description,
			Amount:      d.Amount,
			Tax:         d.Tax,
			TaxRate:     d.TaxRate,
		})
	}
	if inv.BankAccount != nil {
		resp.BankAccount = &BankAccountPayload{
			BankName:      inv.BankAccount.BankName,
			BranchName:    inv.BankAccount.BranchName,
			AccountType:   inv.BankAccount.AccountType,
			AccountNumber: inv.BankAccount.AccountNumber,
			AccountHolder: inv.BankAccount.AccountHolder,
		}
	}
	return resp
}

// ToInvoiceResponses maps a slice of invoices.
func ToInvoiceResponses(invoices []domain.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, ToInvoiceResponse(&invoices[i]))
	}
	return out
}
