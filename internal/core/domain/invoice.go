package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the closed set of lifecycle states an invoice moves through.
type InvoiceStatus string

const (
	StatusUploaded          InvoiceStatus = "uploaded"
	StatusExtracted         InvoiceStatus = "extracted"
	StatusExtractionFailed  InvoiceStatus = "extraction_failed"
	StatusComplianceChecked InvoiceStatus = "compliance_checked"
	StatusReviewed          InvoiceStatus = "reviewed"
	StatusApproved          InvoiceStatus = "approved"
	StatusRejected          InvoiceStatus = "rejected"
	StatusTransferred       InvoiceStatus = "transferred"
	StatusArchived          InvoiceStatus = "archived"
)

// AllStatuses lists every invoice status, in pipeline order.
var AllStatuses = []InvoiceStatus{
	StatusUploaded,
	StatusExtracted,
	StatusExtractionFailed,
	StatusComplianceChecked,
	StatusReviewed,
	StatusApproved,
	StatusRejected,
	StatusTransferred,
	StatusArchived,
}

// IsValid reports whether s is a member of the closed status set.
func (s InvoiceStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s ends the active pipeline. A rejected invoice is
// only re-submitted via a new upload, never re-opened. Transferred invoices
// still accept the archive trigger as retention bookkeeping.
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusTransferred || s == StatusArchived
}

// Trigger names a lifecycle transition request.
type Trigger string

const (
	TriggerExtractionSucceeded Trigger = "extraction_succeeded"
	TriggerExtractionFailed    Trigger = "extraction_failed"
	TriggerComplianceCheck     Trigger = "compliance_check"
	TriggerReview              Trigger = "review"
	TriggerApprove             Trigger = "approve"
	TriggerReject              Trigger = "reject"
	TriggerTransfer            Trigger = "transfer"
	TriggerArchive             Trigger = "archive"
)

// reviewableStatuses are the sources from which approve and reject are legal.
// Reviewed is an optional annotation state, not a mandatory gate.
var reviewableStatuses = []InvoiceStatus{StatusExtracted, StatusComplianceChecked, StatusReviewed}

var transitionTable = map[Trigger]struct {
	from []InvoiceStatus
	to   InvoiceStatus
}{
	TriggerExtractionSucceeded: {from: []InvoiceStatus{StatusUploaded}, to: StatusExtracted},
	TriggerExtractionFailed:    {from: []InvoiceStatus{StatusUploaded}, to: StatusExtractionFailed},
	TriggerReview:              {from: []InvoiceStatus{StatusComplianceChecked}, to: StatusReviewed},
	TriggerApprove:             {from: reviewableStatuses, to: StatusApproved},
	TriggerReject:              {from: reviewableStatuses, to: StatusRejected},
	TriggerTransfer:            {from: []InvoiceStatus{StatusApproved}, to: StatusTransferred},
	TriggerArchive:             {from: []InvoiceStatus{StatusTransferred}, to: StatusArchived},
}

// AllowedSources returns the set of states the trigger may fire from.
// The compliance check is legal from every non-terminal state.
func AllowedSources(t Trigger) []InvoiceStatus {
	if t == TriggerComplianceCheck {
		var out []InvoiceStatus
		for _, s := range AllStatuses {
			if !s.IsTerminal() {
				out = append(out, s)
			}
		}
		return out
	}
	entry, ok := transitionTable[t]
	if !ok {
		return nil
	}
	return entry.from
}

// NextStatus resolves the target state for firing trigger t from current.
// It returns false when the transition is not in the table; callers surface
// that as a state conflict and leave the invoice untouched.
//
// A compliance check never regresses status: it advances extracted to
// compliance_checked and otherwise re-attaches its result without moving.
func NextStatus(current InvoiceStatus, t Trigger) (InvoiceStatus, bool) {
	if t == TriggerComplianceCheck {
		if current.IsTerminal() {
			return current, false
		}
		if current == StatusExtracted {
			return StatusComplianceChecked, true
		}
		return current, true
	}
	entry, ok := transitionTable[t]
	if !ok {
		return current, false
	}
	for _, from := range entry.from {
		if from == current {
			return entry.to, true
		}
	}
	return current, false
}

// SourceType records how the invoice entered the system.
type SourceType string

const (
	SourceUpload SourceType = "upload"
	SourceEmail  SourceType = "email"
)

// Invoice is the aggregate root of the ingestion/approval pipeline. It owns
// its detail lines, its bank account and the embedded compliance snapshot;
// Vendor and Department are referenced, not owned.
type Invoice struct {
	InvoiceID      string  `json:"invoiceID"`
	InvoiceNumber  string  `json:"invoiceNumber"`
	VendorID       *string `json:"vendorID"`
	DepartmentID   *string `json:"departmentID"`
	AssignedUserID *string `json:"assignedUserID"`
	ApprovedByID   *string `json:"approvedByID"`

	Status InvoiceStatus `json:"status"`

	InvoiceDate *time.Time `json:"invoiceDate"`
	DueDate     *time.Time `json:"dueDate"`

	// Monetary fields are exact decimals, JPY, scale 0. Nil means the
	// extractor could not read the value.
	TotalAmount    *decimal.Decimal `json:"totalAmount"`
	SubtotalAmount *decimal.Decimal `json:"subtotalAmount"`
	TaxAmount      *decimal.Decimal `json:"taxAmount"`
	Tax8Amount     *decimal.Decimal `json:"tax8Amount"`
	Tax10Amount    *decimal.Decimal `json:"tax10Amount"`

	FilePath         string     `json:"filePath"`
	FileHashSHA256   string     `json:"fileHashSHA256"`
	OriginalFilename string     `json:"originalFilename"`
	SourceType       SourceType `json:"sourceType"`

	RegistrationNumber string             `json:"registrationNumber"`
	RegistrationStatus RegistrationStatus `json:"registrationStatus"`

	ExtractionResult Document         `json:"extractionResult,omitempty"`
	ComplianceResult *ComplianceCheck `json:"complianceResult,omitempty"`

	Description   string `json:"description"`
	RecipientName string `json:"recipientName"`

	IsDeleted      bool       `json:"isDeleted"`
	RetentionUntil *time.Time `json:"retentionUntil"`
	ApprovedAt     *time.Time `json:"approvedAt"`

	Details     []InvoiceDetail `json:"details,omitempty"`
	BankAccount *BankAccount    `json:"bankAccount,omitempty"`

	// Denormalized names for read projections.
	VendorName     string `json:"vendorName,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`

	AuditFields
}

// InvoiceDetail is one line item, owned exclusively by its invoice.
type InvoiceDetail struct {
	DetailID    string           `json:"detailID"`
	InvoiceID   string           `json:"invoiceID"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Tax         *decimal.Decimal `json:"tax"`
	TaxRate     string           `json:"taxRate"` // "8%" or "10%"
}

// BankAccount is the transfer destination read off the invoice.
type BankAccount struct {
	BankAccountID string `json:"bankAccountID"`
	InvoiceID     string `json:"invoiceID"`
	BankName      string `json:"bankName"`
	BranchName    string `json:"branchName"`
	AccountType   string `json:"accountType"` // 普通 or 当座
	AccountNumber string `json:"accountNumber"`
	AccountHolder string `json:"accountHolder"`
}
