package domain

import "regexp"

// RegistrationStatus buckets an invoice by the outcome of the qualified-invoice
// registration check. The three values partition the invoice set.
type RegistrationStatus string

const (
	RegistrationUnchecked RegistrationStatus = "unchecked"
	RegistrationValid     RegistrationStatus = "valid"
	RegistrationInvalid   RegistrationStatus = "invalid"
)

// registrationNumberPattern is the statutory qualified-invoice registration
// number format: literal T followed by exactly 13 digits.
var registrationNumberPattern = regexp.MustCompile(`^T\d{13}$`)

// IsRegistrationNumberFormat reports whether s matches T + 13 digits.
func IsRegistrationNumberFormat(s string) bool {
	return registrationNumberPattern.MatchString(s)
}

// DeriveRegistrationStatus maps the tri-state registry outcome onto the
// dashboard partition.
func DeriveRegistrationStatus(registrationValid *bool) RegistrationStatus {
	switch {
	case registrationValid == nil:
		return RegistrationUnchecked
	case *registrationValid:
		return RegistrationValid
	default:
		return RegistrationInvalid
	}
}

// ComplianceCheck is the value-object snapshot of one compliance evaluation.
// It is recomputed on demand; the invoice stores only the latest snapshot.
type ComplianceCheck struct {
	HasRegistrationNumber bool `json:"has_registration_number"`
	HasInvoiceDate        bool `json:"has_invoice_date"`
	HasDescription        bool `json:"has_description"`
	HasRecipientName      bool `json:"has_recipient_name"`
	HasTaxBreakdown       bool `json:"has_tax_breakdown"`
	HasTaxAmount          bool `json:"has_tax_amount"`

	// RegistrationValid is nil until a registry lookup has been performed.
	// A format-invalid number is recorded as false without a registry call.
	RegistrationValid *bool `json:"registration_valid"`

	// MissingItems lists every failed check as a human-readable label, in
	// the fixed check order above. Empty iff Passed.
	MissingItems []string `json:"missing_items"`

	// Passed is true iff all six sub-checks hold and RegistrationValid is true.
	Passed bool `json:"passed"`
}

// Statutory missing-item labels, per the qualified invoice content requirements.
const (
	MissingRegistrationNumber = "適格請求書発行事業者の登録番号"
	MissingInvoiceDate        = "取引年月日"
	MissingDescription        = "取引内容"
	MissingRecipientName      = "書類の交付を受ける事業者の氏名または名称"
	MissingTaxBreakdown       = "税率ごとに区分した対価の額"
	MissingTaxAmount          = "税率ごとに区分した消費税額"
	MissingRegistrationValid  = "適格請求書発行事業者番号が無効です"
)

// Finalize derives MissingItems and Passed from the boolean sub-checks,
// in the fixed order required for reproducible output.
func (c *ComplianceCheck) Finalize() {
	c.MissingItems = nil
	if !c.HasRegistrationNumber {
		c.MissingItems = append(c.MissingItems, MissingRegistrationNumber)
	}
	if !c.HasInvoiceDate {
		c.MissingItems = append(c.MissingItems, MissingInvoiceDate)
	}
	if !c.HasDescription {
		c.MissingItems = append(c.MissingItems, MissingDescription)
	}
	if !c.HasRecipientName {
		c.MissingItems = append(c.MissingItems, MissingRecipientName)
	}
	if !c.HasTaxBreakdown {
		c.MissingItems = append(c.MissingItems, MissingTaxBreakdown)
	}
	if !c.HasTaxAmount {
		c.MissingItems = append(c.MissingItems, MissingTaxAmount)
	}
	if c.HasRegistrationNumber && (c.RegistrationValid == nil || !*c.RegistrationValid) {
		c.MissingItems = append(c.MissingItems, MissingRegistrationValid)
	}
	c.Passed = len(c.MissingItems) == 0
}

// RegistryVerification is the outcome of an ad-hoc qualified-invoice registry
// lookup, independent of any invoice.
type RegistryVerification struct {
	RegistrationNumber string   `json:"registration_number"`
	IsValid            bool     `json:"is_valid"`
	CompanyName        string   `json:"company_name,omitempty"`
	Address            string   `json:"address,omitempty"`
	RegistrationDate   string   `json:"registration_date,omitempty"`
	RawResponse        Document `json:"raw_response,omitempty"`
}
