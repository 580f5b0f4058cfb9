package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

func TestIsRegistrationNumberFormat(t *testing.T) {
	assert.True(t, domain.IsRegistrationNumberFormat("T1234567890123"))
	assert.False(t, domain.IsRegistrationNumberFormat("1234567890123"))
	assert.False(t, domain.IsRegistrationNumberFormat("T123456789012"))   // 12 digits
	assert.False(t, domain.IsRegistrationNumberFormat("T12345678901234")) // 14 digits
	assert.False(t, domain.IsRegistrationNumberFormat("t1234567890123"))
	assert.False(t, domain.IsRegistrationNumberFormat("T123456789012a"))
	assert.False(t, domain.IsRegistrationNumberFormat(""))
}

func TestDeriveRegistrationStatus(t *testing.T) {
	valid := true
	invalid := false
	assert.Equal(t, domain.RegistrationUnchecked, domain.DeriveRegistrationStatus(nil))
	assert.Equal(t, domain.RegistrationValid, domain.DeriveRegistrationStatus(&valid))
	assert.Equal(t, domain.RegistrationInvalid, domain.DeriveRegistrationStatus(&invalid))
}

func TestComplianceCheck_Finalize_AllPassing(t *testing.T) {
	valid := true
	check := domain.ComplianceCheck{
		HasRegistrationNumber: true,
		HasInvoiceDate:        true,
		HasDescription:        true,
		HasRecipientName:      true,
		HasTaxBreakdown:       true,
		HasTaxAmount:          true,
		RegistrationValid:     &valid,
	}
	check.Finalize()
	assert.True(t, check.Passed)
	assert.Empty(t, check.MissingItems)
}

func TestComplianceCheck_Finalize_MissingItemsInFixedOrder(t *testing.T) {
	check := domain.ComplianceCheck{}
	check.Finalize()
	assert.False(t, check.Passed)
	// No registration-validity item when the number itself is missing.
	assert.Equal(t, []string{
		domain.MissingRegistrationNumber,
		domain.MissingInvoiceDate,
		domain.MissingDescription,
		domain.MissingRecipientName,
		domain.MissingTaxBreakdown,
		domain.MissingTaxAmount,
	}, check.MissingItems)
}

func TestComplianceCheck_Finalize_UncheckedRegistrationBlocksPass(t *testing.T) {
	check := domain.ComplianceCheck{
		HasRegistrationNumber: true,
		HasInvoiceDate:        true,
		HasDescription:        true,
		HasRecipientName:      true,
		HasTaxBreakdown:       true,
		HasTaxAmount:          true,
	}
	check.Finalize()
	assert.False(t, check.Passed)
	assert.Equal(t, []string{domain.MissingRegistrationValid}, check.MissingItems)
}

func TestComplianceCheck_Finalize_InvalidRegistration(t *testing.T) {
	invalid := false
	check := domain.ComplianceCheck{
		HasRegistrationNumber: true,
		HasInvoiceDate:        true,
		HasDescription:        true,
		HasRecipientName:      true,
		HasTaxBreakdown:       true,
		HasTaxAmount:          true,
		RegistrationValid:     &invalid,
	}
	check.Finalize()
	assert.False(t, check.Passed)
	assert.Equal(t, []string{domain.MissingRegistrationValid}, check.MissingItems)
}

func TestComplianceCheck_Finalize_ReplacesPreviousItems(t *testing.T) {
	check := domain.ComplianceCheck{MissingItems: []string{"stale"}}
	check.HasInvoiceDate = true
	check.Finalize()
	assert.NotContains(t, check.MissingItems, "stale")
	assert.NotContains(t, check.MissingItems, domain.MissingInvoiceDate)
}
