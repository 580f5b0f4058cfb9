package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
)

func TestInvoiceStatus_IsValid(t *testing.T) {
	for _, s := range domain.AllStatuses {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}
	assert.False(t, domain.InvoiceStatus("pending").IsValid())
	assert.False(t, domain.InvoiceStatus("").IsValid())
}

func TestInvoiceStatus_IsTerminal(t *testing.T) {
	terminal := map[domain.InvoiceStatus]bool{
		domain.StatusRejected:    true,
		domain.StatusTransferred: true,
		domain.StatusArchived:    true,
	}
	for _, s := range domain.AllStatuses {
		assert.Equal(t, terminal[s], s.IsTerminal(), "status %s", s)
	}
}

func TestNextStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		from    domain.InvoiceStatus
		trigger domain.Trigger
		want    domain.InvoiceStatus
		ok      bool
	}{
		{"extraction success", domain.StatusUploaded, domain.TriggerExtractionSucceeded, domain.StatusExtracted, true},
		{"extraction failure", domain.StatusUploaded, domain.TriggerExtractionFailed, domain.StatusExtractionFailed, true},
		{"extraction from extracted", domain.StatusExtracted, domain.TriggerExtractionSucceeded, domain.StatusExtracted, false},
		{"review", domain.StatusComplianceChecked, domain.TriggerReview, domain.StatusReviewed, true},
		{"review skips compliance", domain.StatusExtracted, domain.TriggerReview, domain.StatusExtracted, false},
		{"approve from extracted", domain.StatusExtracted, domain.TriggerApprove, domain.StatusApproved, true},
		{"approve from compliance_checked", domain.StatusComplianceChecked, domain.TriggerApprove, domain.StatusApproved, true},
		{"approve from reviewed", domain.StatusReviewed, domain.TriggerApprove, domain.StatusApproved, true},
		{"approve from uploaded", domain.StatusUploaded, domain.TriggerApprove, domain.StatusUploaded, false},
		{"approve from approved", domain.StatusApproved, domain.TriggerApprove, domain.StatusApproved, false},
		{"approve from rejected", domain.StatusRejected, domain.TriggerApprove, domain.StatusRejected, false},
		{"reject from reviewed", domain.StatusReviewed, domain.TriggerReject, domain.StatusRejected, true},
		{"reject from transferred", domain.StatusTransferred, domain.TriggerReject, domain.StatusTransferred, false},
		{"transfer from approved", domain.StatusApproved, domain.TriggerTransfer, domain.StatusTransferred, true},
		{"transfer from reviewed", domain.StatusReviewed, domain.TriggerTransfer, domain.StatusReviewed, false},
		{"transfer twice", domain.StatusTransferred, domain.TriggerTransfer, domain.StatusTransferred, false},
		{"archive from transferred", domain.StatusTransferred, domain.TriggerArchive, domain.StatusArchived, true},
		{"archive from approved", domain.StatusApproved, domain.TriggerArchive, domain.StatusApproved, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := domain.NextStatus(tc.from, tc.trigger)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextStatus_ComplianceCheckNeverRegresses(t *testing.T) {
	// Advances only from extracted; elsewhere it re-attaches in place.
	got, ok := domain.NextStatus(domain.StatusExtracted, domain.TriggerComplianceCheck)
	assert.True(t, ok)
	assert.Equal(t, domain.StatusComplianceChecked, got)

	for _, s := range []domain.InvoiceStatus{
		domain.StatusUploaded,
		domain.StatusExtractionFailed,
		domain.StatusComplianceChecked,
		domain.StatusReviewed,
		domain.StatusApproved,
	} {
		got, ok := domain.NextStatus(s, domain.TriggerComplianceCheck)
		assert.True(t, ok, "status %s", s)
		assert.Equal(t, s, got, "status %s", s)
	}

	for _, s := range []domain.InvoiceStatus{
		domain.StatusRejected,
		domain.StatusTransferred,
		domain.StatusArchived,
	} {
		_, ok := domain.NextStatus(s, domain.TriggerComplianceCheck)
		assert.False(t, ok, "status %s", s)
	}
}

func TestAllowedSources(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.InvoiceStatus{domain.StatusExtracted, domain.StatusComplianceChecked, domain.StatusReviewed},
		domain.AllowedSources(domain.TriggerApprove))
	assert.ElementsMatch(t,
		[]domain.InvoiceStatus{domain.StatusExtracted, domain.StatusComplianceChecked, domain.StatusReviewed},
		domain.AllowedSources(domain.TriggerReject))
	assert.Equal(t, []domain.InvoiceStatus{domain.StatusApproved}, domain.AllowedSources(domain.TriggerTransfer))
	assert.Equal(t, []domain.InvoiceStatus{domain.StatusTransferred}, domain.AllowedSources(domain.TriggerArchive))

	for _, s := range domain.AllowedSources(domain.TriggerComplianceCheck) {
		assert.False(t, s.IsTerminal())
	}
	assert.Nil(t, domain.AllowedSources(domain.Trigger("unknown")))
}

func TestRole_CanApprove(t *testing.T) {
	assert.True(t, domain.RoleAdmin.CanApprove())
	assert.True(t, domain.RoleAccountant.CanApprove())
	assert.False(t, domain.RoleDepartment.CanApprove())
	assert.False(t, domain.RoleViewer.CanApprove())
}
