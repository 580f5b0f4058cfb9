package mapping

import (
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
)

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToDomainInvoice converts a DB row to the domain invoice.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	inv := domain.Invoice{
		InvoiceID:          m.InvoiceID,
		InvoiceNumber:      strOrEmpty(m.InvoiceNumber),
		VendorID:           m.VendorID,
		DepartmentID:       m.DepartmentID,
		AssignedUserID:     m.AssignedUserID,
		ApprovedByID:       m.ApprovedByID,
		Status:             domain.InvoiceStatus(m.Status),
		InvoiceDate:        m.InvoiceDate,
		DueDate:            m.DueDate,
		TotalAmount:        m.TotalAmount,
		SubtotalAmount:     m.SubtotalAmount,
		TaxAmount:          m.TaxAmount,
		Tax8Amount:         m.Tax8Amount,
		Tax10Amount:        m.Tax10Amount,
		FilePath:           m.FilePath,
		FileHashSHA256:     m.FileHashSHA256,
		OriginalFilename:   m.OriginalFilename,
		SourceType:         domain.SourceType(m.SourceType),
		RegistrationNumber: strOrEmpty(m.RegistrationNumber),
		RegistrationStatus: domain.RegistrationUnchecked,
		ExtractionResult:   m.ExtractionResult,
		ComplianceResult:   m.ComplianceCheckResult,
		Description:        strOrEmpty(m.Description),
		RecipientName:      strOrEmpty(m.RecipientName),
		IsDeleted:          m.IsDeleted,
		RetentionUntil:     m.RetentionUntil,
		ApprovedAt:         m.ApprovedAt,
		VendorName:         strOrEmpty(m.VendorName),
		DepartmentName:     strOrEmpty(m.DepartmentName),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RegistrationStatus != nil {
		inv.RegistrationStatus = domain.RegistrationStatus(*m.RegistrationStatus)
	}
	return inv
}

// ToModelInvoice converts a domain invoice to its DB row.
func ToModelInvoice(inv domain.Invoice) models.Invoice {
	status := string(inv.RegistrationStatus)
	return models.Invoice{
		InvoiceID:             inv.InvoiceID,
		InvoiceNumber:         strPtrOrNil(inv.InvoiceNumber),
		VendorID:              inv.VendorID,
		DepartmentID:          inv.DepartmentID,
		AssignedUserID:        inv.AssignedUserID,
		ApprovedByID:          inv.ApprovedByID,
		Status:                string(inv.Status),
		InvoiceDate:           inv.InvoiceDate,
		DueDate:               inv.DueDate,
		TotalAmount:           inv.TotalAmount,
		SubtotalAmount:        inv.SubtotalAmount,
		TaxAmount:             inv.TaxAmount,
		Tax8Amount:            inv.Tax8Amount,
		Tax10Amount:           inv.Tax10Amount,
		FilePath:              inv.FilePath,
		FileHashSHA256:        inv.FileHashSHA256,
		OriginalFilename:      inv.OriginalFilename,
		SourceType:            string(inv.SourceType),
		RegistrationNumber:    strPtrOrNil(inv.RegistrationNumber),
		RegistrationStatus:    &status,
		ExtractionResult:      inv.ExtractionResult,
		ComplianceCheckResult: inv.ComplianceResult,
		Description:           strPtrOrNil(inv.Description),
		RecipientName:         strPtrOrNil(inv.RecipientName),
		IsDeleted:             inv.IsDeleted,
		RetentionUntil:        inv.RetentionUntil,
		ApprovedAt:            inv.ApprovedAt,
		CreatedAt:             inv.CreatedAt,
		CreatedBy:             inv.CreatedBy,
		LastUpdatedAt:         inv.LastUpdatedAt,
		LastUpdatedBy:         inv.LastUpdatedBy,
	}
}

// ToDomainInvoiceDetail converts a detail row to the domain line item.
func ToDomainInvoiceDetail(m models.InvoiceDetail) domain.InvoiceDetail {
	return domain.InvoiceDetail{
		DetailID:    m.DetailID,
		InvoiceID:   m.InvoiceID,
		Description: strOrEmpty(m.Description),
		Amount:      m.Amount,
		Tax:         m.Tax,
		TaxRate:     strOrEmpty(m.TaxRate),
	}
}

// ToDomainBankAccount converts a bank account row to the domain value.
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID: m.BankAccountID,
		InvoiceID:     m.InvoiceID,
		BankName:      strOrEmpty(m.BankName),
		BranchName:    strOrEmpty(m.BranchName),
		AccountType:   strOrEmpty(m.AccountType),
		AccountNumber: strOrEmpty(m.AccountNumber),
		AccountHolder: strOrEmpty(m.AccountHolder),
	}
}
