package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
	"github.com/hfujimori/invoice_kanri_app/internal/utils/mapping"
)

// invoiceColumns is the shared select list; vendor and department names are
// joined in for read projections.
const invoiceColumns = `
	i.invoice_id, i.invoice_number, i.vendor_id, i.department_id, i.assigned_user_id, i.approved_by_id,
	i.status, i.invoice_date, i.due_date,
	i.total_amount, i.subtotal_amount, i.tax_amount, i.tax_8_amount, i.tax_10_amount,
	i.file_path, i.file_hash_sha256, i.original_filename, i.source_type,
	i.registration_number, i.registration_status, i.extraction_result, i.compliance_check_result,
	i.description, i.recipient_name, i.is_deleted, i.retention_until, i.approved_at,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by,
	v.name AS vendor_name, d.name AS department_name`

const invoiceJoins = `
	FROM invoices i
	LEFT JOIN vendors v ON v.vendor_id = i.vendor_id
	LEFT JOIN departments d ON d.department_id = i.department_id`

// terminalStatuses mirror domain.InvoiceStatus.IsTerminal for SQL predicates.
var terminalStatuses = []string{
	string(domain.StatusRejected),
	string(domain.StatusTransferred),
	string(domain.StatusArchived),
}

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoiceRow(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID, &m.InvoiceNumber, &m.VendorID, &m.DepartmentID, &m.AssignedUserID, &m.ApprovedByID,
		&m.Status, &m.InvoiceDate, &m.DueDate,
		&m.TotalAmount, &m.SubtotalAmount, &m.TaxAmount, &m.Tax8Amount, &m.Tax10Amount,
		&m.FilePath, &m.FileHashSHA256, &m.OriginalFilename, &m.SourceType,
		&m.RegistrationNumber, &m.RegistrationStatus, &m.ExtractionResult, &m.ComplianceCheckResult,
		&m.Description, &m.RecipientName, &m.IsDeleted, &m.RetentionUntil, &m.ApprovedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&m.VendorName, &m.DepartmentName,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveInvoice persists a freshly uploaded invoice row.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
		INSERT INTO invoices (
			invoice_id, invoice_number, vendor_id, department_id, assigned_user_id, approved_by_id,
			status, invoice_date, due_date,
			total_amount, subtotal_amount, tax_amount, tax_8_amount, tax_10_amount,
			file_path, file_hash_sha256, original_filename, source_type,
			registration_number, registration_status, extraction_result, compliance_check_result,
			description, recipient_name, is_deleted, retention_until, approved_at,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22,
			$23, $24, $25, $26, $27,
			$28, $29, $30, $31
		);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.InvoiceID, m.InvoiceNumber, m.VendorID, m.DepartmentID, m.AssignedUserID, m.ApprovedByID,
		m.Status, m.InvoiceDate, m.DueDate,
		m.TotalAmount, m.SubtotalAmount, m.TaxAmount, m.Tax8Amount, m.Tax10Amount,
		m.FilePath, m.FileHashSHA256, m.OriginalFilename, m.SourceType,
		m.RegistrationNumber, m.RegistrationStatus, m.ExtractionResult, m.ComplianceCheckResult,
		m.Description, m.RecipientName, m.IsDeleted, m.RetentionUntil, m.ApprovedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice %s: %w", m.InvoiceID, err)
	}
	return nil
}

// ApplyExtraction writes the extracted fields, replaces detail lines and the
// bank account, and advances uploaded -> extracted in one transaction. The
// status write is conditional so a racing failure mark loses cleanly.
func (r *PgxInvoiceRepository) ApplyExtraction(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE invoices SET
			invoice_number = $2, vendor_id = $3, department_id = $4,
			invoice_date = $5, due_date = $6,
			total_amount = $7, subtotal_amount = $8, tax_amount = $9, tax_8_amount = $10, tax_10_amount = $11,
			registration_number = $12, extraction_result = $13,
			description = $14, recipient_name = $15, retention_until = $16,
			status = $17, last_updated_at = $18
		WHERE invoice_id = $1 AND status = $19 AND NOT is_deleted;
	`
	tag, err := tx.Exec(ctx, query,
		m.InvoiceID, m.InvoiceNumber, m.VendorID, m.DepartmentID,
		m.InvoiceDate, m.DueDate,
		m.TotalAmount, m.SubtotalAmount, m.TaxAmount, m.Tax8Amount, m.Tax10Amount,
		m.RegistrationNumber, m.ExtractionResult,
		m.Description, m.RecipientName, m.RetentionUntil,
		string(domain.StatusExtracted), m.LastUpdatedAt,
		string(domain.StatusUploaded),
	)
	if err != nil {
		return fmt.Errorf("failed to apply extraction for invoice %s: %w", m.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewStateConflictError("invoice " + m.InvoiceID + " is not awaiting extraction")
	}

	if err := replaceInvoiceDetails(ctx, tx, invoice.InvoiceID, invoice.Details); err != nil {
		return err
	}
	if err := replaceBankAccount(ctx, tx, invoice.InvoiceID, invoice.BankAccount); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkExtractionFailed records the failure payload and advances
// uploaded -> extraction_failed.
func (r *PgxInvoiceRepository) MarkExtractionFailed(ctx context.Context, invoiceID string, failure domain.Document, now time.Time) error {
	query := `
		UPDATE invoices SET extraction_result = $2, status = $3, last_updated_at = $4
		WHERE invoice_id = $1 AND status = $5 AND NOT is_deleted;
	`
	tag, err := r.Pool.Exec(ctx, query,
		invoiceID, failure, string(domain.StatusExtractionFailed), now, string(domain.StatusUploaded))
	if err != nil {
		return fmt.Errorf("failed to mark extraction failed for invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewStateConflictError("invoice " + invoiceID + " is not awaiting extraction")
	}
	return nil
}

// UpdateInvoice persists manual field edits together with replaced detail
// lines and bank account in one transaction.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceDetails bool) error {
	m := mapping.ToModelInvoice(invoice)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE invoices SET
			invoice_number = $2, vendor_id = $3, department_id = $4,
			invoice_date = $5, due_date = $6,
			total_amount = $7, subtotal_amount = $8, tax_amount = $9, tax_8_amount = $10, tax_10_amount = $11,
			registration_number = $12, description = $13, recipient_name = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE invoice_id = $1 AND NOT is_deleted;
	`
	tag, err := tx.Exec(ctx, query,
		m.InvoiceID, m.InvoiceNumber, m.VendorID, m.DepartmentID,
		m.InvoiceDate, m.DueDate,
		m.TotalAmount, m.SubtotalAmount, m.TaxAmount, m.Tax8Amount, m.Tax10Amount,
		m.RegistrationNumber, m.Description, m.RecipientName,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice %s: %w", m.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if replaceDetails {
		if err := replaceInvoiceDetails(ctx, tx, invoice.InvoiceID, invoice.Details); err != nil {
			return err
		}
	}
	if invoice.BankAccount != nil {
		if err := replaceBankAccount(ctx, tx, invoice.InvoiceID, invoice.BankAccount); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// MarkInvoiceDeleted soft-deletes an invoice. Audit rows referencing it are
// untouched and keep pointing at the id.
func (r *PgxInvoiceRepository) MarkInvoiceDeleted(ctx context.Context, invoiceID string, deletedBy string, now time.Time) error {
	query := `
		UPDATE invoices SET is_deleted = TRUE, deleted_by = $2, deleted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE invoice_id = $1 AND NOT is_deleted;
	`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, deletedBy, now)
	if err != nil {
		return fmt.Errorf("failed to soft-delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindInvoiceByID retrieves one non-deleted invoice with detail lines and
// bank account.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, invoiceID, false)
}

// FindInvoiceByIDAny retrieves an invoice regardless of its soft-delete flag.
func (r *PgxInvoiceRepository) FindInvoiceByIDAny(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.findInvoice(ctx, invoiceID, true)
}

func (r *PgxInvoiceRepository) findInvoice(ctx context.Context, invoiceID string, includeDeleted bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + invoiceJoins + ` WHERE i.invoice_id = $1`
	if !includeDeleted {
		query += ` AND NOT i.is_deleted`
	}

	m, err := scanInvoiceRow(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	inv := mapping.ToDomainInvoice(*m)

	if err := r.loadDetails(ctx, &inv); err != nil {
		return nil, err
	}
	if err := r.loadBankAccount(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) loadDetails(ctx context.Context, inv *domain.Invoice) error {
	query := `
		SELECT detail_id, invoice_id, description, amount, tax, tax_rate
		FROM invoice_details WHERE invoice_id = $1 ORDER BY created_at, detail_id;
	`
	rows, err := r.Pool.Query(ctx, query, inv.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to load details for invoice %s: %w", inv.InvoiceID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.InvoiceDetail
		if err := rows.Scan(&m.DetailID, &m.InvoiceID, &m.Description, &m.Amount, &m.Tax, &m.TaxRate); err != nil {
			return fmt.Errorf("failed to scan invoice detail: %w", err)
		}
		inv.Details = append(inv.Details, mapping.ToDomainInvoiceDetail(m))
	}
	return rows.Err()
}

func (r *PgxInvoiceRepository) loadBankAccount(ctx context.Context, inv *domain.Invoice) error {
	query := `
		SELECT bank_account_id, invoice_id, bank_name, branch_name, account_type, account_number, account_holder
		FROM bank_accounts WHERE invoice_id = $1;
	`
	var m models.BankAccount
	err := r.Pool.QueryRow(ctx, query, inv.InvoiceID).Scan(
		&m.BankAccountID, &m.InvoiceID, &m.BankName, &m.BranchName, &m.AccountType, &m.AccountNumber, &m.AccountHolder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to load bank account for invoice %s: %w", inv.InvoiceID, err)
	}
	account := mapping.ToDomainBankAccount(m)
	inv.BankAccount = &account
	return nil
}

// ListInvoices retrieves a filtered page plus the total count.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.InvoiceListFilter) ([]domain.Invoice, int64, error) {
	var conditions []string
	var args []any

	conditions = append(conditions, "NOT i.is_deleted")
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, "i.status = "+arg(string(filter.Status)))
	}
	if filter.DepartmentID != nil {
		conditions = append(conditions, "i.department_id = "+arg(*filter.DepartmentID))
	}
	if filter.VendorName != "" {
		conditions = append(conditions, "v.name ILIKE "+arg("%"+filter.VendorName+"%"))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "i.invoice_date >= "+arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "i.invoice_date <= "+arg(*filter.DateTo))
	}
	if filter.AmountMin != nil {
		conditions = append(conditions, "i.total_amount >= "+arg(*filter.AmountMin))
	}
	if filter.AmountMax != nil {
		conditions = append(conditions, "i.total_amount <= "+arg(*filter.AmountMax))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*)` + invoiceJoins + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	limit := filter.PerPage
	offset := (filter.Page - 1) * filter.PerPage
	pageQuery := `SELECT ` + invoiceColumns + invoiceJoins + where +
		` ORDER BY i.created_at DESC, i.invoice_id LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	rows, err := r.Pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		m, err := scanInvoiceRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// TransitionStatus is the compare-and-swap status write: the update succeeds
// only while the current status is in the allowed set, so of two racing
// transitions exactly one sees RowsAffected()==1.
func (r *PgxInvoiceRepository) TransitionStatus(ctx context.Context, invoiceID string, allowed []domain.InvoiceStatus, target domain.InvoiceStatus, approvedBy *string, now time.Time) error {
	allowedStrs := make([]string, 0, len(allowed))
	for _, s := range allowed {
		allowedStrs = append(allowedStrs, string(s))
	}

	query := `
		UPDATE invoices SET
			status = $2,
			approved_at = CASE WHEN $3::text IS NOT NULL THEN $4 ELSE approved_at END,
			approved_by_id = COALESCE($3, approved_by_id),
			last_updated_at = $4
		WHERE invoice_id = $1 AND status = ANY($5) AND NOT is_deleted;
	`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, string(target), approvedBy, now, allowedStrs)
	if err != nil {
		return fmt.Errorf("failed to transition invoice %s to %s: %w", invoiceID, target, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Distinguish missing invoice from a lost CAS.
	var current string
	err = r.Pool.QueryRow(ctx, `SELECT status FROM invoices WHERE invoice_id = $1 AND NOT is_deleted`, invoiceID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read invoice %s status: %w", invoiceID, err)
	}
	return apperrors.NewStateConflictError("invoice " + invoiceID + " is in status " + current + ", cannot move to " + string(target))
}

// SaveComplianceResult attaches the compliance snapshot and registration
// status. Extracted invoices advance to compliance_checked; every other
// non-terminal status is left as-is, so a re-check never regresses.
func (r *PgxInvoiceRepository) SaveComplianceResult(ctx context.Context, invoiceID string, check domain.ComplianceCheck, registrationStatus domain.RegistrationStatus, registrationNumber string, now time.Time) error {
	query := `
		UPDATE invoices SET
			compliance_check_result = $2,
			registration_status = $3,
			registration_number = COALESCE(NULLIF($4, ''), registration_number),
			status = CASE WHEN status = $5 THEN $6 ELSE status END,
			last_updated_at = $7
		WHERE invoice_id = $1 AND NOT is_deleted AND NOT (status = ANY($8));
	`
	tag, err := r.Pool.Exec(ctx, query,
		invoiceID, check, string(registrationStatus), registrationNumber,
		string(domain.StatusExtracted), string(domain.StatusComplianceChecked),
		now, terminalStatuses,
	)
	if err != nil {
		return fmt.Errorf("failed to save compliance result for invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err = r.Pool.QueryRow(ctx, `SELECT status FROM invoices WHERE invoice_id = $1 AND NOT is_deleted`, invoiceID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read invoice %s status: %w", invoiceID, err)
		}
		return apperrors.NewStateConflictError("invoice " + invoiceID + " is in terminal status " + current)
	}
	return nil
}

// WithInvoiceLock loads the invoice under SELECT ... FOR UPDATE and runs fn
// inside the transaction. fn's returned status and payload are committed
// together; an error from fn rolls everything back.
func (r *PgxInvoiceRepository) WithInvoiceLock(ctx context.Context, invoiceID string, fn func(ctx context.Context, inv *domain.Invoice) (domain.InvoiceStatus, domain.Document, error)) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `SELECT ` + invoiceColumns + invoiceJoins + ` WHERE i.invoice_id = $1 AND NOT i.is_deleted FOR UPDATE OF i`
	m, err := scanInvoiceRow(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock invoice %s: %w", invoiceID, err)
	}
	inv := mapping.ToDomainInvoice(*m)

	target, result, err := fn(ctx, &inv)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE invoices SET status = $2, transfer_result = COALESCE($3, transfer_result), last_updated_at = $4 WHERE invoice_id = $1`,
		invoiceID, string(target), result, time.Now())
	if err != nil {
		return fmt.Errorf("failed to finalize locked update for invoice %s: %w", invoiceID, err)
	}
	return r.Commit(ctx, tx)
}

func replaceInvoiceDetails(ctx context.Context, tx pgx.Tx, invoiceID string, details []domain.InvoiceDetail) error {
	if _, err := tx.Exec(ctx, `DELETE FROM invoice_details WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("failed to clear details for invoice %s: %w", invoiceID, err)
	}
	for _, d := range details {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_details (detail_id, invoice_id, description, amount, tax, tax_rate, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW());
		`, d.DetailID, invoiceID, d.Description, d.Amount, d.Tax, d.TaxRate)
		if err != nil {
			return fmt.Errorf("failed to insert detail for invoice %s: %w", invoiceID, err)
		}
	}
	return nil
}

func replaceBankAccount(ctx context.Context, tx pgx.Tx, invoiceID string, account *domain.BankAccount) error {
	if _, err := tx.Exec(ctx, `DELETE FROM bank_accounts WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("failed to clear bank account for invoice %s: %w", invoiceID, err)
	}
	if account == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO bank_accounts (bank_account_id, invoice_id, bank_name, branch_name, account_type, account_number, account_holder)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, account.BankAccountID, invoiceID, account.BankName, account.BranchName, account.AccountType, account.AccountNumber, account.AccountHolder)
	if err != nil {
		return fmt.Errorf("failed to insert bank account for invoice %s: %w", invoiceID, err)
	}
	return nil
}
