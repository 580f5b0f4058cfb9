package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hfujimori/invoice_kanri_app/internal/apperrors"
	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
	"github.com/hfujimori/invoice_kanri_app/internal/utils/mapping"
)

const vendorColumns = `vendor_id, name, registration_number, registration_status, registration_checked_at, default_department_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxVendorRepository struct {
	BaseRepository
}

func newPgxVendorRepository(pool *pgxpool.Pool) portsrepo.VendorRepositoryFacade {
	return &PgxVendorRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.VendorRepositoryFacade = (*PgxVendorRepository)(nil)

func scanVendorRow(row pgx.Row) (*models.Vendor, error) {
	var m models.Vendor
	err := row.Scan(
		&m.VendorID, &m.Name, &m.RegistrationNumber, &m.RegistrationStatus, &m.RegistrationCheckedAt,
		&m.DefaultDepartmentID, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxVendorRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE vendor_id = $1`
	m, err := scanVendorRow(r.Pool.QueryRow(ctx, query, vendorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find vendor %s: %w", vendorID, err)
	}
	v := mapping.ToDomainVendor(*m)
	return &v, nil
}

// FindVendorByName does an exact-name lookup and returns (nil, nil) on a
// miss, because the caller creates the vendor in that case.
func (r *PgxVendorRepository) FindVendorByName(ctx context.Context, name string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE name = $1`
	m, err := scanVendorRow(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vendor by name: %w", err)
	}
	v := mapping.ToDomainVendor(*m)
	return &v, nil
}

func (r *PgxVendorRepository) ListVendors(ctx context.Context) ([]domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors ORDER BY name`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []domain.Vendor
	for rows.Next() {
		m, err := scanVendorRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor row: %w", err)
		}
		vendors = append(vendors, mapping.ToDomainVendor(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vendors, nil
}

// FindLastDepartmentForVendor returns the department of the vendor's most
// recently created classified invoice, or nil when the vendor has none.
func (r *PgxVendorRepository) FindLastDepartmentForVendor(ctx context.Context, vendorID string) (*string, error) {
	query := `
		SELECT department_id FROM invoices
		WHERE vendor_id = $1 AND department_id IS NOT NULL AND NOT is_deleted
		ORDER BY created_at DESC LIMIT 1;
	`
	var departmentID *string
	err := r.Pool.QueryRow(ctx, query, vendorID).Scan(&departmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last department for vendor %s: %w", vendorID, err)
	}
	return departmentID, nil
}

func (r *PgxVendorRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	m := mapping.ToModelVendor(vendor)
	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.VendorID, m.Name, m.RegistrationNumber, m.RegistrationStatus, m.RegistrationCheckedAt,
		m.DefaultDepartmentID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save vendor %s: %w", m.VendorID, err)
	}
	return nil
}

func (r *PgxVendorRepository) UpdateVendor(ctx context.Context, vendor domain.Vendor) error {
	m := mapping.ToModelVendor(vendor)
	query := `
		UPDATE vendors SET
			name = $2, registration_number = $3, registration_status = $4, registration_checked_at = $5,
			default_department_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE vendor_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.VendorID, m.Name, m.RegistrationNumber, m.RegistrationStatus, m.RegistrationCheckedAt,
		m.DefaultDepartmentID, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update vendor %s: %w", m.VendorID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRegistrationCache copies the latest registry outcome onto the vendor
// row without touching the rest of the record.
func (r *PgxVendorRepository) UpdateRegistrationCache(ctx context.Context, vendorID string, number string, status domain.RegistrationStatus, checkedAt time.Time) error {
	query := `
		UPDATE vendors SET
			registration_number = COALESCE(NULLIF($2, ''), registration_number),
			registration_status = $3,
			registration_checked_at = $4,
			last_updated_at = $4
		WHERE vendor_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, vendorID, number, string(status), checkedAt)
	if err != nil {
		return fmt.Errorf("failed to update registration cache for vendor %s: %w", vendorID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
