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

const departmentColumns = `department_id, name, code, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxDepartmentRepository struct {
	BaseRepository
}

func newPgxDepartmentRepository(pool *pgxpool.Pool) portsrepo.DepartmentRepositoryFacade {
	return &PgxDepartmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DepartmentRepositoryFacade = (*PgxDepartmentRepository)(nil)

func scanDepartmentRow(row pgx.Row) (*models.Department, error) {
	var m models.Department
	err := row.Scan(&m.DepartmentID, &m.Name, &m.Code, &m.IsActive, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE department_id = $1`
	m, err := scanDepartmentRow(r.Pool.QueryRow(ctx, query, departmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find department %s: %w", departmentID, err)
	}
	d := mapping.ToDomainDepartment(*m)
	return &d, nil
}

// FindDepartmentByCode returns (nil, nil) on a miss; the caller relies on
// that to check code uniqueness.
func (r *PgxDepartmentRepository) FindDepartmentByCode(ctx context.Context, code string) (*domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE code = $1`
	m, err := scanDepartmentRow(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find department by code: %w", err)
	}
	d := mapping.ToDomainDepartment(*m)
	return &d, nil
}

func (r *PgxDepartmentRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY code`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []domain.Department
	for rows.Next() {
		m, err := scanDepartmentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department row: %w", err)
		}
		departments = append(departments, mapping.ToDomainDepartment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *PgxDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)
	query := `
		INSERT INTO departments (` + departmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DepartmentID, m.Name, m.Code, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to save department %s: %w", m.DepartmentID, err)
	}
	return nil
}

func (r *PgxDepartmentRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	m := mapping.ToModelDepartment(department)
	query := `
		UPDATE departments SET name = $2, code = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE department_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.DepartmentID, m.Name, m.Code, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update department %s: %w", m.DepartmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateDepartment flips is_active off. Departments are never hard
// deleted so historical invoices keep their classification.
func (r *PgxDepartmentRepository) DeactivateDepartment(ctx context.Context, departmentID string, userID string, now time.Time) error {
	query := `
		UPDATE departments SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE department_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, departmentID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate department %s: %w", departmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
