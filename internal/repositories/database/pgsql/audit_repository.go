package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hfujimori/invoice_kanri_app/internal/core/domain"
	portsrepo "github.com/hfujimori/invoice_kanri_app/internal/core/ports/repositories"
	"github.com/hfujimori/invoice_kanri_app/internal/models"
	"github.com/hfujimori/invoice_kanri_app/internal/utils/mapping"
)

// PgxAuditRepository is insert-only: there is no update or delete statement
// in this file on purpose.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveEntry appends one audit row.
func (r *PgxAuditRepository) SaveEntry(ctx context.Context, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditLog(entry)
	query := `
		INSERT INTO audit_logs (audit_id, user_id, entity_type, entity_id, action, old_values, new_values, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AuditID, m.UserID, m.EntityType, m.EntityID, m.Action, m.OldValues, m.NewValues, m.IPAddress, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save audit entry %s: %w", m.AuditID, err)
	}
	return nil
}

// ListEntries retrieves a bounded most-recent-first slice of the log.
func (r *PgxAuditRepository) ListEntries(ctx context.Context, filter portsrepo.AuditListFilter) ([]domain.AuditEntry, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.EntityType != "" {
		conditions = append(conditions, "entity_type = "+arg(filter.EntityType))
	}
	if filter.EntityID != "" {
		conditions = append(conditions, "entity_id = "+arg(filter.EntityID))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
		SELECT audit_id, user_id, entity_type, entity_id, action, old_values, new_values, ip_address, created_at
		FROM audit_logs` + where + `
		ORDER BY created_at DESC, audit_id DESC
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var m models.AuditLog
		err := rows.Scan(&m.AuditID, &m.UserID, &m.EntityType, &m.EntityID, &m.Action, &m.OldValues, &m.NewValues, &m.IPAddress, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, mapping.ToDomainAuditEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
