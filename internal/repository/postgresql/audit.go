package postgresql

import (
	"context"
	"fmt"

	"github.com/chronohr/attendance-backend-go/internal/domain/audit"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

// Append implements audit.TrailRepository.
func (r *auditRepository) Append(ctx context.Context, e audit.Entry) (audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO audit_log (action, actor_id, entity, entity_id, before_status,
							   after_status, affected_count, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		e.Action, e.ActorID, e.Entity, e.EntityID, e.BeforeStatus,
		e.AfterStatus, e.AffectedCount, e.Reason,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("failed to append audit entry: %w", err)
	}

	return e, nil
}

// List implements audit.TrailRepository.
func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, action, actor_id, entity, entity_id, before_status,
			   after_status, affected_count, reason, created_at
		FROM audit_log
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Entity != nil {
		query += fmt.Sprintf(" AND entity = $%d", argIdx)
		args = append(args, *filter.Entity)
		argIdx++
	}
	if filter.Action != nil {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *filter.Action)
		argIdx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		err := rows.Scan(
			&e.ID, &e.Action, &e.ActorID, &e.Entity, &e.EntityID, &e.BeforeStatus,
			&e.AfterStatus, &e.AffectedCount, &e.Reason, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}

func NewAuditRepository(db *database.DB) audit.TrailRepository {
	return &auditRepository{db: db}
}
