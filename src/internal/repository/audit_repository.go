package repository

import (
	"context"

	"settlement-service/src/internal/entity"
	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

// AuditRepository only appends and reads; audit rows are never changed.
type AuditRepository struct {
	DB mysql.DBInterface
}

func NewAuditRepository(db mysql.DBInterface) *AuditRepository {
	return &AuditRepository{
		DB: db,
	}
}

func (r *AuditRepository) Insert(ctx context.Context, tx Executor, e *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (
			id, user_id, action, resource_type, resource_id, old_values, new_values, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		e.ID, e.UserID, e.Action, e.ResourceType, e.ResourceID, e.OldValues, e.NewValues, e.CreatedAt,
	)
	return err
}

func (r *AuditRepository) ListByResource(ctx context.Context, ex Executor, resourceType, resourceID string, limit int) ([]entity.AuditLogEntry, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries := []entity.AuditLogEntry{}
	query := `
		SELECT id, user_id, action, resource_type, resource_id, old_values, new_values, created_at
		FROM audit_logs
		WHERE resource_type = ? AND resource_id = ?
		ORDER BY created_at DESC
		LIMIT ?`
	if err := sqlx.SelectContext(ctx, db, &entries, query, resourceType, resourceID, limit); err != nil {
		return nil, err
	}
	return entries, nil
}
