package repository

import (
	"context"

	"settlement-service/src/internal/entity"
	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	DB mysql.DBInterface
}

func NewUserRepository(db mysql.DBInterface) *UserRepository {
	return &UserRepository{
		DB: db,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, ex Executor, id string) (*entity.User, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	var user entity.User
	query := `SELECT id, full_name, role, is_active, created_at FROM users WHERE id = ?`
	if err := sqlx.GetContext(ctx, db, &user, query, id); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}
