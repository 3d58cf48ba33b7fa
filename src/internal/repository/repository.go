package repository

import (
	"database/sql"
	"errors"

	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("repository: record not found")

// Executor is satisfied by *sqlx.DB and *sqlx.Tx, so every method can run
// inside or outside a transaction.
type Executor interface {
	sqlx.ExtContext
}

// pick returns ex when the caller is inside a transaction, otherwise the pool.
func pick(db mysql.DBInterface, ex Executor) (Executor, error) {
	if ex != nil {
		return ex, nil
	}
	return db.GetDB()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
