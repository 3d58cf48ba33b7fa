package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"settlement-service/src/pkg/log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

// DBInterface is the handle repositories and usecases receive.
type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	// WithTransaction runs fn inside one transaction. fn returning an error,
	// or panicking, rolls everything back.
	WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type mysqlDB struct {
	db *sqlx.DB
}

var ErrNotConnected = errors.New("mysql: database is not connected")

func InitConnection(v *viper.Viper, logger log.Log) (DBInterface, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		v.GetString("database.username"),
		v.GetString("database.password"),
		v.GetString("database.host"),
		v.GetInt("database.port"),
		v.GetString("database.name"),
	)

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return &mysqlDB{}, err
	}

	idle := v.GetInt("database.pool.idle")
	if idle == 0 {
		idle = 10
	}
	maxOpen := v.GetInt("database.pool.max")
	if maxOpen == 0 {
		maxOpen = 50
	}
	lifetime := v.GetInt("database.pool.lifetime")
	if lifetime == 0 {
		lifetime = 300
	}
	db.SetMaxIdleConns(idle)
	db.SetMaxOpenConns(maxOpen)
	db.SetConnMaxLifetime(time.Duration(lifetime) * time.Second)

	logger.Info("mysql", "database connected", "InitConnection", v.GetString("database.host"))
	return &mysqlDB{db: db}, nil
}

// NewFromDB wraps an already opened handle, e.g. sqlmock in tests.
func NewFromDB(db *sqlx.DB) DBInterface {
	return &mysqlDB{db: db}
}

func (m *mysqlDB) GetDB() (*sqlx.DB, error) {
	if m == nil || m.db == nil {
		return nil, ErrNotConnected
	}
	return m.db, nil
}

func (m *mysqlDB) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	db, err := m.GetDB()
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
