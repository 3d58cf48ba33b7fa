package repository

import (
	"context"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const walletColumns = `user_id, balance, total_earned, total_spent, version, created_at, updated_at`

type WalletRepository struct {
	DB mysql.DBInterface
}

func NewWalletRepository(db mysql.DBInterface) *WalletRepository {
	return &WalletRepository{
		DB: db,
	}
}

// Ensure creates an empty wallet for userID unless one exists.
func (r *WalletRepository) Ensure(ctx context.Context, tx Executor, userID string, now time.Time) error {
	query := `
		INSERT IGNORE INTO wallets (user_id, balance, total_earned, total_spent, version, created_at, updated_at)
		VALUES (?, 0, 0, 0, 0, ?, ?)`
	_, err := tx.ExecContext(ctx, query, userID, now, now)
	return err
}

func (r *WalletRepository) FindForUpdate(ctx context.Context, tx Executor, userID string) (*entity.WalletAccount, error) {
	var w entity.WalletAccount
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = ? FOR UPDATE`
	if err := sqlx.GetContext(ctx, tx, &w, query, userID); err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (r *WalletRepository) FindByUserID(ctx context.Context, ex Executor, userID string) (*entity.WalletAccount, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	var w entity.WalletAccount
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = ?`
	if err := sqlx.GetContext(ctx, db, &w, query, userID); err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// UpdateBalances stores the running totals of w guarded by its version.
func (r *WalletRepository) UpdateBalances(ctx context.Context, tx Executor, w *entity.WalletAccount, now time.Time) (bool, error) {
	query := `
		UPDATE wallets
		SET balance = ?, total_earned = ?, total_spent = ?, version = version + 1, updated_at = ?
		WHERE user_id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, query, w.Balance, w.TotalEarned, w.TotalSpent, now, w.UserID, w.Version)
	if err != nil {
		return false, err
	}
	ok, err := affectedOne(res)
	if err != nil || !ok {
		return false, err
	}
	w.Version++
	w.UpdatedAt = now
	return true, nil
}

func (r *WalletRepository) InsertTransaction(ctx context.Context, tx Executor, t *entity.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (
			id, user_id, type, amount, reason, related_booking_id, balance_after, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount, t.Reason, t.RelatedBookingID, t.BalanceAfter, t.CreatedAt,
	)
	return err
}

func (r *WalletRepository) ListTransactions(ctx context.Context, ex Executor, userID string, limit int) ([]entity.WalletTransaction, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	txs := []entity.WalletTransaction{}
	query := `
		SELECT id, user_id, type, amount, reason, related_booking_id, balance_after, created_at
		FROM wallet_transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	if err := sqlx.SelectContext(ctx, db, &txs, query, userID, limit); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *WalletRepository) SumTransactions(ctx context.Context, ex Executor, userID string) (entity.WalletTotals, error) {
	var totals entity.WalletTotals
	db, err := pick(r.DB, ex)
	if err != nil {
		return totals, err
	}
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'credit' THEN amount ELSE 0 END), 0) AS credits,
			COALESCE(SUM(CASE WHEN type = 'debit' THEN amount ELSE 0 END), 0) AS debits
		FROM wallet_transactions
		WHERE user_id = ?`
	err = sqlx.GetContext(ctx, db, &totals, query, userID)
	return totals, err
}
