package repository

import (
	"context"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const paymentColumns = `
	id, booking_id, amount, method, status, gateway_transaction_id,
	refund_transaction_id, refunded_at, created_at, updated_at`

type PaymentRepository struct {
	DB mysql.DBInterface
}

func NewPaymentRepository(db mysql.DBInterface) *PaymentRepository {
	return &PaymentRepository{
		DB: db,
	}
}

func (r *PaymentRepository) FindByIDForUpdate(ctx context.Context, tx Executor, id string) (*entity.Payment, error) {
	var p entity.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = ? FOR UPDATE`
	if err := sqlx.GetContext(ctx, tx, &p, query, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PaymentRepository) ListByBooking(ctx context.Context, ex Executor, bookingID string) ([]entity.Payment, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	payments := []entity.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = ? ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, db, &payments, query, bookingID); err != nil {
		return nil, err
	}
	return payments, nil
}

// MarkRefunded flips a paid payment to refunded. False means it was not paid
// any more, so a second refund can never apply.
func (r *PaymentRepository) MarkRefunded(ctx context.Context, tx Executor, id, refundTransactionID string, at time.Time) (bool, error) {
	query := `
		UPDATE payments
		SET status = ?, refund_transaction_id = ?, refunded_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, query,
		entity.PaymentRefunded, refundTransactionID, at, at, id, entity.PaymentPaid,
	)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}
