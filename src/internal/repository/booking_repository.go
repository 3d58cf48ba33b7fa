package repository

import (
	"context"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `
	id, customer_id, service_id, technician_id, scheduled_date, scheduled_time,
	status, total_amount, payment_id, notes, cancellation_reason, version,
	created_at, updated_at`

type BookingRepository struct {
	DB mysql.DBInterface
}

func NewBookingRepository(db mysql.DBInterface) *BookingRepository {
	return &BookingRepository{
		DB: db,
	}
}

func (r *BookingRepository) Create(ctx context.Context, ex Executor, b *entity.Booking) error {
	db, err := pick(r.DB, ex)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO bookings (
			id, customer_id, service_id, technician_id, scheduled_date, scheduled_time,
			status, total_amount, payment_id, notes, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query,
		b.ID, b.CustomerID, b.ServiceID, b.TechnicianID, b.ScheduledDate, b.ScheduledTime,
		b.Status, b.TotalAmount, b.PaymentID, b.Notes, b.Version, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *BookingRepository) FindByID(ctx context.Context, ex Executor, id string) (*entity.Booking, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := sqlx.GetContext(ctx, db, &booking, query, id); err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row until the surrounding transaction ends.
func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx Executor, id string) (*entity.Booking, error) {
	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	if err := sqlx.GetContext(ctx, tx, &booking, query, id); err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

// UpdateState writes the mutable fields of b if the stored version still
// equals b.Version. It reports false when someone else got there first; on
// success b.Version is advanced.
func (r *BookingRepository) UpdateState(ctx context.Context, tx Executor, b *entity.Booking, now time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = ?, technician_id = ?, total_amount = ?, cancellation_reason = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := tx.ExecContext(ctx, query,
		b.Status, b.TechnicianID, b.TotalAmount, b.CancellationReason, now, b.ID, b.Version,
	)
	if err != nil {
		return false, err
	}
	ok, err := affectedOne(res)
	if err != nil || !ok {
		return false, err
	}
	b.Version++
	b.UpdatedAt = now
	return true, nil
}
