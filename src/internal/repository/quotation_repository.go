package repository

import (
	"context"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
)

const quotationColumns = `
	id, booking_id, technician_id, additional_cost, spare_parts_total, vat_amount,
	total_amount, status, notes, decided_by, decided_at, created_at`

type QuotationRepository struct {
	DB mysql.DBInterface
}

func NewQuotationRepository(db mysql.DBInterface) *QuotationRepository {
	return &QuotationRepository{
		DB: db,
	}
}

// Create stores the quotation and its line items.
func (r *QuotationRepository) Create(ctx context.Context, tx Executor, q *entity.Quotation) error {
	query := `
		INSERT INTO quotations (
			id, booking_id, technician_id, additional_cost, spare_parts_total,
			vat_amount, total_amount, status, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query,
		q.ID, q.BookingID, q.TechnicianID, q.AdditionalCost, q.SparePartsTotal,
		q.VATAmount, q.TotalAmount, q.Status, q.Notes, q.CreatedAt,
	); err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO quotation_line_items (
			id, quotation_id, spare_part_id, name, quantity, unit_price, line_total
		) VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, item := range q.LineItems {
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID, item.QuotationID, item.SparePartID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *QuotationRepository) FindByID(ctx context.Context, ex Executor, id string) (*entity.Quotation, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	var q entity.Quotation
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = ?`
	if err := sqlx.GetContext(ctx, db, &q, query, id); err != nil {
		return nil, notFound(err)
	}
	items, err := r.LineItems(ctx, db, id)
	if err != nil {
		return nil, err
	}
	q.LineItems = items
	return &q, nil
}

func (r *QuotationRepository) FindByIDForUpdate(ctx context.Context, tx Executor, id string) (*entity.Quotation, error) {
	var q entity.Quotation
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = ? FOR UPDATE`
	if err := sqlx.GetContext(ctx, tx, &q, query, id); err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *QuotationRepository) LineItems(ctx context.Context, ex Executor, quotationID string) ([]entity.QuotationLineItem, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	items := []entity.QuotationLineItem{}
	query := `
		SELECT id, quotation_id, spare_part_id, name, quantity, unit_price, line_total
		FROM quotation_line_items
		WHERE quotation_id = ?
		ORDER BY id`
	if err := sqlx.SelectContext(ctx, db, &items, query, quotationID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *QuotationRepository) ListByBooking(ctx context.Context, ex Executor, bookingID string) ([]entity.Quotation, error) {
	db, err := pick(r.DB, ex)
	if err != nil {
		return nil, err
	}
	quotations := []entity.Quotation{}
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE booking_id = ? ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, db, &quotations, query, bookingID); err != nil {
		return nil, err
	}
	return quotations, nil
}

// CountPending counts pending quotations of a booking other than excludeID.
func (r *QuotationRepository) CountPending(ctx context.Context, tx Executor, bookingID, excludeID string) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM quotations WHERE booking_id = ? AND status = ? AND id <> ?`
	if err := sqlx.GetContext(ctx, tx, &n, query, bookingID, entity.QuotationPending, excludeID); err != nil {
		return 0, err
	}
	return n, nil
}

// Decide moves a pending quotation to status. False means it was no longer pending.
func (r *QuotationRepository) Decide(ctx context.Context, tx Executor, id string, status entity.QuotationStatus, decidedBy string, at time.Time) (bool, error) {
	query := `
		UPDATE quotations
		SET status = ?, decided_by = ?, decided_at = ?
		WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, query, status, decidedBy, at, id, entity.QuotationPending)
	if err != nil {
		return false, err
	}
	return affectedOne(res)
}
