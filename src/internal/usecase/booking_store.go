package usecase

import (
	"context"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/lifecycle"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/model/converter"
	"settlement-service/src/internal/repository"
)

// bookingStore holds the writes every booking mutation shares: the version
// checked update, its audit entry and the aggregate read-back.
type bookingStore struct {
	Bookings   *repository.BookingRepository
	Quotations *repository.QuotationRepository
	Payments   *repository.PaymentRepository
	Audit      *repository.AuditRepository
}

type bookingChange struct {
	To      lifecycle.Status
	Trigger lifecycle.Trigger
	Action  entity.AuditAction
	Mutate  func(b *entity.Booking)
	Old     entity.AuditValues
	New     entity.AuditValues
}

func (s bookingStore) lock(ctx context.Context, tx repository.Executor, id string) (*entity.Booking, error) {
	b, err := s.Bookings.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, notFoundError("booking", id, err)
	}
	return b, nil
}

// transition moves b to change.To. Leaving the working states drops the
// technician; the dropped id stays visible in the audit entry.
func (s bookingStore) transition(ctx context.Context, tx repository.Executor, actor model.Actor, b *entity.Booking, change bookingChange, now time.Time) error {
	if err := lifecycle.Transition(b.Status, change.To, change.Trigger); err != nil {
		return err
	}

	oldValues := entity.AuditValues{"status": b.Status}
	newValues := entity.AuditValues{"status": change.To}
	if b.TechnicianID != nil {
		oldValues["technicianId"] = *b.TechnicianID
	}
	for k, v := range change.Old {
		oldValues[k] = v
	}

	b.Status = change.To
	if change.Mutate != nil {
		change.Mutate(b)
	}
	if !b.Status.AllowsTechnician() {
		b.TechnicianID = nil
	}
	if b.TechnicianID != nil {
		newValues["technicianId"] = *b.TechnicianID
	}
	for k, v := range change.New {
		newValues[k] = v
	}

	action := change.Action
	if action == "" {
		action = entity.AuditStatusChange
	}
	return s.save(ctx, tx, actor, b, action, oldValues, newValues, now)
}

// save writes b guarded by its version and records the audit entry in the
// same transaction.
func (s bookingStore) save(ctx context.Context, tx repository.Executor, actor model.Actor, b *entity.Booking, action entity.AuditAction, oldValues, newValues entity.AuditValues, now time.Time) error {
	ok, err := s.Bookings.UpdateState(ctx, tx, b, now)
	if err != nil {
		return err
	}
	if !ok {
		return conflictError("booking", b.ID)
	}
	return s.Audit.Insert(ctx, tx, newAuditEntry(actor, action, entity.ResourceBooking, b.ID, oldValues, newValues, now))
}

func (s bookingStore) aggregate(ctx context.Context, ex repository.Executor, b *entity.Booking) (*model.BookingResponse, error) {
	quotations, err := s.Quotations.ListByBooking(ctx, ex, b.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.Payments.ListByBooking(ctx, ex, b.ID)
	if err != nil {
		return nil, err
	}
	return converter.BookingToResponse(b, quotations, payments), nil
}
