package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/gateway/messaging"
	"settlement-service/src/internal/lifecycle"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/model/converter"
	"settlement-service/src/internal/pricing"
	"settlement-service/src/internal/repository"
	"settlement-service/src/pkg/databases/mysql"
	httpError "settlement-service/src/pkg/http-error"
	"settlement-service/src/pkg/log"
	redisPkg "settlement-service/src/pkg/redis"
	"settlement-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BookingUseCase struct {
	Log                 log.Log
	Validate            *validator.Validate
	DB                  mysql.DBInterface
	BookingRepository   *repository.BookingRepository
	QuotationRepository *repository.QuotationRepository
	PaymentRepository   *repository.PaymentRepository
	UserRepository      *repository.UserRepository
	AuditRepository     *repository.AuditRepository
	Locker              Locker
	Producer            *messaging.SettlementProducer
	Now                 func() time.Time
	store               bookingStore
}

func NewBookingUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	bookingRepository *repository.BookingRepository,
	quotationRepository *repository.QuotationRepository,
	paymentRepository *repository.PaymentRepository,
	userRepository *repository.UserRepository,
	auditRepository *repository.AuditRepository,
	locker Locker,
	producer *messaging.SettlementProducer,
) *BookingUseCase {
	return &BookingUseCase{
		Log:                 logger,
		Validate:            validate,
		DB:                  db,
		BookingRepository:   bookingRepository,
		QuotationRepository: quotationRepository,
		PaymentRepository:   paymentRepository,
		UserRepository:      userRepository,
		AuditRepository:     auditRepository,
		Locker:              locker,
		Producer:            producer,
		Now:                 utcNow,
		store: bookingStore{
			Bookings:   bookingRepository,
			Quotations: quotationRepository,
			Payments:   paymentRepository,
			Audit:      auditRepository,
		},
	}
}

// StatusTable is the display metadata of every status in lifecycle order.
func (c *BookingUseCase) StatusTable() []lifecycle.Display {
	return lifecycle.Displays()
}

func (c *BookingUseCase) CreateBooking(ctx context.Context, request *model.CreateBookingRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "booking-usecase", "CreateBooking", validationError(err), request)
	}
	if request.TotalAmount.IsNegative() {
		return fail(c.Log, "booking-usecase", "CreateBooking",
			httpError.NewValidationError("totalAmount must not be negative"), request)
	}
	if !pricing.IsCurrency(request.TotalAmount) {
		return fail(c.Log, "booking-usecase", "CreateBooking",
			httpError.NewValidationError("totalAmount must have at most 2 decimal places"), request)
	}

	now := c.Now()
	booking := &entity.Booking{
		ID:            uuid.NewString(),
		CustomerID:    request.CustomerID,
		ServiceID:     request.ServiceID,
		ScheduledDate: request.ScheduledDate,
		ScheduledTime: request.ScheduledTime,
		Status:        lifecycle.Pending,
		TotalAmount:   request.TotalAmount,
		Notes:         request.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := c.BookingRepository.Create(ctx, tx, booking); err != nil {
			return err
		}
		return c.AuditRepository.Insert(ctx, tx, newAuditEntry(request.Actor, entity.AuditCreate,
			entity.ResourceBooking, booking.ID, nil,
			entity.AuditValues{
				"status":      booking.Status,
				"customerId":  booking.CustomerID,
				"serviceId":   booking.ServiceID,
				"totalAmount": money(booking.TotalAmount),
			}, now))
	})
	if err != nil {
		return fail(c.Log, "booking-usecase", "CreateBooking", err, request)
	}

	c.Log.Info("booking-usecase", "booking created", "CreateBooking", booking.ID)
	result.Data = converter.BookingToResponse(booking, nil, nil)
	return result
}

func (c *BookingUseCase) GetBooking(ctx context.Context, request *model.GetBookingRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "booking-usecase", "GetBooking", validationError(err), request)
	}

	booking, err := c.BookingRepository.FindByID(ctx, nil, request.ID)
	if err != nil {
		return fail(c.Log, "booking-usecase", "GetBooking", notFoundError("booking", request.ID, err), request)
	}
	response, err := c.store.aggregate(ctx, nil, booking)
	if err != nil {
		return fail(c.Log, "booking-usecase", "GetBooking", err, request)
	}

	result.Data = response
	return result
}

// UpdateStatus is the admin status write. Moving to technician_assigned
// requires a technician; moving to cancelled requires a reason.
func (c *BookingUseCase) UpdateStatus(ctx context.Context, request *model.UpdateBookingStatusRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "booking-usecase", "UpdateStatus", validationError(err), request)
	}
	to, err := lifecycle.ParseStatus(request.Status)
	if err != nil {
		return fail(c.Log, "booking-usecase", "UpdateStatus", httpError.NewValidationError(err.Error()), request)
	}

	switch to {
	case lifecycle.Cancelled:
		return c.CancelBooking(ctx, &model.CancelBookingRequest{
			Actor:     request.Actor,
			BookingID: request.BookingID,
			Reason:    request.Reason,
		})
	case lifecycle.TechnicianAssigned:
		if request.TechnicianID == "" {
			return fail(c.Log, "booking-usecase", "UpdateStatus",
				httpError.NewValidationError("technicianId is required to assign a technician"), request)
		}
		return c.AssignTechnician(ctx, &model.AssignTechnicianRequest{
			Actor:        request.Actor,
			BookingID:    request.BookingID,
			TechnicianID: request.TechnicianID,
		})
	}

	change := bookingChange{To: to, Trigger: lifecycle.TriggerAdmin}
	if reason := strings.TrimSpace(request.Reason); reason != "" {
		change.New = entity.AuditValues{"reason": reason}
	}
	return c.mutate(ctx, request.Actor, request.BookingID, "UpdateStatus", request, func(tx *sqlx.Tx, b *entity.Booking, now time.Time) error {
		return c.store.transition(ctx, tx, request.Actor, b, change, now)
	})
}

// AssignTechnician moves a confirmed booking to technician_assigned. On a
// booking that is already technician_assigned it swaps the technician
// without a status change.
func (c *BookingUseCase) AssignTechnician(ctx context.Context, request *model.AssignTechnicianRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "booking-usecase", "AssignTechnician", validationError(err), request)
	}

	technicianID := request.TechnicianID
	return c.mutate(ctx, request.Actor, request.BookingID, "AssignTechnician", request, func(tx *sqlx.Tx, b *entity.Booking, now time.Time) error {
		reassign := b.Status == lifecycle.TechnicianAssigned
		if !reassign {
			if err := lifecycle.Transition(b.Status, lifecycle.TechnicianAssigned, lifecycle.TriggerAdmin); err != nil {
				return err
			}
		}
		if err := checkTechnician(ctx, c.UserRepository, tx, technicianID); err != nil {
			return err
		}

		if reassign {
			previous := b.TechnicianValue()
			if previous == technicianID {
				return httpError.NewInvalidTransition(b.Status.String(), b.Status.String())
			}
			b.TechnicianID = &technicianID
			return c.store.save(ctx, tx, request.Actor, b, entity.AuditUpdate,
				entity.AuditValues{"technicianId": previous},
				entity.AuditValues{"technicianId": technicianID}, now)
		}

		return c.store.transition(ctx, tx, request.Actor, b, bookingChange{
			To:      lifecycle.TechnicianAssigned,
			Trigger: lifecycle.TriggerAdmin,
			Mutate: func(b *entity.Booking) {
				b.TechnicianID = &technicianID
			},
		}, now)
	})
}

// CancelBooking cancels from any non-terminal status. Payments are left as
// they are; refunds are a separate operation.
func (c *BookingUseCase) CancelBooking(ctx context.Context, request *model.CancelBookingRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "booking-usecase", "CancelBooking", validationError(err), request)
	}

	reason := strings.TrimSpace(request.Reason)
	return c.mutate(ctx, request.Actor, request.BookingID, "CancelBooking", request, func(tx *sqlx.Tx, b *entity.Booking, now time.Time) error {
		return c.store.transition(ctx, tx, request.Actor, b, bookingChange{
			To:      lifecycle.Cancelled,
			Trigger: lifecycle.TriggerAdmin,
			Action:  entity.AuditCancel,
			Mutate: func(b *entity.Booking) {
				b.CancellationReason = &reason
			},
			New: entity.AuditValues{"reason": reason},
		}, now)
	})
}

// mutate runs apply against the locked booking and returns the committed
// aggregate.
func (c *BookingUseCase) mutate(ctx context.Context, actor model.Actor, bookingID, scope string, request interface{}, apply func(tx *sqlx.Tx, b *entity.Booking, now time.Time) error) utils.Result {
	var result utils.Result

	release, err := c.Locker.Acquire(ctx, redisPkg.BookingLockKey(bookingID))
	if err != nil {
		return fail(c.Log, "booking-usecase", scope, lockError(err), request)
	}
	defer release()

	now := c.Now()
	var (
		from     lifecycle.Status
		booking  *entity.Booking
		response *model.BookingResponse
	)
	err = c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		booking, err = c.store.lock(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		from = booking.Status
		if err := apply(tx, booking, now); err != nil {
			return err
		}
		response, err = c.store.aggregate(ctx, tx, booking)
		return err
	})
	if err != nil {
		return fail(c.Log, "booking-usecase", scope, err, request)
	}

	if from != booking.Status {
		if err := c.Producer.Publish(converter.BookingStatusToEvent(booking, from, actor.UserID)); err != nil {
			c.Log.Error("booking-usecase", "publish event failed", scope, err.Error())
		}
	}
	c.Log.Info("booking-usecase", fmt.Sprintf("booking %s: %s -> %s", booking.ID, from, booking.Status), scope, actor.UserID)

	result.Data = response
	return result
}
