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

// ApprovalPolicy decides where an approved quotation takes its booking.
type ApprovalPolicy string

const (
	ApprovalResume   ApprovalPolicy = "resume"
	ApprovalComplete ApprovalPolicy = "complete"
	ApprovalCaller   ApprovalPolicy = "caller"
)

func ParseApprovalPolicy(s string) (ApprovalPolicy, error) {
	switch p := ApprovalPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ApprovalResume, ApprovalComplete, ApprovalCaller:
		return p, nil
	case "":
		return ApprovalCaller, nil
	}
	return "", fmt.Errorf("unknown quotation approval policy %q", s)
}

func (p ApprovalPolicy) target(final bool) lifecycle.Status {
	switch p {
	case ApprovalResume:
		return lifecycle.InProgress
	case ApprovalComplete:
		return lifecycle.Completed
	}
	if final {
		return lifecycle.Completed
	}
	return lifecycle.InProgress
}

type QuotationUseCase struct {
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
	Calculator          pricing.Calculator
	Policy              ApprovalPolicy
	Now                 func() time.Time
	store               bookingStore
}

func NewQuotationUseCase(
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
	calculator pricing.Calculator,
	policy ApprovalPolicy,
) *QuotationUseCase {
	return &QuotationUseCase{
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
		Calculator:          calculator,
		Policy:              policy,
		Now:                 utcNow,
		store: bookingStore{
			Bookings:   bookingRepository,
			Quotations: quotationRepository,
			Payments:   paymentRepository,
			Audit:      auditRepository,
		},
	}
}

// CreateQuotation prices the request, stores it as pending and moves an
// in_progress booking to quotation_pending.
func (c *QuotationUseCase) CreateQuotation(ctx context.Context, request *model.CreateQuotationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "quotation-usecase", "CreateQuotation", validationError(err), request)
	}

	items := make([]pricing.LineItem, 0, len(request.SpareParts))
	for _, part := range request.SpareParts {
		items = append(items, pricing.LineItem{
			SparePartID: part.SparePartID,
			Name:        part.Name,
			Quantity:    part.Quantity,
			UnitPrice:   part.UnitPrice,
		})
	}
	breakdown, err := c.Calculator.Compute(request.AdditionalCost, items)
	if err != nil {
		return fail(c.Log, "quotation-usecase", "CreateQuotation", err, request)
	}

	release, err := c.Locker.Acquire(ctx, redisPkg.BookingLockKey(request.BookingID))
	if err != nil {
		return fail(c.Log, "quotation-usecase", "CreateQuotation", lockError(err), request)
	}
	defer release()

	now := c.Now()
	quotation := &entity.Quotation{
		ID:              uuid.NewString(),
		BookingID:       request.BookingID,
		TechnicianID:    request.TechnicianID,
		AdditionalCost:  breakdown.AdditionalCost,
		SparePartsTotal: breakdown.SparePartsTotal,
		VATAmount:       breakdown.VATAmount,
		TotalAmount:     breakdown.TotalAmount,
		Status:          entity.QuotationPending,
		Notes:           request.Notes,
		CreatedAt:       now,
	}
	for i, line := range breakdown.Lines {
		quotation.LineItems = append(quotation.LineItems, entity.QuotationLineItem{
			ID:          uuid.NewString(),
			QuotationID: quotation.ID,
			SparePartID: line.SparePartID,
			Name:        items[i].Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.Total,
		})
	}

	var (
		from     lifecycle.Status
		booking  *entity.Booking
		response *model.BookingResponse
	)
	err = c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		booking, err = c.store.lock(ctx, tx, request.BookingID)
		if err != nil {
			return err
		}
		from = booking.Status
		if !booking.Status.AcceptsQuotation() {
			return httpError.NewInvalidTransition(booking.Status.String(), lifecycle.QuotationPending.String())
		}
		if booking.TechnicianID != nil && *booking.TechnicianID != request.TechnicianID {
			return httpError.NewInvalidAssignment(
				fmt.Sprintf("technician %s is not assigned to booking %s", request.TechnicianID, booking.ID), true)
		}
		if err := checkTechnician(ctx, c.UserRepository, tx, request.TechnicianID); err != nil {
			return err
		}

		if err := c.QuotationRepository.Create(ctx, tx, quotation); err != nil {
			return err
		}
		if err := c.AuditRepository.Insert(ctx, tx, newAuditEntry(request.Actor, entity.AuditCreate,
			entity.ResourceQuotation, quotation.ID, nil,
			entity.AuditValues{
				"bookingId":   quotation.BookingID,
				"status":      quotation.Status,
				"totalAmount": money(quotation.TotalAmount),
			}, now)); err != nil {
			return err
		}

		if booking.Status == lifecycle.InProgress {
			if err := c.store.transition(ctx, tx, request.Actor, booking, bookingChange{
				To:      lifecycle.QuotationPending,
				Trigger: lifecycle.TriggerQuotation,
				New:     entity.AuditValues{"quotationId": quotation.ID},
			}, now); err != nil {
				return err
			}
		}

		response, err = c.store.aggregate(ctx, tx, booking)
		return err
	})
	if err != nil {
		return fail(c.Log, "quotation-usecase", "CreateQuotation", err, request)
	}

	c.publish(converter.QuotationToEvent(model.EventQuotationCreated, quotation, request.Actor.UserID, now))
	if from != booking.Status {
		c.publish(converter.BookingStatusToEvent(booking, from, request.Actor.UserID))
	}
	c.Log.Info("quotation-usecase", "quotation created", "CreateQuotation", quotation.ID)

	result.Data = &model.QuotationResponse{Quotation: *quotation, Breakdown: &breakdown, Booking: response}
	return result
}

func (c *QuotationUseCase) GetQuotation(ctx context.Context, request *model.GetQuotationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "quotation-usecase", "GetQuotation", validationError(err), request)
	}

	quotation, err := c.QuotationRepository.FindByID(ctx, nil, request.ID)
	if err != nil {
		return fail(c.Log, "quotation-usecase", "GetQuotation", notFoundError("quotation", request.ID, err), request)
	}

	result.Data = &model.QuotationResponse{Quotation: *quotation}
	return result
}

// DecideQuotation approves or rejects a pending quotation. Approval copies the
// quotation total onto the booking. The booking leaves quotation_pending only
// once no other quotation of it is still pending: rejection returns it to
// in_progress, approval moves it where the policy says.
func (c *QuotationUseCase) DecideQuotation(ctx context.Context, request *model.DecideQuotationRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "quotation-usecase", "DecideQuotation", validationError(err), request)
	}
	decision := entity.QuotationStatus(request.Status)

	current, err := c.QuotationRepository.FindByID(ctx, nil, request.QuotationID)
	if err != nil {
		return fail(c.Log, "quotation-usecase", "DecideQuotation", notFoundError("quotation", request.QuotationID, err), request)
	}

	release, err := c.Locker.Acquire(ctx, redisPkg.BookingLockKey(current.BookingID))
	if err != nil {
		return fail(c.Log, "quotation-usecase", "DecideQuotation", lockError(err), request)
	}
	defer release()

	now := c.Now()
	var (
		from      lifecycle.Status
		booking   *entity.Booking
		quotation *entity.Quotation
		response  *model.BookingResponse
	)
	err = c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		booking, err = c.store.lock(ctx, tx, current.BookingID)
		if err != nil {
			return err
		}
		from = booking.Status

		quotation, err = c.QuotationRepository.FindByIDForUpdate(ctx, tx, request.QuotationID)
		if err != nil {
			return notFoundError("quotation", request.QuotationID, err)
		}
		if quotation.Status != entity.QuotationPending {
			return httpError.NewInvalidTransition(string(quotation.Status), string(decision))
		}
		if decision == entity.QuotationApproved && booking.Status.Terminal() {
			return httpError.NewInvalidTransition(booking.Status.String(), c.Policy.target(request.Final).String())
		}

		ok, err := c.QuotationRepository.Decide(ctx, tx, quotation.ID, decision, request.Actor.UserID, now)
		if err != nil {
			return err
		}
		if !ok {
			return conflictError("quotation", quotation.ID)
		}
		quotation.Status = decision
		quotation.DecidedBy = &request.Actor.UserID
		quotation.DecidedAt = &now
		if quotation.LineItems, err = c.QuotationRepository.LineItems(ctx, tx, quotation.ID); err != nil {
			return err
		}

		if err := c.AuditRepository.Insert(ctx, tx, newAuditEntry(request.Actor, entity.AuditUpdate,
			entity.ResourceQuotation, quotation.ID,
			entity.AuditValues{"status": entity.QuotationPending},
			entity.AuditValues{"status": decision, "totalAmount": money(quotation.TotalAmount)}, now)); err != nil {
			return err
		}

		if err := c.settleBooking(ctx, tx, request, booking, quotation, now); err != nil {
			return err
		}

		response, err = c.store.aggregate(ctx, tx, booking)
		return err
	})
	if err != nil {
		return fail(c.Log, "quotation-usecase", "DecideQuotation", err, request)
	}

	c.publish(converter.QuotationToEvent(model.EventQuotationDecided, quotation, request.Actor.UserID, now))
	if from != booking.Status {
		c.publish(converter.BookingStatusToEvent(booking, from, request.Actor.UserID))
	}
	c.Log.Info("quotation-usecase", fmt.Sprintf("quotation %s %s", quotation.ID, decision), "DecideQuotation", booking.ID)

	result.Data = &model.QuotationResponse{Quotation: *quotation, Booking: response}
	return result
}

// settleBooking applies the decision to the locked booking.
func (c *QuotationUseCase) settleBooking(ctx context.Context, tx repository.Executor, request *model.DecideQuotationRequest, booking *entity.Booking, quotation *entity.Quotation, now time.Time) error {
	others, err := c.QuotationRepository.CountPending(ctx, tx, booking.ID, quotation.ID)
	if err != nil {
		return err
	}
	leaves := booking.Status == lifecycle.QuotationPending && others == 0

	if quotation.Status == entity.QuotationRejected {
		if !leaves {
			return nil
		}
		return c.store.transition(ctx, tx, request.Actor, booking, bookingChange{
			To:      lifecycle.InProgress,
			Trigger: lifecycle.TriggerQuotation,
			New:     entity.AuditValues{"quotationId": quotation.ID},
		}, now)
	}

	previousTotal := money(booking.TotalAmount)
	total := quotation.TotalAmount
	if !leaves {
		booking.TotalAmount = total
		return c.store.save(ctx, tx, request.Actor, booking, entity.AuditUpdate,
			entity.AuditValues{"totalAmount": previousTotal},
			entity.AuditValues{"totalAmount": money(total), "quotationId": quotation.ID}, now)
	}
	return c.store.transition(ctx, tx, request.Actor, booking, bookingChange{
		To:      c.Policy.target(request.Final),
		Trigger: lifecycle.TriggerQuotation,
		Mutate: func(b *entity.Booking) {
			b.TotalAmount = total
		},
		Old: entity.AuditValues{"totalAmount": previousTotal},
		New: entity.AuditValues{"totalAmount": money(total), "quotationId": quotation.ID},
	}, now)
}

func (c *QuotationUseCase) publish(event *model.SettlementEvent) {
	if err := c.Producer.Publish(event); err != nil {
		c.Log.Error("quotation-usecase", "publish event failed", event.Type, err.Error())
	}
}
