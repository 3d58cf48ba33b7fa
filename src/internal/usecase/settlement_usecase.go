package usecase

import (
	"context"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/gateway/messaging"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/model/converter"
	"settlement-service/src/internal/repository"
	"settlement-service/src/pkg/databases/mysql"
	httpError "settlement-service/src/pkg/http-error"
	"settlement-service/src/pkg/log"
	redisPkg "settlement-service/src/pkg/redis"
	"settlement-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
)

// SettlementUseCase covers the money movements that cross aggregates:
// payment refunds into the wallet and admin top-ups.
type SettlementUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	DB                mysql.DBInterface
	BookingRepository *repository.BookingRepository
	UserRepository    *repository.UserRepository
	AuditRepository   *repository.AuditRepository
	Wallet            *WalletUseCase
	Locker            Locker
	Producer          *messaging.SettlementProducer
	Now               func() time.Time
	store             bookingStore
}

func NewSettlementUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	bookingRepository *repository.BookingRepository,
	quotationRepository *repository.QuotationRepository,
	paymentRepository *repository.PaymentRepository,
	userRepository *repository.UserRepository,
	auditRepository *repository.AuditRepository,
	wallet *WalletUseCase,
	locker Locker,
	producer *messaging.SettlementProducer,
) *SettlementUseCase {
	return &SettlementUseCase{
		Log:               logger,
		Validate:          validate,
		DB:                db,
		BookingRepository: bookingRepository,
		UserRepository:    userRepository,
		AuditRepository:   auditRepository,
		Wallet:            wallet,
		Locker:            locker,
		Producer:          producer,
		Now:               utcNow,
		store: bookingStore{
			Bookings:   bookingRepository,
			Quotations: quotationRepository,
			Payments:   paymentRepository,
			Audit:      auditRepository,
		},
	}
}

// RefundPayment refunds a paid payment of a confirmed or completed booking
// into the customer's wallet. The booking and wallet keys are held in redis
// for the whole operation. The booking row, the payment row and the wallet
// row are all locked by one transaction, so the credit and the payment status
// change land together or not at all.
func (c *SettlementUseCase) RefundPayment(ctx context.Context, request *model.RefundPaymentRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "settlement-usecase", "RefundPayment", validationError(err), request)
	}

	// the customer is fixed at creation, so an unlocked read is enough to
	// name the wallet key
	current, err := c.store.Bookings.FindByID(ctx, nil, request.BookingID)
	if err != nil {
		return fail(c.Log, "settlement-usecase", "RefundPayment", notFoundError("booking", request.BookingID, err), request)
	}

	release, err := c.Locker.Acquire(ctx,
		redisPkg.BookingLockKey(request.BookingID),
		redisPkg.WalletLockKey(current.CustomerID),
	)
	if err != nil {
		return fail(c.Log, "settlement-usecase", "RefundPayment", lockError(err), request)
	}
	defer release()

	now := c.Now()
	var (
		outcome  *refundOutcome
		response *model.BookingResponse
	)
	err = c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		booking, err := c.store.lock(ctx, tx, request.BookingID)
		if err != nil {
			return err
		}
		if !booking.Status.Refundable() {
			return httpError.NewInvalidTransition(booking.Status.String(), string(entity.PaymentRefunded))
		}

		outcome, err = c.Wallet.RefundToWallet(ctx, tx, request.Actor, booking, request.PaymentID, request.Reason, now)
		if err != nil {
			return err
		}

		response, err = c.store.aggregate(ctx, tx, booking)
		return err
	})
	if err != nil {
		return fail(c.Log, "settlement-usecase", "RefundPayment", err, request)
	}

	c.publish(converter.RefundToEvent(outcome.Payment, outcome.Transaction, request.Actor.UserID))
	c.publish(converter.WalletTransactionToEvent(outcome.Transaction, request.Actor.UserID))
	c.Log.Info("settlement-usecase", "payment refunded to wallet", "RefundPayment", outcome.Payment.ID)

	result.Data = &model.RefundResponse{
		Booking:     *response,
		Payment:     *outcome.Payment,
		Wallet:      *outcome.Wallet,
		Transaction: *outcome.Transaction,
	}
	return result
}

// TopUpWallet credits a customer's wallet on behalf of an admin. The customer
// must exist; the amount and reason rules are the ledger's.
func (c *SettlementUseCase) TopUpWallet(ctx context.Context, request *model.WalletMutationRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "settlement-usecase", "TopUpWallet", validationError(err), request)
	}
	if err := validAmount(request.Amount); err != nil {
		return fail(c.Log, "settlement-usecase", "TopUpWallet", err, request)
	}
	if _, err := c.UserRepository.FindByID(ctx, nil, request.UserID); err != nil {
		return fail(c.Log, "settlement-usecase", "TopUpWallet", notFoundError("user", request.UserID, err), request)
	}
	return c.Wallet.Credit(ctx, request)
}

func (c *SettlementUseCase) ListAuditLogs(ctx context.Context, request *model.ListAuditLogsRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "settlement-usecase", "ListAuditLogs", validationError(err), request)
	}

	entries, err := c.AuditRepository.ListByResource(ctx, nil, request.ResourceType, request.ResourceID, request.Limit)
	if err != nil {
		return fail(c.Log, "settlement-usecase", "ListAuditLogs", err, request)
	}

	result.Data = entries
	return result
}

func (c *SettlementUseCase) publish(event *model.SettlementEvent) {
	if err := c.Producer.Publish(event); err != nil {
		c.Log.Error("settlement-usecase", "publish event failed", event.Type, err.Error())
	}
}
