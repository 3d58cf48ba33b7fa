package usecase

import (
	"context"
	"fmt"
	"strings"
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
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// WalletUseCase is the ledger. Every balance change writes exactly one
// wallet transaction and moves the running totals in the same database
// transaction.
type WalletUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	DB                mysql.DBInterface
	WalletRepository  *repository.WalletRepository
	PaymentRepository *repository.PaymentRepository
	AuditRepository   *repository.AuditRepository
	Locker            Locker
	Producer          *messaging.SettlementProducer
	Now               func() time.Time
}

func NewWalletUseCase(
	logger log.Log,
	validate *validator.Validate,
	db mysql.DBInterface,
	walletRepository *repository.WalletRepository,
	paymentRepository *repository.PaymentRepository,
	auditRepository *repository.AuditRepository,
	locker Locker,
	producer *messaging.SettlementProducer,
) *WalletUseCase {
	return &WalletUseCase{
		Log:               logger,
		Validate:          validate,
		DB:                db,
		WalletRepository:  walletRepository,
		PaymentRepository: paymentRepository,
		AuditRepository:   auditRepository,
		Locker:            locker,
		Producer:          producer,
		Now:               utcNow,
	}
}

type ledgerEntry struct {
	Wallet      *entity.WalletAccount
	Transaction *entity.WalletTransaction
}

type refundOutcome struct {
	Payment     *entity.Payment
	Wallet      *entity.WalletAccount
	Transaction *entity.WalletTransaction
}

type posting struct {
	UserID    string
	Type      entity.TransactionType
	Amount    decimal.Decimal
	Reason    string
	BookingID *string
	Action    entity.AuditAction
}

// post applies one ledger posting inside tx. The wallet is created on first
// use and locked for the rest of the transaction.
func (c *WalletUseCase) post(ctx context.Context, tx repository.Executor, actor model.Actor, p posting, now time.Time) (*ledgerEntry, error) {
	if err := validAmount(p.Amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Reason) == "" {
		return nil, httpError.NewValidationError("reason is required")
	}

	if err := c.WalletRepository.Ensure(ctx, tx, p.UserID, now); err != nil {
		return nil, err
	}
	wallet, err := c.WalletRepository.FindForUpdate(ctx, tx, p.UserID)
	if err != nil {
		return nil, notFoundError("wallet", p.UserID, err)
	}

	before := wallet.Balance
	switch p.Type {
	case entity.TransactionCredit:
		wallet.Balance = wallet.Balance.Add(p.Amount)
		wallet.TotalEarned = wallet.TotalEarned.Add(p.Amount)
	case entity.TransactionDebit:
		if wallet.Balance.LessThan(p.Amount) {
			return nil, httpError.NewInsufficientBalance(
				fmt.Sprintf("wallet balance %s is less than %s", money(wallet.Balance), money(p.Amount)),
			)
		}
		wallet.Balance = wallet.Balance.Sub(p.Amount)
		wallet.TotalSpent = wallet.TotalSpent.Add(p.Amount)
	default:
		return nil, fmt.Errorf("unknown transaction type %q", p.Type)
	}

	ok, err := c.WalletRepository.UpdateBalances(ctx, tx, wallet, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictError("wallet", p.UserID)
	}

	txn := &entity.WalletTransaction{
		ID:               uuid.NewString(),
		UserID:           p.UserID,
		Type:             p.Type,
		Amount:           p.Amount,
		Reason:           p.Reason,
		RelatedBookingID: p.BookingID,
		BalanceAfter:     wallet.Balance,
		CreatedAt:        now,
	}
	if err := c.WalletRepository.InsertTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	entry := newAuditEntry(actor, p.Action, entity.ResourceWallet, p.UserID,
		entity.AuditValues{"balance": money(before)},
		entity.AuditValues{
			"balance":       money(wallet.Balance),
			"transactionId": txn.ID,
			"type":          txn.Type,
			"amount":        money(txn.Amount),
			"reason":        txn.Reason,
		}, now)
	if err := c.AuditRepository.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}

	return &ledgerEntry{Wallet: wallet, Transaction: txn}, nil
}

// RefundToWallet credits the amount of a paid payment back to the booking's
// customer and marks the payment refunded. booking must already be locked by
// the caller's transaction.
func (c *WalletUseCase) RefundToWallet(ctx context.Context, tx repository.Executor, actor model.Actor, booking *entity.Booking, paymentID, reason string, now time.Time) (*refundOutcome, error) {
	payment, err := c.PaymentRepository.FindByIDForUpdate(ctx, tx, paymentID)
	if err != nil {
		return nil, notFoundError("payment", paymentID, err)
	}
	if payment.BookingID != booking.ID {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("payment %s does not belong to booking %s", paymentID, booking.ID)
		return nil, errObj
	}
	if payment.Status != entity.PaymentPaid {
		return nil, httpError.NewInvalidTransition(string(payment.Status), string(entity.PaymentRefunded))
	}

	entry, err := c.post(ctx, tx, actor, posting{
		UserID:    booking.CustomerID,
		Type:      entity.TransactionCredit,
		Amount:    payment.Amount,
		Reason:    reason,
		BookingID: &booking.ID,
		Action:    entity.AuditRefund,
	}, now)
	if err != nil {
		return nil, err
	}

	ok, err := c.PaymentRepository.MarkRefunded(ctx, tx, payment.ID, entry.Transaction.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflictError("payment", payment.ID)
	}
	previous := payment.Status
	payment.Status = entity.PaymentRefunded
	payment.RefundTransactionID = &entry.Transaction.ID
	payment.RefundedAt = &now
	payment.UpdatedAt = now

	audit := newAuditEntry(actor, entity.AuditRefund, entity.ResourcePayment, payment.ID,
		entity.AuditValues{"status": previous},
		entity.AuditValues{
			"status":              payment.Status,
			"amount":              money(payment.Amount),
			"refundTransactionId": entry.Transaction.ID,
			"walletUserId":        booking.CustomerID,
			"reason":              reason,
		}, now)
	if err := c.AuditRepository.Insert(ctx, tx, audit); err != nil {
		return nil, err
	}

	return &refundOutcome{Payment: payment, Wallet: entry.Wallet, Transaction: entry.Transaction}, nil
}

func (c *WalletUseCase) Credit(ctx context.Context, request *model.WalletMutationRequest) utils.Result {
	return c.mutate(ctx, request, entity.TransactionCredit, "Credit")
}

func (c *WalletUseCase) Debit(ctx context.Context, request *model.WalletMutationRequest) utils.Result {
	return c.mutate(ctx, request, entity.TransactionDebit, "Debit")
}

func (c *WalletUseCase) mutate(ctx context.Context, request *model.WalletMutationRequest, typ entity.TransactionType, scope string) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "wallet-usecase", scope, validationError(err), request)
	}
	if err := validAmount(request.Amount); err != nil {
		return fail(c.Log, "wallet-usecase", scope, err, request)
	}

	release, err := c.Locker.Acquire(ctx, redisPkg.WalletLockKey(request.UserID))
	if err != nil {
		return fail(c.Log, "wallet-usecase", scope, lockError(err), request)
	}
	defer release()

	now := c.Now()
	var entry *ledgerEntry
	err = c.DB.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var err error
		entry, err = c.post(ctx, tx, request.Actor, posting{
			UserID:    request.UserID,
			Type:      typ,
			Amount:    request.Amount,
			Reason:    request.Reason,
			BookingID: request.BookingID,
			Action:    entity.AuditUpdate,
		}, now)
		return err
	})
	if err != nil {
		return fail(c.Log, "wallet-usecase", scope, err, request)
	}

	c.publish(converter.WalletTransactionToEvent(entry.Transaction, request.Actor.UserID))
	c.Log.Info("wallet-usecase", fmt.Sprintf("%s %s", typ, money(entry.Transaction.Amount)), scope, request.UserID)

	result.Data = &model.WalletMutationResponse{Wallet: *entry.Wallet, Transaction: *entry.Transaction}
	return result
}

func (c *WalletUseCase) GetWallet(ctx context.Context, request *model.GetWalletRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "wallet-usecase", "GetWallet", validationError(err), request)
	}

	wallet, err := c.WalletRepository.FindByUserID(ctx, nil, request.UserID)
	if err != nil {
		return fail(c.Log, "wallet-usecase", "GetWallet", notFoundError("wallet", request.UserID, err), request)
	}
	txs, err := c.WalletRepository.ListTransactions(ctx, nil, request.UserID, request.Limit)
	if err != nil {
		return fail(c.Log, "wallet-usecase", "GetWallet", err, request)
	}

	result.Data = &model.WalletResponse{Wallet: *wallet, Transactions: txs}
	return result
}

// Reconcile compares the running totals with the transaction history.
func (c *WalletUseCase) Reconcile(ctx context.Context, request *model.GetWalletRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		return fail(c.Log, "wallet-usecase", "Reconcile", validationError(err), request)
	}

	wallet, err := c.WalletRepository.FindByUserID(ctx, nil, request.UserID)
	if err != nil {
		return fail(c.Log, "wallet-usecase", "Reconcile", notFoundError("wallet", request.UserID, err), request)
	}
	totals, err := c.WalletRepository.SumTransactions(ctx, nil, request.UserID)
	if err != nil {
		return fail(c.Log, "wallet-usecase", "Reconcile", err, request)
	}

	consistent := wallet.Reconciled() &&
		wallet.TotalEarned.Equal(totals.Credits) &&
		wallet.TotalSpent.Equal(totals.Debits)
	if !consistent {
		c.Log.Error("wallet-usecase", "wallet totals disagree with ledger", "Reconcile", utils.ConvertString(totals))
	}

	result.Data = &model.ReconcileResponse{
		UserID:       wallet.UserID,
		Balance:      wallet.Balance,
		TotalEarned:  wallet.TotalEarned,
		TotalSpent:   wallet.TotalSpent,
		LedgerCredit: totals.Credits,
		LedgerDebit:  totals.Debits,
		Consistent:   consistent,
	}
	return result
}

func (c *WalletUseCase) publish(event *model.SettlementEvent) {
	if err := c.Producer.Publish(event); err != nil {
		c.Log.Error("wallet-usecase", "publish event failed", event.Type, err.Error())
	}
}
