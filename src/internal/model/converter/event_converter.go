package converter

import (
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/lifecycle"
	"settlement-service/src/internal/model"

	"github.com/google/uuid"
)

func newEvent(eventType, resourceType, resourceID, actorID string, data interface{}, at time.Time) *model.SettlementEvent {
	return &model.SettlementEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ActorID:      actorID,
		Data:         data,
		OccurredAt:   at,
	}
}

func BookingStatusToEvent(b *entity.Booking, from lifecycle.Status, actorID string) *model.SettlementEvent {
	return newEvent(model.EventBookingStatusChanged, entity.ResourceBooking, b.ID, actorID, map[string]interface{}{
		"from":         from,
		"to":           b.Status,
		"technicianId": b.TechnicianID,
		"totalAmount":  b.TotalAmount.StringFixed(2),
	}, b.UpdatedAt)
}

func QuotationToEvent(eventType string, q *entity.Quotation, actorID string, at time.Time) *model.SettlementEvent {
	return newEvent(eventType, entity.ResourceQuotation, q.ID, actorID, map[string]interface{}{
		"bookingId":   q.BookingID,
		"status":      q.Status,
		"totalAmount": q.TotalAmount.StringFixed(2),
	}, at)
}

func RefundToEvent(p *entity.Payment, tx *entity.WalletTransaction, actorID string) *model.SettlementEvent {
	return newEvent(model.EventPaymentRefunded, entity.ResourcePayment, p.ID, actorID, map[string]interface{}{
		"bookingId":     p.BookingID,
		"amount":        p.Amount.StringFixed(2),
		"walletUserId":  tx.UserID,
		"transactionId": tx.ID,
	}, tx.CreatedAt)
}

func WalletTransactionToEvent(tx *entity.WalletTransaction, actorID string) *model.SettlementEvent {
	return newEvent(model.EventWalletTransactionCreated, entity.ResourceWallet, tx.UserID, actorID, map[string]interface{}{
		"transactionId": tx.ID,
		"type":          tx.Type,
		"amount":        tx.Amount.StringFixed(2),
		"balanceAfter":  tx.BalanceAfter.StringFixed(2),
	}, tx.CreatedAt)
}
