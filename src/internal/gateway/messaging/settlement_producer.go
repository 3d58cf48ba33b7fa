package messaging

import (
	"settlement-service/src/internal/model"
	kafka "settlement-service/src/pkg/kafka/confluent"
	"settlement-service/src/pkg/log"
)

const (
	TopicBookingStatusChanged     = "booking-status-changed"
	TopicQuotationDecided         = "quotation-decided"
	TopicPaymentRefunded          = "payment-refunded"
	TopicWalletTransactionCreated = "wallet-transaction-created"
)

// SettlementProducer routes settlement events to their topics.
type SettlementProducer struct {
	BookingStatus     Producer[*model.SettlementEvent]
	Quotation         Producer[*model.SettlementEvent]
	Refund            Producer[*model.SettlementEvent]
	WalletTransaction Producer[*model.SettlementEvent]
}

func NewSettlementProducer(producer kafka.Producer, logger log.Log) *SettlementProducer {
	topic := func(name string) Producer[*model.SettlementEvent] {
		return Producer[*model.SettlementEvent]{Producer: producer, Topic: name, Log: logger}
	}
	return &SettlementProducer{
		BookingStatus:     topic(TopicBookingStatusChanged),
		Quotation:         topic(TopicQuotationDecided),
		Refund:            topic(TopicPaymentRefunded),
		WalletTransaction: topic(TopicWalletTransactionCreated),
	}
}

// Publish sends event to the topic matching its type. Unknown types go
// nowhere.
func (p *SettlementProducer) Publish(event *model.SettlementEvent) error {
	if p == nil || event == nil {
		return nil
	}
	switch event.Type {
	case model.EventBookingStatusChanged:
		return p.BookingStatus.Send(event)
	case model.EventQuotationCreated, model.EventQuotationDecided:
		return p.Quotation.Send(event)
	case model.EventPaymentRefunded:
		return p.Refund.Send(event)
	case model.EventWalletTransactionCreated:
		return p.WalletTransaction.Send(event)
	}
	return nil
}
