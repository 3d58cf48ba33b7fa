package model

import "time"

type Event interface {
	GetId() string
	// GetKey names the aggregate the event belongs to.
	GetKey() string
}

// SettlementEvent is published after a settlement operation commits.
type SettlementEvent struct {
	EventID      string      `json:"eventId"`
	Type         string      `json:"type"`
	ResourceType string      `json:"resourceType"`
	ResourceID   string      `json:"resourceId"`
	ActorID      string      `json:"actorId"`
	Data         interface{} `json:"data,omitempty"`
	OccurredAt   time.Time   `json:"occurredAt"`
}

func (e *SettlementEvent) GetId() string {
	return e.EventID
}

func (e *SettlementEvent) GetKey() string {
	if e.ResourceID == "" {
		return e.EventID
	}
	return e.ResourceType + ":" + e.ResourceID
}

const (
	EventBookingStatusChanged     = "booking.status_changed"
	EventQuotationCreated         = "quotation.created"
	EventQuotationDecided         = "quotation.decided"
	EventPaymentRefunded          = "payment.refunded"
	EventWalletTransactionCreated = "wallet.transaction_created"
)
