package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type AuditAction string

const (
	AuditCreate       AuditAction = "create"
	AuditUpdate       AuditAction = "update"
	AuditDelete       AuditAction = "delete"
	AuditCancel       AuditAction = "cancel"
	AuditRefund       AuditAction = "refund"
	AuditStatusChange AuditAction = "status_change"
)

const (
	ResourceBooking   = "booking"
	ResourceQuotation = "quotation"
	ResourcePayment   = "payment"
	ResourceWallet    = "wallet"
)

// AuditValues is stored as a JSON column.
type AuditValues map[string]interface{}

func (v AuditValues) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (v *AuditValues) Scan(src interface{}) error {
	var raw []byte
	switch s := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		raw = s
	case string:
		raw = []byte(s)
	default:
		return fmt.Errorf("audit values: cannot scan %T", src)
	}
	out := AuditValues{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*v = out
	return nil
}

type AuditLogEntry struct {
	ID           string      `json:"id" db:"id"`
	UserID       string      `json:"userId" db:"user_id"`
	Action       AuditAction `json:"action" db:"action"`
	ResourceType string      `json:"resourceType" db:"resource_type"`
	ResourceID   string      `json:"resourceId" db:"resource_id"`
	OldValues    AuditValues `json:"oldValues" db:"old_values"`
	NewValues    AuditValues `json:"newValues" db:"new_values"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
}
