package model

import (
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/lifecycle"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	Actor         Actor           `json:"-"`
	CustomerID    string          `json:"customerId" validate:"required,max=64"`
	ServiceID     string          `json:"serviceId" validate:"required,max=64"`
	ScheduledDate string          `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	ScheduledTime string          `json:"scheduledTime" validate:"required,datetime=15:04"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Notes         *string         `json:"notes" validate:"omitempty,max=1000"`
}

type GetBookingRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

type UpdateBookingStatusRequest struct {
	Actor        Actor  `json:"-"`
	BookingID    string `json:"-" validate:"required,max=64"`
	Status       string `json:"status" validate:"required"`
	Reason       string `json:"reason" validate:"max=500"`
	TechnicianID string `json:"technicianId" validate:"max=64"`
}

type AssignTechnicianRequest struct {
	Actor        Actor  `json:"-"`
	BookingID    string `json:"-" validate:"required,max=64"`
	TechnicianID string `json:"technicianId" validate:"required,max=64"`
}

type CancelBookingRequest struct {
	Actor     Actor  `json:"-"`
	BookingID string `json:"-" validate:"required,max=64"`
	Reason    string `json:"reason" validate:"required,notblank,max=500"`
}

type BookingResponse struct {
	ID                 string             `json:"id"`
	CustomerID         string             `json:"customerId"`
	ServiceID          string             `json:"serviceId"`
	TechnicianID       *string            `json:"technicianId"`
	ScheduledDate      string             `json:"scheduledDate"`
	ScheduledTime      string             `json:"scheduledTime"`
	Status             lifecycle.Display  `json:"status"`
	NextStatuses       []lifecycle.Status `json:"nextStatuses"`
	TotalAmount        decimal.Decimal    `json:"totalAmount"`
	PaymentID          *string            `json:"paymentId"`
	Notes              *string            `json:"notes,omitempty"`
	CancellationReason *string            `json:"cancellationReason,omitempty"`
	Version            int64              `json:"version"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	Quotations         []entity.Quotation `json:"quotations"`
	Payments           []entity.Payment   `json:"payments"`
}
