package converter

import (
	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/lifecycle"
	"settlement-service/src/internal/model"
)

func BookingToResponse(b *entity.Booking, quotations []entity.Quotation, payments []entity.Payment) *model.BookingResponse {
	if quotations == nil {
		quotations = []entity.Quotation{}
	}
	if payments == nil {
		payments = []entity.Payment{}
	}
	return &model.BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		ServiceID:          b.ServiceID,
		TechnicianID:       b.TechnicianID,
		ScheduledDate:      b.ScheduledDate,
		ScheduledTime:      b.ScheduledTime,
		Status:             b.Status.Display(),
		NextStatuses:       lifecycle.Next(b.Status, lifecycle.TriggerAdmin),
		TotalAmount:        b.TotalAmount,
		PaymentID:          b.PaymentID,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		Quotations:         quotations,
		Payments:           payments,
	}
}
