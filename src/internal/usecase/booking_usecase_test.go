package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"settlement-service/src/internal/lifecycle"
	"settlement-service/src/internal/model"
	httpError "settlement-service/src/pkg/http-error"
	redisPkg "settlement-service/src/pkg/redis"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelBookingThenCancelAgain(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "pending"})
	h.mock.ExpectExec("UPDATE bookings SET").
		WithArgs("cancelled", nil, decimalArg("100"), "customer unreachable", testNow, "b-1", int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.expectAudit("cancel", "booking", "b-1", map[string]interface{}{
		"status": "cancelled",
		"reason": "customer unreachable",
	})
	h.expectAggregate("b-1")
	h.mock.ExpectCommit()

	result := h.bookings.CancelBooking(ctx, &model.CancelBookingRequest{
		Actor:     adminActor,
		BookingID: "b-1",
		Reason:    "  customer unreachable ",
	})
	require.NoError(t, result.Error)
	resp := result.Data.(*model.BookingResponse)
	assert.Equal(t, lifecycle.Cancelled, resp.Status.Status)
	assert.True(t, resp.Status.Terminal)
	assert.Equal(t, "customer unreachable", *resp.CancellationReason)
	assert.Empty(t, resp.NextStatuses)
	assert.Equal(t, int64(1), resp.Version)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "cancelled", Version: 1})
	h.mock.ExpectRollback()

	result = h.bookings.CancelBooking(ctx, &model.CancelBookingRequest{
		Actor:     adminActor,
		BookingID: "b-1",
		Reason:    "customer unreachable",
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, httpError.KindInvalidTransition, ce.Kind)
	assert.Equal(t, httpError.TransitionDetail{Current: "cancelled", Requested: "cancelled"}, ce.Data)

	assert.Equal(t, 2, h.locker.released)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestCancelBookingDropsTechnician(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "en_route", Technician: "t-1", Version: 4})
	h.mock.ExpectExec("UPDATE bookings SET").
		WithArgs("cancelled", nil, decimalArg("100"), "no show", testNow, "b-1", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "admin-1", "cancel", "booking", "b-1",
			jsonArg{"status": "en_route", "technicianId": "t-1"},
			jsonArg{"status": "cancelled", "reason": "no show"},
			testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.expectAggregate("b-1")
	h.mock.ExpectCommit()

	result := h.bookings.CancelBooking(context.Background(), &model.CancelBookingRequest{
		Actor: adminActor, BookingID: "b-1", Reason: "no show",
	})
	require.NoError(t, result.Error)
	assert.Nil(t, result.Data.(*model.BookingResponse).TechnicianID)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestCancelBookingRequiresReason(t *testing.T) {
	h := newHarness(t)

	result := h.bookings.CancelBooking(context.Background(), &model.CancelBookingRequest{
		Actor: adminActor, BookingID: "b-1", Reason: "   ",
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, httpError.KindValidation, ce.Kind)
	assert.Empty(t, h.locker.keys)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAssignUnknownTechnician(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "confirmed"})
	h.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs("t-404").
		WillReturnError(sql.ErrNoRows)
	h.mock.ExpectRollback()

	result := h.bookings.AssignTechnician(context.Background(), &model.AssignTechnicianRequest{
		Actor: adminActor, BookingID: "b-1", TechnicianID: "t-404",
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, httpError.KindInvalidAssignment, ce.Kind)
	assert.Equal(t, http.StatusNotFound, ce.Code)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAssignInactiveTechnician(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "confirmed"})
	h.expectTechnician("t-2", "technician", false)
	h.mock.ExpectRollback()

	result := h.bookings.AssignTechnician(context.Background(), &model.AssignTechnicianRequest{
		Actor: adminActor, BookingID: "b-1", TechnicianID: "t-2",
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, httpError.KindInvalidAssignment, ce.Kind)
	assert.Equal(t, http.StatusBadRequest, ce.Code)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAssignTechnician(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "confirmed", Version: 2})
	h.expectTechnician("t-1", "technician", true)
	h.mock.ExpectExec("UPDATE bookings SET").
		WithArgs("technician_assigned", "t-1", decimalArg("100"), nil, testNow, "b-1", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.expectAudit("status_change", "booking", "b-1", map[string]interface{}{
		"status":       "technician_assigned",
		"technicianId": "t-1",
	})
	h.expectAggregate("b-1")
	h.mock.ExpectCommit()

	result := h.bookings.AssignTechnician(context.Background(), &model.AssignTechnicianRequest{
		Actor: adminActor, BookingID: "b-1", TechnicianID: "t-1",
	})
	require.NoError(t, result.Error)
	resp := result.Data.(*model.BookingResponse)
	assert.Equal(t, "t-1", *resp.TechnicianID)
	assert.Equal(t, lifecycle.TechnicianAssigned, resp.Status.Status)
	assert.Equal(t, int64(3), resp.Version)
	assert.Equal(t, []string{redisPkg.BookingLockKey("b-1")}, h.locker.keys)
	assert.Equal(t, 1, h.locker.released)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestAssignTechnicianOnCancelledBooking(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "cancelled"})
	h.mock.ExpectRollback()

	result := h.bookings.AssignTechnician(context.Background(), &model.AssignTechnicianRequest{
		Actor: adminActor, BookingID: "b-1", TechnicianID: "t-1",
	})
	assert.ErrorIs(t, result.Error, httpError.ErrInvalidTransition)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestUpdateStatusNeverLeavesTerminal(t *testing.T) {
	for _, terminal := range []string{"completed", "cancelled"} {
		for _, target := range []string{"pending", "confirmed", "en_route", "in_progress", "completed"} {
			t.Run(fmt.Sprintf("%s->%s", terminal, target), func(t *testing.T) {
				h := newHarness(t)
				h.mock.ExpectBegin()
				h.expectBookingLock(bookingRow{ID: "b-1", Status: terminal})
				h.mock.ExpectRollback()

				result := h.bookings.UpdateStatus(context.Background(), &model.UpdateBookingStatusRequest{
					Actor: adminActor, BookingID: "b-1", Status: target,
				})
				assert.ErrorIs(t, result.Error, httpError.ErrInvalidTransition)
				require.NoError(t, h.mock.ExpectationsWereMet())
			})
		}
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	h := newHarness(t)

	result := h.bookings.UpdateStatus(context.Background(), &model.UpdateBookingStatusRequest{
		Actor: adminActor, BookingID: "b-1", Status: "finished",
	})
	assert.ErrorIs(t, result.Error, httpError.ErrValidation)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestUpdateStatusToTechnicianAssignedNeedsTechnician(t *testing.T) {
	h := newHarness(t)

	result := h.bookings.UpdateStatus(context.Background(), &model.UpdateBookingStatusRequest{
		Actor: adminActor, BookingID: "b-1", Status: "technician_assigned",
	})
	assert.ErrorIs(t, result.Error, httpError.ErrValidation)
}

func TestUpdateStatusVersionConflict(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "in_progress", Technician: "t-1", Version: 7})
	h.mock.ExpectExec("UPDATE bookings SET").
		WithArgs("completed", "t-1", decimalArg("100"), nil, testNow, "b-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	h.mock.ExpectRollback()

	result := h.bookings.UpdateStatus(context.Background(), &model.UpdateBookingStatusRequest{
		Actor: adminActor, BookingID: "b-1", Status: "completed",
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, httpError.KindConflict, ce.Kind)
	assert.Equal(t, http.StatusConflict, ce.Code)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestUpdateStatusRollsBackWhenAuditFails(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.expectBookingLock(bookingRow{ID: "b-1", Status: "confirmed"})
	h.mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(0, 1))
	h.mock.ExpectExec("INSERT INTO audit_logs").WillReturnError(errors.New("disk full"))
	h.mock.ExpectRollback()

	result := h.bookings.UpdateStatus(context.Background(), &model.UpdateBookingStatusRequest{
		Actor: adminActor, BookingID: "b-1", Status: "in_progress",
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, http.StatusInternalServerError, ce.Code)
	assert.NotContains(t, ce.Message, "disk full")
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestUpdateStatusLockHeld(t *testing.T) {
	h := newHarness(t)
	h.locker.err = fmt.Errorf("lock LOCK:BOOKING:b-1: %w", redisPkg.ErrLockHeld)

	result := h.bookings.UpdateStatus(context.Background(), &model.UpdateBookingStatusRequest{
		Actor: adminActor, BookingID: "b-1", Status: "confirmed",
	})
	assert.ErrorIs(t, result.Error, httpError.ErrConflict)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestCreateBooking(t *testing.T) {
	h := newHarness(t)

	h.mock.ExpectBegin()
	h.mock.ExpectExec("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), "c-1", "svc-1", nil, "2025-03-02", "09:00",
			"pending", decimalArg("80"), nil, nil, int64(0), testNow, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "admin-1", "create", "booking", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	h.mock.ExpectCommit()

	result := h.bookings.CreateBooking(context.Background(), &model.CreateBookingRequest{
		Actor:         adminActor,
		CustomerID:    "c-1",
		ServiceID:     "svc-1",
		ScheduledDate: "2025-03-02",
		ScheduledTime: "09:00",
		TotalAmount:   decimal.NewFromInt(80),
	})
	require.NoError(t, result.Error)
	resp := result.Data.(*model.BookingResponse)
	assert.Equal(t, lifecycle.Pending, resp.Status.Status)
	assert.Equal(t, []lifecycle.Status{lifecycle.Confirmed, lifecycle.Cancelled}, resp.NextStatuses)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestCreateBookingRejectsNegativeTotal(t *testing.T) {
	h := newHarness(t)

	result := h.bookings.CreateBooking(context.Background(), &model.CreateBookingRequest{
		Actor:         adminActor,
		CustomerID:    "c-1",
		ServiceID:     "svc-1",
		ScheduledDate: "2025-03-02",
		ScheduledTime: "09:00",
		TotalAmount:   decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, result.Error, httpError.ErrValidation)
}

func TestCreateBookingRejectsSubCentTotal(t *testing.T) {
	h := newHarness(t)

	result := h.bookings.CreateBooking(context.Background(), &model.CreateBookingRequest{
		Actor:         adminActor,
		CustomerID:    "c-1",
		ServiceID:     "svc-1",
		ScheduledDate: "2025-03-02",
		ScheduledTime: "09:00",
		TotalAmount:   decimal.RequireFromString("80.005"),
	})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, httpError.KindValidation, ce.Kind)
	assert.Equal(t, "totalAmount must have at most 2 decimal places", ce.Message)
	require.NoError(t, h.mock.ExpectationsWereMet())
}

func TestGetBookingNotFound(t *testing.T) {
	h := newHarness(t)
	h.mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\?").
		WithArgs("b-404").
		WillReturnError(sql.ErrNoRows)

	result := h.bookings.GetBooking(context.Background(), &model.GetBookingRequest{ID: "b-404"})
	ce := httpError.As(result.Error)
	require.NotNil(t, ce)
	assert.Equal(t, http.StatusNotFound, ce.Code)
	assert.Equal(t, "booking with id b-404 not found", ce.Message)
}

func TestStatusTable(t *testing.T) {
	h := newHarness(t)
	table := h.bookings.StatusTable()
	require.Len(t, table, 8)
	assert.Equal(t, lifecycle.Pending, table[0].Status)
}
