package usecase

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"io"
	"reflect"
	"testing"
	"time"

	"settlement-service/src/internal/gateway/messaging"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/pricing"
	"settlement-service/src/internal/repository"
	"settlement-service/src/pkg/databases/mysql"
	"settlement-service/src/pkg/log"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

type fakeLocker struct {
	err      error
	keys     []string
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	f.keys = append(f.keys, keys...)
	return func() { f.released++ }, nil
}

type harness struct {
	mock       sqlmock.Sqlmock
	locker     *fakeLocker
	bookings   *BookingUseCase
	quotations *QuotationUseCase
	wallets    *WalletUseCase
	settlement *SettlementUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	handle := mysql.NewFromDB(sqlx.NewDb(db, "mysql"))

	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("notblank", validators.NotBlank))
	logger := log.NewLogger("test", "ERROR", io.Discard)
	producer := messaging.NewSettlementProducer(nil, logger)
	locker := &fakeLocker{}

	bookingRepo := repository.NewBookingRepository(handle)
	quotationRepo := repository.NewQuotationRepository(handle)
	paymentRepo := repository.NewPaymentRepository(handle)
	walletRepo := repository.NewWalletRepository(handle)
	userRepo := repository.NewUserRepository(handle)
	auditRepo := repository.NewAuditRepository(handle)

	calc, err := pricing.NewCalculator(pricing.DefaultVATRate)
	require.NoError(t, err)

	clock := func() time.Time { return testNow }
	wallets := NewWalletUseCase(logger, validate, handle, walletRepo, paymentRepo, auditRepo, locker, producer)
	wallets.Now = clock
	bookings := NewBookingUseCase(logger, validate, handle, bookingRepo, quotationRepo, paymentRepo, userRepo, auditRepo, locker, producer)
	bookings.Now = clock
	quotations := NewQuotationUseCase(logger, validate, handle, bookingRepo, quotationRepo, paymentRepo, userRepo, auditRepo, locker, producer, calc, ApprovalCaller)
	quotations.Now = clock
	settlement := NewSettlementUseCase(logger, validate, handle, bookingRepo, quotationRepo, paymentRepo, userRepo, auditRepo, wallets, locker, producer)
	settlement.Now = clock

	return &harness{
		mock:       mock,
		locker:     locker,
		bookings:   bookings,
		quotations: quotations,
		wallets:    wallets,
		settlement: settlement,
	}
}

type bookingRow struct {
	ID         string
	Status     string
	Technician interface{}
	Total      string
	Version    int64
}

func (h *harness) expectBookingLock(b bookingRow) {
	if b.Total == "" {
		b.Total = "100.00"
	}
	h.mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\? FOR UPDATE").
		WithArgs(b.ID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "service_id", "technician_id", "scheduled_date", "scheduled_time",
			"status", "total_amount", "payment_id", "notes", "cancellation_reason", "version",
			"created_at", "updated_at",
		}).AddRow(
			b.ID, "c-1", "svc-1", b.Technician, "2025-03-02", "09:00",
			b.Status, b.Total, nil, nil, nil, b.Version, testNow, testNow,
		))
}

var quotationColumns = []string{
	"id", "booking_id", "technician_id", "additional_cost", "spare_parts_total", "vat_amount",
	"total_amount", "status", "notes", "decided_by", "decided_at", "created_at",
}

var paymentColumns = []string{
	"id", "booking_id", "amount", "method", "status", "gateway_transaction_id",
	"refund_transaction_id", "refunded_at", "created_at", "updated_at",
}

var walletColumns = []string{
	"user_id", "balance", "total_earned", "total_spent", "version", "created_at", "updated_at",
}

func (h *harness) expectAggregate(bookingID string) {
	h.mock.ExpectQuery("SELECT (.+) FROM quotations WHERE booking_id = \\?").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(quotationColumns))
	h.mock.ExpectQuery("SELECT (.+) FROM payments WHERE booking_id = \\?").
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(paymentColumns))
}

func (h *harness) expectTechnician(id, role string, active bool) {
	h.mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\?").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "role", "is_active", "created_at"}).
			AddRow(id, "Tech "+id, role, active, testNow))
}

func (h *harness) expectAudit(action, resourceType, resourceID string, newValues map[string]interface{}) {
	var newArg driver.Value = sqlmock.AnyArg()
	if newValues != nil {
		newArg = jsonArg(newValues)
	}
	h.mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "admin-1", action, resourceType, resourceID, sqlmock.AnyArg(), newArg, testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

type decimalArg string

func (d decimalArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	got, err := decimal.NewFromString(s)
	if err != nil {
		return false
	}
	return got.Equal(decimal.RequireFromString(string(d)))
}

// jsonArg matches a JSON column holding exactly the given object.
type jsonArg map[string]interface{}

func (j jsonArg) Match(v driver.Value) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		return false
	}
	return reflect.DeepEqual(map[string]interface{}(j), got)
}

var adminActor = model.Actor{UserID: "admin-1", Role: "admin"}
