package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/pricing"
	"settlement-service/src/internal/repository"
	httpError "settlement-service/src/pkg/http-error"
	"settlement-service/src/pkg/log"
	redisPkg "settlement-service/src/pkg/redis"
	"settlement-service/src/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Locker grants exclusive access to aggregate keys for the duration of one
// operation. *redis.Locker implements it.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (func(), error)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func validationError(err error) *httpError.CommonError {
	return httpError.NewValidationError(fmt.Sprintf("validation error: %v", err.Error()))
}

func lockError(err error) error {
	if errors.Is(err, redisPkg.ErrLockHeld) {
		errObj := httpError.NewConflict()
		errObj.Message = "resource is being modified by another request, retry"
		return errObj
	}
	return err
}

func conflictError(resource, id string) *httpError.CommonError {
	errObj := httpError.NewConflict()
	errObj.Message = fmt.Sprintf("%s %s was modified concurrently, retry", resource, id)
	return errObj
}

// notFoundError turns repository.ErrNotFound into a 404 naming the record;
// anything else is returned unchanged.
func notFoundError(resource, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("%s with id %s not found", resource, id)
		return errObj
	}
	return err
}

// fail logs err once and wraps it as the usecase result.
func fail(logger log.Log, context, scope string, err error, request interface{}) utils.Result {
	logger.Error(context, err.Error(), scope, utils.ConvertString(request))
	return utils.Result{Error: httpError.As(err)}
}

func newAuditEntry(actor model.Actor, action entity.AuditAction, resourceType, resourceID string, oldValues, newValues entity.AuditValues, now time.Time) *entity.AuditLogEntry {
	return &entity.AuditLogEntry{
		ID:           uuid.NewString(),
		UserID:       actor.UserID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    oldValues,
		NewValues:    newValues,
		CreatedAt:    now,
	}
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// validAmount checks a ledger amount: strictly positive with at most two
// decimal places.
func validAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return httpError.NewValidationError("amount must be greater than zero")
	}
	if !pricing.IsCurrency(amount) {
		return httpError.NewValidationError("amount must have at most 2 decimal places")
	}
	return nil
}

// checkTechnician resolves id to an active technician.
func checkTechnician(ctx context.Context, users *repository.UserRepository, ex repository.Executor, id string) error {
	user, err := users.FindByID(ctx, ex, id)
	if errors.Is(err, repository.ErrNotFound) {
		return httpError.NewInvalidAssignment(fmt.Sprintf("technician %s not found", id), false)
	}
	if err != nil {
		return err
	}
	if user.Role != entity.RoleTechnician || !user.IsActive {
		return httpError.NewInvalidAssignment(fmt.Sprintf("user %s is not an active technician", id), true)
	}
	return nil
}
