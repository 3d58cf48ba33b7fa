package httpError

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced to the admin layer.
const (
	KindValidation          = "ValidationError"
	KindInvalidTransition   = "InvalidTransition"
	KindInvalidAssignment   = "InvalidAssignment"
	KindInsufficientBalance = "InsufficientBalance"
	KindNotFound            = "NotFound"
	KindConflict            = "ConflictError"
	KindUnauthorized        = "Unauthorized"
	KindForbidden           = "Forbidden"
	KindInternal            = "InternalError"
)

// CommonError is the error type returned by every usecase. Code is the HTTP
// status the delivery layer answers with; Data carries kind specific details
// such as the offending state pair.
type CommonError struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *CommonError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on Kind so callers can use errors.Is with the sentinel values below.
func (e *CommonError) Is(target error) bool {
	t, ok := target.(*CommonError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation          = &CommonError{Kind: KindValidation}
	ErrInvalidTransition   = &CommonError{Kind: KindInvalidTransition}
	ErrInvalidAssignment   = &CommonError{Kind: KindInvalidAssignment}
	ErrInsufficientBalance = &CommonError{Kind: KindInsufficientBalance}
	ErrNotFound            = &CommonError{Kind: KindNotFound}
	ErrConflict            = &CommonError{Kind: KindConflict}
)

func NewBadRequest() *CommonError {
	return &CommonError{Code: http.StatusBadRequest, Kind: KindValidation, Message: "Bad Request"}
}

func NewNotFound() *CommonError {
	return &CommonError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Not Found"}
}

func NewConflict() *CommonError {
	return &CommonError{Code: http.StatusConflict, Kind: KindConflict, Message: "Conflict"}
}

func NewUnauthorized() *CommonError {
	return &CommonError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
}

func NewForbidden() *CommonError {
	return &CommonError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
}

func NewInternalServerError() *CommonError {
	return &CommonError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal Server Error"}
}

func NewValidationError(message string) *CommonError {
	return &CommonError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

// TransitionDetail names the state pair a rejected transition was attempted on.
type TransitionDetail struct {
	Current   string `json:"current"`
	Requested string `json:"requested"`
}

func NewInvalidTransition(current, requested string) *CommonError {
	return &CommonError{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("cannot move from %s to %s", current, requested),
		Data:    TransitionDetail{Current: current, Requested: requested},
	}
}

// NewInvalidAssignment answers 404 when the technician does not resolve at all
// and 400 when it resolves to a user that cannot be assigned.
func NewInvalidAssignment(message string, found bool) *CommonError {
	code := http.StatusNotFound
	if found {
		code = http.StatusBadRequest
	}
	return &CommonError{Code: code, Kind: KindInvalidAssignment, Message: message}
}

func NewInsufficientBalance(message string) *CommonError {
	return &CommonError{Code: http.StatusBadRequest, Kind: KindInsufficientBalance, Message: message}
}

// As extracts a *CommonError from err. Anything else becomes an internal error
// whose message does not leak the cause.
func As(err error) *CommonError {
	if err == nil {
		return nil
	}
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce
	}
	return NewInternalServerError()
}
