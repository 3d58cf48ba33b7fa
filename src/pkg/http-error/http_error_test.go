package httpError

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidTransitionCarriesStatePair(t *testing.T) {
	err := NewInvalidTransition("cancelled", "confirmed")

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, KindInvalidTransition, err.Kind)
	assert.Equal(t, TransitionDetail{Current: "cancelled", Requested: "confirmed"}, err.Data)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestInvalidAssignmentCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewInvalidAssignment("missing", false).Code)
	assert.Equal(t, http.StatusBadRequest, NewInvalidAssignment("not a technician", true).Code)
}

func TestAsHidesUnknownErrors(t *testing.T) {
	got := As(errors.New("dial tcp 10.0.0.1:3306: connection refused"))
	require.NotNil(t, got)
	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "Internal Server Error", got.Message)

	wrapped := fmt.Errorf("refund: %w", NewInsufficientBalance("balance too low"))
	got = As(wrapped)
	assert.Equal(t, KindInsufficientBalance, got.Kind)

	assert.Nil(t, As(nil))
}
