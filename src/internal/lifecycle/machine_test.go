package lifecycle

import (
	"errors"
	"testing"

	httpError "settlement-service/src/pkg/http-error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to Status
		trigger  Trigger
	}{
		{Pending, Confirmed, TriggerAdmin},
		{Confirmed, TechnicianAssigned, TriggerAdmin},
		{Confirmed, InProgress, TriggerAdmin},
		{TechnicianAssigned, InProgress, TriggerAdmin},
		{TechnicianAssigned, EnRoute, TriggerAdmin},
		{EnRoute, InProgress, TriggerAdmin},
		{InProgress, QuotationPending, TriggerQuotation},
		{QuotationPending, InProgress, TriggerQuotation},
		{QuotationPending, Completed, TriggerQuotation},
		{InProgress, Completed, TriggerAdmin},
		{Pending, Cancelled, TriggerAdmin},
		{QuotationPending, Cancelled, TriggerAdmin},
	}
	for _, tc := range cases {
		assert.NoError(t, Transition(tc.from, tc.to, tc.trigger), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionRejected(t *testing.T) {
	cases := []struct {
		from, to Status
		trigger  Trigger
	}{
		{Pending, InProgress, TriggerAdmin},
		{Pending, Pending, TriggerAdmin},
		{InProgress, QuotationPending, TriggerAdmin},
		{QuotationPending, Completed, TriggerAdmin},
		{QuotationPending, InProgress, TriggerAdmin},
		{EnRoute, Completed, TriggerAdmin},
		{Status("archived"), Confirmed, TriggerAdmin},
	}
	for _, tc := range cases {
		err := Transition(tc.from, tc.to, tc.trigger)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.True(t, errors.Is(err, httpError.ErrInvalidTransition))
	}
}

func TestTerminalStatesNeverLeave(t *testing.T) {
	for _, from := range []Status{Completed, Cancelled} {
		for _, to := range Ordered {
			for _, trig := range []Trigger{TriggerAdmin, TriggerQuotation} {
				err := Transition(from, to, trig)
				require.Error(t, err)
				ce := httpError.As(err)
				assert.Equal(t, httpError.TransitionDetail{Current: from.String(), Requested: to.String()}, ce.Data)
			}
		}
		assert.Empty(t, Next(from, TriggerAdmin))
	}
}

func TestNext(t *testing.T) {
	assert.Equal(t, []Status{TechnicianAssigned, InProgress, Cancelled}, Next(Confirmed, TriggerAdmin))
	assert.Equal(t, []Status{InProgress, Completed, Cancelled}, Next(QuotationPending, TriggerQuotation))
	assert.Equal(t, []Status{Cancelled}, Next(QuotationPending, TriggerAdmin))
}

func TestParseStatusAndDisplay(t *testing.T) {
	s, err := ParseStatus(" In_Progress ")
	require.NoError(t, err)
	assert.Equal(t, InProgress, s)

	_, err = ParseStatus("done")
	assert.Error(t, err)

	table := Displays()
	require.Len(t, table, len(Ordered))
	assert.Equal(t, "Quotation Pending", table[5].Label)
	assert.True(t, table[6].Terminal)
	assert.True(t, table[7].Terminal)
	assert.False(t, table[0].Terminal)
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, Completed.Refundable())
	assert.True(t, Confirmed.Refundable())
	assert.False(t, InProgress.Refundable())
	assert.False(t, Pending.Refundable())

	assert.False(t, Cancelled.AllowsTechnician())
	assert.False(t, Confirmed.AllowsTechnician())
	assert.True(t, QuotationPending.AllowsTechnician())

	assert.True(t, InProgress.AcceptsQuotation())
	assert.False(t, Confirmed.AcceptsQuotation())
}
