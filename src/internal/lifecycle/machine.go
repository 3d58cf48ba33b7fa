package lifecycle

import (
	httpError "settlement-service/src/pkg/http-error"
)

// Trigger names who is asking for a transition.
type Trigger int

const (
	// TriggerAdmin is a direct status write from the admin layer.
	TriggerAdmin Trigger = iota
	// TriggerQuotation is raised when a quotation is created or decided.
	TriggerQuotation
)

type edge struct {
	to      Status
	trigger Trigger
}

var edges = map[Status][]edge{
	Pending: {
		{Confirmed, TriggerAdmin},
	},
	Confirmed: {
		{TechnicianAssigned, TriggerAdmin},
		{InProgress, TriggerAdmin},
	},
	TechnicianAssigned: {
		{EnRoute, TriggerAdmin},
		{InProgress, TriggerAdmin},
	},
	EnRoute: {
		{InProgress, TriggerAdmin},
	},
	InProgress: {
		{QuotationPending, TriggerQuotation},
		{Completed, TriggerAdmin},
	},
	QuotationPending: {
		{InProgress, TriggerQuotation},
		{Completed, TriggerQuotation},
	},
}

// Transition validates from -> to for the given trigger. Cancellation is
// reachable from every non-terminal status by either trigger.
func Transition(from, to Status, trigger Trigger) error {
	if !from.Valid() || !to.Valid() || from.Terminal() || from == to {
		return httpError.NewInvalidTransition(from.String(), to.String())
	}
	if to == Cancelled {
		return nil
	}
	for _, e := range edges[from] {
		if e.to == to && e.trigger == trigger {
			return nil
		}
	}
	return httpError.NewInvalidTransition(from.String(), to.String())
}

// Next lists the statuses reachable from s by trigger.
func Next(s Status, trigger Trigger) []Status {
	if s.Terminal() {
		return nil
	}
	var out []Status
	for _, e := range edges[s] {
		if e.trigger == trigger {
			out = append(out, e.to)
		}
	}
	return append(out, Cancelled)
}
