// Package lifecycle owns the booking status enum, its display metadata and
// the transition rules between statuses.
package lifecycle

import (
	"fmt"
	"strings"
)

type Status string

const (
	Pending            Status = "pending"
	Confirmed          Status = "confirmed"
	TechnicianAssigned Status = "technician_assigned"
	EnRoute            Status = "en_route"
	InProgress         Status = "in_progress"
	QuotationPending   Status = "quotation_pending"
	Completed          Status = "completed"
	Cancelled          Status = "cancelled"
)

// Ordered is every status in lifecycle order.
var Ordered = []Status{
	Pending,
	Confirmed,
	TechnicianAssigned,
	EnRoute,
	InProgress,
	QuotationPending,
	Completed,
	Cancelled,
}

// Display is what presentation layers render for a status.
type Display struct {
	Status   Status `json:"status"`
	Label    string `json:"label"`
	Badge    string `json:"badge"`
	Terminal bool   `json:"terminal"`
}

var displays = map[Status]Display{
	Pending:            {Status: Pending, Label: "Pending", Badge: "yellow"},
	Confirmed:          {Status: Confirmed, Label: "Confirmed", Badge: "blue"},
	TechnicianAssigned: {Status: TechnicianAssigned, Label: "Technician Assigned", Badge: "indigo"},
	EnRoute:            {Status: EnRoute, Label: "En Route", Badge: "cyan"},
	InProgress:         {Status: InProgress, Label: "In Progress", Badge: "purple"},
	QuotationPending:   {Status: QuotationPending, Label: "Quotation Pending", Badge: "orange"},
	Completed:          {Status: Completed, Label: "Completed", Badge: "green", Terminal: true},
	Cancelled:          {Status: Cancelled, Label: "Cancelled", Badge: "red", Terminal: true},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := displays[st]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	_, ok := displays[s]
	return ok
}

func (s Status) Terminal() bool {
	return displays[s].Terminal
}

func (s Status) Display() Display {
	return displays[s]
}

// Displays returns the metadata table in lifecycle order.
func Displays() []Display {
	out := make([]Display, 0, len(Ordered))
	for _, s := range Ordered {
		out = append(out, displays[s])
	}
	return out
}

// AllowsTechnician reports whether a booking in s may carry a technician.
func (s Status) AllowsTechnician() bool {
	switch s {
	case TechnicianAssigned, EnRoute, InProgress, QuotationPending, Completed:
		return true
	}
	return false
}

// Refundable reports whether payments of a booking in s may be refunded.
func (s Status) Refundable() bool {
	return s == Confirmed || s == Completed
}

// AcceptsQuotation reports whether a quotation can be raised against s.
func (s Status) AcceptsQuotation() bool {
	return s == InProgress || s == QuotationPending
}
