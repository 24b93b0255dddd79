package rfp

// Status is the workflow state of a shipment RFP document.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusDraft     Status = "DRAFT"
	StatusAssigned  Status = "ASSIGNED"
	StatusPublished Status = "PUBLISHED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusClosed    Status = "CLOSED"
)

// Statuses lists the canonical status set in workflow order.
var Statuses = []Status{
	StatusNew, StatusDraft, StatusAssigned, StatusPublished,
	StatusCompleted, StatusCancelled, StatusClosed,
}

// transitions is the single authoritative transition table. Absence of an
// edge means the transition is disallowed. Action availability checks below
// derive from this table rather than keeping their own status lists.
var transitions = map[Status][]Status{
	StatusNew:       {StatusAssigned, StatusCancelled, StatusPublished},
	StatusDraft:     {StatusPublished, StatusCancelled},
	StatusAssigned:  {StatusCompleted, StatusCancelled},
	StatusPublished: {StatusAssigned, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusClosed:    {},
}

// IsValid reports whether s is one of the canonical statuses.
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
// CLOSED is not terminal in the workflow sense: it marks an archived
// document, not a completed lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition is a pure lookup against the transition table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
