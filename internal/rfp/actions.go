package rfp

import (
	"fmt"

	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
)

// Action is a workflow task a user may perform on a document.
type Action string

const (
	ActionPublish  Action = "publish"
	ActionAssign   Action = "assign"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// target maps each action to the status it drives the document into.
func (a Action) target() (Status, bool) {
	switch a {
	case ActionPublish:
		return StatusPublished, true
	case ActionAssign:
		return StatusAssigned, true
	case ActionComplete:
		return StatusCompleted, true
	case ActionCancel:
		return StatusCancelled, true
	default:
		return "", false
	}
}

// CanPerform reports whether the principal may execute the action on the
// document. Availability derives from the transition table (so terminal
// documents offer nothing) plus the role/permission gate for the action.
// Admins bypass the role/permission layer but never the transition table.
func CanPerform(doc ShipmentRfp, p auth.Principal, action Action) bool {
	target, ok := action.target()
	if !ok {
		return false
	}
	if !CanTransition(doc.Status, target) {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	switch action {
	case ActionPublish:
		return p.HasRole(auth.RoleLogist)
	case ActionAssign:
		return p.HasPermission(auth.PermRfpAssign)
	case ActionComplete:
		return p.HasPermission(auth.PermRfpComplete)
	case ActionCancel:
		return p.HasPermission(auth.PermRfpCancel)
	}
	return false
}

// CanEdit reports whether the principal may mutate the document payload.
// Terminal documents are read-only. A draft is editable by its creator; a
// logist edits any live document; a carrier edits only documents assigned to
// its own organization.
func CanEdit(doc ShipmentRfp, p auth.Principal) bool {
	if doc.Status.IsTerminal() {
		return false
	}
	if p.IsAdmin() || p.HasRole(auth.RoleLogist) {
		return true
	}
	if doc.Status == StatusDraft && doc.CreatedBy != "" && doc.CreatedBy == p.UserID {
		return true
	}
	if p.HasRole(auth.RoleCarrier) &&
		doc.AssignedCarrier.ID != "" &&
		doc.AssignedCarrier.ID == p.OrganizationID {
		return true
	}
	return false
}

// ApplyAction checks the transition table and permission gate, then returns a
// copy of the document moved to the action's target status. Assignment
// additionally requires a valid carrier link, which is recorded on the
// document. The caller persists the result and stamps UpdatedAt.
func ApplyAction(doc ShipmentRfp, p auth.Principal, action Action, carrier *catalog.Link) (ShipmentRfp, error) {
	if !CanPerform(doc, p, action) {
		target, _ := action.target()
		if !CanTransition(doc.Status, target) {
			return ShipmentRfp{}, fmt.Errorf("%w: %s -> %s", ErrTransitionDenied, doc.Status, target)
		}
		return ShipmentRfp{}, fmt.Errorf("%w: %s requires elevated rights", ErrActionForbidden, action)
	}
	if action == ActionAssign {
		if carrier == nil || carrier.IsZero() {
			return ShipmentRfp{}, fmt.Errorf("%w: carrier is required for assignment", ErrInvalidInput)
		}
		if err := carrier.Validate(); err != nil {
			return ShipmentRfp{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		doc.AssignedCarrier = *carrier
	}
	target, _ := action.target()
	doc.Status = target
	return doc, nil
}

// AvailableActions is the single authoritative query behind UI action
// visibility.
func AvailableActions(doc ShipmentRfp, p auth.Principal) []Action {
	all := []Action{ActionPublish, ActionAssign, ActionComplete, ActionCancel}
	var available []Action
	for _, action := range all {
		if CanPerform(doc, p, action) {
			available = append(available, action)
		}
	}
	return available
}
