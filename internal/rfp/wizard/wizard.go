// Package wizard validates the multi-step RFP creation form. All checks are
// pure functions over the transient form data: they never fail, they return
// human-readable message lists, and an empty list means the step is valid.
package wizard

import (
	"github.com/moarster/yms-react-sub001/internal/rfp"
)

// Step identifies one page of the creation wizard.
type Step string

const (
	StepBasic      Step = "basic"
	StepRoute      Step = "route"
	StepTransport  Step = "transport"
	StepAdditional Step = "additional"
)

// Steps lists wizard pages in navigation order.
var Steps = []Step{StepBasic, StepRoute, StepTransport, StepAdditional}

// FormData is the client-side aggregate the wizard edits. It exists only for
// the duration of a creation session and is discarded on submit or cancel.
// TempFiles and Errors are UI scratch state, never persisted.
type FormData struct {
	Data      rfp.Data          `json:"data"`
	TempFiles []string          `json:"tempFiles,omitempty"`
	Errors    map[Step][]string `json:"errors,omitempty"`
}

// Revalidate recomputes the whole per-step error map. Cost is linear in
// route points times cargo items, fine at form scale.
func (f *FormData) Revalidate() {
	f.Errors = map[Step][]string{
		StepBasic:      ValidateBasic(f.Data),
		StepRoute:      ValidateRoute(f.Data),
		StepTransport:  ValidateTransport(f.Data),
		StepAdditional: ValidateAdditional(f.Data),
	}
}

// StepErrors returns the current error list for a step, always non-nil.
func (f *FormData) StepErrors(step Step) []string {
	if f.Errors == nil {
		f.Revalidate()
	}
	errs := f.Errors[step]
	if errs == nil {
		return []string{}
	}
	return errs
}

// IsStepValid reports whether the step currently has no errors.
func (f *FormData) IsStepValid(step Step) bool {
	return len(f.StepErrors(step)) == 0
}

// CanProceed gates forward navigation out of a step. Revisiting earlier
// steps is always allowed; only the current step must be clean.
func (f *FormData) CanProceed(step Step) bool {
	return f.IsStepValid(step)
}

// CanSubmit reports whether every step validates.
func (f *FormData) CanSubmit() bool {
	for _, step := range Steps {
		if !f.IsStepValid(step) {
			return false
		}
	}
	return true
}
