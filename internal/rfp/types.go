// Package rfp models shipment RFP documents and their workflow: statuses,
// the allowed-transition table and role/permission gated actions.
package rfp

import (
	"errors"
	"fmt"
	"time"

	"github.com/moarster/yms-react-sub001/internal/catalog"
)

var (
	ErrNotFound         = errors.New("rfp: not found")
	ErrInvalidInput     = errors.New("rfp: invalid input")
	ErrTransitionDenied = errors.New("rfp: transition not allowed")
	ErrActionForbidden  = errors.New("rfp: action forbidden")
)

// Cargo is a single cargo position inside a route point.
type Cargo struct {
	Number      string       `json:"number"`
	Weight      float64      `json:"weight"`
	Volume      float64      `json:"volume"`
	CargoNature catalog.Link `json:"cargoNature"`
}

// RoutePoint is one stop on the shipment route. Every point carries at
// least one cargo position.
type RoutePoint struct {
	Address           string       `json:"address"`
	ArrivalAt         string       `json:"arrivalAt"`
	DepartureAt       string       `json:"departureAt,omitempty"`
	CounterParty      catalog.Link `json:"counterParty"`
	CargoHandlingType catalog.Link `json:"cargoHandlingType"`
	CargoList         []Cargo      `json:"cargoList"`
}

// Attachment references an uploaded file by storage key.
type Attachment struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

// Data is the RFP payload: route, classification links and free-form fields.
type Data struct {
	ShipmentType        catalog.Link `json:"shipmentType"`
	TransportationType  catalog.Link `json:"transportationType"`
	Currency            catalog.Link `json:"currency"`
	RequiredVehicleType catalog.Link `json:"requiredVehicleType"`
	CustomRequirements  string       `json:"customRequirements,omitempty"`
	Route               []RoutePoint `json:"route"`
	Comment             string       `json:"comment,omitempty"`
	ActualCarrierInn    string       `json:"actualCarrierInn,omitempty"`
	Attachments         []Attachment `json:"attachments,omitempty"`
}

// ShipmentRfp is the core document tracked through the status workflow from
// creation to completion or cancellation.
type ShipmentRfp struct {
	ID              string       `json:"id"`
	Status          Status       `json:"status"`
	CreatedBy       string       `json:"createdBy"`
	AssignedCarrier catalog.Link `json:"assignedCarrier,omitempty"`
	Data            Data         `json:"data"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// Validate enforces the structural invariants persisted documents must hold:
// a known status and at least one route point with at least one cargo each.
// Field-level rules live in the wizard validator.
func (d ShipmentRfp) Validate() error {
	if !d.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, d.Status)
	}
	if len(d.Data.Route) == 0 {
		return fmt.Errorf("%w: at least one route point is required", ErrInvalidInput)
	}
	for i, point := range d.Data.Route {
		if len(point.CargoList) == 0 {
			return fmt.Errorf("%w: route point %d has no cargo", ErrInvalidInput, i+1)
		}
	}
	return nil
}
