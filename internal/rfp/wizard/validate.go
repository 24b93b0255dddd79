package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/moarster/yms-react-sub001/internal/rfp"
)

const (
	maxAddressLen  = 255
	maxFreeTextLen = 1000
)

// Tax identifiers (INN) are exactly 10 or 12 decimal digits.
var innPattern = regexp.MustCompile(`^(\d{10}|\d{12})$`)

// ValidateBasic checks the classification links on the first step.
func ValidateBasic(data rfp.Data) []string {
	var errs []string
	if data.ShipmentType.IsZero() {
		errs = append(errs, "Shipment type is required")
	}
	if data.TransportationType.IsZero() {
		errs = append(errs, "Transportation type is required")
	}
	if data.Currency.IsZero() {
		errs = append(errs, "Currency is required")
	}
	return errs
}

// ValidateRoute checks route points and their cargo. An empty route yields a
// single error and short-circuits: per-point checks only run on real points.
func ValidateRoute(data rfp.Data) []string {
	if len(data.Route) == 0 {
		return []string{"Add at least one route point"}
	}
	var errs []string
	for i, point := range data.Route {
		n := i + 1
		if strings.TrimSpace(point.Address) == "" {
			errs = append(errs, fmt.Sprintf("Point %d: address is required", n))
		} else if len(point.Address) > maxAddressLen {
			errs = append(errs, fmt.Sprintf("Point %d: address must be at most %d characters", n, maxAddressLen))
		}
		if strings.TrimSpace(point.ArrivalAt) == "" {
			errs = append(errs, fmt.Sprintf("Point %d: arrival time is required", n))
		}
		if len(point.CargoList) == 0 {
			errs = append(errs, fmt.Sprintf("Point %d: add at least one cargo", n))
			continue
		}
		for j, cargo := range point.CargoList {
			m := j + 1
			if strings.TrimSpace(cargo.Number) == "" {
				errs = append(errs, fmt.Sprintf("Point %d, cargo %d: number is required", n, m))
			}
			if cargo.CargoNature.IsZero() {
				errs = append(errs, fmt.Sprintf("Point %d, cargo %d: cargo nature is required", n, m))
			}
			if cargo.Weight < 0 {
				errs = append(errs, fmt.Sprintf("Point %d, cargo %d: weight must not be negative", n, m))
			}
			if cargo.Volume < 0 {
				errs = append(errs, fmt.Sprintf("Point %d, cargo %d: volume must not be negative", n, m))
			}
		}
	}
	return errs
}

// ValidateTransport checks vehicle requirements.
func ValidateTransport(data rfp.Data) []string {
	var errs []string
	if data.RequiredVehicleType.IsZero() {
		errs = append(errs, "Required vehicle type is required")
	}
	if len(data.CustomRequirements) > maxFreeTextLen {
		errs = append(errs, fmt.Sprintf("Custom requirements must be at most %d characters", maxFreeTextLen))
	}
	return errs
}

// ValidateAdditional checks the free-form final step.
func ValidateAdditional(data rfp.Data) []string {
	var errs []string
	if len(data.Comment) > maxFreeTextLen {
		errs = append(errs, fmt.Sprintf("Comment must be at most %d characters", maxFreeTextLen))
	}
	if inn := strings.TrimSpace(data.ActualCarrierInn); inn != "" && !innPattern.MatchString(inn) {
		errs = append(errs, "Actual carrier tax ID must be 10 or 12 digits")
	}
	return errs
}
