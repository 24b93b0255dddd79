package wizard

import (
	"strings"
	"testing"

	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/rfp"
)

func link(catalogName, id string) catalog.Link {
	return catalog.NewLink(catalog.KindList, catalogName, id, "")
}

func completeData() rfp.Data {
	return rfp.Data{
		ShipmentType:        link("shipment-type", "st1"),
		TransportationType:  link("transportation-type", "tt1"),
		Currency:            link("currency", "cur1"),
		RequiredVehicleType: link("vehicle-type", "vt1"),
		Route: []rfp.RoutePoint{{
			Address:   "Moscow, Tverskaya 1",
			ArrivalAt: "2026-09-01T10:00:00Z",
			CargoList: []rfp.Cargo{{
				Number:      "C-1",
				Weight:      10,
				Volume:      1,
				CargoNature: link("cargo-nature", "cn1"),
			}},
		}},
	}
}

func TestValidateBasicMissingLinks(t *testing.T) {
	errs := ValidateBasic(rfp.Data{})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	if errs := ValidateBasic(completeData()); len(errs) != 0 {
		t.Fatalf("complete data should validate, got %v", errs)
	}
}

func TestValidateRouteEmptyShortCircuits(t *testing.T) {
	errs := ValidateRoute(rfp.Data{})
	if len(errs) != 1 || errs[0] != "Add at least one route point" {
		t.Fatalf("expected the single route-required error, got %v", errs)
	}
}

func TestValidateRouteEmptyPoint(t *testing.T) {
	data := rfp.Data{Route: []rfp.RoutePoint{{Address: "", ArrivalAt: "", CargoList: nil}}}
	errs := ValidateRoute(data)
	if len(errs) != 3 {
		t.Fatalf("expected address+arrival+cargo errors, got %v", errs)
	}
	for _, e := range errs {
		if !strings.HasPrefix(e, "Point 1:") {
			t.Fatalf("error not index-prefixed: %q", e)
		}
	}
}

func TestValidateRoutePointWithEmptyAddressAndNoCargo(t *testing.T) {
	data := rfp.Data{Route: []rfp.RoutePoint{{
		Address:   "",
		ArrivalAt: "2026-09-01T10:00:00Z",
		CargoList: nil,
	}}}
	errs := ValidateRoute(data)
	if len(errs) != 2 {
		t.Fatalf("expected exactly two errors, got %v", errs)
	}
	if errs[0] == errs[1] {
		t.Fatalf("errors should be distinct: %v", errs)
	}
}

func TestValidateRouteCargoRules(t *testing.T) {
	data := completeData()
	data.Route[0].CargoList = []rfp.Cargo{{
		Number: "",
		Weight: -1,
		Volume: -0.5,
	}}
	errs := ValidateRoute(data)
	if len(errs) != 4 {
		t.Fatalf("expected number+nature+weight+volume errors, got %v", errs)
	}
	for _, e := range errs {
		if !strings.HasPrefix(e, "Point 1, cargo 1:") {
			t.Fatalf("cargo error not index-prefixed: %q", e)
		}
	}
}

func TestValidateRouteLongAddress(t *testing.T) {
	data := completeData()
	data.Route[0].Address = strings.Repeat("x", 256)
	errs := ValidateRoute(data)
	if len(errs) != 1 || !strings.Contains(errs[0], "255") {
		t.Fatalf("expected length error, got %v", errs)
	}
}

func TestValidateTransport(t *testing.T) {
	errs := ValidateTransport(rfp.Data{})
	if len(errs) != 1 {
		t.Fatalf("expected vehicle-type error, got %v", errs)
	}

	data := completeData()
	data.CustomRequirements = strings.Repeat("y", 1001)
	errs = ValidateTransport(data)
	if len(errs) != 1 || !strings.Contains(errs[0], "1000") {
		t.Fatalf("expected length cap error, got %v", errs)
	}
}

func TestValidateAdditionalTaxID(t *testing.T) {
	cases := map[string]bool{
		"":              true,
		"1234567890":    true,
		"123456789012":  true,
		"123456789":     false,
		"12345678901":   false,
		"1234567890123": false,
		"12345abcde":    false,
	}
	for inn, valid := range cases {
		errs := ValidateAdditional(rfp.Data{ActualCarrierInn: inn})
		if valid && len(errs) != 0 {
			t.Fatalf("inn %q should pass, got %v", inn, errs)
		}
		if !valid && len(errs) != 1 {
			t.Fatalf("inn %q should fail once, got %v", inn, errs)
		}
	}
}

func TestStepErrorsAndGating(t *testing.T) {
	form := &FormData{Data: rfp.Data{
		Route: []rfp.RoutePoint{{Address: "", ArrivalAt: "", CargoList: nil}},
	}}

	errs := form.StepErrors(StepRoute)
	if len(errs) != 3 {
		t.Fatalf("expected 3 route errors, got %v", errs)
	}
	if form.IsStepValid(StepRoute) {
		t.Fatal("route step should be invalid")
	}
	if form.CanProceed(StepRoute) {
		t.Fatal("cannot proceed with route errors")
	}
	if form.CanSubmit() {
		t.Fatal("cannot submit with errors present")
	}

	form.Data = completeData()
	form.Revalidate()
	for _, step := range Steps {
		if !form.IsStepValid(step) {
			t.Fatalf("step %s should be valid: %v", step, form.StepErrors(step))
		}
	}
	if !form.CanSubmit() {
		t.Fatal("complete form should submit")
	}
}
