package rfp

import (
	"context"
	"errors"
	"testing"

	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
)

type recordingSink struct {
	events []Event
}

func (r *recordingSink) Publish(ev Event) { r.events = append(r.events, ev) }

func validData() Data {
	return Data{
		ShipmentType:       catalog.NewLink(catalog.KindList, "shipment-type", "st1", "FTL"),
		TransportationType: catalog.NewLink(catalog.KindList, "transportation-type", "tt1", "Road"),
		Currency:           catalog.NewLink(catalog.KindList, "currency", "cur1", "RUB"),
		Route: []RoutePoint{{
			Address:   "Moscow, Tverskaya 1",
			ArrivalAt: "2026-09-01T10:00:00Z",
			CargoList: []Cargo{{
				Number:      "C-1",
				Weight:      100,
				Volume:      2,
				CargoNature: catalog.NewLink(catalog.KindList, "cargo-nature", "cn1", "General"),
			}},
		}},
	}
}

func TestCreateAndWorkflowHappyPath(t *testing.T) {
	sink := &recordingSink{}
	svc := NewInMemory(sink)
	ctx := context.Background()

	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})
	carrier := auth.NewPrincipal("carrier-1", "org-9", []string{auth.RoleCarrier})

	doc, err := svc.Create(ctx, logist, validData(), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.Status != StatusNew {
		t.Fatalf("expected NEW, got %s", doc.Status)
	}

	link := carrierLink("org-9")
	doc, err = svc.Perform(ctx, logist, doc.ID, ActionAssign, &link)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if doc.Status != StatusAssigned || doc.AssignedCarrier.ID != "org-9" {
		t.Fatalf("unexpected document after assign: %+v", doc)
	}

	doc, err = svc.Perform(ctx, carrier, doc.ID, ActionComplete, nil)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if doc.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", doc.Status)
	}

	// create + assign + complete
	if len(sink.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(sink.events))
	}
	if sink.events[2].Action != ActionComplete {
		t.Fatalf("unexpected last event: %+v", sink.events[2])
	}
}

func TestPerformRejectsDisallowedTransition(t *testing.T) {
	svc := NewInMemory(nil)
	ctx := context.Background()
	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})

	doc, err := svc.Create(ctx, logist, validData(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Perform(ctx, logist, doc.ID, ActionComplete, nil); !errors.Is(err, ErrTransitionDenied) {
		t.Fatalf("expected ErrTransitionDenied, got %v", err)
	}
}

func TestPerformRejectsMissingPermission(t *testing.T) {
	svc := NewInMemory(nil)
	ctx := context.Background()
	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})
	carrier := auth.NewPrincipal("carrier-1", "org-9", []string{auth.RoleCarrier})

	doc, err := svc.Create(ctx, logist, validData(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Perform(ctx, carrier, doc.ID, ActionCancel, nil); !errors.Is(err, ErrActionForbidden) {
		t.Fatalf("expected ErrActionForbidden, got %v", err)
	}
}

func TestAssignRequiresCarrierLink(t *testing.T) {
	svc := NewInMemory(nil)
	ctx := context.Background()
	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})

	doc, err := svc.Create(ctx, logist, validData(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Perform(ctx, logist, doc.ID, ActionAssign, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateHonoursEditGate(t *testing.T) {
	svc := NewInMemory(nil)
	ctx := context.Background()
	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})

	doc, err := svc.Create(ctx, logist, validData(), true)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Status != StatusDraft {
		t.Fatalf("expected DRAFT, got %s", doc.Status)
	}

	stranger := auth.NewPrincipal("other", "org-x", []string{auth.RoleCarrier})
	if _, err := svc.Update(ctx, stranger, doc.ID, validData()); !errors.Is(err, ErrActionForbidden) {
		t.Fatalf("expected ErrActionForbidden, got %v", err)
	}

	updated := validData()
	updated.Comment = "urgent"
	got, err := svc.Update(ctx, logist, doc.ID, updated)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Data.Comment != "urgent" {
		t.Fatalf("update not applied: %+v", got.Data)
	}
}

func TestDeleteOnlyDrafts(t *testing.T) {
	svc := NewInMemory(nil)
	ctx := context.Background()
	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})

	doc, err := svc.Create(ctx, logist, validData(), false)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, logist, doc.ID); !errors.Is(err, ErrActionForbidden) {
		t.Fatalf("expected ErrActionForbidden for non-draft, got %v", err)
	}

	draft, err := svc.Create(ctx, logist, validData(), true)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, logist, draft.ID); err != nil {
		t.Fatalf("Delete draft: %v", err)
	}
	if _, err := svc.Get(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	svc := NewInMemory(nil)
	ctx := context.Background()
	logist := auth.NewPrincipal("logist-1", "org-l", []string{auth.RoleLogist})

	if _, err := svc.Create(ctx, logist, validData(), false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, logist, validData(), true); err != nil {
		t.Fatal(err)
	}

	drafts, err := svc.List(ctx, ListFilter{Status: StatusDraft})
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 1 || drafts[0].Status != StatusDraft {
		t.Fatalf("unexpected drafts: %+v", drafts)
	}

	all, err := svc.List(ctx, ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(all))
	}
}
