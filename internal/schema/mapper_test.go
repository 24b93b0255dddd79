package schema

import (
	"errors"
	"testing"
)

const sampleSchema = `{
  "title": "Sample",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "title": "Name", "x-table-order": 1},
    "notes": {"type": "string", "title": "Notes", "x-multiline": true, "x-table-hidden": true},
    "weight": {"type": "number", "title": "Weight", "x-table-order": 2, "x-table-width": 90},
    "active": {"type": "boolean", "title": "Active"},
    "createdAt": {"type": "string", "format": "date-time", "title": "Created"},
    "vehicleType": {
      "type": "string",
      "title": "Vehicle type",
      "x-ref-domain": "lists",
      "x-ref-catalog": "vehicle-type",
      "x-cell-editor": "link-select",
      "x-cell-renderer": "link-title"
    }
  }
}`

func directiveByName(t *testing.T, dirs []Directive, name string) Directive {
	t.Helper()
	for _, d := range dirs {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("directive %s not found", name)
	return Directive{}
}

func TestDirectiveDerivation(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dirs := doc.Directives()
	if len(dirs) != 6 {
		t.Fatalf("expected 6 directives, got %d", len(dirs))
	}

	name := directiveByName(t, dirs, "name")
	if name.Widget != WidgetText || !name.Required {
		t.Fatalf("unexpected name directive: %+v", name)
	}

	notes := directiveByName(t, dirs, "notes")
	if notes.Widget != WidgetTextarea || !notes.Column.Hidden {
		t.Fatalf("unexpected notes directive: %+v", notes)
	}

	weight := directiveByName(t, dirs, "weight")
	if weight.Widget != WidgetNumber || weight.Column.Width != 90 {
		t.Fatalf("unexpected weight directive: %+v", weight)
	}

	active := directiveByName(t, dirs, "active")
	if active.Widget != WidgetCheckbox {
		t.Fatalf("unexpected active directive: %+v", active)
	}

	created := directiveByName(t, dirs, "createdAt")
	if created.Widget != WidgetDate {
		t.Fatalf("unexpected createdAt directive: %+v", created)
	}

	vehicle := directiveByName(t, dirs, "vehicleType")
	if vehicle.Widget != WidgetSelectLink {
		t.Fatalf("link property should map to select-link: %+v", vehicle)
	}
	if vehicle.Link == nil || vehicle.Link.Catalog != "vehicle-type" || vehicle.Link.Domain != "lists" {
		t.Fatalf("unexpected link binding: %+v", vehicle.Link)
	}
	if vehicle.Column.Editor != "link-select" || vehicle.Column.Renderer != "link-title" {
		t.Fatalf("cell extensions not mapped: %+v", vehicle.Column)
	}
}

func TestDirectiveOrdering(t *testing.T) {
	doc, err := Parse([]byte(sampleSchema))
	if err != nil {
		t.Fatal(err)
	}
	dirs := doc.Directives()
	// Zero-order properties sort before explicit orders, alphabetically.
	if dirs[len(dirs)-1].Name != "weight" {
		t.Fatalf("expected weight last, got %s", dirs[len(dirs)-1].Name)
	}
}

func TestRegistryServesEmbeddedSchemas(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	doc, err := reg.Document("shipment-rfp")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Title != "Shipment RFP" {
		t.Fatalf("unexpected title: %s", doc.Title)
	}

	dirs, err := reg.Directives("shipment-rfp")
	if err != nil {
		t.Fatalf("Directives: %v", err)
	}
	status := directiveByName(t, dirs, "status")
	if status.Column.Renderer != "status-badge" {
		t.Fatalf("unexpected status directive: %+v", status)
	}

	if _, err := reg.Raw("shipment-rfp"); err != nil {
		t.Fatalf("Raw: %v", err)
	}
	if _, err := reg.Document("unknown-entity"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
