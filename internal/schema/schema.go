// Package schema parses JSON-Schema entity descriptions and derives
// presentation directives from their x-* extension keys. Directives are
// computed once per property at load time instead of re-inspecting string
// keys on every render.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var ErrNotFound = errors.New("schema: not found")

// Widget is the input control a property maps to.
type Widget string

const (
	WidgetText       Widget = "text"
	WidgetTextarea   Widget = "textarea"
	WidgetNumber     Widget = "number"
	WidgetDate       Widget = "date"
	WidgetCheckbox   Widget = "checkbox"
	WidgetSelectLink Widget = "select-link"
)

// Column describes how a property renders as a table column.
type Column struct {
	Hidden   bool   `json:"hidden"`
	Width    int    `json:"width,omitempty"`
	Order    int    `json:"order,omitempty"`
	Renderer string `json:"renderer,omitempty"`
	Editor   string `json:"editor,omitempty"`
}

// LinkBinding binds a select widget to a reference catalog.
type LinkBinding struct {
	Domain  string `json:"domain"`
	Catalog string `json:"catalog"`
}

// Directive is the tagged rendering variant derived from one property.
type Directive struct {
	Name     string       `json:"name"`
	Title    string       `json:"title,omitempty"`
	Widget   Widget       `json:"widget"`
	Required bool         `json:"required"`
	Column   Column       `json:"column"`
	Link     *LinkBinding `json:"link,omitempty"`
}

// Property is a raw JSON-Schema property. Extension keys land in Extra via
// custom unmarshalling.
type Property struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	Title  string `json:"title"`

	// Extra holds x-* extension keys verbatim.
	Extra map[string]any `json:"-"`
}

func (p *Property) UnmarshalJSON(data []byte) error {
	type plain Property
	var base plain
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Property(base)
	for key, value := range raw {
		if len(key) > 2 && key[:2] == "x-" {
			if p.Extra == nil {
				p.Extra = map[string]any{}
			}
			p.Extra[key] = value
		}
	}
	return nil
}

// Document is a parsed entity schema.
type Document struct {
	Title      string              `json:"title"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Parse decodes a JSON-Schema document.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: parse: %w", err)
	}
	return doc, nil
}

// Directives derives the rendering directive for every property, ordered by
// the x-table-order key then property name.
func (d Document) Directives() []Directive {
	required := make(map[string]bool, len(d.Required))
	for _, name := range d.Required {
		required[name] = true
	}
	directives := make([]Directive, 0, len(d.Properties))
	for name, prop := range d.Properties {
		dir := deriveDirective(name, prop)
		dir.Required = required[name]
		directives = append(directives, dir)
	}
	sort.Slice(directives, func(i, j int) bool {
		if directives[i].Column.Order != directives[j].Column.Order {
			return directives[i].Column.Order < directives[j].Column.Order
		}
		return directives[i].Name < directives[j].Name
	})
	return directives
}
