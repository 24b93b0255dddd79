package schema

// Extension keys the mapper understands. Anything else is ignored.
const (
	extTableHidden = "x-table-hidden"
	extTableWidth  = "x-table-width"
	extTableOrder  = "x-table-order"
	extCellRender  = "x-cell-renderer"
	extCellEditor  = "x-cell-editor"
	extRefDomain   = "x-ref-domain"
	extRefCatalog  = "x-ref-catalog"
	extMultiline   = "x-multiline"
)

// deriveDirective maps one schema property to its rendering directive.
func deriveDirective(name string, prop Property) Directive {
	dir := Directive{
		Name:   name,
		Title:  prop.Title,
		Widget: widgetFor(prop),
		Column: columnFor(prop),
	}
	if binding := linkBindingFor(prop); binding != nil {
		dir.Widget = WidgetSelectLink
		dir.Link = binding
	}
	return dir
}

func widgetFor(prop Property) Widget {
	switch prop.Type {
	case "number", "integer":
		return WidgetNumber
	case "boolean":
		return WidgetCheckbox
	case "string":
		switch prop.Format {
		case "date", "date-time":
			return WidgetDate
		}
		if flag, ok := prop.Extra[extMultiline].(bool); ok && flag {
			return WidgetTextarea
		}
		return WidgetText
	default:
		return WidgetText
	}
}

func columnFor(prop Property) Column {
	col := Column{}
	if hidden, ok := prop.Extra[extTableHidden].(bool); ok {
		col.Hidden = hidden
	}
	col.Width = intExtra(prop.Extra, extTableWidth)
	col.Order = intExtra(prop.Extra, extTableOrder)
	if renderer, ok := prop.Extra[extCellRender].(string); ok {
		col.Renderer = renderer
	}
	if editor, ok := prop.Extra[extCellEditor].(string); ok {
		col.Editor = editor
	}
	return col
}

func linkBindingFor(prop Property) *LinkBinding {
	domain, okDomain := prop.Extra[extRefDomain].(string)
	catalogName, okCatalog := prop.Extra[extRefCatalog].(string)
	if !okDomain || !okCatalog || domain == "" || catalogName == "" {
		return nil
	}
	return &LinkBinding{Domain: domain, Catalog: catalogName}
}

// intExtra reads a numeric extension key. JSON numbers decode as float64.
func intExtra(extra map[string]any, key string) int {
	switch v := extra[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
