// Package catalog models typed references ("links") into reference-data
// collections and resolves them into dropdown options on demand.
package catalog

import (
	"errors"
	"fmt"
	"time"
)

// Domains a link may point into. Lists and catalogs share the link shape but
// differ in UI treatment.
const (
	DomainLists     = "lists"
	DomainReference = "reference"
)

// LinkEntity is the only entity kind reference links may target.
const LinkEntity = "item"

// Kind distinguishes list links from catalog links.
type Kind string

const (
	KindList    Kind = "LIST"
	KindCatalog Kind = "CATALOG"
)

// Domain returns the URL domain segment for the kind.
func (k Kind) Domain() string {
	if k == KindCatalog {
		return DomainReference
	}
	return DomainLists
}

// KindForDomain maps a domain segment back to a link kind.
func KindForDomain(domain string) (Kind, error) {
	switch domain {
	case DomainLists:
		return KindList, nil
	case DomainReference:
		return KindCatalog, nil
	default:
		return "", fmt.Errorf("%w: unknown domain %q", ErrInvalidLink, domain)
	}
}

var ErrInvalidLink = errors.New("invalid link")

// Link is a weak reference to an entity in another collection. It does not
// own the referenced entity; resolution happens on demand.
type Link struct {
	ID      string `json:"id"`
	Domain  string `json:"domain"`
	Entity  string `json:"entity"`
	Catalog string `json:"catalog"`
	Title   string `json:"title,omitempty"`
}

// IsZero reports whether the link carries no reference at all.
func (l Link) IsZero() bool { return l.ID == "" }

// Validate enforces the link invariants: non-empty id, a known domain,
// entity "item" and a non-empty catalog name.
func (l Link) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidLink)
	}
	if l.Domain != DomainLists && l.Domain != DomainReference {
		return fmt.Errorf("%w: domain must be %q or %q", ErrInvalidLink, DomainLists, DomainReference)
	}
	if l.Entity != LinkEntity {
		return fmt.Errorf("%w: entity must be %q", ErrInvalidLink, LinkEntity)
	}
	if l.Catalog == "" {
		return fmt.Errorf("%w: catalog is required", ErrInvalidLink)
	}
	return nil
}

// NewLink builds a link of the given kind.
func NewLink(kind Kind, catalogName, id, title string) Link {
	return Link{
		ID:      id,
		Domain:  kind.Domain(),
		Entity:  LinkEntity,
		Catalog: catalogName,
		Title:   title,
	}
}

// ResolvedLink is a link augmented with an embedded copy of the referenced
// entity, kept after a lookup to avoid re-resolving.
type ResolvedLink struct {
	Link
	Entry      map[string]any `json:"entry,omitempty"`
	ResolvedAt time.Time      `json:"resolvedAt,omitempty"`
}

// Item is a raw catalog/list entry as returned by the read endpoint.
type Item struct {
	ID    string         `json:"id"`
	Title string         `json:"title,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// DisplayTitle returns the item title, falling back to a nested data.title
// when the top-level one is absent.
func (it Item) DisplayTitle() string {
	if it.Title != "" {
		return it.Title
	}
	if it.Data != nil {
		if t, ok := it.Data["title"].(string); ok {
			return t
		}
	}
	return ""
}
