package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/moarster/yms-react-sub001/internal/audit"
	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/catalogstore"
)

type catalogItemsResponse struct {
	Content []catalog.Item `json:"content"`
}

type catalogItemRequest struct {
	Title string         `json:"title"`
	Data  map[string]any `json:"data,omitempty"`
}

// handleCatalogItems dispatches /{domain}/{catalog}/items[/{id}].
func (a *API) handleCatalogItems(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[2] != "items" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	domain, catalogName := parts[0], parts[1]
	if _, err := catalog.KindForDomain(domain); err != nil {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if len(parts) == 3 {
		switch r.Method {
		case http.MethodGet:
			a.listCatalogItems(w, r, domain, catalogName)
		case http.MethodPost:
			a.createCatalogItem(w, r, domain, catalogName)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}
	if len(parts) == 4 {
		id := parts[3]
		switch r.Method {
		case http.MethodGet:
			a.getCatalogItem(w, r, domain, catalogName, id)
		case http.MethodPut:
			a.updateCatalogItem(w, r, domain, catalogName, id)
		case http.MethodDelete:
			a.deleteCatalogItem(w, r, domain, catalogName, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
		return
	}
	writeError(w, r, http.StatusNotFound, "resource not found")
}

func (a *API) listCatalogItems(w http.ResponseWriter, r *http.Request, domain, catalogName string) {
	size := 100
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			writeError(w, r, http.StatusBadRequest, "size must be between 1 and 1000")
			return
		}
		size = v
	}
	records, err := a.catalogs.List(r.Context(), domain, catalogName, r.URL.Query().Get("search"), size)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	items := make([]catalog.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.Item())
	}
	writeJSON(w, http.StatusOK, catalogItemsResponse{Content: items})
}

func (a *API) getCatalogItem(w http.ResponseWriter, r *http.Request, domain, catalogName, id string) {
	rec, err := a.catalogs.Get(r.Context(), domain, catalogName, id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec.Item())
}

func (a *API) createCatalogItem(w http.ResponseWriter, r *http.Request, domain, catalogName string) {
	if !a.requirePermission(w, r, auth.PermCatalogWrite) {
		return
	}
	var req catalogItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := a.catalogs.Create(r.Context(), catalogstore.Record{
		Domain:  domain,
		Catalog: catalogName,
		Title:   strings.TrimSpace(req.Title),
		Data:    req.Data,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	a.invalidateCatalog(domain, catalogName)
	_ = audit.LogEvent(r.Context(), "catalog.item.create", map[string]any{
		"domain": domain, "catalog": catalogName, "id": rec.ID,
	})
	w.Header().Set("Location", "/"+domain+"/"+catalogName+"/items/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec.Item())
}

func (a *API) updateCatalogItem(w http.ResponseWriter, r *http.Request, domain, catalogName, id string) {
	if !a.requirePermission(w, r, auth.PermCatalogWrite) {
		return
	}
	var req catalogItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := a.catalogs.Update(r.Context(), catalogstore.Record{
		ID:      id,
		Domain:  domain,
		Catalog: catalogName,
		Title:   strings.TrimSpace(req.Title),
		Data:    req.Data,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	a.invalidateCatalog(domain, catalogName)
	_ = audit.LogEvent(r.Context(), "catalog.item.update", map[string]any{
		"domain": domain, "catalog": catalogName, "id": id,
	})
	writeJSON(w, http.StatusOK, rec.Item())
}

func (a *API) deleteCatalogItem(w http.ResponseWriter, r *http.Request, domain, catalogName, id string) {
	if !a.requirePermission(w, r, auth.PermCatalogWrite) {
		return
	}
	if err := a.catalogs.Delete(r.Context(), domain, catalogName, id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	a.invalidateCatalog(domain, catalogName)
	_ = audit.LogEvent(r.Context(), "catalog.item.delete", map[string]any{
		"domain": domain, "catalog": catalogName, "id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

// invalidateCatalog drops cached dropdown options after a write so the next
// resolve refetches.
func (a *API) invalidateCatalog(domain, catalogName string) {
	if a.resolver == nil {
		return
	}
	kind, err := catalog.KindForDomain(domain)
	if err != nil {
		return
	}
	a.resolver.Invalidate(catalogName, kind)
}

// requirePermission writes the error response itself when access is denied.
func (a *API) requirePermission(w http.ResponseWriter, r *http.Request, perm string) bool {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return false
	}
	if !principal.HasPermission(perm) {
		writeError(w, r, http.StatusForbidden, "insufficient permissions")
		return false
	}
	return true
}
