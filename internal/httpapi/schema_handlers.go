package httpapi

import (
	"net/http"
	"strings"
)

// handleSchemaKeys lists the entities the portal has schemas for.
func (a *API) handleSchemaKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": a.schemas.Keys()})
}

// handleSchema serves /v1/schemas/{entity} and /v1/schemas/{entity}/directives.
// The raw document feeds generic form rendering; directives carry the derived
// table and widget configuration.
func (a *API) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/v1/schemas/")
	parts := strings.Split(path, "/")

	switch len(parts) {
	case 1:
		raw, err := a.schemas.Raw(parts[0])
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	case 2:
		if parts[1] != "directives" {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		directives, err := a.schemas.Directives(parts[0])
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"directives": directives})
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}
