package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/moarster/yms-react-sub001/internal/audit"
	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/rfp"
	"github.com/moarster/yms-react-sub001/internal/rfp/wizard"
)

type createRfpRequest struct {
	Data  rfp.Data `json:"data"`
	Draft bool     `json:"draft"`
}

type updateRfpRequest struct {
	Data rfp.Data `json:"data"`
}

type assignRequest struct {
	Carrier catalog.Link `json:"carrier"`
}

type listRfpsResponse struct {
	Items []rfp.ShipmentRfp `json:"items"`
}

type actionsResponse struct {
	Actions []rfp.Action `json:"actions"`
	CanEdit bool         `json:"canEdit"`
}

func (a *API) handleRfpCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createRfp(w, r)
	case http.MethodGet:
		a.listRfps(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleRfpResource dispatches /v1/rfps/{id} and /v1/rfps/{id}/{action}.
func (a *API) handleRfpResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/rfps/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	id := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			a.getRfp(w, r, id)
		case http.MethodPut:
			a.updateRfp(w, r, id)
		case http.MethodDelete:
			a.deleteRfp(w, r, id)
		default:
			methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "actions":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r, http.MethodGet)
				return
			}
			a.rfpActions(w, r, id)
		case "publish", "assign", "complete", "cancel":
			if r.Method != http.MethodPost {
				methodNotAllowed(w, r, http.MethodPost)
				return
			}
			a.performRfpAction(w, r, id, rfp.Action(parts[1]))
		default:
			writeError(w, r, http.StatusNotFound, "resource not found")
		}
		return
	}
	writeError(w, r, http.StatusNotFound, "resource not found")
}

func (a *API) createRfp(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var req createRfpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.rfps.Create(r.Context(), principal, req.Data, req.Draft)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "rfp.create", map[string]any{
		"document_id": doc.ID,
		"status":      string(doc.Status),
	})
	w.Header().Set("Location", "/v1/rfps/"+doc.ID)
	writeJSON(w, http.StatusCreated, doc)
}

func (a *API) listRfps(w http.ResponseWriter, r *http.Request) {
	filter := rfp.ListFilter{
		CreatedBy: strings.TrimSpace(r.URL.Query().Get("createdBy")),
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		s := rfp.Status(status)
		if !s.IsValid() {
			writeError(w, r, http.StatusBadRequest, "unknown status "+status)
			return
		}
		filter.Status = s
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		filter.Limit = v
	}
	docs, err := a.rfps.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	if docs == nil {
		docs = []rfp.ShipmentRfp{}
	}
	writeJSON(w, http.StatusOK, listRfpsResponse{Items: docs})
}

func (a *API) getRfp(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := a.rfps.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *API) updateRfp(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var req updateRfpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := a.rfps.Update(r.Context(), principal, id, req.Data)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *API) deleteRfp(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	if err := a.rfps.Delete(r.Context(), principal, id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "rfp.delete", map[string]any{"document_id": id})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) rfpActions(w http.ResponseWriter, r *http.Request, id string) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	doc, err := a.rfps.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	actions := rfp.AvailableActions(doc, principal)
	if actions == nil {
		actions = []rfp.Action{}
	}
	writeJSON(w, http.StatusOK, actionsResponse{
		Actions: actions,
		CanEdit: rfp.CanEdit(doc, principal),
	})
}

func (a *API) performRfpAction(w http.ResponseWriter, r *http.Request, id string, action rfp.Action) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}
	var carrier *catalog.Link
	if action == rfp.ActionAssign {
		var req assignRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		carrier = &req.Carrier
	}
	doc, err := a.rfps.Perform(r.Context(), principal, id, action, carrier)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	fields := map[string]any{
		"document_id": doc.ID,
		"status":      string(doc.Status),
	}
	if carrier != nil {
		fields["carrier_id"] = carrier.ID
	}
	_ = audit.LogEvent(r.Context(), "rfp."+string(action), fields)
	writeJSON(w, http.StatusOK, doc)
}

// handleRfpValidate runs the wizard validators over a form snapshot and
// returns the per-step error map without persisting anything.
func (a *API) handleRfpValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var form wizard.FormData
	if err := decodeJSON(w, r, &form); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	form.Revalidate()
	writeJSON(w, http.StatusOK, map[string]any{
		"errors":    form.Errors,
		"canSubmit": form.CanSubmit(),
	})
}

func principalOrFail(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Principal{}, false
	}
	return principal, true
}
