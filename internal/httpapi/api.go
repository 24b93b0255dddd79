// Package httpapi is the portal's HTTP layer: REST endpoints for reference
// data, schemas and shipment RFP documents plus the SSE event stream.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/catalogstore"
	"github.com/moarster/yms-react-sub001/internal/obs"
	"github.com/moarster/yms-react-sub001/internal/rfp"
	"github.com/moarster/yms-react-sub001/internal/schema"
	"github.com/moarster/yms-react-sub001/internal/stream"
)

// ReadyProbe reports backend readiness, pinging the database when one is
// configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	rfps       rfp.Service
	catalogs   catalogstore.Store
	resolver   *catalog.Resolver
	schemas    *schema.Registry
	events     *stream.Stream
	readyProbe ReadyProbe
	version    string
}

// New wires routes over the given services. resolver and events may be nil;
// the corresponding features degrade gracefully.
func New(rfps rfp.Service, catalogs catalogstore.Store, resolver *catalog.Resolver, schemas *schema.Registry, events *stream.Stream, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		rfps:       rfps,
		catalogs:   catalogs,
		resolver:   resolver,
		schemas:    schemas,
		events:     events,
		readyProbe: rp,
		version:    version,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/token", a.handleAuthToken)

	// Reference data, addressed as /{domain}/{catalog}/items.
	a.mux.HandleFunc("/lists/", a.handleCatalogItems)
	a.mux.HandleFunc("/reference/", a.handleCatalogItems)

	a.mux.HandleFunc("/v1/schemas", a.handleSchemaKeys)
	a.mux.HandleFunc("/v1/schemas/", a.handleSchema)

	a.mux.HandleFunc("/v1/rfps", a.handleRfpCollection)
	a.mux.HandleFunc("/v1/rfps/", a.handleRfpResource)
	a.mux.HandleFunc("/v1/rfps/validate", a.handleRfpValidate)

	a.mux.HandleFunc("/v1/events", a.Stream)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the full middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAuth(h)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RateLimit(h, 50, 25)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "carrier-portal",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "carrier-portal",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the portal error envelope. Clients rely on message and
// code; request_id ties the response to the server logs.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"message":   msg,
		"code":      http.StatusText(code),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"path":      r.URL.Path,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rfp.ErrInvalidInput), errors.Is(err, catalogstore.ErrInvalidInput), errors.Is(err, catalog.ErrInvalidLink):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, rfp.ErrTransitionDenied):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, rfp.ErrActionForbidden):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, rfp.ErrNotFound), errors.Is(err, catalogstore.ErrNotFound), errors.Is(err, schema.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
