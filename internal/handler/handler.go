package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"domainverse/internal/codec"
	"domainverse/internal/logger"
	"domainverse/internal/service"
)

// maxBodyBytes bounds edit request bodies
const maxBodyBytes = 64 << 10

var validate = validator.New()

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// RenameRequest is the body of PUT /api/domains/{id}/name.
// Name is a pointer so an explicit empty name is accepted.
type RenameRequest struct {
	Name *string `json:"name" validate:"required"`
}

// VerbRequest is the body of PUT /api/domains/{id}/links/{target}/verb
type VerbRequest struct {
	Verb *string `json:"verb" validate:"required"`
}

// DomainHandler handles domain API requests
type DomainHandler struct {
	domains *service.DomainService
	scenes  *service.SceneService
}

// NewDomainHandler creates a new domain handler
func NewDomainHandler(domains *service.DomainService, scenes *service.SceneService) *DomainHandler {
	return &DomainHandler{domains: domains, scenes: scenes}
}

// ListDomains returns every domain, the main domains or a search result
func (h *DomainHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ctx := r.Context()

	switch {
	case query.Has("q"):
		writeJSON(w, h.domains.Search(ctx, query.Get("q")), http.StatusOK)
	case query.Get("main") == "true":
		writeJSON(w, h.domains.Main(ctx), http.StatusOK)
	default:
		writeJSON(w, h.domains.All(ctx), http.StatusOK)
	}
}

// GetDomain returns a single domain
func (h *DomainHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	d, err := h.domains.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, d, http.StatusOK)
}

// GetLinked returns the domains a domain links to
func (h *DomainHandler) GetLinked(w http.ResponseWriter, r *http.Request) {
	linked, err := h.domains.Linked(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, linked, http.StatusOK)
}

// GetChildren returns the sub-domains of a domain
func (h *DomainHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.domains.Children(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, children, http.StatusOK)
}

// GetRelated returns the related-domain closure
func (h *DomainHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	related, err := h.domains.Related(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, related, http.StatusOK)
}

// GetIncoming returns the domains linking to a domain with their verbs
func (h *DomainHandler) GetIncoming(w http.ResponseWriter, r *http.Request) {
	incoming, err := h.domains.Incoming(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, incoming, http.StatusOK)
}

// RenameDomain changes a domain's display name
func (h *DomainHandler) RenameDomain(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	if err := h.domains.Rename(r.Context(), id, *req.Name); err != nil {
		handleError(w, r, err)
		return
	}

	d, err := h.domains.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, d, http.StatusOK)
}

// UpdateVerb relabels the link between two domains
func (h *DomainHandler) UpdateVerb(w http.ResponseWriter, r *http.Request) {
	var req VerbRequest
	if !decodeBody(w, r, &req) {
		return
	}

	source, target := r.PathValue("id"), r.PathValue("target")
	if err := h.domains.UpdateVerb(r.Context(), source, target, *req.Verb); err != nil {
		handleError(w, r, err)
		return
	}

	outgoing, err := h.domains.Outgoing(r.Context(), source)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, outgoing, http.StatusOK)
}

// GetScene returns the visible domains and connections for a focus
func (h *DomainHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	zoomOut := false
	if raw := query.Get("zoom_out"); raw != "" {
		var err error
		if zoomOut, err = strconv.ParseBool(raw); err != nil {
			writeError(w, r, "Invalid zoom_out", err.Error(), http.StatusBadRequest)
			return
		}
	}

	scene, err := h.scenes.View(r.Context(), query.Get("focus"), zoomOut)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, scene, http.StatusOK)
}

// Export writes the current graph as JSON or YAML
func (h *DomainHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.PathValue("format")
	c, err := codec.ForFormat(format)
	if err != nil {
		writeError(w, r, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	contentType := "application/json"
	if c.Format() == "yaml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=domains."+c.Format())

	if err := h.domains.ExportWith(r.Context(), c, w); err != nil {
		// Can't write error response as we already set headers
		logger.Error(r.Context(), "failed to export", zap.String("format", format), zap.Error(err))
	}
}

// ListEdits returns the edit journal
func (h *DomainHandler) ListEdits(w http.ResponseWriter, r *http.Request) {
	entries, err := h.domains.History(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, entries, http.StatusOK)
}

// decodeBody decodes and validates a JSON body, writing a 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// handleError maps service errors to status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, r, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidFormat), errors.Is(err, service.ErrInvalidEdit):
		writeError(w, r, "Bad request", err.Error(), http.StatusBadRequest)
	default:
		logger.Error(r.Context(), "request failed", zap.Error(err))
		writeError(w, r, "Internal error", err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn(context.Background(), "failed to encode response", zap.Error(err))
	}
}

// writeError replies with an ErrorResponse carrying the request ID, so a
// client report can be matched to the access log
func writeError(w http.ResponseWriter, r *http.Request, error, details string, statusCode int) {
	requestID := RequestID(r.Context())
	if requestID == "" {
		// outside Logger, e.g. in Recover; the header is already set
		requestID = w.Header().Get("X-Request-Id")
	}
	writeJSON(w, ErrorResponse{Error: error, Details: details, RequestID: requestID}, statusCode)
}
