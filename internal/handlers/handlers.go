// Package handlers provides the admin HTTP API for security operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jasonachkar/secure-api-gateway-sub000/internal/auth"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/httputil"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/logging"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/models"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/posture"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/repository"
	"github.com/jasonachkar/secure-api-gateway-sub000/internal/service"
)

// Handler serves the /admin API.
type Handler struct {
	incidents *service.Service
	posture   *posture.Service
	logger    *logging.Logger
}

// New creates the admin API handler.
func New(incidents *service.Service, postureSvc *posture.Service, logger *logging.Logger) *Handler {
	return &Handler{
		incidents: incidents,
		posture:   postureSvc,
		logger:    logger,
	}
}

// IncidentsRoute handles routing for /admin/incidents and its sub-paths.
func (h *Handler) IncidentsRoute(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/admin/incidents" || path == "/admin/incidents/" {
		switch r.Method {
		case http.MethodPost:
			h.createIncident(w, r)
		case http.MethodGet:
			h.listIncidents(w, r)
		default:
			httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	if path == "/admin/incidents/statistics" {
		if r.Method != http.MethodGet {
			httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.getStatistics(w, r)
		return
	}

	rest := strings.TrimPrefix(path, "/admin/incidents/")
	switch {
	case strings.HasSuffix(rest, "/status"):
		h.updateStatus(w, r, strings.TrimSuffix(rest, "/status"))
	case strings.HasSuffix(rest, "/assign"):
		h.assign(w, r, strings.TrimSuffix(rest, "/assign"))
	case strings.HasSuffix(rest, "/notes"):
		h.addNote(w, r, strings.TrimSuffix(rest, "/notes"))
	case !strings.Contains(rest, "/"):
		switch r.Method {
		case http.MethodGet:
			h.getIncident(w, r, rest)
		case http.MethodPatch:
			h.updateIncident(w, r, rest)
		default:
			httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	default:
		httputil.WriteError(w, http.StatusNotFound, "endpoint not found")
	}
}

// ComplianceRoute handles routing for /admin/compliance sub-paths.
func (h *Handler) ComplianceRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch r.URL.Path {
	case "/admin/compliance/posture":
		h.getPosture(w, r)
	case "/admin/compliance/metrics":
		h.getComplianceMetrics(w, r)
	default:
		httputil.WriteError(w, http.StatusNotFound, "endpoint not found")
	}
}

// createIncident handles POST /admin/incidents
func (h *Handler) createIncident(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		httputil.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	inc, err := h.incidents.CreateIncident(r.Context(), &req, h.actor(r))
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, inc)
}

// listIncidents handles GET /admin/incidents
func (h *Handler) listIncidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &models.ListIncidentsRequest{
		Status:   q.Get("status"),
		Severity: q.Get("severity"),
		Type:     q.Get("type"),
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			req.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			req.Offset = n
		}
	}

	incidents, err := h.incidents.ListIncidents(r.Context(), req)
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, incidents)
}

// getIncident handles GET /admin/incidents/{id}
func (h *Handler) getIncident(w http.ResponseWriter, r *http.Request, id string) {
	inc, err := h.incidents.GetIncident(r.Context(), id)
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inc)
}

// updateStatus handles PATCH /admin/incidents/{id}/status
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inc, err := h.incidents.UpdateStatus(r.Context(), id, req.Status, h.actor(r))
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, inc)
}

// assign handles PATCH /admin/incidents/{id}/assign
func (h *Handler) assign(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssignedTo == "" {
		httputil.WriteError(w, http.StatusBadRequest, "assigned_to is required")
		return
	}

	inc, err := h.incidents.Assign(r.Context(), id, req.AssignedTo, h.actor(r))
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, inc)
}

// addNote handles POST /admin/incidents/{id}/notes
func (h *Handler) addNote(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req models.AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		httputil.WriteError(w, http.StatusBadRequest, "content is required")
		return
	}

	inc, err := h.incidents.AddNote(r.Context(), id, h.actor(r), req.Content)
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, inc)
}

// updateIncident handles PATCH /admin/incidents/{id}
func (h *Handler) updateIncident(w http.ResponseWriter, r *http.Request, id string) {
	var req models.UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inc, err := h.incidents.UpdateFields(r.Context(), id, &req, h.actor(r))
	if err != nil {
		h.writeIncidentError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, inc)
}

// getStatistics handles GET /admin/incidents/statistics
func (h *Handler) getStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.incidents.GetStatistics(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute incident statistics", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// getPosture handles GET /admin/compliance/posture
func (h *Handler) getPosture(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.posture.CalculatePosture(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to calculate security posture", "error", err)
		httputil.WriteError(w, http.StatusServiceUnavailable, "security posture unavailable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

// getComplianceMetrics handles GET /admin/compliance/metrics
func (h *Handler) getComplianceMetrics(w http.ResponseWriter, r *http.Request) {
	compliance, err := h.posture.GetComplianceMetrics(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to assemble compliance metrics", "error", err)
		httputil.WriteError(w, http.StatusServiceUnavailable, "compliance metrics unavailable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, compliance)
}

// actor returns the authenticated user id for timeline attribution.
func (h *Handler) actor(r *http.Request) string {
	if id := auth.GetUserID(r.Context()); id != "" {
		return id
	}
	return "admin"
}

// writeIncidentError maps service errors to HTTP status codes.
func (h *Handler) writeIncidentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrIncidentNotFound):
		httputil.WriteError(w, http.StatusNotFound, "incident not found")
	case errors.Is(err, service.ErrInvalidSeverity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidType):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "incident operation failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
