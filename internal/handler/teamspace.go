package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/models"
	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// TeamspaceHandler handles teamspace HTTP requests
type TeamspaceHandler struct {
	teamspaceService services.TeamspaceService
	logger           *slog.Logger
}

// NewTeamspaceHandler creates a new teamspace handler
func NewTeamspaceHandler(teamspaceService services.TeamspaceService, logger *slog.Logger) *TeamspaceHandler {
	return &TeamspaceHandler{
		teamspaceService: teamspaceService,
		logger:           logger,
	}
}

// CreateTeamspace creates a new teamspace
// POST /api/teamspaces
func (h *TeamspaceHandler) CreateTeamspace(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTeamspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ts, err := h.teamspaceService.CreateTeamspace(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, ts)
}

// ListTeamspaces lists a client's teamspaces
// GET /api/teamspaces?client_id=...
func (h *TeamspaceHandler) ListTeamspaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := h.teamspaceService.ListTeamspaces(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		handleError(w, err)
		return
	}
	if spaces == nil {
		spaces = []models.Teamspace{}
	}

	httputil.RespondJSON(w, http.StatusOK, spaces)
}

// GetTeamspace retrieves a teamspace by ID
// GET /api/teamspaces/{id}
func (h *TeamspaceHandler) GetTeamspace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "teamspace ID is required")
		return
	}

	ts, err := h.teamspaceService.GetTeamspace(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ts)
}

// UpdateTeamspace renames a teamspace or updates its training state
// PATCH /api/teamspaces/{id}
func (h *TeamspaceHandler) UpdateTeamspace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "teamspace ID is required")
		return
	}

	var req services.UpdateTeamspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ts, err := h.teamspaceService.UpdateTeamspace(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ts)
}

// DeleteTeamspace removes a teamspace
// DELETE /api/teamspaces/{id}
func (h *TeamspaceHandler) DeleteTeamspace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "teamspace ID is required")
		return
	}

	if err := h.teamspaceService.DeleteTeamspace(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
