package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/models"
	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// ByteHandler handles byte HTTP requests
type ByteHandler struct {
	byteService services.ByteService
	logger      *slog.Logger
}

// NewByteHandler creates a new byte handler
func NewByteHandler(byteService services.ByteService, logger *slog.Logger) *ByteHandler {
	return &ByteHandler{
		byteService: byteService,
		logger:      logger,
	}
}

// CreateByte submits a new change request
// POST /api/bytes
func (h *ByteHandler) CreateByte(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.CreateByteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = userID

	b, err := h.byteService.CreateByte(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, b)
}

// ListBytes lists bytes for a client, or for a single user with ?user_id=
// GET /api/bytes?client_id=...&user_id=...
func (h *ByteHandler) ListBytes(w http.ResponseWriter, r *http.Request) {
	req := services.ListBytesRequest{
		ClientID: r.URL.Query().Get("client_id"),
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		req.UserID = &userID
	}

	bytes, err := h.byteService.ListBytes(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	if bytes == nil {
		bytes = []models.Byte{}
	}

	httputil.RespondJSON(w, http.StatusOK, bytes)
}

// GetByte retrieves a byte by ID
// GET /api/bytes/{id}
func (h *ByteHandler) GetByte(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "byte ID is required")
		return
	}

	b, err := h.byteService.GetByte(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, b)
}

// updateByteRequest carries the PATCH fields. user_feedback uses
// tri-state semantics: absent leaves it alone, null clears it.
type updateByteRequest struct {
	Status       *string                 `json:"status,omitempty"`
	UserFeedback httputil.OptionalString `json:"user_feedback"`
}

// UpdateByte resolves a byte or records feedback
// PATCH /api/bytes/{id}
func (h *ByteHandler) UpdateByte(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "byte ID is required")
		return
	}

	var req updateByteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var b *models.Byte
	var err error
	if req.Status != nil {
		b, err = h.byteService.ResolveByte(r.Context(), id, *req.Status)
		if err != nil {
			handleError(w, err)
			return
		}
	}
	if req.UserFeedback.Present {
		b, err = h.byteService.SetUserFeedback(r.Context(), id, req.UserFeedback.Value)
		if err != nil {
			handleError(w, err)
			return
		}
	}

	if b == nil {
		httputil.RespondError(w, http.StatusBadRequest, "no updatable fields provided")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, b)
}

// DeleteByte soft-deletes a byte
// DELETE /api/bytes/{id}
func (h *ByteHandler) DeleteByte(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "byte ID is required")
		return
	}

	if err := h.byteService.DeleteByte(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetRecommendations lists a byte's unresolved recommendations grouped
// by document
// GET /api/bytes/{id}/recommendations
func (h *ByteHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "byte ID is required")
		return
	}

	groups, err := h.byteService.GetRecommendations(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, groups)
}
