package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/models"
	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// ChangeLogHandler handles change log HTTP requests
type ChangeLogHandler struct {
	logService services.ChangeLogService
	logger     *slog.Logger
}

// NewChangeLogHandler creates a new change log handler
func NewChangeLogHandler(logService services.ChangeLogService, logger *slog.Logger) *ChangeLogHandler {
	return &ChangeLogHandler{
		logService: logService,
		logger:     logger,
	}
}

// CreateChangeLog records a resolved edit and reconciles the byte
// POST /api/changelogs
func (h *ChangeLogHandler) CreateChangeLog(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.CreateChangeLogRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ChangedBy = userID

	entry, err := h.logService.CreateChangeLog(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// ListChangeLogs lists entries by document or by byte
// GET /api/changelogs?document_id=... or ?byte_id=...
func (h *ChangeLogHandler) ListChangeLogs(w http.ResponseWriter, r *http.Request) {
	documentID := r.URL.Query().Get("document_id")
	byteID := r.URL.Query().Get("byte_id")

	var entries []models.ChangeLog
	var err error
	switch {
	case documentID != "":
		entries, err = h.logService.ListByDocument(r.Context(), documentID)
	case byteID != "":
		entries, err = h.logService.ListByByte(r.Context(), byteID)
	default:
		httputil.RespondError(w, http.StatusBadRequest, "document_id or byte_id is required")
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ChangeLog{}
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}
