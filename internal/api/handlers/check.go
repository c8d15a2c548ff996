package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CheckHandler struct {
	svc *service.CheckService
}

func NewCheckHandler(svc *service.CheckService) *CheckHandler {
	return &CheckHandler{svc: svc}
}

type createCheckRequest struct {
	LeftID  string `json:"left_id"`
	RightID string `json:"right_id"`
}

func (h *CheckHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	leftID, err := uuid.Parse(req.LeftID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid left_id")
		return
	}
	rightID, err := uuid.Parse(req.RightID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid right_id")
		return
	}

	run, err := h.svc.Run(r.Context(), leftID, rightID)
	if err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to run check")
		return
	}

	writeJSON(w, http.StatusCreated, run)
}

func (h *CheckHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid check id")
		return
	}

	run, err := h.svc.GetCheck(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCheckNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get check")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (h *CheckHandler) List(w http.ResponseWriter, r *http.Request) {
	systemID, err := uuid.Parse(r.URL.Query().Get("system_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "system_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	runs, err := h.svc.ListChecks(r.Context(), systemID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list checks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"checks": runs})
}
