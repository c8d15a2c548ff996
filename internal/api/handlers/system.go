package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type SystemHandler struct {
	svc *service.CheckService
}

func NewSystemHandler(svc *service.CheckService) *SystemHandler {
	return &SystemHandler{svc: svc}
}

type createSystemRequest struct {
	Name string `json:"name"`
	// Source is the raw .lts text: one `src action tgt` triple per line.
	Source string `json:"source"`
}

type createSystemResponse struct {
	*domain.System
	Warnings []service.ParseWarning `json:"warnings,omitempty"`
}

func (h *SystemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSystemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sys, warnings, err := h.svc.UploadSystem(r.Context(), req.Name, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSystemNameMissing):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNoValidRecords):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create system")
		}
		return
	}

	writeJSON(w, http.StatusCreated, createSystemResponse{System: sys, Warnings: warnings})
}

func (h *SystemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	sys, err := h.svc.GetSystem(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get system")
		return
	}

	writeJSON(w, http.StatusOK, sys)
}

func (h *SystemHandler) List(w http.ResponseWriter, r *http.Request) {
	systems, err := h.svc.ListSystems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list systems")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"systems": systems})
}

func (h *SystemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	if err := h.svc.DeleteSystem(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete system")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Quotient returns the bisimulation equivalence classes of one stored system.
func (h *SystemHandler) Quotient(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid system id")
		return
	}

	blocks, err := h.svc.Quotient(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSystemNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to compute quotient")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"system_id":   id,
		"block_count": len(blocks),
		"blocks":      blocks,
	})
}
