package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authcheck-api/internal/application/guild"
	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/pkg/validate"
)

// SettingsHandler serves the admin dashboard's guild-settings endpoints.
type SettingsHandler struct {
	svc guild.Service
}

func NewSettingsHandler(svc guild.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")
	cfg, err := h.svc.Resolve(r.Context(), guildID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingsEnvelope{Settings: cfg})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildID")

	var req domain.UpdateGuildConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, err := h.svc.Update(r.Context(), guildID, req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingsEnvelope{Settings: cfg})
}
