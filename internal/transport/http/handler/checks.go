package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authcheck-api/internal/application/check"
	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/pkg/validate"
)

// CheckHandler serves the gateway-facing background-check endpoint.
type CheckHandler struct {
	svc check.Service
}

func NewCheckHandler(svc check.Service) *CheckHandler {
	return &CheckHandler{svc: svc}
}

// RunCheckRequest is the gateway's check-command payload.
type RunCheckRequest struct {
	RequesterID string `json:"requester_id" validate:"required"`
	GuildID     string `json:"guild_id" validate:"required"`
}

func (h *CheckHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.svc.Check(r.Context(), req.RequesterID, req.GuildID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "user is not verified")
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			writeError(w, http.StatusBadGateway, "identity provider is unavailable")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, ReportEnvelope{Report: report})
}
