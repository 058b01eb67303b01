package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/authcheck-api/internal/application/reconcile"
	"github.com/authcheck-api/internal/application/verify"
	"github.com/authcheck-api/internal/domain"
	"github.com/authcheck-api/internal/pkg/validate"
)

// VerificationHandler serves the gateway-facing verification endpoints.
type VerificationHandler struct {
	svc          verify.Service
	reconcileSvc reconcile.Service
}

func NewVerificationHandler(svc verify.Service, reconcileSvc reconcile.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc, reconcileSvc: reconcileSvc}
}

// StartVerificationRequest is the gateway's verify-command payload.
type StartVerificationRequest struct {
	RequesterID string `json:"requester_id" validate:"required"`
	GuildID     string `json:"guild_id" validate:"required"`
}

// Start is re-entrant: an already-verified requester gets their role
// reconciled and no new authorization URL. Only a NotVerified outcome opens a
// fresh pending attempt.
func (h *VerificationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.reconcileSvc.Reconcile(r.Context(), req.RequesterID, req.GuildID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if outcome != domain.OutcomeNotVerified {
		writeJSON(w, http.StatusOK, VerificationEnvelope{
			Message: "already verified (role " + string(outcome) + ")",
		})
		return
	}

	verifyURL, err := h.svc.StartVerification(r.Context(), req.RequesterID, req.GuildID)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "verification is not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, VerificationEnvelope{VerifyURL: verifyURL})
}

func (h *VerificationHandler) Status(w http.ResponseWriter, r *http.Request) {
	requesterID := chi.URLParam(r, "requesterID")
	if requesterID == "" {
		writeError(w, http.StatusBadRequest, "requesterID required")
		return
	}

	link, err := h.svc.Link(r.Context(), requesterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, LinkEnvelope{Verified: false})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, LinkEnvelope{Verified: true, Link: link})
}
