package handler

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/authcheck-api/internal/application/reconcile"
	"github.com/authcheck-api/internal/application/verify"
	"github.com/authcheck-api/internal/domain"
)

// CallbackHandler terminates the provider's OAuth redirect. The response is a
// human-facing HTML page, not JSON — the requester lands here in a browser.
type CallbackHandler struct {
	verifySvc    verify.Service
	reconcileSvc reconcile.Service
}

func NewCallbackHandler(verifySvc verify.Service, reconcileSvc reconcile.Service) *CallbackHandler {
	return &CallbackHandler{verifySvc: verifySvc, reconcileSvc: reconcileSvc}
}

func (h *CallbackHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writePage(w, http.StatusBadRequest, "Verification Failed", "Missing code or state parameter.")
		return
	}

	result, err := h.verifySvc.HandleCallback(r.Context(), code, state)
	if err != nil {
		status, msg := callbackFailure(err)
		writePage(w, status, "Verification Failed", msg)
		return
	}

	// Grant the role now rather than waiting for the next check command.
	// Failures here are user-recoverable; the link itself is already committed.
	if h.reconcileSvc != nil {
		outcome, rerr := h.reconcileSvc.Reconcile(r.Context(), result.RequesterID, result.GuildID)
		if rerr != nil || outcome == domain.OutcomeGrantFailed {
			slog.Warn("post-callback role grant did not complete",
				"requester_id", result.RequesterID, "outcome", outcome, "err", rerr)
		}
	}

	writePage(w, http.StatusOK, "Verification Complete",
		fmt.Sprintf("You are now verified as <b>%s</b>. You can close this tab and return to the server.",
			html.EscapeString(result.ProviderHandle)))
}

func callbackFailure(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return http.StatusBadRequest, "Invalid or expired verification session. Run the verify command again to get a fresh link."
	case errors.Is(err, domain.ErrAuthFailed):
		return http.StatusBadRequest, "The identity provider rejected the sign-in. Run the verify command again."
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "That account is already linked to a different user."
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusBadRequest, "Failed to get user info from the identity provider. Try again in a few minutes."
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusInternalServerError, "Verification is not configured on this server."
	default:
		return http.StatusInternalServerError, "Something went wrong. Try again later."
	}
}

func writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 10%%">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, title, title, body)
}
