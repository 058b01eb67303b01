package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/authcheck-api/internal/application/guild"
	"github.com/authcheck-api/internal/domain"
	jwtinfra "github.com/authcheck-api/internal/infrastructure/jwt"
	"github.com/authcheck-api/internal/pkg/validate"
)

// AdminHandler serves dashboard login and credential management.
type AdminHandler struct {
	passwordHash string
	jwtProvider  *jwtinfra.Provider
	guildSvc     guild.Service
}

func NewAdminHandler(passwordHash string, jwtProvider *jwtinfra.Provider, guildSvc guild.Service) *AdminHandler {
	return &AdminHandler{passwordHash: passwordHash, jwtProvider: jwtProvider, guildSvc: guildSvc}
}

// LoginRequest is the dashboard login payload.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.passwordHash == "" || h.jwtProvider == nil {
		writeError(w, http.StatusServiceUnavailable, "admin dashboard is not configured")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	bearer, err := h.jwtProvider.Sign(jwtinfra.RoleAdmin)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Bearer: bearer})
}

// UpdateCredentialsRequest carries new provider/bot credentials. Omitted
// fields keep their stored value, so secrets can be rotated one at a time.
type UpdateCredentialsRequest struct {
	BotToken             *string `json:"bot_token"`
	ProviderClientID     *string `json:"provider_client_id"`
	ProviderClientSecret *string `json:"provider_client_secret"`
	ProviderRedirectURI  *string `json:"provider_redirect_uri" validate:"omitempty,url"`
}

func (h *AdminHandler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req UpdateCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	creds := &domain.BotCredentials{UpdatedAt: time.Now().UTC()}
	if req.BotToken != nil {
		creds.BotToken = *req.BotToken
	}
	if req.ProviderClientID != nil {
		creds.ProviderClientID = *req.ProviderClientID
	}
	if req.ProviderClientSecret != nil {
		creds.ProviderClientSecret = *req.ProviderClientSecret
	}
	if req.ProviderRedirectURI != nil {
		creds.ProviderRedirectURI = *req.ProviderRedirectURI
	}

	if err := h.guildSvc.SaveCredentials(r.Context(), creds); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "credentials updated"})
}
