package handler

import (
	"encoding/json"
	"net/http"

	"github.com/authcheck-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// AuthEnvelope wraps admin login responses.
type AuthEnvelope struct {
	Bearer  string `json:"Bearer,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerificationEnvelope wraps verification-start responses.
type VerificationEnvelope struct {
	VerifyURL string `json:"verify_url,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LinkEnvelope wraps verification-status lookups.
type LinkEnvelope struct {
	Verified bool                 `json:"verified"`
	Link     *domain.VerifiedLink `json:"link,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ReportEnvelope wraps background-check responses.
type ReportEnvelope struct {
	Report *domain.CheckReport `json:"report,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// SettingsEnvelope wraps guild settings responses.
type SettingsEnvelope struct {
	Settings *domain.GuildConfig `json:"settings,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
