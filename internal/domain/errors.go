package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking
// upstream error bodies to end users.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	// ErrSessionExpired covers every unusable correlation token: unknown,
	// already consumed, or past its TTL. Callers must not retry automatically.
	ErrSessionExpired = errors.New("verification session expired")

	// ErrAuthFailed means the provider rejected the authorization code exchange.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrUpstreamUnavailable means a provider or platform API call failed.
	// Safe to retry manually; never interpreted as a clean result.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotConfigured means required credentials are missing. Fatal to the
	// affected operation only.
	ErrNotConfigured = errors.New("not configured")
)
