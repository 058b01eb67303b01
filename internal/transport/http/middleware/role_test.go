package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	jwtinfra "github.com/authcheck-api/internal/infrastructure/jwt"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &jwtinfra.Claims{Role: role}
	return req.WithContext(context.WithValue(req.Context(), ClaimsKey, claims))
}

func TestRequireRole_Allowed(t *testing.T) {
	handler := RequireRole(jwtinfra.RoleAdmin)(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRole(jwtinfra.RoleAdmin))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	handler := RequireRole(jwtinfra.RoleAdmin)(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestWithRole("viewer"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireRole_NoClaims(t *testing.T) {
	handler := RequireRole(jwtinfra.RoleAdmin)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
