package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-platform/internal/gate"
	"github.com/wolfman30/hospital-platform/internal/identity"
)

type staticVerifier struct {
	tokens map[string]identity.Identity
}

func (v staticVerifier) Verify(raw string) (identity.Identity, error) {
	id, ok := v.tokens[raw]
	if !ok {
		return identity.Identity{}, assert.AnError
	}
	return id, nil
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateValidToken(t *testing.T) {
	verifier := staticVerifier{tokens: map[string]identity.Identity{
		"good": {UserID: "user-1", Role: identity.RolePatient},
	}}

	var gotID identity.Identity
	handler := Authenticate(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = identity.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/patient/appointments", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotID.UserID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	called := false
	handler := Authenticate(staticVerifier{})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/patient/appointments", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gate.LoginPath, resp["redirect"])
}

func TestAuthenticateBadToken(t *testing.T) {
	called := false
	handler := Authenticate(staticVerifier{})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/patient/appointments", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func requestAs(role identity.Role) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin-dashboard", nil)
	ctx := identity.WithIdentity(req.Context(), identity.Identity{UserID: "user-1", Role: role})
	return req.WithContext(ctx)
}

func TestRequireRoleAdmits(t *testing.T) {
	called := false
	handler := RequireRole(gate.New(true), gate.AdminHome)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireRoleForbidsWithRedirect(t *testing.T) {
	called := false
	handler := RequireRole(gate.New(true), gate.AdminHome)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.RolePatient))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, gate.PatientHome, resp["redirect"], "403 carries the caller's home")
}

func TestRequireRoleEnforceDisabled(t *testing.T) {
	called := false
	handler := RequireRole(gate.New(false), gate.AdminHome)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.RolePatient))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called, "role check bypassed when enforcement is off")
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	called := false
	handler := RequireRole(gate.New(true), gate.AdminHome)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/admin-dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "burst exhausted")
	assert.True(t, rl.Allow("10.0.0.2"), "limits are per IP")
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Real-Ip", "10.0.0.9")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
