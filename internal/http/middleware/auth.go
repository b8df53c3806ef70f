package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wolfman30/hospital-platform/internal/gate"
	"github.com/wolfman30/hospital-platform/internal/identity"
)

// TokenVerifier turns a bearer token into a caller identity.
type TokenVerifier interface {
	Verify(raw string) (identity.Identity, error)
}

// Authenticate extracts and verifies the bearer token, storing the caller
// identity in the request context. Requests without a valid token get 401.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "missing authorization header", gate.LoginPath)
				return
			}
			id, err := verifier.Verify(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid token", gate.LoginPath)
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRole gates a route subtree on the caller's role using the same
// admission rules as navigation. A 403 carries the redirect target the gate
// computed so clients can navigate the caller home.
func RequireRole(g *gate.Gate, area string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := identity.FromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "missing identity", gate.LoginPath)
				return
			}

			decision := g.Evaluate(area, gate.SessionState{
				Authenticated: true,
				Role:          string(id.Role),
			})
			if decision.Action == gate.Redirect {
				writeAuthError(w, http.StatusForbidden, "insufficient role", decision.Target)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":    msg,
		"redirect": redirect,
	})
}
