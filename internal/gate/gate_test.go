package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_UnauthenticatedToProtectedRoute(t *testing.T) {
	g := New(true)

	for _, path := range []string{"/patient-dashboard", "/patient/appointments/new", "/admin-dashboard", "/admin/doctors"} {
		d := g.Evaluate(path, SessionState{Authenticated: false})
		assert.Equal(t, Redirect, d.Action, path)
		assert.Equal(t, LoginPath, d.Target, path)
	}
}

func TestEvaluate_AuthenticatedOnPublicOnlyRoute(t *testing.T) {
	g := New(true)

	d := g.Evaluate("/login", SessionState{Authenticated: true, Role: "patient"})
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, PatientHome, d.Target)

	d = g.Evaluate("/register", SessionState{Authenticated: true, Role: "admin"})
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, AdminHome, d.Target)
}

func TestEvaluate_RoleMismatchRedirectsHome(t *testing.T) {
	g := New(true)

	// Admin on a patient-only route lands on the admin dashboard.
	d := g.Evaluate("/patient/appointments", SessionState{Authenticated: true, Role: "admin"})
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, AdminHome, d.Target)

	// Patient on an admin route lands on the patient dashboard.
	d = g.Evaluate("/admin/doctors", SessionState{Authenticated: true, Role: "patient"})
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, PatientHome, d.Target)
}

func TestEvaluate_LoadingWaits(t *testing.T) {
	g := New(true)

	// A mid-refresh session must never flash protected content or bounce.
	d := g.Evaluate("/admin-dashboard", SessionState{Loading: true})
	assert.Equal(t, Wait, d.Action)
}

func TestEvaluate_MissingRoleFallsThroughToRoot(t *testing.T) {
	g := New(true)

	// Profile lookup failure: authenticated but roleless.
	d := g.Evaluate("/admin/appointments", SessionState{Authenticated: true, Role: ""})
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, RootPath, d.Target)
}

func TestEvaluate_EnforceRoleDisabledAdmitsAnyAuthenticated(t *testing.T) {
	g := New(false)

	d := g.Evaluate("/admin-dashboard", SessionState{Authenticated: true, Role: "patient"})
	assert.Equal(t, Allow, d.Action)

	// The toggle only loosens the admin area; patient routes stay strict.
	d = g.Evaluate("/patient/prescriptions", SessionState{Authenticated: true, Role: "admin"})
	assert.Equal(t, Redirect, d.Action)

	// Unauthenticated sessions are still rejected.
	d = g.Evaluate("/admin-dashboard", SessionState{})
	assert.Equal(t, Redirect, d.Action)
	assert.Equal(t, LoginPath, d.Target)
}

func TestEvaluate_MatchingRoleAllowed(t *testing.T) {
	g := New(true)

	d := g.Evaluate("/patient/find-doctor", SessionState{Authenticated: true, Role: "patient"})
	assert.Equal(t, Allow, d.Action)

	d = g.Evaluate("/admin/prescriptions", SessionState{Authenticated: true, Role: "admin"})
	assert.Equal(t, Allow, d.Action)

	// Staff-like roles share the admin area.
	d = g.Evaluate("/admin-dashboard", SessionState{Authenticated: true, Role: "doctor"})
	assert.Equal(t, Allow, d.Action)
}

func TestEvaluate_UnknownRouteAllowed(t *testing.T) {
	g := New(true)

	d := g.Evaluate("/no-such-page", SessionState{})
	assert.Equal(t, Allow, d.Action)
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, PatientHome, HomeFor("patient"))
	assert.Equal(t, AdminHome, HomeFor("admin"))
	assert.Equal(t, AdminHome, HomeFor("hospital"))
	assert.Equal(t, AdminHome, HomeFor("doctor"))
	assert.Equal(t, RootPath, HomeFor(""))
	assert.Equal(t, RootPath, HomeFor("banana"))
}
