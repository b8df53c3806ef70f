// Package gate decides whether a session may view a navigation destination
// and where to send it otherwise. It is pure: evaluation never mutates
// session state, so it is safe to re-run on every session or profile change.
package gate

import "strings"

// Navigation surface.
const (
	RootPath    = "/"
	LoginPath   = "/login"
	PatientHome = "/patient-dashboard"
	AdminHome   = "/admin-dashboard"
)

// SessionState is a snapshot of the auth subsystem at evaluation time.
type SessionState struct {
	// Loading is true while the session or profile fetch is in flight.
	// No admission decision is made until it clears.
	Loading       bool
	Authenticated bool
	// Role is empty when the profile lookup failed or returned nothing;
	// an empty role falls through to the root redirect.
	Role string
}

// Rule describes the admission requirements for one route.
type Rule struct {
	RequiresAuth bool
	// PublicOnly routes (login, register) bounce authenticated sessions
	// to their role home.
	PublicOnly bool
	// Roles restricts admission when non-empty.
	Roles []string
	// AdminArea marks routes whose role check is subject to the
	// EnforceRole toggle.
	AdminArea bool
}

// Action is the outcome kind of an evaluation.
type Action int

const (
	// Wait renders a neutral view while the session is still loading.
	Wait Action = iota
	Allow
	Redirect
)

// Decision is the outcome of evaluating one navigation attempt.
type Decision struct {
	Action Action
	// Target is the redirect destination when Action == Redirect.
	Target string
}

// HomeFor maps a role to its landing route. Staff-like roles share the
// admin dashboard; anything unrecognized lands at the root.
func HomeFor(role string) string {
	switch role {
	case "patient":
		return PatientHome
	case "admin", "hospital", "doctor":
		return AdminHome
	default:
		return RootPath
	}
}

// Gate evaluates route admission against a fixed rule table.
type Gate struct {
	// EnforceRole controls the admin-area role check. When false any
	// authenticated session is admitted to admin routes; default true.
	enforceRole bool
	rules       map[string]Rule
}

// New builds a gate over the application's navigation surface.
func New(enforceRole bool) *Gate {
	adminRule := Rule{RequiresAuth: true, Roles: []string{"admin", "hospital", "doctor"}, AdminArea: true}
	patientRule := Rule{RequiresAuth: true, Roles: []string{"patient"}}

	return &Gate{
		enforceRole: enforceRole,
		rules: map[string]Rule{
			RootPath:                    {},
			LoginPath:                   {PublicOnly: true},
			"/register":                 {PublicOnly: true},
			AdminHome:                   adminRule,
			"/admin/doctors":            adminRule,
			"/admin/appointments":       adminRule,
			"/admin/prescriptions":      adminRule,
			PatientHome:                 patientRule,
			"/patient/find-doctor":      patientRule,
			"/patient/appointments":     patientRule,
			"/patient/appointments/new": patientRule,
			"/patient/prescriptions":    patientRule,
		},
	}
}

// Evaluate decides admission for a navigation attempt. It must be re-run
// whenever the session state changes; a Wait decision means "decide again
// later", never "allowed".
func (g *Gate) Evaluate(path string, s SessionState) Decision {
	rule := g.ruleFor(path)

	if s.Loading {
		return Decision{Action: Wait}
	}

	if rule.RequiresAuth && !s.Authenticated {
		return Decision{Action: Redirect, Target: LoginPath}
	}

	if rule.PublicOnly && s.Authenticated {
		return Decision{Action: Redirect, Target: HomeFor(s.Role)}
	}

	if len(rule.Roles) > 0 && s.Authenticated && !roleAllowed(rule.Roles, s.Role) {
		if rule.AdminArea && !g.enforceRole {
			return Decision{Action: Allow}
		}
		return Decision{Action: Redirect, Target: HomeFor(s.Role)}
	}

	return Decision{Action: Allow}
}

func (g *Gate) ruleFor(path string) Rule {
	if rule, ok := g.rules[path]; ok {
		return rule
	}
	// Nested admin/patient paths inherit their area's rule.
	switch {
	case strings.HasPrefix(path, "/admin/") || path == AdminHome:
		return g.rules[AdminHome]
	case strings.HasPrefix(path, "/patient/") || path == PatientHome:
		return g.rules[PatientHome]
	}
	// Unknown routes are admitted; the 404 handler owns them.
	return Rule{}
}

func roleAllowed(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
