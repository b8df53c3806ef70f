package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !cfg.EnforceAdminRole {
		t.Error("EnforceAdminRole should default to true")
	}
	if !cfg.RequireBookingReason {
		t.Error("RequireBookingReason should default to true")
	}
	if cfg.AccessTokenTTL != 24*time.Hour {
		t.Errorf("AccessTokenTTL = %s, want 24h", cfg.AccessTokenTTL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("CORSAllowedOrigins = %v, want nil", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENFORCE_ADMIN_ROLE", "false")
	t.Setenv("ACCESS_TOKEN_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")

	cfg := Load()

	if cfg.EnforceAdminRole {
		t.Error("EnforceAdminRole should be false")
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("AccessTokenTTL = %s, want 1h", cfg.AccessTokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.example.com" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.AuthRateLimit != 2.5 {
		t.Errorf("AuthRateLimit = %v, want 2.5", cfg.AuthRateLimit)
	}
}
