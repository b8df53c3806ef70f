package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-platform/internal/identity"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue("user-1", identity.RoleAdmin)
	require.NoError(t, err)

	id, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, identity.RoleAdmin, id.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("secret-a", time.Hour).Issue("user-1", identity.RolePatient)
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issuer.ttl = -time.Minute

	raw, err := issuer.Issue("user-1", identity.RolePatient)
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	assert.Panics(t, func() { NewTokenIssuer("", time.Hour) })
}
