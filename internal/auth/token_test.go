package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtama101/customer-support-dashboard/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager("test-secret", 15)
	agent := &domain.Agent{ID: "agent-1", TeamID: "team-1", Role: domain.AgentRoleAdmin}

	token, expiresAt, err := tm.GenerateToken(agent)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.AgentID)
	assert.Equal(t, "team-1", claims.TeamID)
	assert.Equal(t, domain.AgentRoleAdmin, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	tm := NewTokenManager("secret-a", 15)
	other := NewTokenManager("secret-b", 15)

	token, _, err := tm.GenerateToken(&domain.Agent{ID: "agent-1"})
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
