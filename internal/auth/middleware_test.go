package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject, role string, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	})
	raw, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return raw
}

func TestParseToken(t *testing.T) {
	id := uuid.New()
	raw := signToken(t, id.String(), "designer", time.Now().Add(time.Hour))

	actor, err := ParseToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, workflow.RoleDesigner, actor.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	raw := signToken(t, uuid.New().String(), "admin", time.Now().Add(-time.Hour))

	_, err := ParseToken(raw, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	raw := signToken(t, uuid.New().String(), "admin", time.Now().Add(time.Hour))

	_, err := ParseToken(raw, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsUnknownRole(t *testing.T) {
	raw := signToken(t, uuid.New().String(), "superuser", time.Now().Add(time.Hour))

	_, err := ParseToken(raw, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsBadSubject(t *testing.T) {
	raw := signToken(t, "not-a-uuid", "requester", time.Now().Add(time.Hour))

	_, err := ParseToken(raw, testSecret)
	assert.Error(t, err)
}
