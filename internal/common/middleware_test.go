package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("42", "Ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "labtrack", claims.Issuer)
}

func TestTokenUsesSecretSetAfterStartup(t *testing.T) {
	// The signing key must be read when tokens are issued, not at package
	// init, so a secret loaded from .env still takes effect.
	t.Setenv("JWT_SECRET", "late-loaded-secret")

	token, err := GenerateToken("42", "Ada")
	require.NoError(t, err)

	claims, err := ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)

	// A token signed under one secret is rejected once the secret changes.
	t.Setenv("JWT_SECRET", "rotated-secret")
	_, err = ValidToken(token)
	assert.Error(t, err)
}

func TestValidToken_Garbage(t *testing.T) {
	_, err := ValidToken("not.a.token")
	assert.Error(t, err)

	_, err = ValidToken("")
	assert.Error(t, err)
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ActorFromContext(ctx))

	actor := &Actor{ID: "42", Name: "Ada"}
	ctx = WithActor(ctx, actor)
	assert.Equal(t, actor, ActorFromContext(ctx))
}

func captureActor(t *testing.T, authorization string) *Actor {
	t.Helper()
	var captured *Actor
	handler := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return captured
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := GenerateToken("7", "Grace")
	require.NoError(t, err)

	actor := captureActor(t, "Bearer "+token)
	require.NotNil(t, actor)
	assert.Equal(t, "7", actor.ID)
	assert.Equal(t, "Grace", actor.Name)
}

func TestAuthMiddleware_NeverRejects(t *testing.T) {
	// Anonymous, malformed header, and invalid token all pass through with
	// no actor in context.
	assert.Nil(t, captureActor(t, ""))
	assert.Nil(t, captureActor(t, "Basic dXNlcjpwYXNz"))
	assert.Nil(t, captureActor(t, "Bearer"))
	assert.Nil(t, captureActor(t, "Bearer bogus.token.value"))
}
