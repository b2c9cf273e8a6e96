package common

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const actorContextKey contextKey = "actor"

// AuthMiddleware parses a Bearer token and injects the caller's identity into
// the request context. It never rejects: an absent or invalid token just
// leaves the actor unset, which downstream turns into "skip audit logging".
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		// header = Bearer <token>
		parts := strings.Fields(header)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := ValidToken(parts[1])
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		actor := &Actor{ID: claims.UserID, Name: claims.Name}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext returns the authenticated caller, or nil for anonymous
// requests.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey).(*Actor)
	return actor
}
