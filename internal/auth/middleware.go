package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/TheSushanthVarma/drm-system-sub000/internal/workflow"
)

const actorKey = "auth.actor"

// Claims is the token payload issued by the identity provider. The backend
// only consumes tokens, it never mints them.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Middleware authenticates requests with a Bearer token and places the
// resulting workflow actor on the gin context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated actor holds one of
// the given roles. Must run after Middleware.
func RequireRole(roles ...workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// ActorFrom returns the authenticated actor placed on the context by
// Middleware.
func ActorFrom(c *gin.Context) (workflow.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return workflow.Actor{}, false
	}
	actor, ok := value.(workflow.Actor)
	return actor, ok
}

// ParseToken validates a raw token string and extracts the actor. Exposed
// separately so the websocket upgrade path can authenticate too.
func ParseToken(raw, secret string) (workflow.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return workflow.Actor{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return workflow.Actor{}, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return workflow.Actor{}, fmt.Errorf("invalid token subject: %w", err)
	}
	role := workflow.Role(claims.Role)
	if !role.Valid() {
		return workflow.Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return workflow.Actor{ID: id, Role: role}, nil
}

func actorFromHeader(header, secret string) (workflow.Actor, error) {
	if header == "" {
		return workflow.Actor{}, fmt.Errorf("authorization header required")
	}
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return workflow.Actor{}, fmt.Errorf("authorization header must be a bearer token")
	}
	return ParseToken(raw, secret)
}
