package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"greendrake/realty/internal/auth"
	"greendrake/realty/internal/models"
	"greendrake/realty/internal/services"
)

const (
	// ContextKeyUserID holds the key for user ID in Gin context.
	ContextKeyUserID = "userID"
	// ContextKeyRole holds the key for the user's role in Gin context.
	ContextKeyRole = "role"

	// SessionCookie carries the session token for browser requests.
	SessionCookie = "session"
)

// sessionToken reads the bearer token, falling back to the session cookie.
func sessionToken(c *gin.Context) (string, string) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", "Authorization header format must be Bearer {token}"
		}
		return parts[1], ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, ""
	}
	return "", "Authentication required"
}

// AuthMiddleware rejects requests without a valid session token (isAuthenticated).
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := sessionToken(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		claims, err := auth.ValidateJWT(tokenString, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID) // hex string
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// ClientMiddleware allows only the client role (isClient).
// Assumes AuthMiddleware runs first.
func ClientMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyRole)
		if !exists || role.(models.Role) != models.RoleClient {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Client account required"})
			return
		}
		c.Next()
	}
}

// ActorFromContext builds the service actor from the authenticated context.
func ActorFromContext(c *gin.Context) (services.Actor, bool) {
	rawID, ok := c.Get(ContextKeyUserID)
	if !ok {
		return services.Actor{}, false
	}
	id, err := primitive.ObjectIDFromHex(rawID.(string))
	if err != nil {
		return services.Actor{}, false
	}
	role, _ := c.Get(ContextKeyRole)
	r, _ := role.(models.Role)
	return services.Actor{ID: id, Role: r}, true
}
