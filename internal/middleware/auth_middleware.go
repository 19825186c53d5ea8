package middleware

import (
	"net/http"
	"strings"

	"github.com/Baaaki/backyard-marquee/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const claimsKey = "claims"

// RequireAuth rejects requests without a valid bearer token.
// A missing token is 401; a token that fails verification is 403.
func RequireAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is sent and ignores anything else.
func OptionalAuth(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if claims, err := tokens.Parse(tokenString); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// CurrentClaims returns the verified claims stored by the auth middleware.
func CurrentClaims(c *gin.Context) (*security.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*security.Claims)
	return claims, ok
}

// CurrentUserID returns uuid.Nil for anonymous requests.
func CurrentUserID(c *gin.Context) uuid.UUID {
	if claims, ok := CurrentClaims(c); ok {
		return claims.UserID
	}
	return uuid.Nil
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
