package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing Authorization header",
			})
			return
		}

		accountID, ok := parseBearer(jwtManager, header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
			})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// OptionalAuth records the account when a valid token is present and otherwise lets the
// request through anonymously. Read-only registry and ledger routes use it.
func OptionalAuth(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if accountID, ok := parseBearer(jwtManager, header); ok {
				c.Set(accountIDKey, accountID)
			}
		}
		c.Next()
	}
}

func parseBearer(jwtManager *JWTManager, header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	claims, err := jwtManager.ParseAndValidate(parts[1])
	if err != nil {
		return "", false
	}
	return claims.Subject, true
}
