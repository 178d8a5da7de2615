package auth

import "github.com/gin-gonic/gin"

const accountIDKey = "accountID"

// GetAccountID returns the authenticated account id or empty string.
func GetAccountID(c *gin.Context) string {
	if v, ok := c.Get(accountIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
