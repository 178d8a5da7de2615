package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the per-resource ledger routes. optionalAuth lets anonymous callers
// read while still identifying a signed-in guest on verify.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, optionalAuth gin.HandlerFunc) {
	group := g.Group("/resources/:name")
	{
		group.GET("/info", h.Info)                      // info
		group.GET("/availability", h.Availability)      // isAvailable
		group.GET("/bookings", h.List)                  // Ledger contents
		group.POST("/bookings", authMiddleware, h.Book) // book
		group.POST("/verify", optionalAuth, h.Verify)   // verify
	}

	me := g.Group("/me", authMiddleware)
	{
		me.GET("/bookings", h.Mine)
	}
}
