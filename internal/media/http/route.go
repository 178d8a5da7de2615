package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers image routes. Images are public once uploaded.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/images")

	group.POST("", authMiddleware, h.Upload)
	group.GET("/:id", h.Serve)
	group.GET("/:id/thumbnail", h.ServeThumbnail)
	group.DELETE("/:id", authMiddleware, h.Delete)
}
