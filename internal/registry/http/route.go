package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers registry and resource routes. Reads are public; minting needs a token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	reg := g.Group("/registry")
	{
		reg.GET("", h.GetRegistry)                     // Registry address, owner and fee
		reg.GET("/names/:name/available", h.CheckName) // checkNameAvailable
	}

	resources := g.Group("/resources")
	{
		resources.GET("", h.List)                    // listResources
		resources.GET("/:name", h.Get)               // Resource details
		resources.POST("", authMiddleware, h.Create) // createResource
	}
}
