package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the /api group.
func (h *Handler) Register(api *gin.RouterGroup) {
	projects := api.Group("/projects")
	projects.POST("", h.create)
	projects.GET("/:id", h.get)
	projects.PUT("/:id", h.update)

	api.POST("/project/submit", h.submit)
}
