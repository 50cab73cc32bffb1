package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(api *gin.RouterGroup) {
	g := api.Group("/wizard/sessions")
	g.POST("", h.start)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)

	g.POST("/:id/next", h.next)
	g.POST("/:id/prev", h.prev)
	g.POST("/:id/goto/:step", h.goTo)

	g.POST("/:id/pages", h.addPage)
	g.DELETE("/:id/pages/:pageId", h.removePage)

	g.POST("/:id/logos/generate", h.generateLogos)
	g.POST("/:id/logos/select", h.selectLogo)

	g.POST("/:id/content/generate", h.generateContent)
	g.POST("/:id/content/:pageId/regenerate", h.regenerateContent)
	g.PUT("/:id/content/:pageId", h.editContent)

	g.POST("/:id/export", h.export)
}
