package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/brief"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

type Exporter interface {
	Export(ctx context.Context, data projects.ProjectData) (*brief.Bundle, error)
}

type Handler struct {
	exporter Exporter
	log      *logger.Logger
}

func New(exporter Exporter, log *logger.Logger) *Handler {
	return &Handler{exporter: exporter, log: log}
}

func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/brief/export", h.export)
}

func (h *Handler) export(c *gin.Context) {
	var data projects.ProjectData
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BindError(c, err)
		return
	}

	bundle, err := h.exporter.Export(context.WithoutCancel(c.Request.Context()), data)
	if err != nil {
		h.log.Error("brief export failed", "business", data.Business.Name, "error", err)
		respond.Error(c, http.StatusInternalServerError, "The brief could not be generated. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "brief": bundle})
}
