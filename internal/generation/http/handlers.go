package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/generation/service"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

type Handler struct {
	svc *service.Service
	log *logger.Logger
}

func New(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register attaches generation routes to the /api group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/generate-names", h.generateNames)
	api.POST("/logo/generate", h.generateLogos)
	api.POST("/content/generate", h.generateContent)
	api.POST("/content/regenerate", h.regenerateContent)
}

// detached keeps generation running when the client goes away.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (h *Handler) generateNames(c *gin.Context) {
	var req domain.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"names": h.svc.GenerateNames(detached(c), req)})
}

func (h *Handler) generateLogos(c *gin.Context) {
	var req domain.LogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	logos, err := h.svc.GenerateLogos(detached(c), req)
	if err != nil {
		LogoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logos": logos})
}

// LogoError maps a zero-success logo run onto its status code.
func LogoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidLogoRequest):
		respond.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrContentPolicy):
		respond.Error(c, http.StatusBadRequest, "The logo request was rejected by the content policy. Please adjust your description or preferences.")
	case errors.Is(err, domain.ErrQuotaExceeded):
		respond.Error(c, http.StatusServiceUnavailable, "Logo generation is temporarily unavailable. Please try again later.")
	default:
		respond.Error(c, http.StatusInternalServerError, "No logos could be generated. Please try again.")
	}
}

func (h *Handler) generateContent(c *gin.Context) {
	var req domain.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	content, err := h.svc.GenerateContent(detached(c), req)
	if err != nil {
		if respond.Validation(c, err) {
			return
		}
		h.log.Error("content generation failed", "error", err)
		respond.Error(c, http.StatusInternalServerError, "content generation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

type regenerateReq struct {
	domain.ContentRequest
	Page          projects.Page `json:"page"`
	PageDirection string        `json:"pageDirection"`
}

func (h *Handler) regenerateContent(c *gin.Context) {
	var req regenerateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	content, err := h.svc.RegenerateContent(detached(c), req.ContentRequest, req.Page, req.PageDirection)
	if err != nil {
		if respond.Validation(c, err) {
			return
		}
		respond.Error(c, http.StatusInternalServerError, "content regeneration failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}
