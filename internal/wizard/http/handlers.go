package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/auth"
	gendomain "github.com/studioform/onboarding-backend/internal/generation/domain"
	genhttp "github.com/studioform/onboarding-backend/internal/generation/http"
	genservice "github.com/studioform/onboarding-backend/internal/generation/service"
	"github.com/studioform/onboarding-backend/internal/wizard/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/service"
)

func (h *Handler) start(c *gin.Context) {
	st, err := h.svc.Start(c.Request.Context(), auth.UserDBID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": viewOf(st)})
}

func (h *Handler) get(c *gin.Context) {
	st, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

func (h *Handler) update(c *gin.Context) {
	var in service.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BindError(c, err)
		return
	}
	st, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	h.reply(c, st, err)
}

func (h *Handler) next(c *gin.Context) {
	st, err := h.svc.Next(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

func (h *Handler) prev(c *gin.Context) {
	st, err := h.svc.Prev(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

func (h *Handler) goTo(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "step must be a number")
		return
	}
	st, err := h.svc.GoTo(c.Request.Context(), c.Param("id"), domain.Step(n))
	h.reply(c, st, err)
}

func (h *Handler) addPage(c *gin.Context) {
	var req addPageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	st, page, err := h.svc.AddPage(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "page": page, "session": viewOf(st)})
}

func (h *Handler) removePage(c *gin.Context) {
	st, err := h.svc.RemovePage(c.Request.Context(), c.Param("id"), c.Param("pageId"))
	h.reply(c, st, err)
}

func (h *Handler) generateLogos(c *gin.Context) {
	st, err := h.svc.GenerateLogos(detached(c), c.Param("id"))
	h.reply(c, st, err)
}

func (h *Handler) selectLogo(c *gin.Context) {
	var req selectLogoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	st, err := h.svc.SelectLogo(c.Request.Context(), c.Param("id"), req.LogoID, req.Decision)
	h.reply(c, st, err)
}

func (h *Handler) generateContent(c *gin.Context) {
	st, err := h.svc.GenerateContent(detached(c), c.Param("id"))
	h.reply(c, st, err)
}

func (h *Handler) regenerateContent(c *gin.Context) {
	var req regenerateReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BindError(c, err)
			return
		}
	}
	st, err := h.svc.RegenerateContent(detached(c), c.Param("id"), c.Param("pageId"), req.PageDirection)
	h.reply(c, st, err)
}

func (h *Handler) editContent(c *gin.Context) {
	var req editContentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	st, err := h.svc.EditContent(c.Request.Context(), c.Param("id"), c.Param("pageId"), req.Content)
	h.reply(c, st, err)
}

func (h *Handler) export(c *gin.Context) {
	bundle, err := h.svc.Export(detached(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "brief": bundle})
}

// detached keeps generation and export running if the client disconnects.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (h *Handler) reply(c *gin.Context, st domain.State, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": viewOf(st)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if respond.Validation(c, err) {
		return
	}
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPageNotFound),
		errors.Is(err, domain.ErrLogoNotFound):
		respond.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStep),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrInvalidDecision):
		respond.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStepIncomplete),
		errors.Is(err, domain.ErrStepLocked),
		errors.Is(err, domain.ErrRequiredPage):
		respond.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, gendomain.ErrNoLogos),
		errors.Is(err, genservice.ErrInvalidLogoRequest):
		genhttp.LogoError(c, err)
	default:
		h.log.Error("wizard request failed", "path", c.FullPath(), "session_id", c.Param("id"), "error", err)
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
