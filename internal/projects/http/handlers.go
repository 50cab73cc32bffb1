package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/auth"
	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	var data domain.ProjectData
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BindError(c, err)
		return
	}

	sub, err := h.svc.Create(c.Request.Context(), auth.UserDBID(c), data)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": sub})
}

func (h *Handler) get(c *gin.Context) {
	sub, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": sub})
}

func (h *Handler) update(c *gin.Context) {
	var patch domain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.BindError(c, err)
		return
	}

	sub, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": sub})
}

func (h *Handler) submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	sub, err := h.svc.Submit(c.Request.Context(), auth.UserDBID(c), req.ProjectID, req.ProjectData)
	if err != nil {
		if respond.Validation(c, err) {
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "project not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "We could not save your submission. Please try again.")
		return
	}

	at := time.Now().UTC()
	if sub.SubmittedAt != nil {
		at = *sub.SubmittedAt
	}
	c.JSON(http.StatusOK, submitResp{
		Success:     true,
		ProjectID:   sub.ID,
		Message:     "Project submitted successfully",
		SubmittedAt: at,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if respond.Validation(c, err) {
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "project not found")
	case errors.Is(err, domain.ErrMissingIdentity):
		respond.Error(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("project request failed", "path", c.FullPath(), "error", err)
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
