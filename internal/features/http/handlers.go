package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/features/domain"
	"github.com/studioform/onboarding-backend/internal/features/service"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
)

type Handler struct {
	svc *service.FeatureService
	log *logger.Logger
}

func New(svc *service.FeatureService, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register attaches feature-selection routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:userId", h.get)
	rg.POST("", h.create)
	rg.PUT("/:userId", h.update)
}

type selectionReq struct {
	UserID           string                     `json:"userId"`
	SelectedFeatures []string                   `json:"selectedFeatures"`
	Priorities       map[string]domain.Priority `json:"priorities"`
	Notes            string                     `json:"notes"`
}

func (r selectionReq) toDomain() domain.FeatureSelection {
	return domain.FeatureSelection{
		UserID:           strings.TrimSpace(r.UserID),
		SelectedFeatures: r.SelectedFeatures,
		Priorities:       r.Priorities,
		Notes:            r.Notes,
	}
}

func (h *Handler) get(c *gin.Context) {
	sel, err := h.svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "selection": sel})
}

func (h *Handler) create(c *gin.Context) {
	var req selectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	sel, err := h.svc.Save(c.Request.Context(), req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "selection": sel})
}

func (h *Handler) update(c *gin.Context) {
	var req selectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	req.UserID = c.Param("userId")

	sel, err := h.svc.Update(c.Request.Context(), req.toDomain())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "selection": sel})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if respond.Validation(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalid):
		respond.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "feature selection not found")
	default:
		h.log.Error("feature selection request failed", "error", err)
		respond.Error(c, http.StatusInternalServerError, "internal error")
	}
}
