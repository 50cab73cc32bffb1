package http

import (
	"time"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
	"github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/projects/service"
)

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
	log *logger.Logger
}

func New(svc *service.ProjectService, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type submitReq struct {
	ProjectID string `json:"projectId"`
	domain.ProjectData
}

type submitResp struct {
	Success     bool      `json:"success"`
	ProjectID   string    `json:"projectId"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}
