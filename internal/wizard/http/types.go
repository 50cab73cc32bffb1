package http

import (
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/service"
)

type Handler struct {
	svc *service.WizardService
	log *logger.Logger
}

func New(svc *service.WizardService, log *logger.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type addPageReq struct {
	Name string `json:"name" binding:"required"`
}

type selectLogoReq struct {
	LogoID   string                `json:"logoId" binding:"required"`
	Decision projects.LogoDecision `json:"decision" binding:"required"`
}

type regenerateReq struct {
	PageDirection string `json:"pageDirection"`
}

type editContentReq struct {
	Content string `json:"content"`
}

type stepView struct {
	ID        domain.Step `json:"id"`
	Name      string      `json:"name"`
	Complete  bool        `json:"complete"`
	Completed bool        `json:"completed"`
}

// sessionView is a session plus what the UI needs to render navigation.
type sessionView struct {
	domain.State
	Steps      []stepView `json:"steps"`
	CanAdvance bool       `json:"canAdvance"`
}

func viewOf(st domain.State) sessionView {
	steps := make([]stepView, 0, domain.StepCount)
	for _, s := range domain.Steps() {
		steps = append(steps, stepView{
			ID:        s,
			Name:      s.String(),
			Complete:  domain.IsStepComplete(st, s),
			Completed: st.IsCompleted(s),
		})
	}
	return sessionView{State: st, Steps: steps, CanAdvance: st.CanAdvance()}
}
