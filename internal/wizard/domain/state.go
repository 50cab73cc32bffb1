package domain

import (
	"time"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

// State is one wizard session. It is treated as an immutable value: every
// transition returns a new State and never writes through a shared slice or map.
type State struct {
	SessionID      string                   `json:"sessionId"`
	UserID         string                   `json:"userId,omitempty"`
	ProjectID      string                   `json:"projectId,omitempty"`
	Current        Step                     `json:"currentStep"`
	Completed      [StepCount]bool          `json:"completed"`
	Data           projects.ProjectData     `json:"data"`
	PageDirections map[string]string        `json:"pageDirections,omitempty"`
	LogoCandidates []projects.GeneratedLogo `json:"logoCandidates,omitempty"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// NewState starts a session on the first step with the default sitemap.
func NewState(sessionID, userID string) State {
	return State{
		SessionID: sessionID,
		UserID:    userID,
		Current:   FirstStep,
		Data:      projects.ProjectData{Pages: DefaultPages()},
	}
}

func (s State) IsCompleted(step Step) bool {
	if !step.Valid() {
		return false
	}
	return s.Completed[step-1]
}

// CanAdvance reports whether Next would succeed.
func (s State) CanAdvance() bool {
	return s.Current < LastStep && IsStepComplete(s, s.Current)
}
