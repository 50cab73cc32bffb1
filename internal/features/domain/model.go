package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

var ErrNotFound = errors.New("feature selection not found")

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// FeatureSelection is the feature-priority sub-form, stored per user.
type FeatureSelection struct {
	UserID           string              `json:"userId"`
	SelectedFeatures []string            `json:"selectedFeatures"`
	Priorities       map[string]Priority `json:"priorities"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// Validate reports every invalid field. The error is a
// *projects.ValidationError so handlers can answer with field errors.
func (s FeatureSelection) Validate() error {
	verr := &projects.ValidationError{}
	if strings.TrimSpace(s.UserID) == "" {
		verr.Add("userId", "is required")
	}

	selected := make(map[string]bool, len(s.SelectedFeatures))
	for i, f := range s.SelectedFeatures {
		field := fmt.Sprintf("selectedFeatures[%d]", i)
		if strings.TrimSpace(f) == "" {
			verr.Add(field, "must not be blank")
			continue
		}
		if selected[f] {
			verr.Add(field, fmt.Sprintf("feature %q selected twice", f))
		}
		selected[f] = true
	}
	for _, f := range slices.Sorted(maps.Keys(s.Priorities)) {
		field := "priorities." + f
		if !selected[f] {
			verr.Add(field, "set for an unselected feature")
		}
		if !s.Priorities[f].Valid() {
			verr.Add(field, "must be high, medium or low")
		}
	}
	return verr.Err()
}
