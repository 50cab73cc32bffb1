package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrInvalidStep     = errors.New("invalid step")
	ErrStepIncomplete  = errors.New("current step is not complete")
	ErrStepLocked      = errors.New("step is not reachable yet")
	ErrRequiredPage    = errors.New("required pages cannot be removed")
	ErrPageNotFound    = errors.New("page not found")
	ErrInvalidPage     = errors.New("page name is required")
	ErrLogoNotFound    = errors.New("logo not found among candidates")
	ErrInvalidDecision = errors.New("logo decision must be final or direction")
)

// Step identifies one page of the wizard. Steps are numbered from 1.
type Step int

const (
	StepContact Step = iota + 1
	StepBusiness
	StepLogo
	StepSiteType
	StepSitemap
	StepContentPreferences
	StepCopy
	StepDesign
	StepIntegrations
	StepMembership
	StepReview
)

const (
	FirstStep = StepContact
	LastStep  = StepReview
	StepCount = int(LastStep)
)

var stepNames = [StepCount]string{
	"Contact",
	"Business",
	"Logo",
	"Site Type",
	"Sitemap",
	"Content Preferences",
	"Copy",
	"Design",
	"Integrations",
	"Membership",
	"Review",
}

func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return stepNames[s-1]
}

// Steps lists every step in wizard order.
func Steps() []Step {
	out := make([]Step, 0, StepCount)
	for s := FirstStep; s <= LastStep; s++ {
		out = append(out, s)
	}
	return out
}
