package domain

import (
	"strings"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

const minPages = 2

// IsStepComplete reports whether the data a step collects is sufficient to
// leave it. It reads only the fields that step owns.
func IsStepComplete(s State, step Step) bool {
	d := s.Data
	switch step {
	case StepContact:
		return notBlank(d.Contact.Name) && projects.ValidEmail(d.Contact.Email)
	case StepBusiness:
		return notBlank(d.Business.Name) && notBlank(d.Business.Description) && d.Business.HasExistingName != nil
	case StepLogo:
		switch d.Logo.Choice {
		case projects.LogoChoiceUpload:
			return d.Logo.Uploaded != nil
		case projects.LogoChoiceGenerate:
			return d.Logo.Selected != nil
		case projects.LogoChoiceLater:
			return true
		}
		return false
	case StepSiteType:
		return notBlank(d.SiteType)
	case StepSitemap:
		return len(d.Pages) >= minPages
	case StepContentPreferences:
		return notBlank(d.ContentPreferences.Style) && notBlank(d.ContentPreferences.Tone)
	case StepCopy:
		return len(d.GeneratedContent) > 0
	case StepDesign:
		// every design field is optional
		return true
	case StepIntegrations:
		return d.Integrations.Validate() == nil
	case StepMembership:
		return !d.Membership.Enabled || len(d.Membership.Roles) > 0
	case StepReview:
		for st := FirstStep; st < StepReview; st++ {
			if !IsStepComplete(s, st) {
				return false
			}
		}
		return true
	}
	return false
}

func notBlank(v string) bool {
	return strings.TrimSpace(v) != ""
}
