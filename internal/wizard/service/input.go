package service

import (
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/domain"
)

// Input is a partial update of a session. Nil sections are left untouched.
// Pages and generated content have their own operations.
type Input struct {
	projects.Patch
	PageDirections map[string]string `json:"pageDirections,omitempty"`
}

func (in Input) Validate() error {
	verr := &projects.ValidationError{}
	if in.Pages != nil {
		verr.Add("pages", "use the page endpoints to change the sitemap")
	}
	if in.GeneratedContent != nil {
		verr.Add("generatedContent", "use the content endpoints to change copy")
	}
	if err := verr.Err(); err != nil {
		return err
	}
	return projects.ValidatePatch(in.Patch)
}

func (in Input) apply(st domain.State) (domain.State, error) {
	if in.Contact != nil {
		st = domain.WithContact(st, *in.Contact)
	}
	if in.Business != nil {
		st = domain.WithBusiness(st, *in.Business)
	}
	if in.Logo != nil {
		st = domain.WithLogo(st, *in.Logo)
	}
	if in.SiteType != nil {
		st = domain.WithSiteType(st, *in.SiteType)
	}
	if in.ContentPreferences != nil {
		st = domain.WithContentPreferences(st, *in.ContentPreferences)
	}
	if in.ImageRequirements != nil {
		st = domain.WithImageRequirements(st, *in.ImageRequirements)
	}
	if in.Design != nil {
		st = domain.WithDesign(st, *in.Design)
	}
	if in.Integrations != nil {
		st = domain.WithIntegrations(st, *in.Integrations)
	}
	if in.Membership != nil {
		st = domain.WithMembership(st, *in.Membership)
	}
	if in.Media != nil {
		st = domain.WithMedia(st, in.Media)
	}
	for pageID, dir := range in.PageDirections {
		var err error
		if st, err = domain.WithPageDirection(st, pageID, dir); err != nil {
			return st, err
		}
	}
	return st, nil
}
