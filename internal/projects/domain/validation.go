package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateDraft checks the fields a new draft record cannot be created without.
func ValidateDraft(data ProjectData) error {
	verr := &ValidationError{}
	if strings.TrimSpace(data.Business.Name) == "" {
		verr.Add("business.name", "is required")
	}
	if strings.TrimSpace(data.Business.Description) == "" {
		verr.Add("business.description", "is required")
	}
	if email := strings.TrimSpace(data.Contact.Email); email != "" {
		if validate.Var(email, "email") != nil {
			verr.Add("contact.email", "must be a valid email address")
		}
	}
	data.Integrations.validateInto(verr, "integrations")
	return verr.Err()
}

// ValidatePatch checks only the sections a patch carries.
func ValidatePatch(p Patch) error {
	verr := &ValidationError{}
	if p.Contact != nil {
		if email := strings.TrimSpace(p.Contact.Email); email != "" && validate.Var(email, "email") != nil {
			verr.Add("contact.email", "must be a valid email address")
		}
	}
	if p.Pages != nil {
		validatePages(verr, p.Pages)
	}
	if p.Logo != nil {
		validateLogo(verr, *p.Logo)
	}
	if p.Design != nil {
		validateColors(verr, p.Design.Colors)
	}
	if p.Integrations != nil {
		p.Integrations.validateInto(verr, "integrations")
	}
	return verr.Err()
}

// ValidateSubmission checks a complete submission before it is finalized.
func ValidateSubmission(data ProjectData) error {
	verr := &ValidationError{}

	if strings.TrimSpace(data.Contact.Name) == "" {
		verr.Add("contact.name", "is required")
	}
	switch email := strings.TrimSpace(data.Contact.Email); {
	case email == "":
		verr.Add("contact.email", "is required")
	case validate.Var(email, "email") != nil:
		verr.Add("contact.email", "must be a valid email address")
	}
	if strings.TrimSpace(data.Business.Name) == "" {
		verr.Add("business.name", "is required")
	}
	if strings.TrimSpace(data.Business.Description) == "" {
		verr.Add("business.description", "is required")
	}
	if len(data.Pages) == 0 {
		verr.Add("pages", "at least one page is required")
	}
	validatePages(verr, data.Pages)
	validateLogo(verr, data.Logo)
	validateColors(verr, data.Design.Colors)
	for i, gc := range data.GeneratedContent {
		if gc.PageID == "" {
			verr.Add(fmt.Sprintf("generatedContent[%d].pageId", i), "is required")
		}
	}
	data.Integrations.validateInto(verr, "integrations")

	return verr.Err()
}

func validatePages(verr *ValidationError, pages []Page) {
	for i, pg := range pages {
		field := fmt.Sprintf("pages[%d]", i)
		if pg.ID == "" {
			verr.Add(field+".id", "is required")
		}
		if strings.TrimSpace(pg.Name) == "" {
			verr.Add(field+".name", "is required")
		}
		if !strings.HasPrefix(pg.Path, "/") {
			verr.Add(field+".path", "must start with /")
		}
	}
}

func validateLogo(verr *ValidationError, l Logo) {
	switch l.Choice {
	case "", LogoChoiceUpload, LogoChoiceGenerate, LogoChoiceLater:
	default:
		verr.Add("logo.choice", "must be upload, generate or later")
	}
	if l.Selected != nil {
		if !l.Selected.Decision.Valid() {
			verr.Add("logo.selected.decision", "must be final or direction")
		}
		if l.Selected.Logo.DataURL == "" {
			verr.Add("logo.selected.logo.dataUrl", "is required")
		}
	}
}

func validateColors(verr *ValidationError, colors []string) {
	for i, c := range colors {
		if validate.Var(c, "hexcolor") != nil {
			verr.Add(fmt.Sprintf("design.colors[%d]", i), "must be a hex color")
		}
	}
}

// ValidEmail reports whether s is a syntactically valid address.
func ValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}
