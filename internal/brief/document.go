// Package brief folds a project's wizard data into the creative brief and
// exports it as a PDF plus a zip of its images.
package brief

import (
	"fmt"
	"strings"

	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

// Section titles, in document order.
const (
	SectionBusiness     = "Business Identity"
	SectionWebsite      = "Website Info"
	SectionBranding     = "Branding / Logo"
	SectionContentPrefs = "Content Preferences"
	SectionImages       = "Image Requirements"
	SectionIntegrations = "Integrations"
	SectionMembership   = "User Accounts & Membership"
	SectionMedia        = "Uploaded Media"
	SectionDesign       = "Design Preferences"
	SectionContent      = "Generated Content"
)

const DocumentTitle = "Creative Brief"

type Field struct {
	Label string
	Value string
}

// Section is one labeled block of the brief. Swatches hold hex colors drawn
// as filled squares.
type Section struct {
	Title       string
	Fields      []Field
	Paragraphs  []string
	Swatches    []string
	Subsections []Section
}

func (s Section) IsEmpty() bool {
	if len(s.Fields) > 0 || len(s.Paragraphs) > 0 || len(s.Swatches) > 0 {
		return false
	}
	for _, sub := range s.Subsections {
		if !sub.IsEmpty() {
			return false
		}
	}
	return true
}

type Document struct {
	Title        string
	BusinessName string
	Sections     []Section
}

// Section returns the section with the given title.
func (d Document) Section(title string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Assemble builds the brief from project data. Sections without data are
// left out. It has no side effects.
func Assemble(data projects.ProjectData) Document {
	doc := Document{Title: DocumentTitle, BusinessName: strings.TrimSpace(data.Business.Name)}

	for _, s := range []Section{
		businessSection(data),
		websiteSection(data),
		brandingSection(data.Logo),
		contentPrefsSection(data.ContentPreferences),
		imagesSection(data.ImageRequirements),
		integrationsSection(data.Integrations),
		membershipSection(data.Membership),
		mediaSection(data.Media),
		designSection(data.Design),
		contentSection(data.GeneratedContent),
	} {
		if !s.IsEmpty() {
			doc.Sections = append(doc.Sections, s)
		}
	}
	return doc
}

// fields drops pairs whose value is blank.
func fields(pairs ...Field) []Field {
	var out []Field
	for _, f := range pairs {
		if strings.TrimSpace(f.Value) != "" {
			out = append(out, f)
		}
	}
	return out
}

func list(values []string) string {
	return strings.Join(values, ", ")
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "Yes"
	default:
		return "No"
	}
}

func businessSection(d projects.ProjectData) Section {
	b, c := d.Business, d.Contact
	return Section{
		Title: SectionBusiness,
		Fields: fields(
			Field{"Business name", b.Name},
			Field{"Description", b.Description},
			Field{"Has existing name", yesNo(b.HasExistingName)},
			Field{"Name idea", b.NameIdea},
			Field{"Industry", b.Industry},
			Field{"Target audience", b.TargetAudience},
			Field{"Contact", c.Name},
			Field{"Email", c.Email},
			Field{"Phone", c.Phone},
			Field{"Company", c.Company},
		),
	}
}

func websiteSection(d projects.ProjectData) Section {
	s := Section{Title: SectionWebsite, Fields: fields(Field{"Site type", d.SiteType})}
	for _, p := range d.Pages {
		label := fmt.Sprintf("%s (%s)", p.Name, p.Path)
		if p.Required {
			label += " - required"
		}
		s.Paragraphs = append(s.Paragraphs, label)
	}
	return s
}

func brandingSection(l projects.Logo) Section {
	s := Section{Title: SectionBranding}
	var choice, uploaded, decision, prompt string
	switch l.Choice {
	case projects.LogoChoiceUpload:
		choice = "Client-provided logo"
	case projects.LogoChoiceGenerate:
		choice = "AI-generated logo"
	case projects.LogoChoiceLater:
		choice = "Decide later"
	}
	if l.Uploaded != nil {
		uploaded = l.Uploaded.Name
	}
	if l.Selected != nil {
		prompt = l.Selected.Logo.Prompt
		switch l.Selected.Decision {
		case projects.LogoDecisionFinal:
			decision = "Use as final logo"
		case projects.LogoDecisionDirection:
			decision = "Use as design direction"
		}
	}
	p := l.Preferences
	s.Fields = fields(
		Field{"Logo", choice},
		Field{"Uploaded file", uploaded},
		Field{"Selected logo", decision},
		Field{"Generation prompt", prompt},
		Field{"Style", p.Style},
		Field{"Colors", list(p.Colors)},
		Field{"Icon", p.Icon},
		Field{"Typography", p.Typography},
		Field{"Notes", p.Notes},
	)
	return s
}

func contentPrefsSection(p projects.ContentPreferences) Section {
	return Section{
		Title: SectionContentPrefs,
		Fields: fields(
			Field{"Style", p.Style},
			Field{"Tone", p.Tone},
			Field{"Audience", p.Audience},
			Field{"Keywords", list(p.Keywords)},
			Field{"Notes", p.Notes},
		),
	}
}

func imagesSection(r projects.ImageRequirements) Section {
	var source string
	switch r.Source {
	case projects.ImageSourceStock:
		source = "Stock photography"
	case projects.ImageSourceCustom:
		source = "Custom photography"
	case projects.ImageSourceProvided:
		source = "Client-provided images"
	default:
		source = r.Source
	}
	return Section{
		Title: SectionImages,
		Fields: fields(
			Field{"Source", source},
			Field{"Styles", list(r.Styles)},
			Field{"Notes", r.Notes},
		),
	}
}

func integrationsSection(in projects.Integrations) Section {
	s := Section{Title: SectionIntegrations}
	for _, c := range projects.Categories() {
		labels := in.Labels(c)
		if len(labels) == 0 {
			continue
		}
		s.Subsections = append(s.Subsections, Section{Title: c.String(), Paragraphs: labels})
	}
	s.Fields = fields(Field{"Notes", in.Notes})
	return s
}

func membershipSection(m projects.Membership) Section {
	if m.IsZero() {
		return Section{Title: SectionMembership}
	}
	enabled := "No"
	if m.Enabled {
		enabled = "Yes"
	}
	return Section{
		Title: SectionMembership,
		Fields: fields(
			Field{"User accounts", enabled},
			Field{"Roles", list(m.Roles)},
			Field{"Member features", list(m.Features)},
			Field{"Notes", m.Notes},
		),
	}
}

func mediaSection(media []projects.MediaRef) Section {
	s := Section{Title: SectionMedia}
	for _, m := range media {
		name := m.Name
		if name == "" {
			name = m.ID
		}
		s.Paragraphs = append(s.Paragraphs, fmt.Sprintf("%s (%s)", name, m.ContentType))
	}
	return s
}

func designSection(d projects.DesignPreferences) Section {
	return Section{
		Title:    SectionDesign,
		Swatches: append([]string(nil), d.Colors...),
		Fields: fields(
			Field{"Style", d.Style},
			Field{"Fonts", list(d.Fonts)},
			Field{"Inspirations", list(d.Inspirations)},
			Field{"Notes", d.Notes},
		),
	}
}

func contentSection(content []projects.GeneratedContent) Section {
	s := Section{Title: SectionContent}
	for _, gc := range content {
		text := strings.TrimSpace(gc.Display())
		if text == "" {
			continue
		}
		sub := Section{Title: gc.PageName, Paragraphs: []string{text}}
		if gc.PageDirection != "" {
			sub.Fields = fields(Field{"Direction", gc.PageDirection})
		}
		for _, tip := range gc.Suggestions {
			sub.Paragraphs = append(sub.Paragraphs, "Suggestion: "+tip)
		}
		s.Subsections = append(s.Subsections, sub)
	}
	return s
}
