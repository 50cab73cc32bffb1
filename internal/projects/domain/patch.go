package domain

import "strings"

// Patch is a partial update of a submission. Nil fields are left untouched.
type Patch struct {
	Contact            *Contact            `json:"contact,omitempty"`
	Business           *Business           `json:"business,omitempty"`
	Logo               *Logo               `json:"logo,omitempty"`
	SiteType           *string             `json:"siteType,omitempty"`
	Pages              []Page              `json:"pages,omitempty"`
	ContentPreferences *ContentPreferences `json:"contentPreferences,omitempty"`
	ImageRequirements  *ImageRequirements  `json:"imageRequirements,omitempty"`
	GeneratedContent   []GeneratedContent  `json:"generatedContent,omitempty"`
	Design             *DesignPreferences  `json:"design,omitempty"`
	Integrations       *Integrations       `json:"integrations,omitempty"`
	Membership         *Membership         `json:"membership,omitempty"`
	Media              []MediaRef          `json:"media,omitempty"`
}

// IsEmpty reports whether applying the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Contact == nil && p.Business == nil && p.Logo == nil && p.SiteType == nil &&
		p.Pages == nil && p.ContentPreferences == nil && p.ImageRequirements == nil &&
		p.GeneratedContent == nil && p.Design == nil && p.Integrations == nil &&
		p.Membership == nil && p.Media == nil
}

// Apply returns data with the patch merged in. Business fields merge one by
// one so a patch can never blank the name or description of an existing record.
func (p Patch) Apply(data ProjectData) ProjectData {
	out := data
	if p.Contact != nil {
		out.Contact = *p.Contact
	}
	if p.Business != nil {
		out.Business = mergeBusiness(out.Business, *p.Business)
	}
	if p.Logo != nil {
		out.Logo = *p.Logo
	}
	if p.SiteType != nil && *p.SiteType != "" {
		out.SiteType = *p.SiteType
	}
	if p.Pages != nil {
		out.Pages = append([]Page(nil), p.Pages...)
	}
	if p.ContentPreferences != nil {
		out.ContentPreferences = *p.ContentPreferences
	}
	if p.ImageRequirements != nil {
		out.ImageRequirements = *p.ImageRequirements
	}
	if p.GeneratedContent != nil {
		out.GeneratedContent = append([]GeneratedContent(nil), p.GeneratedContent...)
	}
	if p.Design != nil {
		out.Design = *p.Design
	}
	if p.Integrations != nil {
		out.Integrations = *p.Integrations
	}
	if p.Membership != nil {
		out.Membership = *p.Membership
	}
	if p.Media != nil {
		out.Media = append([]MediaRef(nil), p.Media...)
	}
	return out
}

func mergeBusiness(cur, next Business) Business {
	if strings.TrimSpace(next.Name) != "" {
		cur.Name = next.Name
	}
	if strings.TrimSpace(next.Description) != "" {
		cur.Description = next.Description
	}
	if next.HasExistingName != nil {
		v := *next.HasExistingName
		cur.HasExistingName = &v
	}
	if next.NameIdea != "" {
		cur.NameIdea = next.NameIdea
	}
	if next.Industry != "" {
		cur.Industry = next.Industry
	}
	if next.TargetAudience != "" {
		cur.TargetAudience = next.TargetAudience
	}
	return cur
}

// PatchFrom projects data into a patch carrying only the non-empty sections.
func PatchFrom(data ProjectData) Patch {
	var p Patch
	if data.Contact != (Contact{}) {
		c := data.Contact
		p.Contact = &c
	}
	if !data.Business.IsZero() {
		b := data.Business
		p.Business = &b
	}
	if !data.Logo.IsZero() {
		l := data.Logo
		p.Logo = &l
	}
	if data.SiteType != "" {
		s := data.SiteType
		p.SiteType = &s
	}
	if len(data.Pages) > 0 {
		p.Pages = append([]Page(nil), data.Pages...)
	}
	if !data.ContentPreferences.IsZero() {
		c := data.ContentPreferences
		p.ContentPreferences = &c
	}
	if !data.ImageRequirements.IsZero() {
		i := data.ImageRequirements
		p.ImageRequirements = &i
	}
	if len(data.GeneratedContent) > 0 {
		p.GeneratedContent = append([]GeneratedContent(nil), data.GeneratedContent...)
	}
	if !data.Design.IsZero() {
		d := data.Design
		p.Design = &d
	}
	if !data.Integrations.IsZero() {
		in := data.Integrations
		p.Integrations = &in
	}
	if !data.Membership.IsZero() {
		m := data.Membership
		p.Membership = &m
	}
	if len(data.Media) > 0 {
		p.Media = append([]MediaRef(nil), data.Media...)
	}
	return p
}

// DropInvalid returns p without the sections ValidatePatch would reject, and
// the json names of the sections it removed.
func (p Patch) DropInvalid() (Patch, []string) {
	var dropped []string
	keep := func(name string, section Patch) bool {
		if ValidatePatch(section) == nil {
			return true
		}
		dropped = append(dropped, name)
		return false
	}
	if p.Contact != nil && !keep("contact", Patch{Contact: p.Contact}) {
		p.Contact = nil
	}
	if p.Pages != nil && !keep("pages", Patch{Pages: p.Pages}) {
		p.Pages = nil
	}
	if p.Logo != nil && !keep("logo", Patch{Logo: p.Logo}) {
		p.Logo = nil
	}
	if p.Design != nil && !keep("design", Patch{Design: p.Design}) {
		p.Design = nil
	}
	if p.Integrations != nil && !keep("integrations", Patch{Integrations: p.Integrations}) {
		p.Integrations = nil
	}
	return p, dropped
}

// WithDefaults fills optional fields a new draft must not leave empty.
func WithDefaults(data ProjectData) ProjectData {
	if data.SiteType == "" {
		data.SiteType = DefaultSiteType
	}
	if data.ContentPreferences.Style == "" {
		data.ContentPreferences.Style = DefaultContentStyle
	}
	if data.ContentPreferences.Tone == "" {
		data.ContentPreferences.Tone = DefaultContentTone
	}
	if data.ImageRequirements.Source == "" {
		data.ImageRequirements.Source = ImageSourceStock
	}
	return data
}

// HasIdentity reports whether the minimum fields for a durable record exist.
func (d ProjectData) HasIdentity() bool {
	return strings.TrimSpace(d.Business.Name) != "" && strings.TrimSpace(d.Business.Description) != ""
}
