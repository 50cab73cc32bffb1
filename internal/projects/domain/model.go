package domain

import "time"

// Submission status values.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

// Defaults applied when a draft is created before the client reached the
// steps that collect these fields.
const (
	DefaultSiteType     = "business"
	DefaultContentStyle = "professional"
	DefaultContentTone  = "friendly"
)

// Contact is the person the agency talks to.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// Business describes the client's business identity.
type Business struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	HasExistingName *bool  `json:"hasExistingName,omitempty"`
	NameIdea        string `json:"nameIdea,omitempty"`
	Industry        string `json:"industry,omitempty"`
	TargetAudience  string `json:"targetAudience,omitempty"`
}

func (b Business) IsZero() bool {
	return b.Name == "" && b.Description == "" && b.HasExistingName == nil &&
		b.NameIdea == "" && b.Industry == "" && b.TargetAudience == ""
}

// Logo choice values.
const (
	LogoChoiceUpload   = "upload"
	LogoChoiceGenerate = "generate"
	LogoChoiceLater    = "later"
)

// LogoDecision is the client's intent for a selected generated logo.
type LogoDecision string

const (
	LogoDecisionFinal     LogoDecision = "final"
	LogoDecisionDirection LogoDecision = "direction"
)

func (d LogoDecision) Valid() bool {
	return d == LogoDecisionFinal || d == LogoDecisionDirection
}

// GeneratedLogo is immutable once produced.
type GeneratedLogo struct {
	ID      string `json:"id"`
	DataURL string `json:"dataUrl"`
	Prompt  string `json:"prompt"`
}

// LogoSelection holds a copy of the chosen logo, never a reference into the
// candidate list.
type LogoSelection struct {
	Logo     GeneratedLogo `json:"logo"`
	Decision LogoDecision  `json:"decision"`
}

type LogoPreferences struct {
	Style      string   `json:"style,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Icon       string   `json:"icon,omitempty"`
	Typography string   `json:"typography,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

func (p LogoPreferences) IsZero() bool {
	return p.Style == "" && len(p.Colors) == 0 && p.Icon == "" && p.Typography == "" && p.Notes == ""
}

type Logo struct {
	Choice      string          `json:"choice,omitempty"`
	Uploaded    *MediaRef       `json:"uploaded,omitempty"`
	Selected    *LogoSelection  `json:"selected,omitempty"`
	Preferences LogoPreferences `json:"preferences"`
}

func (l Logo) IsZero() bool {
	return l.Choice == "" && l.Uploaded == nil && l.Selected == nil && l.Preferences.IsZero()
}

// Page is one entry of the sitemap. Identity is ID; Path uniqueness is not enforced.
type Page struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Required bool   `json:"required"`
}

type ContentPreferences struct {
	Style    string   `json:"style,omitempty"`
	Tone     string   `json:"tone,omitempty"`
	Audience string   `json:"audience,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

func (c ContentPreferences) IsZero() bool {
	return c.Style == "" && c.Tone == "" && c.Audience == "" && len(c.Keywords) == 0 && c.Notes == ""
}

// Image source values.
const (
	ImageSourceStock    = "stock"
	ImageSourceCustom   = "custom"
	ImageSourceProvided = "provided"
)

type ImageRequirements struct {
	Source string   `json:"source,omitempty"`
	Styles []string `json:"styles,omitempty"`
	Notes  string   `json:"notes,omitempty"`
}

func (i ImageRequirements) IsZero() bool {
	return i.Source == "" && len(i.Styles) == 0 && i.Notes == ""
}

// GeneratedContent is the copy produced for one page. EditedContent wins over
// Content for display and export once present.
type GeneratedContent struct {
	PageID        string   `json:"pageId"`
	PageName      string   `json:"pageName"`
	Content       string   `json:"content"`
	EditedContent *string  `json:"editedContent,omitempty"`
	PageDirection string   `json:"pageDirection,omitempty"`
	Suggestions   []string `json:"suggestions"`
	HasEdits      bool     `json:"hasEdits"`
}

// Display returns the text shown to the client and exported in the brief.
func (g GeneratedContent) Display() string {
	if g.EditedContent != nil {
		return *g.EditedContent
	}
	return g.Content
}

type DesignPreferences struct {
	Colors       []string `json:"colors,omitempty"`
	Fonts        []string `json:"fonts,omitempty"`
	Style        string   `json:"style,omitempty"`
	Inspirations []string `json:"inspirations,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

func (d DesignPreferences) IsZero() bool {
	return len(d.Colors) == 0 && len(d.Fonts) == 0 && d.Style == "" && len(d.Inspirations) == 0 && d.Notes == ""
}

type Membership struct {
	Enabled  bool     `json:"enabled"`
	Roles    []string `json:"roles,omitempty"`
	Features []string `json:"features,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

func (m Membership) IsZero() bool {
	return !m.Enabled && len(m.Roles) == 0 && len(m.Features) == 0 && m.Notes == ""
}

// MediaRef points at an uploaded file in the media store.
type MediaRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// ProjectData is every field the onboarding wizard collects.
type ProjectData struct {
	Contact            Contact            `json:"contact"`
	Business           Business           `json:"business"`
	Logo               Logo               `json:"logo"`
	SiteType           string             `json:"siteType,omitempty"`
	Pages              []Page             `json:"pages,omitempty"`
	ContentPreferences ContentPreferences `json:"contentPreferences"`
	ImageRequirements  ImageRequirements  `json:"imageRequirements"`
	GeneratedContent   []GeneratedContent `json:"generatedContent,omitempty"`
	Design             DesignPreferences  `json:"design"`
	Integrations       Integrations       `json:"integrations"`
	Membership         Membership         `json:"membership"`
	Media              []MediaRef         `json:"media,omitempty"`
}

// Submission is the durable server-side record of a client's onboarding.
type Submission struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId,omitempty"`
	Status      string      `json:"status"`
	Data        ProjectData `json:"data"`
	SubmittedAt *time.Time  `json:"submittedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
