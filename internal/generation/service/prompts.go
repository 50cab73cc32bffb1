package service

import (
	"fmt"
	"strings"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

const copywriterSystem = "You are an expert website copywriter for a web design agency. " +
	"Always answer with a single JSON object and nothing else."

type pageGuidance struct {
	key      string
	guidance string
}

// Matched in order against the lower-cased page name.
var guidanceTable = []pageGuidance{
	{"home", "Write a compelling hero headline and subheadline, a short overview of what the business offers, three key benefits, and a clear call to action."},
	{"about", "Tell the story of the business: its origin, mission and values, and the people behind it. Build trust and a personal connection."},
	{"services", "Describe each main service with a short heading and two or three sentences on the benefit to the customer. End with a call to action."},
	{"contact", "Write a short welcoming invitation to get in touch, explain what happens after someone reaches out, and list the ways to contact the business."},
	{"blog", "Write an introduction for the blog that explains what readers will learn, plus three example post titles with one-line summaries."},
	{"portfolio", "Introduce the body of work, then describe three sample projects with the client problem, the approach and the result."},
	{"faq", "Write six frequently asked questions with concise, helpful answers that remove common objections."},
	{"testimonials", "Write an introduction for the testimonials page and three realistic placeholder testimonials with first name and role."},
	{"pricing", "Present pricing tiers with a name, who it is for, and what is included. Reassure visitors about value and next steps."},
}

const genericGuidance = "Write clear, engaging copy for this page that fits its purpose and guides the visitor toward a next step."

// GuidanceFor returns page-type guidance for a page name.
func GuidanceFor(pageName string) string {
	name := strings.ToLower(strings.TrimSpace(pageName))
	for _, g := range guidanceTable {
		if strings.Contains(name, g.key) {
			return g.guidance
		}
	}
	return genericGuidance
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// fullContentPrompt is used on the first attempt.
func fullContentPrompt(req domain.ContentRequest, page projects.Page, direction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write website copy for the %q page of %s.\n\n", page.Name, orDefault(req.BusinessName, "a small business"))
	fmt.Fprintf(&b, "Business description: %s\n", req.BusinessDescription)
	fmt.Fprintf(&b, "Website type: %s\n", orDefault(req.SiteType, projects.DefaultSiteType))
	fmt.Fprintf(&b, "Writing style: %s\n", orDefault(req.Preferences.Style, projects.DefaultContentStyle))
	fmt.Fprintf(&b, "Tone: %s\n", orDefault(req.Preferences.Tone, projects.DefaultContentTone))
	if req.Preferences.Audience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", req.Preferences.Audience)
	}
	if len(req.Preferences.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords to include naturally: %s\n", strings.Join(req.Preferences.Keywords, ", "))
	}
	if direction != "" {
		fmt.Fprintf(&b, "Client direction for this page: %s\n", direction)
	}
	fmt.Fprintf(&b, "\nPage guidance: %s\n\n", GuidanceFor(page.Name))
	b.WriteString(`Return only a JSON object of the form {"content": "<page copy in plain text with line breaks>", "suggestions": ["<improvement idea>", "<improvement idea>", "<improvement idea>"]}.`)
	return b.String()
}

// shortContentPrompt trades richness for a higher chance of completing.
func shortContentPrompt(req domain.ContentRequest, page projects.Page) string {
	return fmt.Sprintf(
		`Write short %s website copy for the %q page of a business: %s. Return JSON {"content": "...", "suggestions": ["..."]}.`,
		orDefault(req.Preferences.Tone, projects.DefaultContentTone), page.Name, truncate(req.BusinessDescription, 200),
	)
}

func namesPrompt(req domain.NameRequest) string {
	var b strings.Builder
	b.WriteString("Suggest 5 memorable, brandable business names.\n")
	if req.Description != "" {
		fmt.Fprintf(&b, "Business description: %s\n", req.Description)
	}
	if req.NameIdea != "" {
		fmt.Fprintf(&b, "The owner's own idea to build on: %s\n", req.NameIdea)
	}
	b.WriteString(`Return only a JSON object of the form {"names": ["Name 1", "Name 2", "Name 3", "Name 4", "Name 5"]}.`)
	return b.String()
}

var logoVariations = [logoSlots]string{
	"a clean wordmark built from the business name",
	"a simple pictorial icon paired with the name",
	"an abstract emblem with the name beneath it",
}

func logoPrompt(req domain.LogoRequest, slot int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Professional logo design for %s", orDefault(req.BusinessName, "a business"))
	if req.Description != "" {
		fmt.Fprintf(&b, ", %s", truncate(req.Description, 300))
	}
	fmt.Fprintf(&b, ". Concept: %s.", logoVariations[slot])
	p := req.Preferences
	if p.Style != "" {
		fmt.Fprintf(&b, " Style: %s.", p.Style)
	}
	if len(p.Colors) > 0 {
		fmt.Fprintf(&b, " Colors: %s.", strings.Join(p.Colors, ", "))
	}
	if p.Icon != "" {
		fmt.Fprintf(&b, " Icon idea: %s.", p.Icon)
	}
	if p.Typography != "" {
		fmt.Fprintf(&b, " Typography: %s.", p.Typography)
	}
	if p.Notes != "" {
		fmt.Fprintf(&b, " Notes: %s.", truncate(p.Notes, 200))
	}
	if req.ReferenceImageBase64 != "" {
		b.WriteString(" Take visual cues from the client's reference logo.")
	}
	b.WriteString(" Flat vector style on a plain white background, no mockups, no photographs.")
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
