package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

var nameTemplates = [namesWanted]string{
	"%s Studio",
	"%s Co.",
	"The %s Collective",
	"%s Labs",
	"%s & Partners",
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true, "for": true,
	"we": true, "our": true, "is": true, "are": true, "to": true, "in": true, "with": true,
	"that": true, "my": true, "i": true, "business": true, "company": true,
}

// FallbackNames derives five deterministic names from the name idea or,
// failing that, the first meaningful words of the description.
func FallbackNames(req domain.NameRequest) []string {
	base := strings.TrimSpace(req.NameIdea)
	if base == "" {
		base = keywordBase(req.Description)
	}
	if base == "" {
		base = "Bright Path"
	}

	out := make([]string, 0, namesWanted)
	for _, tpl := range nameTemplates {
		out = append(out, fmt.Sprintf(tpl, base))
	}
	return out
}

func keywordBase(description string) string {
	words := strings.FieldsFunc(description, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	picked := make([]string, 0, 2)
	for _, w := range words {
		lw := strings.ToLower(w)
		if len(lw) < 3 || stopWords[lw] {
			continue
		}
		picked = append(picked, strings.ToUpper(lw[:1])+lw[1:])
		if len(picked) == 2 {
			break
		}
	}
	return strings.Join(picked, " ")
}

// FallbackContent is boilerplate copy for a page the provider could not write.
func FallbackContent(req domain.ContentRequest, page projects.Page) domain.PageContent {
	name := orDefault(req.BusinessName, "our business")
	desc := strings.TrimSpace(req.BusinessDescription)
	if desc == "" {
		desc = "We are dedicated to delivering quality work and great service."
	}

	var body string
	switch key := strings.ToLower(page.Name); {
	case strings.Contains(key, "home"):
		body = fmt.Sprintf("Welcome to %s.\n\n%s\n\nExplore our site to learn how we can help, and get in touch when you are ready to start.", name, desc)
	case strings.Contains(key, "about"):
		body = fmt.Sprintf("About %s\n\n%s\n\nOur team cares about every client and every detail.", name, desc)
	case strings.Contains(key, "service"):
		body = fmt.Sprintf("Our Services\n\n%s\n\nContact %s to find the right solution for your needs.", desc, name)
	case strings.Contains(key, "contact"):
		body = fmt.Sprintf("Contact %s\n\nWe would love to hear from you. Send us a message and we will get back to you as soon as possible.", name)
	default:
		body = fmt.Sprintf("%s\n\n%s\n\n%s", page.Name, desc, "Reach out to learn more.")
	}

	return domain.PageContent{
		Content:     body,
		Suggestions: append([]string(nil), GenericSuggestions...),
	}
}
