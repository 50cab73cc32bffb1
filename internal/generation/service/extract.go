package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
)

var errNoJSON = errors.New("no JSON object in response")

var fenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")

// GenericSuggestions accompany copy that came back as plain prose.
var GenericSuggestions = []string{
	"Add a clear call to action near the top of the page.",
	"Include specific examples or numbers that show results for customers.",
	"Keep paragraphs short so the page is easy to scan on mobile.",
}

// ExtractJSON decodes the first usable JSON object in a model response. It
// tries the raw text, then the text inside Markdown code fences, then the
// first balanced {...} block.
func ExtractJSON[T any](raw string) (T, error) {
	raw = strings.TrimSpace(raw)
	candidates := []string{raw}
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if block := firstObject(raw); block != "" {
		candidates = append(candidates, block)
	}

	for _, c := range candidates {
		var out T
		if err := json.Unmarshal([]byte(c), &out); err == nil {
			return out, nil
		}
	}
	var zero T
	return zero, errNoJSON
}

// firstObject returns the first balanced {...} block, ignoring braces inside
// JSON strings. An unbalanced block yields the span up to the last '}'.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	if end := strings.LastIndexByte(s, '}'); end > start {
		return s[start : end+1]
	}
	return ""
}

// ParsePageContent turns a model response into page copy. Responses without
// a usable JSON object are kept as prose with generic suggestions.
func ParsePageContent(raw string) domain.PageContent {
	pc, err := ExtractJSON[domain.PageContent](raw)
	if err == nil && strings.TrimSpace(pc.Content) != "" {
		if pc.Suggestions == nil {
			pc.Suggestions = []string{}
		}
		return pc
	}
	return domain.PageContent{
		Content:     strings.TrimSpace(raw),
		Suggestions: append([]string(nil), GenericSuggestions...),
	}
}
