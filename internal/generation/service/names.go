package service

import (
	"context"
	"strings"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/retry"
)

const namesWanted = 5

type namesResponse struct {
	Names []string `json:"names"`
}

// GenerateNames always returns exactly five names. Any provider failure
// yields the templated fallback names.
func (s *Service) GenerateNames(ctx context.Context, req domain.NameRequest) []string {
	fallback := FallbackNames(req)

	names, _ := retry.Do(ctx, retry.Policy[[]string]{
		MaxAttempts: 1,
		Accept:      func(v []string) bool { return len(v) > 0 },
		Fallback: func(err error) []string {
			s.log.Warn("name generation fell back", "error", err)
			return fallback
		},
		Sleep: s.sleep,
	}, func(ctx context.Context, _ int) ([]string, error) {
		raw, err := s.text.Complete(ctx, domain.TextRequest{
			Prompt:      namesPrompt(req),
			Temperature: 0.9,
			MaxTokens:   200,
		})
		if err != nil {
			return nil, err
		}
		parsed, err := ExtractJSON[namesResponse](raw)
		if err != nil {
			return nil, err
		}
		return cleanNames(parsed.Names), nil
	})

	return padNames(names, fallback)
}

func cleanNames(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		out = append(out, n)
	}
	return out
}

// padNames trims to five or tops up from the fallback list.
func padNames(names, fallback []string) []string {
	out := make([]string, 0, namesWanted)
	out = append(out, names...)
	if len(out) > namesWanted {
		return out[:namesWanted]
	}
	for _, f := range fallback {
		if len(out) == namesWanted {
			break
		}
		out = append(out, f)
	}
	return out
}
