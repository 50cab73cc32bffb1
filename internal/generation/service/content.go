package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/retry"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

const (
	contentAttempts  = 3
	contentBackoff   = time.Second
	fullTemperature  = 0.8
	shortTemperature = 0.5
)

// ValidateContentRequest checks the fields every copy prompt needs.
func ValidateContentRequest(req domain.ContentRequest) error {
	verr := &projects.ValidationError{}
	if strings.TrimSpace(req.BusinessDescription) == "" {
		verr.Add("businessDescription", "is required")
	}
	for i, p := range req.Pages {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" {
			verr.Add(fmt.Sprintf("pages[%d]", i), "id and name are required")
		}
	}
	return verr.Err()
}

// GenerateContent writes copy for every page, one page at a time. A page
// whose attempts all fail gets fallback copy; the batch itself never fails
// after validation.
func (s *Service) GenerateContent(ctx context.Context, req domain.ContentRequest) ([]projects.GeneratedContent, error) {
	if len(req.Pages) == 0 {
		verr := &projects.ValidationError{}
		verr.Add("pages", "at least one page is required")
		return nil, verr
	}
	if err := ValidateContentRequest(req); err != nil {
		return nil, err
	}

	out := make([]projects.GeneratedContent, 0, len(req.Pages))
	for _, page := range req.Pages {
		out = append(out, s.generatePage(ctx, req, page, directionFor(req, page)))
	}
	return out, nil
}

// RegenerateContent rewrites one page under the same contract.
func (s *Service) RegenerateContent(ctx context.Context, req domain.ContentRequest, page projects.Page, direction string) (projects.GeneratedContent, error) {
	req.Pages = []projects.Page{page}
	if err := ValidateContentRequest(req); err != nil {
		return projects.GeneratedContent{}, err
	}
	if direction == "" {
		direction = directionFor(req, page)
	}
	return s.generatePage(ctx, req, page, direction), nil
}

func directionFor(req domain.ContentRequest, page projects.Page) string {
	if d, ok := req.PageDirections[page.ID]; ok {
		return strings.TrimSpace(d)
	}
	return strings.TrimSpace(req.PageDirections[page.Name])
}

func (s *Service) generatePage(ctx context.Context, req domain.ContentRequest, page projects.Page, direction string) projects.GeneratedContent {
	log := s.log.With("page", page.Name)
	fallback := func(err error) domain.PageContent {
		log.Warn("page copy fell back", "error", err)
		return FallbackContent(req, page)
	}

	pc, err := retry.Do(ctx, retry.Policy[domain.PageContent]{
		MaxAttempts: contentAttempts,
		Backoff:     retry.Linear(contentBackoff),
		Accept:      func(pc domain.PageContent) bool { return strings.TrimSpace(pc.Content) != "" },
		Retryable:   retryable,
		Fallback:    fallback,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Info("retrying page copy", "attempt", attempt, "wait", wait, "error", err)
		},
		Sleep: s.sleep,
	}, func(ctx context.Context, attempt int) (domain.PageContent, error) {
		tr := domain.TextRequest{
			System:      copywriterSystem,
			Prompt:      fullContentPrompt(req, page, direction),
			Temperature: fullTemperature,
			MaxTokens:   1200,
		}
		if attempt > 1 {
			tr.Prompt = shortContentPrompt(req, page)
			tr.Temperature = shortTemperature
			tr.MaxTokens = 600
		}
		raw, err := s.text.Complete(ctx, tr)
		if err != nil {
			return domain.PageContent{}, err
		}
		return ParsePageContent(raw), nil
	})
	if err != nil {
		pc = fallback(err)
	}

	return projects.GeneratedContent{
		PageID:        page.ID,
		PageName:      page.Name,
		Content:       pc.Content,
		PageDirection: direction,
		Suggestions:   pc.Suggestions,
	}
}
