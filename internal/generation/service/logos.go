package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/retry"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
)

const (
	logoSlots    = 3
	logoAttempts = 3
	logoBackoff  = time.Second
)

// ErrInvalidLogoRequest is returned before any provider call.
var ErrInvalidLogoRequest = errors.New("invalid logo request")

// GenerateLogos runs three independent generations in parallel and returns
// whatever succeeded. Only zero successes is an error: content policy and
// quota failures are reported as such, anything else as ErrNoLogos.
func (s *Service) GenerateLogos(ctx context.Context, req domain.LogoRequest) ([]projects.GeneratedLogo, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidLogoRequest)
	}
	ref, err := decodeReference(req.ReferenceImageBase64)
	if err != nil {
		return nil, err
	}

	var (
		g       errgroup.Group
		results [logoSlots]*projects.GeneratedLogo
		errs    [logoSlots]error
	)
	for slot := 0; slot < logoSlots; slot++ {
		g.Go(func() error {
			logo, err := s.generateLogo(ctx, req, ref, slot)
			if err != nil {
				errs[slot] = err
				s.log.Warn("logo slot failed", "slot", slot+1, "error", err)
				return nil
			}
			results[slot] = logo
			return nil
		})
	}
	_ = g.Wait()

	logos := make([]projects.GeneratedLogo, 0, logoSlots)
	for _, r := range results {
		if r != nil {
			logos = append(logos, *r)
		}
	}
	if len(logos) > 0 {
		return logos, nil
	}
	return nil, classifyLogoFailure(errs[:])
}

func (s *Service) generateLogo(ctx context.Context, req domain.LogoRequest, ref []byte, slot int) (*projects.GeneratedLogo, error) {
	prompt := logoPrompt(req, slot)
	render := s.images.Generate
	if edit, ok := s.images.(domain.ReferenceImageGenerator); ok && ref != nil {
		render = func(ctx context.Context, prompt string) ([]byte, error) {
			return edit.GenerateFromReference(ctx, prompt, ref)
		}
	}

	img, err := retry.Do(ctx, retry.Policy[[]byte]{
		MaxAttempts: logoAttempts,
		Backoff:     retry.Constant(logoBackoff),
		Accept:      func(b []byte) bool { return len(b) > 0 },
		Retryable:   retryable,
		Sleep:       s.sleep,
	}, func(ctx context.Context, _ int) ([]byte, error) {
		return render(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}

	return &projects.GeneratedLogo{
		ID:      s.newID(),
		DataURL: dataURL(img),
		Prompt:  prompt,
	}, nil
}

// decodeReference accepts a bare base64 payload or a data URL.
func decodeReference(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	if _, payload, ok := strings.Cut(encoded, ";base64,"); ok {
		encoded = payload
	}
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: referenceImageBase64 is not valid base64", ErrInvalidLogoRequest)
	}
	if !strings.HasPrefix(mimetype.Detect(b).String(), "image/") {
		return nil, fmt.Errorf("%w: referenceImageBase64 is not an image", ErrInvalidLogoRequest)
	}
	return b, nil
}

func dataURL(b []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimetype.Detect(b).String(), base64.StdEncoding.EncodeToString(b))
}

func classifyLogoFailure(errs []error) error {
	for _, err := range errs {
		if errors.Is(err, domain.ErrContentPolicy) {
			return fmt.Errorf("%w: %w", domain.ErrNoLogos, domain.ErrContentPolicy)
		}
	}
	for _, err := range errs {
		if errors.Is(err, domain.ErrQuotaExceeded) || errors.Is(err, domain.ErrNotConfigured) {
			return fmt.Errorf("%w: %w", domain.ErrNoLogos, domain.ErrQuotaExceeded)
		}
	}
	return domain.ErrNoLogos
}
