package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
)

// Service wraps the generation provider with retries and fallbacks.
type Service struct {
	text   domain.TextGenerator
	images domain.ImageGenerator
	log    *logger.Logger
	sleep  func(ctx context.Context, d time.Duration) error // tests replace the retry timer
	newID  func() string
}

func New(text domain.TextGenerator, images domain.ImageGenerator, log *logger.Logger) *Service {
	return &Service{
		text:   text,
		images: images,
		log:    log,
		newID:  uuid.NewString,
	}
}

func retryable(err error) bool {
	return !domain.Permanent(err)
}
