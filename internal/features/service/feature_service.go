package service

import (
	"context"
	"errors"

	"github.com/studioform/onboarding-backend/internal/features/domain"
)

// ErrInvalid wraps selection validation failures.
var ErrInvalid = errors.New("invalid feature selection")

type Repository interface {
	Get(ctx context.Context, userID string) (*domain.FeatureSelection, error)
	Upsert(ctx context.Context, s domain.FeatureSelection) (*domain.FeatureSelection, error)
	Update(ctx context.Context, s domain.FeatureSelection) (*domain.FeatureSelection, error)
}

type FeatureService struct {
	repo Repository
}

func NewFeatureService(repo Repository) *FeatureService {
	return &FeatureService{repo: repo}
}

func (s *FeatureService) Get(ctx context.Context, userID string) (*domain.FeatureSelection, error) {
	return s.repo.Get(ctx, userID)
}

func (s *FeatureService) Save(ctx context.Context, sel domain.FeatureSelection) (*domain.FeatureSelection, error) {
	if err := sel.Validate(); err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}
	return s.repo.Upsert(ctx, sel)
}

func (s *FeatureService) Update(ctx context.Context, sel domain.FeatureSelection) (*domain.FeatureSelection, error) {
	if err := sel.Validate(); err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}
	return s.repo.Update(ctx, sel)
}
