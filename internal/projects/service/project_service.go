package service

import (
	"context"
	"time"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, userID string, data domain.ProjectData) (*domain.Submission, error)
	Get(ctx context.Context, id string) (*domain.Submission, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Submission, error)
	Submit(ctx context.Context, userID, id string, data domain.ProjectData) (*domain.Submission, error)
	PurgeStaleDrafts(ctx context.Context, before time.Time) (int64, error)
}

// ProjectService handles submission business rules.
type ProjectService struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

func NewProjectService(repo Repository, log *logger.Logger) *ProjectService {
	return &ProjectService{repo: repo, log: log, now: time.Now}
}

// Create stores a new draft with defaults for still-empty optional fields.
func (s *ProjectService) Create(ctx context.Context, userID string, data domain.ProjectData) (*domain.Submission, error) {
	if err := domain.ValidateDraft(data); err != nil {
		return nil, err
	}
	sub, err := s.repo.Create(ctx, userID, domain.WithDefaults(data))
	if err != nil {
		return nil, err
	}
	s.log.Info("project draft created", "project_id", sub.ID)
	return sub, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Submission, error) {
	if !domain.IsProjectID(id) {
		return nil, domain.ErrNotFound
	}
	if err := domain.ValidatePatch(patch); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.repo.Get(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

// Get skips the database for ids that cannot exist.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Submission, error) {
	if !domain.IsProjectID(id) {
		return nil, domain.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Submit validates the full submission and finalizes it.
func (s *ProjectService) Submit(ctx context.Context, userID, projectID string, data domain.ProjectData) (*domain.Submission, error) {
	if err := domain.ValidateSubmission(data); err != nil {
		return nil, err
	}
	sub, err := s.repo.Submit(ctx, userID, projectID, domain.WithDefaults(data))
	if err != nil {
		s.log.Error("project submit failed", "project_id", projectID, "error", err)
		return nil, err
	}
	s.log.Info("project submitted", "project_id", sub.ID)
	return sub, nil
}

// PurgeStaleDrafts removes drafts untouched for longer than retention.
func (s *ProjectService) PurgeStaleDrafts(ctx context.Context, retention time.Duration) (int64, error) {
	before := s.now().Add(-retention)
	n, err := s.repo.PurgeStaleDrafts(ctx, before)
	if err != nil {
		return 0, err
	}
	s.log.Info("stale drafts purged", "count", n, "before", before)
	return n, nil
}
