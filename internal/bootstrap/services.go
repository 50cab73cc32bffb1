package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/studioform/onboarding-backend/config"
	"github.com/studioform/onboarding-backend/internal/brief"
	featurerepo "github.com/studioform/onboarding-backend/internal/features/repository"
	featureservice "github.com/studioform/onboarding-backend/internal/features/service"
	"github.com/studioform/onboarding-backend/internal/generation/llm"
	genservice "github.com/studioform/onboarding-backend/internal/generation/service"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projectrepo "github.com/studioform/onboarding-backend/internal/projects/repository"
	projectservice "github.com/studioform/onboarding-backend/internal/projects/service"
	"github.com/studioform/onboarding-backend/internal/storage/media"
	"github.com/studioform/onboarding-backend/internal/users"
	wizardrepo "github.com/studioform/onboarding-backend/internal/wizard/repository"
	wizardservice "github.com/studioform/onboarding-backend/internal/wizard/service"
)

// Services holds every long-lived component of the API process.
type Services struct {
	Users      *users.Repo
	Projects   *projectservice.ProjectService
	Features   *featureservice.FeatureService
	Generation *genservice.Service
	Exporter   *brief.Exporter
	Media      media.Store
	Wizard     *wizardservice.WizardService
	Saver      *wizardservice.Saver
}

// NewServices wires repositories and services. Redis may be nil only for
// commands that never touch wizard sessions.
func NewServices(ctx context.Context, cfg *config.Config, log *logger.Logger, db *sql.DB, rdb *redis.Client) (*Services, error) {
	store, err := NewMediaStore(ctx, cfg.Media)
	if err != nil {
		return nil, err
	}

	ai := llm.NewOpenAI(llm.Config{
		APIKey:         cfg.AI.APIKey,
		BaseURL:        cfg.AI.BaseURL,
		TextModel:      cfg.AI.TextModel,
		ImageModel:     cfg.AI.ImageModel,
		EditModel:      cfg.AI.EditModel,
		ImageSize:      cfg.AI.ImageSize,
		RequestsPerSec: cfg.AI.RequestsPerSec,
		Burst:          cfg.AI.Burst,
		Timeout:        cfg.AI.Timeout,
	})
	if cfg.AI.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set; generation will use fallback content")
	}

	s := &Services{
		Users:      users.NewRepo(db),
		Projects:   projectservice.NewProjectService(projectrepo.NewProjectRepository(db), log.With("module", "projects")),
		Features:   featureservice.NewFeatureService(featurerepo.NewFeatureRepository(db)),
		Generation: genservice.New(ai, ai, log.With("module", "generation")),
		Exporter:   brief.NewExporter(store, log.With("module", "brief")),
		Media:      store,
	}

	if rdb != nil {
		sessions := wizardrepo.NewSessionRepository(rdb, cfg.Redis.SessionTTL)
		wlog := log.With("module", "wizard")
		s.Saver = wizardservice.NewSaver(s.Projects, sessions, wlog)
		s.Wizard = wizardservice.NewWizardService(sessions, s.Saver, s.Generation, s.Exporter, wlog)
	}
	return s, nil
}

// NewMediaStore picks the upload backend from configuration.
func NewMediaStore(ctx context.Context, cfg config.MediaConfig) (media.Store, error) {
	switch cfg.Backend {
	case "s3":
		return media.NewS3Store(ctx, cfg.Region, cfg.Bucket, cfg.Prefix)
	case "local", "":
		return media.NewLocalStore(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
}
