package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studioform/onboarding-backend/internal/brief"
	gendomain "github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/domain"
)

type Store interface {
	SaveStore
	Get(ctx context.Context, id string) (domain.State, error)
	Put(ctx context.Context, s domain.State) error
}

// Generator is the AI wrapper as seen by the wizard.
type Generator interface {
	GenerateLogos(ctx context.Context, req gendomain.LogoRequest) ([]projects.GeneratedLogo, error)
	GenerateContent(ctx context.Context, req gendomain.ContentRequest) ([]projects.GeneratedContent, error)
	RegenerateContent(ctx context.Context, req gendomain.ContentRequest, page projects.Page, direction string) (projects.GeneratedContent, error)
}

type Exporter interface {
	Export(ctx context.Context, data projects.ProjectData) (*brief.Bundle, error)
}

type WizardService struct {
	store    Store
	saver    *Saver
	gen      Generator
	exporter Exporter
	log      *logger.Logger
	newID    func() string
	now      func() time.Time
}

func NewWizardService(store Store, saver *Saver, gen Generator, exporter Exporter, log *logger.Logger) *WizardService {
	return &WizardService{
		store:    store,
		saver:    saver,
		gen:      gen,
		exporter: exporter,
		log:      log,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Start opens a fresh session. Sessions are never resumed from a project.
func (s *WizardService) Start(ctx context.Context, userID string) (domain.State, error) {
	st := domain.NewState(s.newID(), userID)
	st.UpdatedAt = s.now()
	if err := s.store.Put(ctx, st); err != nil {
		return domain.State{}, err
	}
	return st, nil
}

func (s *WizardService) Get(ctx context.Context, id string) (domain.State, error) {
	return s.store.Get(ctx, id)
}

// mutate loads a session, applies fn and stores the result. Nothing is
// written when fn fails.
func (s *WizardService) mutate(ctx context.Context, id string, fn func(domain.State) (domain.State, error)) (domain.State, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.State{}, err
	}
	next, err := fn(st)
	if err != nil {
		return st, err
	}
	next.UpdatedAt = s.now()
	if err := s.store.Put(ctx, next); err != nil {
		return st, err
	}
	return next, nil
}

// Update merges the sections carried by in.
func (s *WizardService) Update(ctx context.Context, id string, in Input) (domain.State, error) {
	if err := in.Validate(); err != nil {
		return domain.State{}, err
	}
	return s.mutate(ctx, id, in.apply)
}

// Next advances past a completed step and starts a background save. A
// failed save never blocks the advance.
func (s *WizardService) Next(ctx context.Context, id string) (domain.State, error) {
	st, err := s.mutate(ctx, id, domain.Next)
	if err != nil {
		return st, err
	}
	s.saver.Trigger(ctx, st)
	return st, nil
}

func (s *WizardService) Prev(ctx context.Context, id string) (domain.State, error) {
	return s.mutate(ctx, id, domain.Prev)
}

func (s *WizardService) GoTo(ctx context.Context, id string, step domain.Step) (domain.State, error) {
	return s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		return domain.GoTo(st, step)
	})
}

func (s *WizardService) AddPage(ctx context.Context, id, name string) (domain.State, projects.Page, error) {
	var page projects.Page
	st, err := s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		next, p, err := domain.AddPage(st, s.newID(), name)
		page = p
		return next, err
	})
	return st, page, err
}

func (s *WizardService) RemovePage(ctx context.Context, id, pageID string) (domain.State, error) {
	return s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		return domain.RemovePage(st, pageID)
	})
}

// GenerateLogos replaces the session's logo candidates. On zero successes
// the previous candidates are kept and the error is returned.
func (s *WizardService) GenerateLogos(ctx context.Context, id string) (domain.State, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.State{}, err
	}
	logos, err := s.gen.GenerateLogos(ctx, gendomain.LogoRequest{
		BusinessName: st.Data.Business.Name,
		Description:  st.Data.Business.Description,
		Preferences:  st.Data.Logo.Preferences,
	})
	if err != nil {
		return st, err
	}
	return s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		return domain.WithLogoCandidates(st, logos), nil
	})
}

func (s *WizardService) SelectLogo(ctx context.Context, id, logoID string, decision projects.LogoDecision) (domain.State, error) {
	return s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		return domain.SelectLogo(st, logoID, decision)
	})
}

// GenerateContent writes copy for every page of the sitemap.
func (s *WizardService) GenerateContent(ctx context.Context, id string) (domain.State, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.State{}, err
	}
	content, err := s.gen.GenerateContent(ctx, contentRequest(st))
	if err != nil {
		return st, err
	}
	return s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		return domain.MergeGeneratedContent(st, content), nil
	})
}

// RegenerateContent rewrites one page. A non-blank direction is stored for
// later runs.
func (s *WizardService) RegenerateContent(ctx context.Context, id, pageID, direction string) (domain.State, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.State{}, err
	}
	page, ok := st.PageByID(pageID)
	if !ok {
		return st, domain.ErrPageNotFound
	}
	if direction != "" {
		if st, err = domain.WithPageDirection(st, pageID, direction); err != nil {
			return st, err
		}
	}

	gc, err := s.gen.RegenerateContent(ctx, contentRequest(st), page, st.PageDirections[pageID])
	if err != nil {
		return st, err
	}
	return s.mutate(ctx, id, func(cur domain.State) (domain.State, error) {
		if direction != "" {
			var err error
			if cur, err = domain.WithPageDirection(cur, pageID, direction); err != nil {
				return cur, err
			}
		}
		return domain.MergeGeneratedContent(cur, []projects.GeneratedContent{gc}), nil
	})
}

func (s *WizardService) EditContent(ctx context.Context, id, pageID, text string) (domain.State, error) {
	return s.mutate(ctx, id, func(st domain.State) (domain.State, error) {
		return domain.EditContent(st, pageID, text)
	})
}

// Export renders the brief of the session's current data.
func (s *WizardService) Export(ctx context.Context, id string) (*brief.Bundle, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Export(ctx, st.Data)
}

func contentRequest(st domain.State) gendomain.ContentRequest {
	return gendomain.ContentRequest{
		BusinessName:        st.Data.Business.Name,
		BusinessDescription: st.Data.Business.Description,
		SiteType:            st.Data.SiteType,
		Pages:               st.Data.Pages,
		Preferences:         st.Data.ContentPreferences,
		PageDirections:      st.PageDirections,
	}
}
