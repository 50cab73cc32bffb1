package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/domain"
)

const saveTimeout = 30 * time.Second

// Projects is the submission side of incremental persistence.
type Projects interface {
	Create(ctx context.Context, userID string, data projects.ProjectData) (*projects.Submission, error)
	Update(ctx context.Context, id string, patch projects.Patch) (*projects.Submission, error)
}

// SaveStore tracks the submission id of a session and guards against
// overlapping saves.
type SaveStore interface {
	SetProjectID(ctx context.Context, sessionID, projectID string) error
	ProjectID(ctx context.Context, sessionID string) (string, error)
	TryLock(ctx context.Context, sessionID string) (bool, error)
	Unlock(ctx context.Context, sessionID string) error
}

// Saver mirrors wizard state into the submission record in the background.
// At most one save runs per session; triggers that arrive while one is
// running are dropped, not queued.
type Saver struct {
	projects Projects
	store    SaveStore
	log      *logger.Logger
	wg       sync.WaitGroup
}

func NewSaver(p Projects, store SaveStore, log *logger.Logger) *Saver {
	return &Saver{projects: p, store: store, log: log}
}

// Trigger starts a save of st and reports whether one was started. It never
// blocks on the save and never fails.
func (s *Saver) Trigger(ctx context.Context, st domain.State) bool {
	ctx = context.WithoutCancel(ctx)
	log := s.log.With("session_id", st.SessionID)

	ok, err := s.store.TryLock(ctx, st.SessionID)
	if err != nil {
		log.Warn("save guard unavailable", "error", err)
		return false
	}
	if !ok {
		log.Debug("save already in flight, skipping")
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := s.store.Unlock(ctx, st.SessionID); err != nil {
				log.Warn("release save guard", "error", err)
			}
		}()

		saveCtx, cancel := context.WithTimeout(ctx, saveTimeout)
		defer cancel()
		if err := s.save(saveCtx, st); err != nil {
			log.Warn("incremental save failed", "step", st.Current.String(), "error", err)
		}
	}()
	return true
}

// Wait blocks until every started save has finished.
func (s *Saver) Wait() {
	s.wg.Wait()
}

func (s *Saver) save(ctx context.Context, st domain.State) error {
	pid, err := s.store.ProjectID(ctx, st.SessionID)
	if err != nil {
		return err
	}
	if pid == "" {
		pid = st.ProjectID
	}

	// Invalid sections are skipped; the rest still syncs.
	patch, dropped := projects.PatchFrom(st.Data).DropInvalid()
	if len(dropped) > 0 {
		s.log.Warn("invalid sections left out of save", "session_id", st.SessionID, "sections", dropped)
	}

	if pid == "" {
		if !st.Data.HasIdentity() {
			return nil
		}
		sub, err := s.projects.Create(ctx, st.UserID, patch.Apply(projects.ProjectData{}))
		if err != nil {
			return fmt.Errorf("create submission: %w", err)
		}
		if err := s.store.SetProjectID(ctx, st.SessionID, sub.ID); err != nil {
			return err
		}
		s.log.Info("submission created", "session_id", st.SessionID, "project_id", sub.ID)
		return nil
	}

	if patch.IsEmpty() {
		return nil
	}
	if _, err := s.projects.Update(ctx, pid, patch); err != nil {
		return fmt.Errorf("update submission %s: %w", pid, err)
	}
	return nil
}
