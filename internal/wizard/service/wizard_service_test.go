package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/onboarding-backend/internal/brief"
	gendomain "github.com/studioform/onboarding-backend/internal/generation/domain"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	projects "github.com/studioform/onboarding-backend/internal/projects/domain"
	"github.com/studioform/onboarding-backend/internal/wizard/domain"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]domain.State
	projects map[string]string
	locks    map[string]bool
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]domain.State{}, projects: map[string]string{}, locks: map[string]bool{}}
}

func (m *memStore) Get(_ context.Context, id string) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[id]
	if !ok {
		return domain.State{}, domain.ErrSessionNotFound
	}
	if pid := m.projects[id]; pid != "" {
		st.ProjectID = pid
	}
	return st, nil
}

func (m *memStore) Put(_ context.Context, st domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[st.SessionID] = st
	return nil
}

func (m *memStore) SetProjectID(_ context.Context, sessionID, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[sessionID] = projectID
	return nil
}

func (m *memStore) ProjectID(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects[sessionID], nil
}

func (m *memStore) TryLock(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[sessionID] {
		return false, nil
	}
	m.locks[sessionID] = true
	return true, nil
}

func (m *memStore) Unlock(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, sessionID)
	return nil
}

type fakeProjects struct {
	creates   atomic.Int32
	updates   atomic.Int32
	gate      chan struct{}
	createErr error

	mu         sync.Mutex
	lastPatch  projects.Patch
	lastCreate projects.ProjectData
}

func (f *fakeProjects) Create(_ context.Context, _ string, data projects.ProjectData) (*projects.Submission, error) {
	f.creates.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	f.lastCreate = data
	f.mu.Unlock()
	return &projects.Submission{ID: "onb-10000-2000", Data: data}, nil
}

func (f *fakeProjects) Update(_ context.Context, id string, patch projects.Patch) (*projects.Submission, error) {
	f.updates.Add(1)
	f.mu.Lock()
	f.lastPatch = patch
	f.mu.Unlock()
	return &projects.Submission{ID: id}, nil
}

type fakeGen struct {
	logos    []projects.GeneratedLogo
	logoErr  error
	lastDir  string
	contents int
}

func (g *fakeGen) GenerateLogos(context.Context, gendomain.LogoRequest) ([]projects.GeneratedLogo, error) {
	return g.logos, g.logoErr
}

func (g *fakeGen) GenerateContent(_ context.Context, req gendomain.ContentRequest) ([]projects.GeneratedContent, error) {
	out := make([]projects.GeneratedContent, 0, len(req.Pages))
	for _, p := range req.Pages {
		g.contents++
		out = append(out, projects.GeneratedContent{PageID: p.ID, PageName: p.Name, Content: "copy for " + p.Name})
	}
	return out, nil
}

func (g *fakeGen) RegenerateContent(_ context.Context, _ gendomain.ContentRequest, page projects.Page, direction string) (projects.GeneratedContent, error) {
	g.lastDir = direction
	return projects.GeneratedContent{PageID: page.ID, PageName: page.Name, Content: "again", PageDirection: direction}, nil
}

type fakeExporter struct{ got projects.ProjectData }

func (e *fakeExporter) Export(_ context.Context, data projects.ProjectData) (*brief.Bundle, error) {
	e.got = data
	return &brief.Bundle{DocumentName: "x.pdf"}, nil
}

type fixture struct {
	svc      *WizardService
	store    *memStore
	projects *fakeProjects
	gen      *fakeGen
	saver    *Saver
}

func newFixture() *fixture {
	f := &fixture{store: newMemStore(), projects: &fakeProjects{}, gen: &fakeGen{}}
	f.saver = NewSaver(f.projects, f.store, logger.NewNop())
	f.svc = NewWizardService(f.store, f.saver, f.gen, &fakeExporter{}, logger.NewNop())
	n := 0
	f.svc.newID = func() string { n++; return "id-" + string(rune('a'+n-1)) }
	f.svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return f
}

func ptr[T any](v T) *T { return &v }

func readyInput() Input {
	return Input{Patch: projects.Patch{
		Contact:  &projects.Contact{Name: "Ada", Email: "ada@example.com"},
		Business: &projects.Business{Name: "Acme", Description: "Anvils", HasExistingName: ptr(true)},
	}}
}

func TestNext_TwoRapidAdvancesStartOneSave(t *testing.T) {
	f := newFixture()
	f.projects.gate = make(chan struct{})
	ctx := context.Background()

	st, err := f.svc.Start(ctx, "user-1")
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, st.SessionID, readyInput())
	require.NoError(t, err)

	st, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepBusiness, st.Current)

	st, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StepLogo, st.Current, "the second advance is not blocked by the pending save")

	close(f.projects.gate)
	f.saver.Wait()
	assert.EqualValues(t, 1, f.projects.creates.Load())
	assert.EqualValues(t, 0, f.projects.updates.Load())

	got, err := f.svc.Get(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "onb-10000-2000", got.ProjectID)
}

func TestNext_PatchesOnceProjectExists(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	st, _ := f.svc.Start(ctx, "")
	_, err := f.svc.Update(ctx, st.SessionID, readyInput())
	require.NoError(t, err)
	_, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	f.saver.Wait()

	_, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	f.saver.Wait()

	assert.EqualValues(t, 1, f.projects.creates.Load())
	assert.EqualValues(t, 1, f.projects.updates.Load())
	require.NotNil(t, f.projects.lastPatch.Business)
	assert.Equal(t, "Acme", f.projects.lastPatch.Business.Name)
	assert.Nil(t, f.projects.lastPatch.Logo, "empty sections are not sent")
}

func TestNext_SkipsCreateWithoutIdentity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	st, _ := f.svc.Start(ctx, "")
	_, err := f.svc.Update(ctx, st.SessionID, Input{Patch: projects.Patch{
		Contact: &projects.Contact{Name: "Ada", Email: "ada@example.com"},
	}})
	require.NoError(t, err)

	_, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	f.saver.Wait()
	assert.EqualValues(t, 0, f.projects.creates.Load())
}

func TestNext_SaveFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	f.projects.createErr = errors.New("connection refused")
	ctx := context.Background()

	st, _ := f.svc.Start(ctx, "")
	_, err := f.svc.Update(ctx, st.SessionID, readyInput())
	require.NoError(t, err)

	st, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	f.saver.Wait()

	assert.Equal(t, domain.StepBusiness, st.Current)
	pid, _ := f.store.ProjectID(ctx, st.SessionID)
	assert.Empty(t, pid)

	// the guard was released, so the next advance tries again
	_, err = f.svc.Next(ctx, st.SessionID)
	require.NoError(t, err)
	f.saver.Wait()
	assert.EqualValues(t, 2, f.projects.creates.Load())
}

func halfFilledIntegrations() projects.Integrations {
	return projects.Integrations{CRM: projects.CategorySelection{Selected: []string{projects.CustomOption}}}
}

func TestSaver_SkipsInvalidSectionOnUpdate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	st := domain.NewState("s1", "")
	st.Data.Business = projects.Business{Name: "Acme", Description: "Anvils"}
	st.Data.Integrations = halfFilledIntegrations()
	require.NoError(t, f.store.SetProjectID(ctx, st.SessionID, "onb-10000-2000"))

	require.True(t, f.saver.Trigger(ctx, st))
	f.saver.Wait()

	assert.EqualValues(t, 1, f.projects.updates.Load())
	assert.Nil(t, f.projects.lastPatch.Integrations)
	require.NotNil(t, f.projects.lastPatch.Business)
	assert.Equal(t, "Acme", f.projects.lastPatch.Business.Name)
}

func TestSaver_SkipsInvalidSectionOnCreate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	st := domain.NewState("s1", "")
	st.Data.Business = projects.Business{Name: "Acme", Description: "Anvils"}
	st.Data.Integrations = halfFilledIntegrations()

	require.True(t, f.saver.Trigger(ctx, st))
	f.saver.Wait()

	assert.EqualValues(t, 1, f.projects.creates.Load())
	assert.True(t, f.projects.lastCreate.Integrations.IsZero())
	assert.Equal(t, "Acme", f.projects.lastCreate.Business.Name)
	assert.Len(t, f.projects.lastCreate.Pages, 4)
}

func TestNext_IncompleteStepDoesNotSave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	st, _ := f.svc.Start(ctx, "")
	_, err := f.svc.Next(ctx, st.SessionID)
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)
	f.saver.Wait()
	assert.EqualValues(t, 0, f.projects.creates.Load())
}

func TestUpdate_RejectsSitemapAndInvalidFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	st, _ := f.svc.Start(ctx, "")

	_, err := f.svc.Update(ctx, st.SessionID, Input{Patch: projects.Patch{Pages: []projects.Page{}}})
	var verr *projects.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "pages", verr.Fields[0].Field)

	_, err = f.svc.Update(ctx, st.SessionID, Input{Patch: projects.Patch{Design: &projects.DesignPreferences{Colors: []string{"blue"}}}})
	require.ErrorAs(t, err, &verr)

	_, err = f.svc.Update(ctx, st.SessionID, Input{PageDirections: map[string]string{"missing": "x"}})
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestPagesThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	st, _ := f.svc.Start(ctx, "")

	st, page, err := f.svc.AddPage(ctx, st.SessionID, "Our Team")
	require.NoError(t, err)
	assert.Equal(t, "/our-team", page.Path)
	assert.Len(t, st.Data.Pages, 5)

	_, err = f.svc.RemovePage(ctx, st.SessionID, "home")
	assert.ErrorIs(t, err, domain.ErrRequiredPage)

	st, err = f.svc.RemovePage(ctx, st.SessionID, page.ID)
	require.NoError(t, err)
	assert.Len(t, st.Data.Pages, 4)
}

func TestGenerateLogos_KeepsCandidatesOnFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	st, _ := f.svc.Start(ctx, "")

	f.gen.logos = []projects.GeneratedLogo{{ID: "l1", DataURL: "data:image/png;base64,AA=="}}
	st, err := f.svc.GenerateLogos(ctx, st.SessionID)
	require.NoError(t, err)
	require.Len(t, st.LogoCandidates, 1)

	f.gen.logoErr = gendomain.ErrNoLogos
	_, err = f.svc.GenerateLogos(ctx, st.SessionID)
	assert.ErrorIs(t, err, gendomain.ErrNoLogos)

	st, err = f.svc.SelectLogo(ctx, st.SessionID, "l1", projects.LogoDecisionFinal)
	require.NoError(t, err)
	assert.Equal(t, projects.LogoChoiceGenerate, st.Data.Logo.Choice)
}

func TestContentThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	st, _ := f.svc.Start(ctx, "")

	st, err := f.svc.GenerateContent(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Len(t, st.Data.GeneratedContent, 4)

	st, err = f.svc.RegenerateContent(ctx, st.SessionID, "about", "more playful")
	require.NoError(t, err)
	assert.Equal(t, "more playful", f.gen.lastDir)
	assert.Equal(t, "more playful", st.PageDirections["about"])
	assert.Len(t, st.Data.GeneratedContent, 4)
	assert.Equal(t, "again", st.Data.GeneratedContent[1].Content)

	_, err = f.svc.RegenerateContent(ctx, st.SessionID, "nope", "")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)

	st, err = f.svc.EditContent(ctx, st.SessionID, "home", "hand written")
	require.NoError(t, err)
	assert.Equal(t, "hand written", st.Data.GeneratedContent[0].Display())
}

func TestExportUsesSessionData(t *testing.T) {
	f := newFixture()
	exp := &fakeExporter{}
	f.svc.exporter = exp
	ctx := context.Background()

	st, _ := f.svc.Start(ctx, "")
	_, err := f.svc.Update(ctx, st.SessionID, readyInput())
	require.NoError(t, err)

	b, err := f.svc.Export(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "x.pdf", b.DocumentName)
	assert.Equal(t, "Acme", exp.got.Business.Name)

	_, err = f.svc.Export(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
