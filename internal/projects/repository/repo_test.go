package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

var columns = []string{
	"id", "user_id", "status",
	"contact", "business", "logo", "site_type", "pages", "content_preferences", "image_requirements",
	"generated_content", "design", "integrations", "membership", "media",
	"submitted_at", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := NewProjectRepository(db)
	r.newID = func() (string, error) { return "onb-12345-6789", nil }
	r.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return r, mock
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func submissionRow(t *testing.T, id, status string, d domain.ProjectData, submittedAt any) *sqlmock.Rows {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		id, "", status,
		mustJSON(t, d.Contact), mustJSON(t, d.Business), mustJSON(t, d.Logo), d.SiteType,
		mustJSON(t, nonNil(d.Pages)), mustJSON(t, d.ContentPreferences), mustJSON(t, d.ImageRequirements),
		mustJSON(t, nonNil(d.GeneratedContent)), mustJSON(t, d.Design), mustJSON(t, d.Integrations),
		mustJSON(t, d.Membership), mustJSON(t, nonNil(d.Media)),
		submittedAt, created, created,
	)
}

func sample() domain.ProjectData {
	return domain.ProjectData{
		Contact:  domain.Contact{Name: "Jo", Email: "jo@acme.test"},
		Business: domain.Business{Name: "Acme", Description: "Anvils"},
		SiteType: "business",
		Pages:    []domain.Page{{ID: "home", Name: "Home", Path: "/", Required: true}},
	}
}

func TestCreate_RejectsMissingIdentity(t *testing.T) {
	r, mock := newRepo(t)

	_, err := r.Create(context.Background(), "", domain.ProjectData{Business: domain.Business{Name: "Acme"}})
	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_RetriesOnUniqueViolation(t *testing.T) {
	r, mock := newRepo(t)
	d := sample()

	mock.ExpectQuery("INSERT INTO project_submissions").
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery("INSERT INTO project_submissions").
		WithArgs("onb-12345-6789", "user-1", "Acme", "Anvils", "jo@acme.test", "business",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(submissionRow(t, "onb-12345-6789", domain.StatusDraft, d, nil))

	sub, err := r.Create(context.Background(), "user-1", d)
	require.NoError(t, err)
	assert.Equal(t, "onb-12345-6789", sub.ID)
	assert.Equal(t, domain.StatusDraft, sub.Status)
	assert.Equal(t, d.Pages, sub.Data.Pages)
	assert.Nil(t, sub.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_PropagatesOtherErrors(t *testing.T) {
	r, mock := newRepo(t)

	mock.ExpectQuery("INSERT INTO project_submissions").WillReturnError(errors.New("connection refused"))

	_, err := r.Create(context.Background(), "", sample())
	assert.EqualError(t, err, "connection refused")
}

func TestGet_NotFound(t *testing.T) {
	r, mock := newRepo(t)

	mock.ExpectQuery("FROM project_submissions WHERE id = \\$1").
		WithArgs("onb-00000-0000").
		WillReturnError(sql.ErrNoRows)

	_, err := r.Get(context.Background(), "onb-00000-0000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_MergesPatchInTransaction(t *testing.T) {
	r, mock := newRepo(t)
	cur := sample()
	design := domain.DesignPreferences{Style: "minimal"}
	want := domain.Patch{Design: &design}.Apply(cur)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("onb-12345-6789").
		WillReturnRows(submissionRow(t, "onb-12345-6789", domain.StatusDraft, cur, nil))
	mock.ExpectQuery("UPDATE project_submissions").
		WithArgs("onb-12345-6789", domain.StatusDraft, "Acme", "Anvils", "jo@acme.test", "business",
			mustJSON(t, want.Contact), mustJSON(t, want.Business), mustJSON(t, want.Logo), mustJSON(t, want.Pages),
			mustJSON(t, want.ContentPreferences), mustJSON(t, want.ImageRequirements), mustJSON(t, []domain.GeneratedContent{}),
			mustJSON(t, want.Design), mustJSON(t, want.Integrations), mustJSON(t, want.Membership), mustJSON(t, []domain.MediaRef{}),
			nil).
		WillReturnRows(submissionRow(t, "onb-12345-6789", domain.StatusDraft, want, nil))
	mock.ExpectCommit()

	sub, err := r.Update(context.Background(), "onb-12345-6789", domain.Patch{Design: &design})
	require.NoError(t, err)
	assert.Equal(t, "minimal", sub.Data.Design.Style)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFoundRollsBack(t *testing.T) {
	r, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Update(context.Background(), "missing", domain.Patch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_ExistingRecord(t *testing.T) {
	r, mock := newRepo(t)
	d := sample()
	at := r.now()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE project_submissions").
		WillReturnRows(submissionRow(t, "onb-12345-6789", domain.StatusSubmitted, d, at))
	mock.ExpectCommit()

	sub, err := r.Submit(context.Background(), "", "onb-12345-6789", d)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, sub.Status)
	require.NotNil(t, sub.SubmittedAt)
	assert.True(t, at.Equal(*sub.SubmittedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeStaleDrafts(t *testing.T) {
	r, mock := newRepo(t)
	before := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM project_submissions").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := r.PurgeStaleDrafts(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
