package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

// ProjectRepository persists project submissions.
type ProjectRepository struct {
	db    *sql.DB
	newID func() (string, error)
	now   func() time.Time
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{
		db:    db,
		newID: func() (string, error) { return domain.NewProjectID() },
		now:   time.Now,
	}
}

const selectColumns = `
id, coalesce(user_id, ''), status,
contact, business, logo, site_type, pages, content_preferences, image_requirements,
generated_content, design, integrations, membership, media,
submitted_at, created_at, updated_at`

// row holds the encoded JSONB columns of a submission.
type row struct {
	contact, business, logo, pages, contentPrefs, imageReqs []byte
	generated, design, integrations, membership, media      []byte
}

func encode(d domain.ProjectData) (row, error) {
	var (
		r   row
		err error
	)
	fields := []struct {
		dst *[]byte
		v   any
	}{
		{&r.contact, d.Contact},
		{&r.business, d.Business},
		{&r.logo, d.Logo},
		{&r.pages, nonNil(d.Pages)},
		{&r.contentPrefs, d.ContentPreferences},
		{&r.imageReqs, d.ImageRequirements},
		{&r.generated, nonNil(d.GeneratedContent)},
		{&r.design, d.Design},
		{&r.integrations, d.Integrations},
		{&r.membership, d.Membership},
		{&r.media, nonNil(d.Media)},
	}
	for _, f := range fields {
		if *f.dst, err = json.Marshal(f.v); err != nil {
			return row{}, fmt.Errorf("encode submission: %w", err)
		}
	}
	return r, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (r row) decode(d *domain.ProjectData) error {
	fields := []struct {
		src []byte
		v   any
	}{
		{r.contact, &d.Contact},
		{r.business, &d.Business},
		{r.logo, &d.Logo},
		{r.pages, &d.Pages},
		{r.contentPrefs, &d.ContentPreferences},
		{r.imageReqs, &d.ImageRequirements},
		{r.generated, &d.GeneratedContent},
		{r.design, &d.Design},
		{r.integrations, &d.Integrations},
		{r.membership, &d.Membership},
		{r.media, &d.Media},
	}
	for _, f := range fields {
		if len(f.src) == 0 {
			continue
		}
		if err := json.Unmarshal(f.src, f.v); err != nil {
			return fmt.Errorf("decode submission: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*domain.Submission, error) {
	var (
		sub         domain.Submission
		r           row
		submittedAt sql.NullTime
	)
	err := s.Scan(
		&sub.ID, &sub.UserID, &sub.Status,
		&r.contact, &r.business, &r.logo, &sub.Data.SiteType, &r.pages, &r.contentPrefs, &r.imageReqs,
		&r.generated, &r.design, &r.integrations, &r.membership, &r.media,
		&submittedAt, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.decode(&sub.Data); err != nil {
		return nil, err
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		sub.SubmittedAt = &t
	}
	return &sub, nil
}

// Create inserts a new draft. The public id is regenerated on collision.
func (r *ProjectRepository) Create(ctx context.Context, userID string, data domain.ProjectData) (*domain.Submission, error) {
	if !data.HasIdentity() {
		return nil, domain.ErrMissingIdentity
	}
	enc, err := encode(data)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO project_submissions (
  id, user_id, status, business_name, business_description, contact_email, site_type,
  contact, business, logo, pages, content_preferences, image_requirements,
  generated_content, design, integrations, membership, media
)
VALUES ($1, nullif($2,''), 'draft', $3, $4, nullif($5,''), $6,
  $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING ` + selectColumns + `;
`
	for i := 0; i < 5; i++ {
		id, err := r.newID()
		if err != nil {
			return nil, err
		}

		sub, err := scanSubmission(r.db.QueryRowContext(ctx, q,
			id, userID, strings.TrimSpace(data.Business.Name), strings.TrimSpace(data.Business.Description),
			data.Contact.Email, data.SiteType,
			enc.contact, enc.business, enc.logo, enc.pages, enc.contentPrefs, enc.imageReqs,
			enc.generated, enc.design, enc.integrations, enc.membership, enc.media,
		))
		if err == nil {
			return sub, nil
		}

		// unique violation on id → retry
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

// Get loads one submission.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Submission, error) {
	q := `SELECT ` + selectColumns + ` FROM project_submissions WHERE id = $1;`
	return scanSubmission(r.db.QueryRowContext(ctx, q, id))
}

// Update merges the patch into the stored record inside one transaction.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Submission, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	q := `SELECT ` + selectColumns + ` FROM project_submissions WHERE id = $1 FOR UPDATE;`
	cur, err := scanSubmission(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	next := patch.Apply(cur.Data)
	sub, err := r.write(ctx, tx, id, next, cur.Status, cur.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

// Submit writes the full record and marks it submitted. A missing id creates
// the record first.
func (r *ProjectRepository) Submit(ctx context.Context, userID, id string, data domain.ProjectData) (*domain.Submission, error) {
	if id == "" {
		created, err := r.Create(ctx, userID, data)
		if err != nil {
			return nil, err
		}
		id = created.ID
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := r.now().UTC()
	sub, err := r.write(ctx, tx, id, data, domain.StatusSubmitted, &now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *ProjectRepository) write(ctx context.Context, tx *sql.Tx, id string, data domain.ProjectData, status string, submittedAt *time.Time) (*domain.Submission, error) {
	enc, err := encode(data)
	if err != nil {
		return nil, err
	}

	const q = `
UPDATE project_submissions
SET status = $2,
    business_name = coalesce(nullif($3,''), business_name),
    business_description = coalesce(nullif($4,''), business_description),
    contact_email = coalesce(nullif($5,''), contact_email),
    site_type = coalesce(nullif($6,''), site_type),
    contact = $7, business = $8, logo = $9, pages = $10,
    content_preferences = $11, image_requirements = $12, generated_content = $13,
    design = $14, integrations = $15, membership = $16, media = $17,
    submitted_at = $18,
    updated_at = now()
WHERE id = $1
RETURNING ` + selectColumns + `;
`
	var sa sql.NullTime
	if submittedAt != nil {
		sa = sql.NullTime{Time: *submittedAt, Valid: true}
	}
	return scanSubmission(tx.QueryRowContext(ctx, q,
		id, status,
		strings.TrimSpace(data.Business.Name), strings.TrimSpace(data.Business.Description),
		data.Contact.Email, data.SiteType,
		enc.contact, enc.business, enc.logo, enc.pages, enc.contentPrefs, enc.imageReqs,
		enc.generated, enc.design, enc.integrations, enc.membership, enc.media,
		sa,
	))
}

// PurgeStaleDrafts deletes drafts not updated since before and returns how many were removed.
func (r *ProjectRepository) PurgeStaleDrafts(ctx context.Context, before time.Time) (int64, error) {
	const q = `
DELETE FROM project_submissions
WHERE status = 'draft' AND updated_at < $1;
`
	result, err := r.db.ExecContext(ctx, q, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
