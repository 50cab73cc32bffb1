package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"externalId"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

type UpsertUser struct {
	ExternalID  string
	Email       string
	DisplayName string
}

// EnsureUser upserts by external id and returns the internal id.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (string, error) {
	if u.ExternalID == "" {
		return "", fmt.Errorf("external_id required")
	}

	const q = `
insert into users (external_id, email, display_name, updated_at)
values ($1, nullif($2,''), nullif($3,''), now())
on conflict (external_id) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRowContext(ctx, q, u.ExternalID, u.Email, u.DisplayName).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) Get(ctx context.Context, externalID string) (*User, error) {
	const q = `
select id::text, external_id, coalesce(email, ''), coalesce(display_name, ''), created_at, updated_at
from users
where external_id = $1;
`
	var u User
	err := r.db.QueryRowContext(ctx, q, externalID).
		Scan(&u.ID, &u.ExternalID, &u.Email, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
