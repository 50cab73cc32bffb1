package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studioform/onboarding-backend/internal/features/domain"
)

type FeatureRepository struct {
	db *sql.DB
}

func NewFeatureRepository(db *sql.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

const returning = `RETURNING user_id, selected_features, priorities, notes, created_at, updated_at`

func scan(row *sql.Row) (*domain.FeatureSelection, error) {
	var (
		s                    domain.FeatureSelection
		features, priorities []byte
	)
	if err := row.Scan(&s.UserID, &features, &priorities, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(features, &s.SelectedFeatures); err != nil {
		return nil, fmt.Errorf("decode selected_features: %w", err)
	}
	if err := json.Unmarshal(priorities, &s.Priorities); err != nil {
		return nil, fmt.Errorf("decode priorities: %w", err)
	}
	return &s, nil
}

func encode(s domain.FeatureSelection) ([]byte, []byte, error) {
	if s.SelectedFeatures == nil {
		s.SelectedFeatures = []string{}
	}
	if s.Priorities == nil {
		s.Priorities = map[string]domain.Priority{}
	}
	features, err := json.Marshal(s.SelectedFeatures)
	if err != nil {
		return nil, nil, err
	}
	priorities, err := json.Marshal(s.Priorities)
	if err != nil {
		return nil, nil, err
	}
	return features, priorities, nil
}

func (r *FeatureRepository) Get(ctx context.Context, userID string) (*domain.FeatureSelection, error) {
	const q = `
SELECT user_id, selected_features, priorities, notes, created_at, updated_at
FROM feature_selections
WHERE user_id = $1;
`
	return scan(r.db.QueryRowContext(ctx, q, userID))
}

// Upsert creates the selection or replaces an existing one.
func (r *FeatureRepository) Upsert(ctx context.Context, s domain.FeatureSelection) (*domain.FeatureSelection, error) {
	features, priorities, err := encode(s)
	if err != nil {
		return nil, err
	}
	q := `
INSERT INTO feature_selections (user_id, selected_features, priorities, notes)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET selected_features = excluded.selected_features,
    priorities = excluded.priorities,
    notes = excluded.notes,
    updated_at = now()
` + returning + `;`
	return scan(r.db.QueryRowContext(ctx, q, s.UserID, features, priorities, s.Notes))
}

// Update replaces an existing selection.
func (r *FeatureRepository) Update(ctx context.Context, s domain.FeatureSelection) (*domain.FeatureSelection, error) {
	features, priorities, err := encode(s)
	if err != nil {
		return nil, err
	}
	q := `
UPDATE feature_selections
SET selected_features = $2, priorities = $3, notes = $4, updated_at = now()
WHERE user_id = $1
` + returning + `;`
	return scan(r.db.QueryRowContext(ctx, q, s.UserID, features, priorities, s.Notes))
}
