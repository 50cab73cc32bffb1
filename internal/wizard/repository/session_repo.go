package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/studioform/onboarding-backend/internal/wizard/domain"
)

const (
	sessionKeyPrefix = "wizard:session:" // wizard:session:{id}
	projectSuffix    = ":project"        // wizard:session:{id}:project -> submission id
	savingSuffix     = ":saving"         // in-flight save guard
	saveGuardTTL     = 2 * time.Minute
)

// SessionRepository keeps wizard sessions in Redis. Every key of a session
// shares the session TTL, refreshed on each write.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (domain.State, error) {
	vals, err := r.client.MGet(ctx, r.sessionKey(id), r.projectKey(id)).Result()
	if err != nil {
		return domain.State{}, fmt.Errorf("get session: %w", err)
	}
	raw, ok := vals[0].(string)
	if !ok {
		return domain.State{}, domain.ErrSessionNotFound
	}

	var s domain.State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return domain.State{}, fmt.Errorf("decode session: %w", err)
	}
	// The saver writes the project id on its own key; it wins over the copy
	// embedded in the session document.
	if pid, ok := vals[1].(string); ok && pid != "" {
		s.ProjectID = pid
	}
	return s, nil
}

func (r *SessionRepository) Put(ctx context.Context, s domain.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.sessionKey(s.SessionID), data, r.ttl)
	pipe.Expire(ctx, r.projectKey(s.SessionID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (r *SessionRepository) SetProjectID(ctx context.Context, sessionID, projectID string) error {
	if err := r.client.Set(ctx, r.projectKey(sessionID), projectID, r.ttl).Err(); err != nil {
		return fmt.Errorf("set project id: %w", err)
	}
	return nil
}

func (r *SessionRepository) ProjectID(ctx context.Context, sessionID string) (string, error) {
	pid, err := r.client.Get(ctx, r.projectKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get project id: %w", err)
	}
	return pid, nil
}

// TryLock claims the save guard of a session. It returns false while another
// save holds it.
func (r *SessionRepository) TryLock(ctx context.Context, sessionID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.sessionKey(sessionID)+savingSuffix, 1, saveGuardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire save guard: %w", err)
	}
	return ok, nil
}

func (r *SessionRepository) Unlock(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.sessionKey(sessionID)+savingSuffix).Err(); err != nil {
		return fmt.Errorf("release save guard: %w", err)
	}
	return nil
}

func (r *SessionRepository) sessionKey(id string) string { return sessionKeyPrefix + id }
func (r *SessionRepository) projectKey(id string) string { return sessionKeyPrefix + id + projectSuffix }
