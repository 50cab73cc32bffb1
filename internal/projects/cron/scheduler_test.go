package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studioform/onboarding-backend/internal/platform/logger"
)

type countingPurger struct {
	retention []time.Duration
	err       error
}

func (p *countingPurger) PurgeStaleDrafts(_ context.Context, retention time.Duration) (int64, error) {
	p.retention = append(p.retention, retention)
	return 3, p.err
}

func TestRunOnce_PassesRetention(t *testing.T) {
	p := &countingPurger{}
	NewScheduler(p, 48*time.Hour, logger.NewNop()).RunOnce()

	assert.Equal(t, []time.Duration{48 * time.Hour}, p.retention)
}

func TestRunOnce_SwallowsErrors(t *testing.T) {
	p := &countingPurger{err: errors.New("db down")}
	assert.NotPanics(t, NewScheduler(p, time.Hour, logger.NewNop()).RunOnce)
}

func TestStart_RejectsBadSchedule(t *testing.T) {
	s := NewScheduler(&countingPurger{}, time.Hour, logger.NewNop())
	assert.Error(t, s.Start("every tuesday"))
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&countingPurger{}, time.Hour, logger.NewNop())
	require.NoError(t, s.Start("0 30 3 * * *"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
