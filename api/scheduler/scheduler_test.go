package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/incident-reports-api/categories"
)

type fakeSyncer struct {
	calls  int
	forced bool
	err    error
}

func (f *fakeSyncer) Sync(ctx context.Context, force bool) (categories.SyncResult, error) {
	f.calls++
	f.forced = force
	if _, ok := ctx.Deadline(); !ok {
		return categories.SyncResult{}, errors.New("expected a deadline")
	}
	return categories.SyncResult{Added: 1}, f.err
}

func TestSyncCategoriesIsNotForced(t *testing.T) {
	f := &fakeSyncer{}
	s := NewScheduler(f, "0 3 * * *", nil)

	s.syncCategories()

	assert.Equal(t, 1, f.calls)
	assert.False(t, f.forced)
}

func TestSyncCategoriesErrorIsLogged(t *testing.T) {
	f := &fakeSyncer{err: errors.New("boom")}
	s := NewScheduler(f, "0 3 * * *", time.UTC)

	assert.NotPanics(t, s.syncCategories)
	assert.Equal(t, 1, f.calls)
}

func TestStart(t *testing.T) {
	s := NewScheduler(&fakeSyncer{}, "*/5 * * * *", time.UTC)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 1, s.Entries())
}

func TestStartDisabled(t *testing.T) {
	s := NewScheduler(&fakeSyncer{}, "", time.UTC)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Zero(t, s.Entries())
}

func TestStartBadSchedule(t *testing.T) {
	s := NewScheduler(&fakeSyncer{}, "not a schedule", time.UTC)
	assert.Error(t, s.Start())
}
