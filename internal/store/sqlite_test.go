package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/housekg-scraper/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.CreateRun(ctx, 1, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	require.NoError(t, s.CompleteRun(ctx, run.ID, 42, 3))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	assert.Equal(t, 42, runs[0].Listings)
	assert.Equal(t, 3, runs[0].Failures)
	assert.Empty(t, runs[0].Error)
}

func TestFailRunKeepsReason(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.CreateRun(ctx, 1, 10)
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, "walker: fetch index page 4: status 500", 12, 1))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "index page 4")
}

func TestFinishUnknownRun(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteRun(context.Background(), "no-such-run", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFailureJournal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.CreateRun(ctx, 1, 1)
	require.NoError(t, err)

	require.NoError(t, s.RecordFailure(ctx, run.ID, "https://www.house.kg/details/9", "net::ERR_TIMED_OUT"))
	require.NoError(t, s.RecordFailure(ctx, run.ID, "https://www.house.kg/details/10", "parse failed"))

	failures, err := s.ListFailures(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, failures, 2)
	assert.Equal(t, "https://www.house.kg/details/9", failures[0].URL)
	assert.Equal(t, "parse failed", failures[1].Reason)

	// Other runs see no failures.
	other, err := s.ListFailures(ctx, "different-run")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestNoopStore(t *testing.T) {
	ctx := context.Background()
	var s Store = Noop{}

	run, err := s.CreateRun(ctx, 1, 100)
	require.NoError(t, err)
	assert.NotNil(t, run)
	require.NoError(t, s.RecordFailure(ctx, run.ID, "u", "r"))
	require.NoError(t, s.CompleteRun(ctx, run.ID, 0, 0))
	require.NoError(t, s.Close())
}
