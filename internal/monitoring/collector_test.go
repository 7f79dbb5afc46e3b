package monitoring

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/housekg-scraper/internal/store"
)

func TestCollectSummarizesRuns(t *testing.T) {
	ctx := context.Background()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(ctx))

	r1, err := st.CreateRun(ctx, 1, 10)
	require.NoError(t, err)
	require.NoError(t, st.CompleteRun(ctx, r1.ID, 90, 10))

	r2, err := st.CreateRun(ctx, 1, 5)
	require.NoError(t, err)
	require.NoError(t, st.FailRun(ctx, r2.ID, "index page 3: status 500", 20, 0))

	snap, err := NewCollector(st).Collect(ctx, 20)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.RunsTotal)
	assert.Equal(t, 1, snap.RunsComplete)
	assert.Equal(t, 1, snap.RunsFailed)
	assert.Equal(t, 110, snap.Listings)
	assert.Equal(t, 10, snap.Failures)
	assert.InDelta(t, 10.0/120.0, snap.FailRate, 1e-9)
}

func TestCollectEmptyJournal(t *testing.T) {
	snap, err := NewCollector(store.Noop{}).Collect(context.Background(), 20)
	require.NoError(t, err)
	assert.Zero(t, snap.RunsTotal)
	assert.Zero(t, snap.FailRate)
}
