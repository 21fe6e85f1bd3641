package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlcheck/internal/finding"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, run := range []Run{
		{ID: "run-a", FilesChecked: 3, FindingCount: 0, Pass: true},
		{ID: "run-b", FilesChecked: 3, FindingCount: 2, Pass: false},
	} {
		run.StartedAt = base.Add(time.Duration(i) * time.Minute)
		run.FinishedAt = run.StartedAt.Add(5 * time.Second)
		require.NoError(t, store.SaveRun(ctx, run, nil))
	}

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "run-b", runs[0].ID)
	assert.False(t, runs[0].Pass)
	assert.Equal(t, "run-a", runs[1].ID)
	assert.True(t, runs[1].Pass)
	assert.Equal(t, base.Add(time.Minute), runs[0].StartedAt)
}

func TestRecentRunsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		run := Run{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Second),
			Pass:      true,
		}
		require.NoError(t, store.SaveRun(ctx, run, nil))
	}

	runs, err := store.RecentRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = store.RecentRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 5, "non-positive limit falls back to the default")
}

func TestFindingsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	findings := []finding.Finding{
		{
			Language: "python",
			File:     "point.py",
			Type:     "Point",
			Member:   "width",
			Kind:     finding.KindMissingField,
			Detail:   "required field width is not declared",
		},
		{
			Language: "rust",
			Case:     "point_distance",
			Kind:     finding.KindBehavioral,
			SubKind:  finding.SubKindNumeric,
			Detail:   "rust produced 5.0001, expected 5",
		},
	}
	run := Run{
		ID:           "run-1",
		StartedAt:    time.Now().UTC(),
		FinishedAt:   time.Now().UTC(),
		FilesChecked: 3,
		FindingCount: len(findings),
	}
	require.NoError(t, store.SaveRun(ctx, run, findings))

	loaded, err := store.FindingsForRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, findings, loaded)

	t.Run("UnknownRun", func(t *testing.T) {
		loaded, err := store.FindingsForRun(ctx, "no-such-run")
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})
}

func TestSaveRunIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", StartedAt: time.Now().UTC(), FindingCount: 1, Pass: false}
	findings := []finding.Finding{{Language: "cpp", Kind: finding.KindMissingType, Type: "Color"}}

	require.NoError(t, store.SaveRun(ctx, run, findings))

	run.Pass = true
	run.FindingCount = 0
	require.NoError(t, store.SaveRun(ctx, run, findings))

	runs, err := store.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1, "re-saving a run updates in place")
	assert.True(t, runs[0].Pass)
}
