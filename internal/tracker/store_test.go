package tracker

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/fit-scorer/internal/suitability"
)

func testClock() clock {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := 0
	ids := 0
	return clock{
		now: func() time.Time {
			ticks++
			return base.Add(time.Duration(ticks) * time.Minute)
		},
		newID: func() string {
			ids++
			return fmt.Sprintf("app-%d", ids)
		},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	dir := t.TempDir()

	file := NewFileStore(filepath.Join(dir, "applications.json"))
	file.clock = testClock()

	db, err := OpenSQLite(filepath.Join(dir, "applications.db"))
	require.NoError(t, err)
	db.clock = testClock()
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Store{DriverFile: file, DriverSQLite: db}
}

func sampleResult() *suitability.Result {
	return suitability.CalculateSuitability(
		suitability.CandidateProfile{Skills: []string{"Go"}},
		suitability.JobRequirements{RequiredSkills: []string{"Go", "Kafka"}},
		nil, nil,
	)
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first := &Application{JobTitle: "Backend Engineer", Company: "Acme", Result: sampleResult()}
			require.NoError(t, store.Save(ctx, first))
			assert.Equal(t, "app-1", first.ID)
			assert.Equal(t, StatusAnalyzed, first.Status)
			assert.Equal(t, []string{}, first.JDKeywords)

			second := &Application{
				JobTitle:   "Platform Engineer",
				Company:    "Globex",
				Channel:    ChannelLinkedIn,
				JDKeywords: []string{"Go", "k8s"},
				CVKeywords: []string{"Go"},
			}
			require.NoError(t, store.Save(ctx, second))

			got, err := store.Get(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "Acme", got.Company)
			require.NotNil(t, got.Result)
			assert.Equal(t, first.Result.OverallScore, got.Result.OverallScore)
			assert.Equal(t, []string{"Kafka"}, got.Result.MissingSkills)
			assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, second.ID, all[0].ID, "newest first")
			assert.Equal(t, []string{"Go", "k8s"}, all[0].JDKeywords)
			assert.Equal(t, ChannelLinkedIn, all[0].Channel)

			updated, err := store.UpdateStatus(ctx, first.ID, StatusApplied)
			require.NoError(t, err)
			require.NotNil(t, updated.AppliedAt)
			appliedAt := *updated.AppliedAt

			updated, err = store.UpdateStatus(ctx, first.ID, StatusInterview)
			require.NoError(t, err)
			assert.True(t, appliedAt.Equal(*updated.AppliedAt), "applied date is stamped once")

			interviews, err := store.List(ctx, StatusInterview)
			require.NoError(t, err)
			require.Len(t, interviews, 1)
			assert.Equal(t, first.ID, interviews[0].ID)
			require.NotNil(t, interviews[0].AppliedAt)

			require.NoError(t, store.Delete(ctx, second.ID))
			_, err = store.Get(ctx, second.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, store.Delete(ctx, second.ID), ErrNotFound)

			_, err = store.UpdateStatus(ctx, "missing", StatusOffer)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreSaveReplacesKeepingCreatedAt(t *testing.T) {
	ctx := context.Background()

	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			app := &Application{JobTitle: "SRE", Company: "Initech"}
			require.NoError(t, store.Save(ctx, app))
			created := app.CreatedAt

			replacement := &Application{ID: app.ID, JobTitle: "Senior SRE", Company: "Initech"}
			require.NoError(t, store.Save(ctx, replacement))

			got, err := store.Get(ctx, app.ID)
			require.NoError(t, err)
			assert.Equal(t, "Senior SRE", got.JobTitle)
			assert.True(t, created.Equal(got.CreatedAt))
			assert.True(t, got.UpdatedAt.After(created))

			all, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open("", filepath.Join(dir, "nested", "apps.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = Open("SQLite", filepath.Join(dir, "nested", "apps.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open("redis", filepath.Join(dir, "apps"))
	assert.ErrorContains(t, err, "unknown storage driver")

	_, err = Open(DriverFile, " ")
	assert.Error(t, err)
}

func TestFileStoreEmptyList(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	apps, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, apps)
}
