package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebook/internal/domain"
)

func testSession(id string, status domain.SessionStatus, updated time.Time) *domain.Session {
	return &domain.Session{
		ID:         id,
		RecipeID:   "recipe-1",
		RecipeName: "Soup, Hearty",
		Steps:      []string{"1. Boil.", "2. Serve."},
		StepStates: []domain.StepState{
			{Status: domain.StepDone, CompletedAt: updated},
			{Status: domain.StepPending},
		},
		Status:    status,
		StartedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

	store, err := OpenFileStore(dir, nil)
	require.NoError(t, err)
	want := testSession("s1", domain.SessionActive, at)
	require.NoError(t, store.Save(ctx, want))

	data, err := os.ReadFile(filepath.Join(dir, "s1.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "status: active")
	assert.Contains(t, string(data), "status: done")

	reopened, err := OpenFileStore(dir, nil)
	require.NoError(t, err)
	got, err := reopened.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	active, err := reopened.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestFileStoreDelete(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store, err := OpenFileStore(dir, nil)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, testSession("s1", domain.SessionActive, time.Now())))
	require.NoError(t, store.Delete(ctx, "s1"))
	assert.NoFileExists(t, filepath.Join(dir, "s1.yaml"))

	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "s1"), domain.ErrNotFound)
}

func TestFileStoreSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [oops"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noid.yaml"), []byte("recipe_id: x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	store, err := OpenFileStore(dir, nil)
	require.NoError(t, err)
	active, err := store.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	store, err := OpenFileStore(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Error(t, store.Save(context.Background(), testSession("../escape", domain.SessionActive, time.Now())))
}

func TestFileStorePrune(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store, err := OpenFileStore(dir, nil)
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Save(ctx, testSession("done-old", domain.SessionCompleted, old)))
	require.NoError(t, store.Save(ctx, testSession("gone-old", domain.SessionAbandoned, old)))
	require.NoError(t, store.Save(ctx, testSession("active-old", domain.SessionActive, old)))
	require.NoError(t, store.Save(ctx, testSession("done-new", domain.SessionCompleted, time.Now())))

	n, err := store.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{"active-old", "done-new"} {
		_, err := store.Load(ctx, id)
		assert.NoError(t, err, id)
	}
	assert.NoFileExists(t, filepath.Join(dir, "done-old.yaml"))
	assert.FileExists(t, filepath.Join(dir, "active-old.yaml"))
}
