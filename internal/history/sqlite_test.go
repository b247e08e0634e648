package history

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longevity-snapshot-server/internal/domain"
)

func TestNewSQLiteStore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "history-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)

	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func testAssessment(id, userID string) *domain.Assessment {
	return &domain.Assessment{
		ID:          id,
		UserID:      userID,
		ProfileHash: "a1b2c3d4",
		Result: &domain.SynthesizedResult{
			Recommendations: []domain.Recommendation{
				{
					Category:         "sleep",
					Action:           "improve_sleep_duration",
					Description:      "Increase nightly sleep toward 7-9 hours",
					EvidenceCategory: domain.EvidenceClinicalGuidelines,
					Priority:         domain.PriorityHigh,
					SourceAgent:      "sleep",
				},
			},
			Confidence:         domain.ConfidenceMedium,
			AgentContributions: map[string]domain.AgentContribution{},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	a := testAssessment("11111111-1111-1111-1111-111111111111", "user-1")
	require.NoError(t, store.Save(ctx, a))

	retrieved, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)

	assert.Equal(t, a.ID, retrieved.ID)
	assert.Equal(t, a.UserID, retrieved.UserID)
	assert.Equal(t, a.ProfileHash, retrieved.ProfileHash)
	require.NotNil(t, retrieved.Result)
	assert.Equal(t, domain.ConfidenceMedium, retrieved.Result.Confidence)
	require.Len(t, retrieved.Result.Recommendations, 1)
	assert.Equal(t, "improve_sleep_duration", retrieved.Result.Recommendations[0].Action)
}

func TestSQLiteStore_SaveIsImmutable(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	a := testAssessment("22222222-2222-2222-2222-222222222222", "user-1")
	require.NoError(t, store.Save(ctx, a))

	// Saving the same ID again must not overwrite the stored result.
	modified := testAssessment(a.ID, "user-1")
	modified.Result.Confidence = domain.ConfidenceLow
	require.NoError(t, store.Save(ctx, modified))

	retrieved, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, domain.ConfidenceMedium, retrieved.Result.Confidence)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := createTestStore(t)

	retrieved, err := store.Get(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestSQLiteStore_ListByUser(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{
		"33333333-3333-3333-3333-333333333331",
		"33333333-3333-3333-3333-333333333332",
		"33333333-3333-3333-3333-333333333333",
	} {
		a := testAssessment(id, "user-list")
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Save(ctx, a))
	}
	other := testAssessment("44444444-4444-4444-4444-444444444444", "someone-else")
	require.NoError(t, store.Save(ctx, other))

	list, err := store.ListByUser(ctx, "user-list", 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Newest first
	assert.Equal(t, "33333333-3333-3333-3333-333333333333", list[0].ID)
	assert.Equal(t, "33333333-3333-3333-3333-333333333331", list[2].ID)

	page, err := store.ListByUser(ctx, "user-list", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "33333333-3333-3333-3333-333333333332", page[0].ID)
}

func TestSQLiteStore_CountAndDelete(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	a := testAssessment("55555555-5555-5555-5555-555555555555", "user-1")
	require.NoError(t, store.Save(ctx, a))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Delete(ctx, a.ID))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSQLiteStore_ExportJSON(t *testing.T) {
	store := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testAssessment("66666666-6666-6666-6666-666666666666", "user-1")))
	require.NoError(t, store.Save(ctx, testAssessment("77777777-7777-7777-7777-777777777777", "user-2")))

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(ctx, &buf))

	var export Export
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))
	assert.Equal(t, "1.0", export.Version)
	assert.Equal(t, 2, export.Count)
	assert.Len(t, export.Assessments, 2)
}
