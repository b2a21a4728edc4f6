package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoringd/internal/analytics"
	"scoringd/internal/models"
	"scoringd/internal/services"
	"scoringd/internal/structures"
	"scoringd/internal/testutil"
)

var recordedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newMemoryService(store models.HistoryStore) services.AnalyticsServiceInterface {
	conf := &structures.Config{}
	return services.NewAnalyticsService(
		store,
		analytics.NewPerformanceAnalyzer(store, conf),
		analytics.NewContentScorer(conf),
		analytics.NewTrendForecaster(conf),
	)
}

func seededService(t *testing.T) (services.AnalyticsServiceInterface, *models.MemoryHistoryStore) {
	t.Helper()
	store := models.NewMemoryHistoryStore(0, 0)
	svc := newMemoryService(store)
	ctx := context.Background()
	require.NoError(t, svc.AddMetrics(ctx, "alice", models.EngagementMetrics{Likes: 10, Followers: 100, Posts: 1}, recordedAt))
	require.NoError(t, svc.AddMetrics(ctx, "alice", models.EngagementMetrics{Likes: 20, Followers: 120, Posts: 2}, recordedAt.Add(time.Hour)))
	require.NoError(t, svc.AddMetrics(ctx, "bob", models.EngagementMetrics{Comments: 3, Followers: 50, Posts: 1}, recordedAt))
	return svc, store
}

func TestFileManager_SaveToFile_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.dat")
	svc, _ := seededService(t)

	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(context.Background(), path))

	_, err := os.Stat(path)
	assert.NoError(t, err)

	// tmp file should be cleaned up
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var storage models.Storage
	require.NoError(t, json.Unmarshal(raw, &storage))
	assert.Equal(t, models.StorageVersion, storage.Version)
	assert.Len(t, storage.Subjects["alice"], 2)
}

func TestFileManager_RoundTripWithZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.dat")
	svc, _ := seededService(t)

	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	fm := NewFileManager(comp, svc, &testutil.MockLogger{})
	defer fm.Close()
	require.NoError(t, fm.SaveToFile(context.Background(), path))

	restoredStore := models.NewMemoryHistoryStore(0, 0)
	restored := newMemoryService(restoredStore)
	fm2 := NewFileManager(comp, restored, &testutil.MockLogger{})
	require.NoError(t, fm2.LoadFromFile(context.Background(), path))

	snaps, err := restoredStore.List(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, int64(120), snaps[1].Metrics.Followers)
	assert.True(t, recordedAt.Add(time.Hour).Equal(snaps[1].RecordedAt))

	subjects, _ := restored.GetSubjects(context.Background())
	assert.Equal(t, []string{"alice", "bob"}, subjects)
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	svc := &testutil.MockAnalyticsService{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})

	err := fm.LoadFromFile(context.Background(), "/nonexistent/path/file.dat")
	assert.NoError(t, err) // not an error, just no data
	assert.Empty(t, svc.PutCalls)
}

func TestFileManager_LoadFromFile_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	svc := &testutil.MockAnalyticsService{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})

	assert.Error(t, fm.LoadFromFile(context.Background(), path))
	assert.Empty(t, svc.PutCalls)
}

func TestFileManager_LoadFromFile_NewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"subjects":{}}`), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, &testutil.MockAnalyticsService{}, &testutil.MockLogger{})
	err := fm.LoadFromFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer")
}

func TestFileManager_LoadFromFile_NoSubjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1}`), 0644))

	svc := &testutil.MockAnalyticsService{}
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, logger)

	require.NoError(t, fm.LoadFromFile(context.Background(), path))
	require.Len(t, svc.PutCalls, 1)
	assert.NotNil(t, svc.PutCalls[0].Subjects)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFileManager_LoadFromFile_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.dat")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	comp := &testutil.MockCompressor{
		DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("bad frame") },
	}
	fm := NewFileManager(comp, &testutil.MockAnalyticsService{}, &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(context.Background(), path))
}

func TestFileManager_SaveToFile_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.dat")
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress error") },
	}
	fm := NewFileManager(comp, &testutil.MockAnalyticsService{}, &testutil.MockLogger{})

	assert.Error(t, fm.SaveToFile(context.Background(), path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveToFile_SnapshotError(t *testing.T) {
	svc := &testutil.MockAnalyticsService{SnapshotErr: errors.New("store down")}
	fm := NewFileManager(&testutil.MockCompressor{}, svc, &testutil.MockLogger{})

	assert.Error(t, fm.SaveToFile(context.Background(), filepath.Join(t.TempDir(), "x.dat")))
}

func TestFileManager_SaveToFile_BadDirectory(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, &testutil.MockAnalyticsService{}, &testutil.MockLogger{})
	assert.Error(t, fm.SaveToFile(context.Background(), "/nonexistent/dir/data.dat"))
}

func TestFileManager_Close(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fm := NewFileManager(comp, &testutil.MockAnalyticsService{}, &testutil.MockLogger{})
	fm.Close()
	assert.True(t, comp.Closed)
}
