package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"playful_math_backend/internal/config"
	"playful_math_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageProvider_ListMissingPrefix(t *testing.T) {
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}

	names, err := p.List(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.Empty(t, names)
}

// 需要真实 MinIO：MINIO_ENDPOINT=127.0.0.1:9000 MINIO_ACCESS_KEY=... MINIO_SECRET_KEY=...
func TestMinioStorageProvider_SnapshotRoundTrip(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := &config.StorageConfig{
		Type:          util.StorageMinio,
		MinioEndpoint: endpoint,
		MinioAccessID: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecret:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:   "playful-math-test",
	}
	provider, err := NewMinioStorageProvider(ctx, cfg)
	require.NoError(t, err)
	storage := &StorageService{Provider: provider}

	prefix := fmt.Sprintf("test-%d", time.Now().UnixNano())
	var created []string
	for i := 0; i < 3; i++ {
		name, err := storage.ArchiveJSON(ctx, prefix, []int{i})
		require.NoError(t, err)
		created = append(created, name)
	}

	var latest []int
	require.NoError(t, storage.ReadJSON(ctx, created[2], &latest))
	assert.Equal(t, []int{2}, latest)
	assert.Equal(t, "/playful-math-test/"+created[2], storage.GetURL(created[2]))

	pruned, err := storage.PruneSnapshots(ctx, prefix, 1)
	require.NoError(t, err)
	assert.Equal(t, created[:2], pruned)

	names, err := provider.List(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, created[2:], names)

	require.NoError(t, storage.Delete(ctx, created[2]))
}
