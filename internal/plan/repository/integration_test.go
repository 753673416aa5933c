package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gogotex/planstore/internal/database"
	"github.com/gogotex/planstore/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// These run against real servers and are skipped unless the matching
// environment variables point at one.

func TestMongoKV(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx := context.Background()
	name := "plans_test_" + uuid.NewString()[:8]
	client, col, err := database.OpenCollection(ctx, uri, "planstore_test", name, 10*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = col.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	kv := NewMongoKV(client, col)
	exerciseKV(t, kv)

	// values come back byte for byte, including non-JSON content
	raw := []byte{0x00, 0xff, '{', '}'}
	require.NoError(t, kv.Set(ctx, "raw", raw))
	got, err := kv.Get(ctx, "raw")
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestObjectKV(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "planstore-test"
	}
	s, err := storage.NewMinIOStorage(context.Background(), &storage.MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		Bucket:    bucket,
	})
	require.NoError(t, err)

	exerciseKV(t, NewObjectKV(s))
}
