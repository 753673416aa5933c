package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gogotex/planstore/internal/config"
	"github.com/gogotex/planstore/internal/database"
	"github.com/gogotex/planstore/internal/plan/repository"
	"github.com/gogotex/planstore/internal/storage"
	"github.com/gogotex/planstore/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// backend is an opened storage engine plus what must be released at shutdown.
type backend struct {
	name  string
	kv    repository.KV
	redis *redis.Client // set for the redis engine so the rate limiter can share it
	close func() error
}

// openBackend connects to the configured engine and waits until it answers a
// ping, retrying with exponential backoff. It fails once attempts run out.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	attempts := cfg.Store.StartupAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.Store.StartupBackoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		b, err := connect(ctx, cfg)
		if err == nil {
			if err = b.kv.Ping(ctx); err == nil {
				logger.Infof("storage backend %s ready", b.name)
				return b, nil
			}
			_ = b.close()
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: storage backend %s not reachable: %v", attempt, attempts, cfg.Store.Backend, err)
		if attempt < attempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("storage backend %s unreachable after %d attempts: %w", cfg.Store.Backend, attempts, lastErr)
}

func connect(ctx context.Context, cfg *config.Config) (*backend, error) {
	noop := func() error { return nil }
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return &backend{name: cfg.Store.Backend, kv: repository.NewMemoryKV(), close: noop}, nil
	case config.BackendRedis:
		client := newRedisClient(cfg.Redis)
		return &backend{name: cfg.Store.Backend, kv: repository.NewRedisKV(client, ""), redis: client, close: client.Close}, nil
	case config.BackendBolt:
		kv, err := repository.NewBoltKV(cfg.Bolt.Path)
		if err != nil {
			return nil, err
		}
		return &backend{name: cfg.Store.Backend, kv: kv, close: kv.Close}, nil
	case config.BackendMongo:
		client, col, err := database.OpenCollection(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Collection, cfg.MongoDB.Timeout)
		if err != nil {
			return nil, err
		}
		return &backend{
			name:  cfg.Store.Backend,
			kv:    repository.NewMongoKV(client, col),
			close: func() error { return client.Disconnect(context.Background()) },
		}, nil
	case config.BackendMinIO:
		s, err := storage.NewMinIOStorage(ctx, &storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			return nil, err
		}
		return &backend{name: cfg.Store.Backend, kv: repository.NewObjectKV(s), close: noop}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Store.Backend)
}

func newRedisClient(rc config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: rc.Addr(), Password: rc.Password, DB: rc.DB})
}
