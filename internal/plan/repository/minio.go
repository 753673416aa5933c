package repository

import (
	"context"
	"errors"

	"github.com/gogotex/planstore/internal/storage"
)

// ObjectKV maps keys to objects in a MinIO / S3 bucket.
type ObjectKV struct {
	s *storage.MinIOStorage
}

func NewObjectKV(s *storage.MinIOStorage) *ObjectKV {
	return &ObjectKV{s: s}
}

func (o *ObjectKV) Set(ctx context.Context, key string, value []byte) error {
	return o.s.Put(ctx, key, value, "application/json")
}

func (o *ObjectKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := o.s.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (o *ObjectKV) Del(ctx context.Context, key string) (int64, error) {
	removed, err := o.s.Remove(ctx, key)
	if err != nil {
		return 0, err
	}
	if !removed {
		return 0, nil
	}
	return 1, nil
}

func (o *ObjectKV) Ping(ctx context.Context) error {
	return o.s.Ping(ctx)
}
