package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

// KV is the storage engine contract the plan store relies on. Set overwrites
// unconditionally, Get returns ErrNotFound for an absent key and Del reports how
// many keys it removed.
type KV interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
}
