package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketPlans = []byte("plans")

// BoltKV is an embedded single-file store for deployments without a Redis server.
type BoltKV struct {
	db *bolt.DB
}

// NewBoltKV opens (creating if needed) the database file at path.
func NewBoltKV(path string) (*BoltKV, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPlans)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketPlans, err)
	}
	return &BoltKV{db: db}, nil
}

func (b *BoltKV) Close() error {
	return b.db.Close()
}

func (b *BoltKV) Set(_ context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPlans).Put([]byte(key), value)
	})
}

func (b *BoltKV) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketPlans).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (b *BoltKV) Del(_ context.Context, key string) (int64, error) {
	var n int64
	err := b.db.Update(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketPlans)
		if bk.Get([]byte(key)) == nil {
			return nil
		}
		n = 1
		return bk.Delete([]byte(key))
	})
	return n, err
}

func (b *BoltKV) Ping(context.Context) error {
	return b.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketPlans) == nil {
			return fmt.Errorf("bucket %s missing", bucketPlans)
		}
		return nil
	})
}
